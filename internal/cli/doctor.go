package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/steamer-labs/steamer-kit/internal/config"
	"github.com/steamer-labs/steamer-kit/internal/manifest"
	"github.com/steamer-labs/steamer-kit/internal/registry"
	"github.com/steamer-labs/steamer-kit/internal/vcs"
)

var checkManifest string

func init() {
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate the manifest of the kit in the given directory")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check tools, registry, and kit clones",
	Long: `Run diagnostic checks: the git and package-manager binaries, the kit
registry, and every registered kit's working copy and manifest.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if checkManifest != "" {
			return runManifestCheck(out, checkManifest)
		}

		failed := runToolCheck(out)
		if err := runRegistryCheck(cmd, out); err != nil {
			failed = true
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
		}
		if failed {
			return errors.New("doctor found problems")
		}
		return nil
	},
}

func runToolCheck(w io.Writer) bool {
	fmt.Fprintln(w, "Tools:")
	failed := false

	git := vcs.NewExec(config.Git(), nil)
	if err := git.Available(); err != nil {
		fmt.Fprintf(w, "  [MISS] %v\n", err)
		failed = true
	} else {
		fmt.Fprintf(w, "  [ OK ] %s\n", git.Binary)
	}

	npm := config.NPM()
	if path, err := exec.LookPath(npm); err != nil {
		// Dependencies are optional; installs still succeed with a warning.
		fmt.Fprintf(w, "  [WARN] %s not found; dependency installs will be skipped\n", npm)
	} else {
		fmt.Fprintf(w, "  [ OK ] %s found at %s\n", npm, path)
	}
	return failed
}

func runRegistryCheck(cmd *cobra.Command, w io.Writer) error {
	fmt.Fprintln(w, "Registry:")
	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	entries, err := mgr.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  [ OK ] %s (%d kits)\n", mgr.Store.Path(), len(entries))

	var problems int
	for _, e := range entries {
		if problem := checkKit(e); problem != "" {
			fmt.Fprintf(w, "  [WARN] %s: %s\n", e.Name, problem)
			problems++
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s@%s\n", e.Name, e.CurrentVersion)
	}
	if problems > 0 {
		return fmt.Errorf("%d kit(s) need attention", problems)
	}
	return nil
}

// checkKit returns a description of what is wrong with a registered kit, or
// "" when its working copy and manifest are usable.
func checkKit(e *registry.Entry) string {
	if _, err := os.Stat(e.Path); err != nil {
		if e.URL != "" {
			return fmt.Sprintf("clone missing at %s; run 'update --global %s'", e.Path, e.Name)
		}
		return fmt.Sprintf("working copy missing at %s", e.Path)
	}
	if _, err := os.Stat(filepath.Join(e.Path, manifest.PackageFile)); err != nil {
		return "no package.json"
	}
	if _, err := manifest.Load(e.Path, e.Name); err != nil {
		return err.Error()
	}
	return ""
}

func runManifestCheck(w io.Writer, dir string) error {
	pkg, err := manifest.ReadPackage(dir)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}
	name := pkg.Name()
	if name == "" {
		name = filepath.Base(filepath.Clean(dir))
	}
	name = registry.ResolveName(name)

	path, err := manifest.Find(dir, name)
	if errors.Is(err, manifest.ErrNoManifest) {
		fmt.Fprintf(w, "  [ OK ] %s has no manifest; every top-level entry is installed\n", name)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Manifest validation: %s\n", path)
	m, err := manifest.Load(dir, name)
	if err != nil {
		var invalid *manifest.InvalidError
		if errors.As(err, &invalid) {
			fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(invalid.Issues))
			for _, issue := range invalid.Issues {
				if issue.Path != "" {
					fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
				} else {
					fmt.Fprintf(w, "    - %s\n", issue.Message)
				}
			}
			return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(invalid.Issues))
		}
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}

	fmt.Fprintf(w, "  [ OK ] Valid manifest for %s (%d files, %d questions, %d hooks)\n",
		name, len(m.Files), len(m.Options), len(m.Hooks))
	return nil
}
