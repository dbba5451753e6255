package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/steamer-labs/steamer-kit/internal/branding"
	"github.com/steamer-labs/steamer-kit/internal/manifest"
	"github.com/steamer-labs/steamer-kit/internal/prompt"
	"github.com/steamer-labs/steamer-kit/internal/registry"
	"github.com/steamer-labs/steamer-kit/internal/scaffold"
)

var (
	installVersion string
	installPath    string
	installYes     bool
)

var installCmd = &cobra.Command{
	Use:   "install [kit]",
	Short: "Scaffold a project from a starter kit",
	Long: `Scaffold a project from a registered starter kit.

Without a kit name you choose the kit, its version, and the target folder
interactively. The kit's questions are asked before any file is written; a
non-empty target folder is only overwritten after confirmation (or --yes).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInstall,
}

func init() {
	addInstallFlags(installCmd)
	rootCmd.AddCommand(installCmd)
}

func addInstallFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&installVersion, "version", "", "Kit version to install (default: latest known)")
	cmd.Flags().StringVarP(&installPath, "path", "p", "", "Project folder (default: current directory)")
	cmd.Flags().BoolVarP(&installYes, "yes", "y", false, "Accept defaults and overwrite without asking")
}

func runInstall(cmd *cobra.Command, args []string) error {
	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	p := newPrompter(cmd, installYes)

	req := scaffold.InstallRequest{
		Version:   installVersion,
		Dir:       installPath,
		Confirmed: installYes,
	}
	if len(args) == 1 {
		req.Kit = args[0]
	}

	if req.Kit == "" {
		if installYes {
			return errors.New("a kit name is required with --yes")
		}
		entries, err := mgr.List()
		if err != nil {
			return fmt.Errorf("loading registry: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No starter kits registered yet. Run '%s add <repo>'.\n", branding.CLIName())
			return nil
		}
		if err := chooseInstall(cmd, p, entries, &req); err != nil {
			return err
		}
	}

	if req.ProjectName == "" && req.Dir != "" && filepath.Clean(req.Dir) != "." {
		req.ProjectName = filepath.Base(filepath.Clean(req.Dir))
	}

	res, err := newInstaller(cmd, mgr, p).Install(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("installing %s: %w", req.Kit, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Installed %s@%s\n", res.Kit, res.Version)
	fmt.Fprintf(cmd.OutOrStdout(), "  → %s\n", res.Dir)
	printWarnings(cmd.OutOrStdout(), res.Warnings)
	return nil
}

// chooseInstall asks for the kit, version, and folder not given as flags, then
// for the project name, defaulting to the folder's name.
func chooseInstall(cmd *cobra.Command, p prompt.Prompter, entries []*registry.Entry, req *scaffold.InstallRequest) error {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	answers, err := p.Ask(cmd.Context(), []manifest.Question{{
		Type:    manifest.QuestionList,
		Name:    "kit",
		Message: "Which starter kit do you want to install?",
		Choices: names,
	}})
	if err != nil {
		return err
	}
	req.Kit, _ = answers["kit"].(string)

	var chosen *registry.Entry
	for _, e := range entries {
		if e.Name == req.Kit {
			chosen = e
		}
	}

	var questions []manifest.Question
	if req.Version == "" && chosen != nil && len(chosen.Versions) > 1 {
		questions = append(questions, manifest.Question{
			Type:    manifest.QuestionList,
			Name:    "version",
			Message: "Which version do you want to install?",
			Choices: chosen.Versions,
			Default: chosen.LatestVersion,
		})
	}
	if req.Dir == "" {
		questions = append(questions, manifest.Question{
			Type:    manifest.QuestionInput,
			Name:    "folder",
			Message: "Which folder is your project in?",
			Default: ".",
		})
	}
	if len(questions) > 0 {
		answers, err = p.Ask(cmd.Context(), questions)
		if err != nil {
			return err
		}
		if v, ok := answers["version"].(string); ok {
			req.Version = v
		}
		if v, ok := answers["folder"].(string); ok {
			req.Dir = v
		}
	}

	answers, err = p.Ask(cmd.Context(), []manifest.Question{{
		Type:    manifest.QuestionInput,
		Name:    "projectName",
		Message: "Type your project name",
		Default: folderName(req.Dir),
	}})
	if err != nil {
		return err
	}
	if v, ok := answers["projectName"].(string); ok {
		req.ProjectName = strings.TrimSpace(v)
	}
	return nil
}

// folderName is the last element of dir, resolving "." to the working
// directory's name.
func folderName(dir string) string {
	if dir == "" {
		dir = "."
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Base(dir)
}
