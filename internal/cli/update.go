package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/steamer-labs/steamer-kit/internal/scaffold"
)

var (
	updateGlobal  bool
	updateDiff    bool
	updatePath    string
	updateVersion string
	updateYes     bool
)

var updateCmd = &cobra.Command{
	Use:   "update [kit]",
	Short: "Update a project, or the shared kit clones with --global",
	Long: `Update the project in --path (default: current directory) to the latest
known release of the kit recorded in its .steamer marker. Every file the kit
replaces is first copied to backup/<timestamp>/.

A kit name is only needed for projects that have no marker yet.

With --global, fetch the latest release of the named kit (or every kit)
into the shared clones instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVarP(&updateGlobal, "global", "g", false, "Update the shared kit clones instead of a project")
	updateCmd.Flags().BoolVar(&updateDiff, "diff", false, "Print the package.json changes")
	updateCmd.Flags().StringVarP(&updatePath, "path", "p", ".", "Project folder")
	updateCmd.Flags().StringVar(&updateVersion, "version", "", "Kit version to update to (default: latest known)")
	updateCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "Answer new kit questions with their defaults")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var name string
	if len(args) == 1 {
		name = args[0]
	}

	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}

	if updateGlobal {
		updated, err := mgr.UpdateGlobal(cmd.Context(), name)
		for _, e := range updated {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s to %s\n", e.Name, e.LatestVersion)
		}
		if err != nil {
			return fmt.Errorf("updating kits: %w", err)
		}
		if len(updated) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No cloned kits to update.")
		}
		return nil
	}

	in := newInstaller(cmd, mgr, newPrompter(cmd, updateYes))
	res, err := in.Update(cmd.Context(), scaffold.UpdateRequest{
		Dir:     updatePath,
		Kit:     name,
		Version: updateVersion,
	})
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s to %s@%s\n", res.Dir, res.Kit, res.Version)
	if res.BackupDir != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Backup: %s\n", res.BackupDir)
	}
	if updateDiff && res.PackageDiff != "" {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), res.PackageDiff)
	}
	printWarnings(cmd.OutOrStdout(), res.Warnings)
	if res.PackageDiff != "" {
		fmt.Fprintln(cmd.OutOrStdout(), "  package.json changed; reinstall dependencies to pick it up.")
	}
	return nil
}
