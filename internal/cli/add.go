package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addTag   string
	addAlias string
)

var addCmd = &cobra.Command{
	Use:   "add <repo>",
	Short: "Register a starter kit and clone it",
	Long: `Register the starter kit hosted at <repo> and clone it into the kits home.

Without --tag the kit is checked out at the release named by the version in
its default branch's package.json. The kit name is derived from the
repository URL unless --alias is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTag, "tag", "t", "", "Check out this tag instead of the latest release")
	addCmd.Flags().StringVarP(&addAlias, "alias", "a", "", "Register the kit under this name")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cloning %s...\n", args[0])
	entry, err := mgr.Add(cmd.Context(), args[0], addTag, addAlias)
	if err != nil {
		return fmt.Errorf("adding %s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s@%s\n", entry.Name, entry.CurrentVersion)
	fmt.Fprintf(cmd.OutOrStdout(), "  → %s\n", entry.Path)
	return nil
}
