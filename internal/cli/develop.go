package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var developAlias string

var developCmd = &cobra.Command{
	Use:   "develop [dir]",
	Short: "Register a local kit working copy",
	Long: `Register a starter kit you are developing locally. The directory (default:
the current one) is used in place: it is never cloned, fetched, or deleted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDevelop,
}

func init() {
	developCmd.Flags().StringVarP(&developAlias, "alias", "a", "", "Register the kit under this name")
	rootCmd.AddCommand(developCmd)
}

func runDevelop(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	entry, err := mgr.Develop(dir, developAlias)
	if err != nil {
		return fmt.Errorf("registering %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Registered %s from %s\n", entry.Name, entry.Path)
	return nil
}
