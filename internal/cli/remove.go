package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <kit>",
	Aliases: []string{"rm"},
	Short:   "Unregister a starter kit and delete its clone",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	entry, err := mgr.Remove(args[0])
	if err != nil {
		return fmt.Errorf("removing %s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", entry.Name)
	return nil
}
