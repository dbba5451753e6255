package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/steamer-labs/steamer-kit/internal/config"
	"github.com/steamer-labs/steamer-kit/internal/kit"
	"github.com/steamer-labs/steamer-kit/internal/pkgmgr"
	"github.com/steamer-labs/steamer-kit/internal/prompt"
	"github.com/steamer-labs/steamer-kit/internal/registry"
	"github.com/steamer-labs/steamer-kit/internal/scaffold"
	"github.com/steamer-labs/steamer-kit/internal/userdata"
	"github.com/steamer-labs/steamer-kit/internal/vcs"
)

// newLogger returns the debug logger for a command. It is silent unless
// --verbose or the verbose config key is set.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose || config.GetBool(config.KeyVerbose) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openManager wires the registry store and clone engine for one invocation.
func openManager(cmd *cobra.Command) (*kit.Manager, error) {
	kitsHome, err := userdata.GetKitsHome()
	if err != nil {
		return nil, fmt.Errorf("resolving kits home: %w", err)
	}
	registryPath, err := userdata.GetRegistryPath()
	if err != nil {
		return nil, fmt.Errorf("resolving registry path: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr())
	git := vcs.NewExec(config.Git(), logger)
	store := registry.Open(registryPath)
	return kit.NewManager(store, kit.NewEngine(git, logger), kitsHome, logger), nil
}

// newPrompter prompts on the command's streams, or answers every question
// with its default when assumeYes is set.
func newPrompter(cmd *cobra.Command, assumeYes bool) prompt.Prompter {
	if assumeYes {
		return prompt.Defaults{}
	}
	return prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
}

// newInstaller returns an Installer for the command.
func newInstaller(cmd *cobra.Command, mgr *kit.Manager, p prompt.Prompter) *scaffold.Installer {
	return &scaffold.Installer{
		Kits:           mgr,
		Prompter:       p,
		PackageManager: &pkgmgr.Exec{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()},
		NPM:            config.NPM(),
		Logger:         mgr.Logger,
		Out:            cmd.OutOrStdout(),
	}
}

// printWarnings lists non-fatal problems after a command's success line.
func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "  ⚠ %s\n", msg)
	}
}
