// Package pkgmgr invokes the project's package manager (npm by default) to
// install dependencies after a kit has been copied into place.
package pkgmgr

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Runner runs a package-manager command in a working directory.
type Runner interface {
	Run(ctx context.Context, command string, args []string, dir string) error
}

// Exec runs commands as subprocesses, streaming their output.
type Exec struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes command with args in dir.
func (e *Exec) Run(ctx context.Context, command string, args []string, dir string) error {
	path, err := exec.LookPath(command)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", command, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	if cmd.Stderr == nil {
		cmd.Stderr = io.Discard
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s in %s: %w", command, dir, err)
	}
	return nil
}

// Install runs "<command> install" in dir when dir has a package.json.
// It reports whether an install was attempted.
func Install(ctx context.Context, r Runner, command, dir string) (bool, error) {
	if _, err := os.Stat(filepath.Join(dir, "package.json")); err != nil {
		return false, nil
	}
	if command == "" {
		command = "npm"
	}
	return true, r.Run(ctx, command, []string{"install"}, dir)
}
