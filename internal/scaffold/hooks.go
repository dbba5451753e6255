package scaffold

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/steamer-labs/steamer-kit/internal/branding"
)

// HookContext is what a lifecycle hook sees.
type HookContext struct {
	Kit     string
	Version string
	Dir     string
	Answers map[string]interface{}
}

// Hook is a kit lifecycle callback. Hooks are optional; a kit may declare
// any subset of manifest.HookNames.
type Hook func(ctx context.Context, hc HookContext) error

// ShellHook runs command through sh in the project directory. The answers are
// exported as JSON in STEAMER_ANSWERS and the directory in
// STEAMER_PROJECT_DIR.
func ShellHook(command string, stdout, stderr io.Writer) Hook {
	return func(ctx context.Context, hc HookContext) error {
		answers, err := json.Marshal(hc.Answers)
		if err != nil {
			return fmt.Errorf("encoding answers: %w", err)
		}

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		cmd.Dir = hc.Dir
		cmd.Env = append(os.Environ(),
			branding.EnvVar("ANSWERS")+"="+string(answers),
			branding.EnvVar("PROJECT_DIR")+"="+hc.Dir,
		)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("running %q: %w", command, err)
		}
		return nil
	}
}

// runHook invokes the named hook if the kit declares it.
func runHook(ctx context.Context, hooks map[string]Hook, name string, hc HookContext) error {
	h, ok := hooks[name]
	if !ok || h == nil {
		return nil
	}
	if err := h(ctx, hc); err != nil {
		return fmt.Errorf("%s hook: %w", name, err)
	}
	return nil
}
