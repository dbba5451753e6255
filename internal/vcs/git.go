package vcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// CloneOptions controls a clone.
type CloneOptions struct {
	Branch string // branch or tag to check out; empty means the remote default
	Depth  int    // shallow depth; 0 means full history
}

// CheckoutOptions controls a checkout.
type CheckoutOptions struct {
	Branch string // checkout -B: create or reset Branch at ref and switch to it
	Detach bool   // checkout --detach
}

// BranchOptions controls a branch operation.
type BranchOptions struct {
	Name       string
	StartPoint string // for create
	Delete     bool   // branch -D
}

// Git is the subset of git the kit engine relies on. Every method operates on
// a working copy rooted at dir.
type Git interface {
	Clone(ctx context.Context, url, dir string, opts CloneOptions) error
	Fetch(ctx context.Context, dir, remote string, refspecs ...string) error
	Checkout(ctx context.Context, dir, ref string, opts CheckoutOptions) error
	Branch(ctx context.Context, dir string, opts BranchOptions) error
}

// Error is returned when a git invocation exits non-zero.
type Error struct {
	Args   []string
	Output string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("git %s: %v\n%s", strings.Join(e.Args, " "), e.Err, e.Output)
}

func (e *Error) Unwrap() error { return e.Err }

// missingRefMarkers are substrings git prints when a branch, tag, or
// pathspec does not exist.
var missingRefMarkers = []string{
	"not found in upstream",
	"couldn't find remote ref",
	"did not match any file(s) known to git",
	"pathspec",
	"invalid reference",
	"unknown revision",
}

// IsMissingRef reports whether err is a git failure caused by a ref that does
// not exist on the remote or locally.
func IsMissingRef(err error) bool {
	var gerr *Error
	if !errors.As(err, &gerr) {
		return false
	}
	out := strings.ToLower(gerr.Output)
	for _, m := range missingRefMarkers {
		if strings.Contains(out, m) {
			return true
		}
	}
	return false
}

// Exec runs a git binary as a subprocess.
type Exec struct {
	Binary string
	Logger *slog.Logger
}

// NewExec returns an Exec using binary (defaults to "git").
func NewExec(binary string, logger *slog.Logger) *Exec {
	if binary == "" {
		binary = "git"
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Exec{Binary: binary, Logger: logger}
}

// Available checks that the git binary is on PATH.
func (g *Exec) Available() error {
	if _, err := exec.LookPath(g.Binary); err != nil {
		return fmt.Errorf("%s is required but not found in PATH", g.Binary)
	}
	return nil
}

// Clone clones url into dir.
func (g *Exec) Clone(ctx context.Context, url, dir string, opts CloneOptions) error {
	args := []string{"clone"}
	if opts.Depth > 0 {
		args = append(args, "--depth="+strconv.Itoa(opts.Depth))
	}
	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
	}
	args = append(args, url, dir)
	return g.run(ctx, "", args...)
}

// Fetch fetches refspecs from remote into the working copy at dir.
func (g *Exec) Fetch(ctx context.Context, dir, remote string, refspecs ...string) error {
	args := append([]string{"fetch", remote}, refspecs...)
	return g.run(ctx, dir, args...)
}

// Checkout checks out ref in dir. Unlike "branch -f", a -B checkout may reset
// the branch that is currently checked out.
func (g *Exec) Checkout(ctx context.Context, dir, ref string, opts CheckoutOptions) error {
	return g.run(ctx, dir, checkoutArgs(ref, opts)...)
}

func checkoutArgs(ref string, opts CheckoutOptions) []string {
	args := []string{"checkout"}
	switch {
	case opts.Branch != "":
		args = append(args, "-B", opts.Branch)
	case opts.Detach:
		args = append(args, "--detach")
	}
	return append(args, ref)
}

// Branch creates or deletes a local branch.
func (g *Exec) Branch(ctx context.Context, dir string, opts BranchOptions) error {
	if opts.Delete {
		return g.run(ctx, dir, "branch", "-D", opts.Name)
	}
	args := []string{"branch", opts.Name}
	if opts.StartPoint != "" {
		args = append(args, opts.StartPoint)
	}
	return g.run(ctx, dir, args...)
}

func (g *Exec) run(ctx context.Context, dir string, args ...string) error {
	g.Logger.Debug("git", "dir", dir, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, g.Binary, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &Error{Args: args, Output: strings.TrimSpace(string(output)), Err: err}
	}
	return nil
}
