package kit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/steamer-labs/steamer-kit/internal/manifest"
	"github.com/steamer-labs/steamer-kit/internal/registry"
	"github.com/steamer-labs/steamer-kit/internal/vcs"
)

var (
	// ErrCloneFailed is returned when a clone or fetch fails.
	ErrCloneFailed = errors.New("clone failed")

	// ErrTagNotFound is returned when the requested tag does not exist.
	ErrTagNotFound = errors.New("tag not found")
)

// DefaultBranch is the branch cloneLatest reads the latest release from.
const DefaultBranch = "master"

// Engine clones and checks out kit working copies. It never writes the
// registry; callers persist the entry it returns.
type Engine struct {
	Git           vcs.Git
	Logger        *slog.Logger
	DefaultBranch string
}

// NewEngine returns an Engine over git.
func NewEngine(git vcs.Git, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{Git: git, Logger: logger, DefaultBranch: DefaultBranch}
}

// CloneLatest brings the kit's clone up to date with the default branch,
// reads the released version from its package.json, and checks out that
// version's tag. The returned entry is a copy with the version recorded. A
// first clone that fails at any step is removed.
func (e *Engine) CloneLatest(ctx context.Context, entry *registry.Entry) (*registry.Entry, error) {
	fresh := !exists(entry.Path)
	if fresh {
		if err := e.clone(ctx, entry, vcs.CloneOptions{}); err != nil {
			return nil, fmt.Errorf("%w: cloning %s: %w", ErrCloneFailed, entry.Name, err)
		}
	} else if err := e.fetchDefault(ctx, entry); err != nil {
		return nil, err
	}

	updated, err := e.checkoutRelease(ctx, entry)
	if err != nil && fresh {
		e.discard(entry)
	}
	return updated, err
}

// CloneTag checks the kit's clone out at tag, cloning it first if needed.
func (e *Engine) CloneTag(ctx context.Context, entry *registry.Entry, tag string) (*registry.Entry, error) {
	fresh := !exists(entry.Path)
	if fresh {
		if err := e.cloneTag(ctx, entry, tag); err != nil {
			return nil, err
		}
	} else if err := e.fetchTag(ctx, entry, tag); err != nil {
		return nil, err
	}

	pkg, err := manifest.ReadPackage(entry.Path)
	if err != nil {
		if fresh {
			e.discard(entry)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCloneFailed, entry.Name, err)
	}
	version := pkg.Version()
	if version == "" {
		version = registry.VersionFromTag(tag)
	}

	return record(entry, pkg, version), nil
}

// Checkout moves an existing clone to a version already known to the registry.
func (e *Engine) Checkout(ctx context.Context, entry *registry.Entry, version string) error {
	if !exists(entry.Path) {
		return fmt.Errorf("%w: %s is not cloned at %s", ErrCloneFailed, entry.Name, entry.Path)
	}
	if err := e.checkoutVersion(ctx, entry.Path, version); err != nil {
		return fmt.Errorf("%s@%s: %w", entry.Name, version, err)
	}
	return nil
}

func (e *Engine) cloneTag(ctx context.Context, entry *registry.Entry, tag string) error {
	var lastErr error
	for _, candidate := range tagCandidates(tag) {
		err := e.clone(ctx, entry, vcs.CloneOptions{Branch: candidate, Depth: 1})
		if err == nil {
			return nil
		}
		lastErr = err
		if !vcs.IsMissingRef(err) {
			return fmt.Errorf("%w: cloning %s: %w", ErrCloneFailed, entry.Name, err)
		}
	}
	return fmt.Errorf("%w: %s@%s: %w", ErrTagNotFound, entry.Name, tag, lastErr)
}

// fetchDefault detaches HEAD so the default branch is never the checked-out
// branch while it is fetched into, then switches to it.
func (e *Engine) fetchDefault(ctx context.Context, entry *registry.Entry) error {
	branch := e.branch()
	if err := e.Git.Checkout(ctx, entry.Path, "HEAD", vcs.CheckoutOptions{Detach: true}); err != nil {
		return fmt.Errorf("%w: detaching %s: %w", ErrCloneFailed, entry.Name, err)
	}
	err := e.Git.Fetch(ctx, entry.Path, "origin", "+"+branch+":"+branch, "+refs/tags/*:refs/tags/*")
	if err != nil {
		return fmt.Errorf("%w: fetching %s: %w", ErrCloneFailed, entry.Name, err)
	}
	if err := e.Git.Checkout(ctx, entry.Path, branch, vcs.CheckoutOptions{}); err != nil {
		return fmt.Errorf("%w: checking out %s of %s: %w", ErrCloneFailed, branch, entry.Name, err)
	}
	return nil
}

// checkoutRelease reads the version on the checked-out default branch and
// moves the clone to that version's tag.
func (e *Engine) checkoutRelease(ctx context.Context, entry *registry.Entry) (*registry.Entry, error) {
	pkg, err := manifest.ReadPackage(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCloneFailed, entry.Name, err)
	}
	version := pkg.Version()
	if version == "" {
		return nil, fmt.Errorf("%w: %s: package.json has no version", ErrCloneFailed, entry.Name)
	}

	if err := e.checkoutVersion(ctx, entry.Path, version); err != nil {
		return nil, fmt.Errorf("%s@%s: %w", entry.Name, version, err)
	}

	// The default branch is only needed to discover the release; it is
	// fetched fresh next time.
	branch := e.branch()
	if err := e.Git.Branch(ctx, entry.Path, vcs.BranchOptions{Name: branch, Delete: true}); err != nil {
		e.Logger.Debug("deleting default branch", "kit", entry.Name, "err", err)
	}

	return record(entry, pkg, version), nil
}

func (e *Engine) fetchTag(ctx context.Context, entry *registry.Entry, tag string) error {
	var lastErr error
	for _, candidate := range tagCandidates(tag) {
		ref := "refs/tags/" + candidate
		err := e.Git.Fetch(ctx, entry.Path, "origin", "+"+ref+":"+ref)
		if err != nil {
			lastErr = err
			if vcs.IsMissingRef(err) {
				continue
			}
			return fmt.Errorf("%w: fetching %s: %w", ErrCloneFailed, entry.Name, err)
		}

		local := releaseBranch(candidate)
		if err := e.Git.Checkout(ctx, entry.Path, ref, vcs.CheckoutOptions{Branch: local}); err != nil {
			return fmt.Errorf("%w: checking out %s: %w", ErrCloneFailed, local, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s@%s: %w", ErrTagNotFound, entry.Name, tag, lastErr)
}

func (e *Engine) checkoutVersion(ctx context.Context, dir, version string) error {
	var lastErr error
	for _, candidate := range tagCandidates("v" + version) {
		err := e.Git.Checkout(ctx, dir, candidate, vcs.CheckoutOptions{})
		if err == nil {
			return nil
		}
		lastErr = err
		if !vcs.IsMissingRef(err) {
			return fmt.Errorf("%w: %w", ErrCloneFailed, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrTagNotFound, lastErr)
}

// clone runs a clone and removes any partial directory it leaves behind.
func (e *Engine) clone(ctx context.Context, entry *registry.Entry, opts vcs.CloneOptions) error {
	e.Logger.Debug("cloning kit", "kit", entry.Name, "url", entry.URL, "branch", opts.Branch)
	if entry.URL == "" {
		return fmt.Errorf("%s has no repository url", entry.Name)
	}
	if err := e.Git.Clone(ctx, entry.URL, entry.Path, opts); err != nil {
		e.discard(entry)
		return err
	}
	return nil
}

// discard removes a working copy this engine just created.
func (e *Engine) discard(entry *registry.Entry) {
	if err := os.RemoveAll(entry.Path); err != nil {
		e.Logger.Warn("removing partial clone", "kit", entry.Name, "path", entry.Path, "err", err)
	}
}

func (e *Engine) branch() string {
	if e.DefaultBranch != "" {
		return e.DefaultBranch
	}
	return DefaultBranch
}

// record returns a copy of entry with version added and pointers refreshed.
func record(entry *registry.Entry, pkg manifest.Package, version string) *registry.Entry {
	updated := entry.Clone()
	updated.Versions = registry.AddVersion(updated.Versions, version)
	updated.LatestVersion = updated.Versions[0]
	updated.CurrentVersion = version
	if d := pkg.Description(); d != "" {
		updated.Description = d
	}
	return updated
}

// tagCandidates returns tag, then its "v"-toggled spelling.
func tagCandidates(tag string) []string {
	if strings.HasPrefix(tag, "v") {
		return []string{tag, strings.TrimPrefix(tag, "v")}
	}
	return []string{tag, "v" + tag}
}

func releaseBranch(tag string) string {
	return "release/" + tag
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
