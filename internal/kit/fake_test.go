package kit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/steamer-labs/steamer-kit/internal/vcs"
)

// fakeRemote is a repository served by fakeGit: the default branch carries
// master, and each tag maps to the package.json version it was cut from.
type fakeRemote struct {
	master string
	tags   map[string]string
}

// fakeGit serves fakeRemotes and tracks each working copy's local branches
// and checked-out branch, refusing what git refuses: fetching into or
// deleting the branch that is checked out.
type fakeGit struct {
	remotes map[string]*fakeRemote
	origin  map[string]string
	clones  map[string]*fakeClone
	calls   []string
}

type fakeClone struct {
	head     string // checked-out branch; empty when detached
	branches map[string]bool
}

func newFakeGit() *fakeGit {
	return &fakeGit{remotes: map[string]*fakeRemote{}, origin: map[string]string{}, clones: map[string]*fakeClone{}}
}

func (g *fakeGit) serve(url, master string, tags ...string) *fakeRemote {
	r := &fakeRemote{master: master, tags: map[string]string{}}
	for _, t := range tags {
		r.tags[t] = strings.TrimPrefix(t, "v")
	}
	g.remotes[url] = r
	return r
}

func (g *fakeGit) Clone(_ context.Context, url, dir string, opts vcs.CloneOptions) error {
	g.calls = append(g.calls, fmt.Sprintf("clone %s %s", url, opts.Branch))
	r, ok := g.remotes[url]
	if !ok {
		return &vcs.Error{Args: []string{"clone", url}, Output: "fatal: repository '" + url + "' not found"}
	}
	version := r.master
	c := &fakeClone{head: DefaultBranch, branches: map[string]bool{DefaultBranch: true}}
	if opts.Branch != "" {
		v, ok := r.tags[opts.Branch]
		if !ok {
			return &vcs.Error{Args: []string{"clone"}, Output: "warning: Remote branch " + opts.Branch + " not found in upstream origin"}
		}
		version = v
		c = &fakeClone{branches: map[string]bool{}}
	}
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		return err
	}
	g.origin[dir] = url
	g.clones[dir] = c
	return writeVersion(dir, version)
}

func (g *fakeGit) Fetch(_ context.Context, dir, remote string, refspecs ...string) error {
	g.calls = append(g.calls, "fetch "+strings.Join(refspecs, " "))
	r := g.remotes[g.origin[dir]]
	c := g.clones[dir]
	if r == nil || c == nil {
		return &vcs.Error{Args: []string{"fetch"}, Output: "fatal: '" + remote + "' does not appear to be a git repository"}
	}
	for _, refspec := range refspecs {
		src, dst, _ := strings.Cut(strings.TrimPrefix(refspec, "+"), ":")
		if tag, ok := strings.CutPrefix(src, "refs/tags/"); ok {
			if _, known := r.tags[tag]; !known && tag != "*" {
				return &vcs.Error{Args: []string{"fetch"}, Output: "fatal: couldn't find remote ref " + src}
			}
			continue
		}
		branch := strings.TrimPrefix(dst, "refs/heads/")
		if branch == c.head {
			return &vcs.Error{Args: []string{"fetch"}, Output: "fatal: refusing to fetch into branch 'refs/heads/" + branch + "' checked out at '" + dir + "'"}
		}
		c.branches[branch] = true
	}
	return nil
}

func (g *fakeGit) Checkout(_ context.Context, dir, ref string, opts vcs.CheckoutOptions) error {
	r := g.remotes[g.origin[dir]]
	c := g.clones[dir]
	if r == nil || c == nil {
		return &vcs.Error{Args: []string{"checkout"}, Output: "fatal: not a git repository"}
	}
	missing := &vcs.Error{Args: []string{"checkout", ref}, Output: "error: pathspec '" + ref + "' did not match any file(s) known to git"}

	switch {
	case opts.Detach:
		g.calls = append(g.calls, "checkout --detach "+ref)
		c.head = ""
		return nil
	case opts.Branch != "":
		g.calls = append(g.calls, "checkout -B "+opts.Branch+" "+ref)
		v, ok := r.tags[strings.TrimPrefix(ref, "refs/tags/")]
		if !ok {
			return missing
		}
		c.branches[opts.Branch] = true
		c.head = opts.Branch
		return writeVersion(dir, v)
	}

	g.calls = append(g.calls, "checkout "+ref)
	if c.branches[ref] && ref == DefaultBranch {
		c.head = ref
		return writeVersion(dir, r.master)
	}
	if v, ok := r.tags[ref]; ok {
		c.head = ""
		return writeVersion(dir, v)
	}
	return missing
}

func (g *fakeGit) Branch(_ context.Context, dir string, opts vcs.BranchOptions) error {
	c := g.clones[dir]
	if opts.Delete {
		g.calls = append(g.calls, "branch -D "+opts.Name)
		if c != nil && c.head == opts.Name {
			return &vcs.Error{Args: []string{"branch", "-D", opts.Name}, Output: "error: cannot delete branch '" + opts.Name + "' checked out at '" + dir + "'"}
		}
		if c != nil {
			delete(c.branches, opts.Name)
		}
		return nil
	}
	g.calls = append(g.calls, "branch "+opts.Name+" "+opts.StartPoint)
	if c != nil {
		c.branches[opts.Name] = true
	}
	return nil
}

func writeVersion(dir, version string) error {
	data, err := json.Marshal(map[string]string{
		"name":        filepath.Base(dir),
		"version":     version,
		"description": "kit at " + version,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "package.json"), data, 0o644)
}
