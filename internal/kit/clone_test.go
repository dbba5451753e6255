package kit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/steamer-labs/steamer-kit/internal/registry"
)

func TestCloneLatestFreshClone(t *testing.T) {
	git := newFakeGit()
	git.serve("https://host/steamer-widget.git", "1.2.0", "v1.0.0", "v1.2.0")
	engine := NewEngine(git, nil)

	entry := &registry.Entry{
		Name: "steamer-widget",
		URL:  "https://host/steamer-widget.git",
		Path: filepath.Join(t.TempDir(), "steamer-widget"),
	}
	got, err := engine.CloneLatest(context.Background(), entry)
	if err != nil {
		t.Fatalf("CloneLatest() error = %v", err)
	}

	if !slices.Equal(got.Versions, []string{"1.2.0"}) {
		t.Errorf("Versions = %v", got.Versions)
	}
	if got.CurrentVersion != "1.2.0" || got.LatestVersion != "1.2.0" {
		t.Errorf("current/latest = %s/%s", got.CurrentVersion, got.LatestVersion)
	}
	if got.Description != "kit at 1.2.0" {
		t.Errorf("Description = %q", got.Description)
	}
	if entry.CurrentVersion != "" {
		t.Error("input entry was mutated")
	}

	want := []string{"clone https://host/steamer-widget.git ", "checkout v1.2.0", "branch -D master"}
	if !slices.Equal(git.calls, want) {
		t.Errorf("calls = %q, want %q", git.calls, want)
	}
}

func TestCloneLatestExistingCloneFetches(t *testing.T) {
	git := newFakeGit()
	remote := git.serve("https://host/steamer-widget.git", "1.0.0", "1.0.0")
	engine := NewEngine(git, nil)
	entry := &registry.Entry{
		Name: "steamer-widget",
		URL:  "https://host/steamer-widget.git",
		Path: filepath.Join(t.TempDir(), "steamer-widget"),
	}

	first, err := engine.CloneLatest(context.Background(), entry)
	if err != nil {
		t.Fatalf("first CloneLatest() error = %v", err)
	}

	remote.master = "2.0.0"
	remote.tags["v2.0.0"] = "2.0.0"
	git.calls = nil

	second, err := engine.CloneLatest(context.Background(), first)
	if err != nil {
		t.Fatalf("second CloneLatest() error = %v", err)
	}
	if !slices.Equal(second.Versions, []string{"2.0.0", "1.0.0"}) {
		t.Errorf("Versions = %v", second.Versions)
	}
	if second.LatestVersion != "2.0.0" || second.CurrentVersion != "2.0.0" {
		t.Errorf("current/latest = %s/%s", second.CurrentVersion, second.LatestVersion)
	}
	want := []string{
		"checkout --detach HEAD",
		"fetch +master:master +refs/tags/*:refs/tags/*",
		"checkout master",
		"checkout v2.0.0",
		"branch -D master",
	}
	if !slices.Equal(git.calls, want) {
		t.Errorf("calls = %q, want %q", git.calls, want)
	}
}

func TestCloneLatestMissingReleaseTag(t *testing.T) {
	git := newFakeGit()
	git.serve("https://host/steamer-widget.git", "1.3.0", "v1.2.0")
	engine := NewEngine(git, nil)

	entry := &registry.Entry{
		Name: "steamer-widget",
		URL:  "https://host/steamer-widget.git",
		Path: filepath.Join(t.TempDir(), "steamer-widget"),
	}
	_, err := engine.CloneLatest(context.Background(), entry)
	if !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("error = %v, want ErrTagNotFound", err)
	}
	if _, statErr := os.Stat(entry.Path); !os.IsNotExist(statErr) {
		t.Error("first clone left behind after the release tag was missing")
	}
}

func TestCloneLatestRecoversOnceTagIsPublished(t *testing.T) {
	git := newFakeGit()
	remote := git.serve("https://host/steamer-widget.git", "1.0.0", "v1.0.0")
	engine := NewEngine(git, nil)
	entry := &registry.Entry{
		Name: "steamer-widget",
		URL:  "https://host/steamer-widget.git",
		Path: filepath.Join(t.TempDir(), "steamer-widget"),
	}

	first, err := engine.CloneLatest(context.Background(), entry)
	if err != nil {
		t.Fatalf("CloneLatest() error = %v", err)
	}

	// 2.0.0 lands on master before its tag is pushed; the clone stays on master.
	remote.master = "2.0.0"
	if _, err := engine.CloneLatest(context.Background(), first); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("untagged release error = %v, want ErrTagNotFound", err)
	}
	if _, err := os.Stat(first.Path); err != nil {
		t.Fatalf("existing clone removed: %v", err)
	}

	remote.tags["v2.0.0"] = "2.0.0"
	got, err := engine.CloneLatest(context.Background(), first)
	if err != nil {
		t.Fatalf("CloneLatest() after tagging error = %v", err)
	}
	if got.CurrentVersion != "2.0.0" {
		t.Errorf("CurrentVersion = %q, want 2.0.0", got.CurrentVersion)
	}
}

func TestCloneLatestUnknownRemote(t *testing.T) {
	engine := NewEngine(newFakeGit(), nil)
	path := filepath.Join(t.TempDir(), "steamer-missing")

	_, err := engine.CloneLatest(context.Background(), &registry.Entry{
		Name: "steamer-missing",
		URL:  "https://host/steamer-missing.git",
		Path: path,
	})
	if !errors.Is(err, ErrCloneFailed) {
		t.Fatalf("error = %v, want ErrCloneFailed", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("partial clone directory left behind")
	}
}

func TestCloneTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    string
		wantErr error
	}{
		{name: "exact tag", tag: "v1.0.0", want: "1.0.0"},
		{name: "bare version finds v tag", tag: "1.0.0", want: "1.0.0"},
		{name: "unknown tag", tag: "v9.9.9", wantErr: ErrTagNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			git := newFakeGit()
			git.serve("https://host/steamer-widget.git", "1.2.0", "v1.0.0", "v1.2.0")
			engine := NewEngine(git, nil)

			entry := &registry.Entry{
				Name:     "steamer-widget",
				URL:      "https://host/steamer-widget.git",
				Path:     filepath.Join(t.TempDir(), "steamer-widget"),
				Versions: []string{"1.2.0"},
			}
			got, err := engine.CloneTag(context.Background(), entry, tt.tag)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CloneTag() error = %v", err)
			}
			if got.CurrentVersion != tt.want {
				t.Errorf("CurrentVersion = %q, want %q", got.CurrentVersion, tt.want)
			}
			if got.LatestVersion != "1.2.0" {
				t.Errorf("LatestVersion = %q, want 1.2.0", got.LatestVersion)
			}
			if !slices.Equal(got.Versions, []string{"1.2.0", "1.0.0"}) {
				t.Errorf("Versions = %v", got.Versions)
			}
		})
	}
}

func TestCloneTagExistingClone(t *testing.T) {
	git := newFakeGit()
	git.serve("https://host/steamer-widget.git", "1.2.0", "v1.0.0", "v1.2.0")
	engine := NewEngine(git, nil)
	entry := &registry.Entry{
		Name: "steamer-widget",
		URL:  "https://host/steamer-widget.git",
		Path: filepath.Join(t.TempDir(), "steamer-widget"),
	}

	latest, err := engine.CloneLatest(context.Background(), entry)
	if err != nil {
		t.Fatalf("CloneLatest() error = %v", err)
	}
	git.calls = nil

	got, err := engine.CloneTag(context.Background(), latest, "v1.0.0")
	if err != nil {
		t.Fatalf("CloneTag() error = %v", err)
	}
	if got.CurrentVersion != "1.0.0" || got.LatestVersion != "1.2.0" {
		t.Errorf("current/latest = %s/%s", got.CurrentVersion, got.LatestVersion)
	}
	want := []string{
		"fetch +refs/tags/v1.0.0:refs/tags/v1.0.0",
		"checkout -B release/v1.0.0 refs/tags/v1.0.0",
	}
	if !slices.Equal(git.calls, want) {
		t.Errorf("calls = %q, want %q", git.calls, want)
	}
}

func TestCloneTagRepeatedOnExistingClone(t *testing.T) {
	git := newFakeGit()
	git.serve("https://host/steamer-widget.git", "1.2.0", "v1.0.0", "v1.2.0")
	engine := NewEngine(git, nil)
	entry := &registry.Entry{
		Name: "steamer-widget",
		URL:  "https://host/steamer-widget.git",
		Path: filepath.Join(t.TempDir(), "steamer-widget"),
	}

	current, err := engine.CloneLatest(context.Background(), entry)
	if err != nil {
		t.Fatalf("CloneLatest() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		current, err = engine.CloneTag(context.Background(), current, "v1.0.0")
		if err != nil {
			t.Fatalf("CloneTag() run %d error = %v", i+1, err)
		}
		if current.CurrentVersion != "1.0.0" {
			t.Errorf("run %d CurrentVersion = %q", i+1, current.CurrentVersion)
		}
	}

	// Back to the latest release from the release branch.
	current, err = engine.CloneLatest(context.Background(), current)
	if err != nil {
		t.Fatalf("CloneLatest() after CloneTag error = %v", err)
	}
	if current.CurrentVersion != "1.2.0" {
		t.Errorf("CurrentVersion = %q, want 1.2.0", current.CurrentVersion)
	}
}

func TestTagCandidates(t *testing.T) {
	if got := tagCandidates("v1.0.0"); !slices.Equal(got, []string{"v1.0.0", "1.0.0"}) {
		t.Errorf("tagCandidates(v1.0.0) = %v", got)
	}
	if got := tagCandidates("1.0.0"); !slices.Equal(got, []string{"1.0.0", "v1.0.0"}) {
		t.Errorf("tagCandidates(1.0.0) = %v", got)
	}
}
