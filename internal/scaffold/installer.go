package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/steamer-labs/steamer-kit/internal/manifest"
	"github.com/steamer-labs/steamer-kit/internal/pkgmgr"
	"github.com/steamer-labs/steamer-kit/internal/project"
	"github.com/steamer-labs/steamer-kit/internal/prompt"
	"github.com/steamer-labs/steamer-kit/internal/registry"
)

var (
	// ErrDirectoryExists is returned when the target directory is not empty
	// and overwriting it was not confirmed.
	ErrDirectoryExists = errors.New("target directory is not empty")

	// ErrKitConfigMissing is returned by Update when the project has no
	// marker and no kit was named.
	ErrKitConfigMissing = errors.New("project has no kit configured")

	// ErrDependencyInstall wraps a failed package-manager install. It is
	// reported on Result rather than returned.
	ErrDependencyInstall = errors.New("dependency install failed")
)

// ignoredNames do not make a directory count as non-empty.
var ignoredNames = map[string]bool{
	".git":      true,
	".DS_Store": true,
	".svn":      true,
}

const overwriteKey = "overwrite"

var overwriteQuestion = manifest.Question{
	Type:    manifest.QuestionInput,
	Name:    overwriteKey,
	Message: "The folder is not empty, do you want to overwrite?",
	Default: "n",
}

// KitSource checks a registered kit out at a version and returns its entry.
type KitSource interface {
	Prepare(ctx context.Context, name, version string) (*registry.Entry, error)
}

// Installer scaffolds projects from kits.
type Installer struct {
	Kits           KitSource
	Prompter       prompt.Prompter
	PackageManager pkgmgr.Runner

	// NPM is the package-manager command; empty means npm.
	NPM string

	// Hooks are registered for every kit and take precedence over the
	// kit's own manifest hooks of the same name.
	Hooks map[string]Hook

	Logger *slog.Logger
	Out    io.Writer
	Now    func() time.Time
}

// InstallRequest describes a new project.
type InstallRequest struct {
	Kit         string
	Version     string // empty selects the latest known release
	Dir         string
	ProjectName string // sets package.json "name" when non-empty
	Confirmed   bool   // skip the overwrite question for non-empty dirs
}

// UpdateRequest describes an update of an existing project.
type UpdateRequest struct {
	Dir     string
	Kit     string // used only when the project has no marker
	Version string
}

// Result reports what an install or update did.
type Result struct {
	Dir         string
	Kit         string
	Version     string
	Copied      []string
	BackupDir   string
	PackageDiff string
	Warnings    []string

	// DependencyErr is set, wrapping ErrDependencyInstall, when the
	// package-manager step failed. The project files are in place.
	DependencyErr error
}

type loadedKit struct {
	entry    *registry.Entry
	manifest *manifest.KitManifest
	pkg      manifest.Package
	hooks    map[string]Hook
	version  string
}

// Install scaffolds a new project from req.Kit into req.Dir.
func (in *Installer) Install(ctx context.Context, req InstallRequest) (*Result, error) {
	dir, err := absDir(req.Dir)
	if err != nil {
		return nil, err
	}

	if !req.Confirmed {
		if err := in.confirmOverwrite(ctx, dir); err != nil {
			return nil, err
		}
	}

	kit, err := in.prepare(ctx, req.Kit, req.Version)
	if err != nil {
		return nil, err
	}

	var questions []manifest.Question
	if kit.manifest != nil {
		questions = kit.manifest.Options
	}
	answers, err := in.Prompter.Ask(ctx, questions)
	if err != nil {
		return nil, err
	}
	answers = project.MergeDefaults(answers)

	prior, err := readPackage(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	hc := HookContext{Kit: kit.entry.Name, Version: kit.version, Dir: dir, Answers: answers}
	if err := runHook(ctx, kit.hooks, manifest.HookBeforeInstallCopy, hc); err != nil {
		return nil, err
	}

	copySet, err := PlanCopySet(kit.manifest, kit.entry.Path, true)
	if err != nil {
		return nil, err
	}
	copied, err := CopyPaths(kit.entry.Path, dir, copySet)
	if err != nil {
		return nil, err
	}
	in.logger().Debug("copied kit files", "kit", kit.entry.Name, "paths", copied)

	if err := project.WriteConfig(dir, answers); err != nil {
		return nil, err
	}

	if err := runHook(ctx, kit.hooks, manifest.HookAfterInstallCopy, hc); err != nil {
		return nil, err
	}

	merged := mergePackage(prior, kit.pkg, req.ProjectName)
	if err := manifest.WritePackage(dir, merged); err != nil {
		return nil, err
	}

	if err := project.Write(dir, &project.Marker{Kit: kit.entry.Name, Version: kit.version}); err != nil {
		return nil, err
	}

	res := &Result{Dir: dir, Kit: kit.entry.Name, Version: kit.version, Copied: copied}
	if err := in.installDependencies(ctx, kit, hc, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Update moves an existing project to the kit's latest known release (or
// req.Version). Every planned path present in the project is snapshotted
// under backup/<millis>/ and removed before the kit's copy replaces it.
func (in *Installer) Update(ctx context.Context, req UpdateRequest) (*Result, error) {
	dir, err := absDir(req.Dir)
	if err != nil {
		return nil, err
	}

	marker, err := project.Read(dir)
	if err != nil {
		return nil, err
	}
	var name string
	switch {
	case marker != nil && marker.Kit != "":
		name = marker.Kit
	case req.Kit != "":
		name = req.Kit
		marker = &project.Marker{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrKitConfigMissing, project.MarkerPath(dir))
	}

	kit, err := in.prepare(ctx, name, req.Version)
	if err != nil {
		return nil, err
	}

	previous, err := project.ReadConfig(dir)
	if err != nil {
		return nil, err
	}
	var pending []manifest.Question
	if kit.manifest != nil {
		for _, q := range kit.manifest.Options {
			if _, ok := previous[q.Name]; !ok {
				pending = append(pending, q)
			}
		}
	}
	asked, err := in.Prompter.Ask(ctx, pending)
	if err != nil {
		return nil, err
	}
	answers := make(map[string]interface{}, len(previous)+len(asked))
	for k, v := range previous {
		answers[k] = v
	}
	for k, v := range asked {
		answers[k] = v
	}
	answers = project.MergeDefaults(answers)

	prior, err := readPackage(dir)
	if err != nil {
		return nil, err
	}

	copySet, err := PlanCopySet(kit.manifest, kit.entry.Path, false)
	if err != nil {
		return nil, err
	}
	backupSet, err := PlanBackupSet(copySet, dir)
	if err != nil {
		return nil, err
	}

	res := &Result{Dir: dir, Kit: kit.entry.Name, Version: kit.version}
	if len(backupSet) > 0 {
		res.BackupDir = BackupDir(dir, in.now())
		if err := Backup(dir, res.BackupDir, backupSet); err != nil {
			return nil, err
		}
		in.logger().Debug("backed up project files", "dir", res.BackupDir, "paths", backupSet)
	}

	if res.Copied, err = CopyPaths(kit.entry.Path, dir, copySet); err != nil {
		return nil, err
	}

	if err := project.WriteConfig(dir, answers); err != nil {
		return nil, err
	}

	merged := mergePackage(prior, kit.pkg, prior.Name())
	if err := manifest.WritePackage(dir, merged); err != nil {
		return nil, err
	}
	if res.PackageDiff, err = PackageDiff(prior, merged); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}

	marker.Kit = kit.entry.Name
	marker.Version = kit.version
	if err := project.Write(dir, marker); err != nil {
		return nil, err
	}

	if res.BackupDir != "" {
		if _, err := IgnoreBackups(dir); err != nil {
			res.Warnings = append(res.Warnings, err.Error())
		}
	}

	return res, nil
}

// prepare checks the kit out and loads its manifest, package.json and hooks.
func (in *Installer) prepare(ctx context.Context, name, version string) (*loadedKit, error) {
	entry, err := in.Kits.Prepare(ctx, name, version)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(entry.Path, entry.Name)
	if err != nil {
		return nil, err
	}
	pkg, err := manifest.ReadPackage(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("kit %s: %w", entry.Name, err)
	}

	hooks := make(map[string]Hook)
	if m != nil {
		for hookName, command := range m.Hooks {
			hooks[hookName] = ShellHook(command, in.out(), in.out())
		}
	}
	for hookName, h := range in.Hooks {
		hooks[hookName] = h
	}

	v := entry.CurrentVersion
	if v == "" {
		v = pkg.Version()
	}
	return &loadedKit{entry: entry, manifest: m, pkg: pkg, hooks: hooks, version: v}, nil
}

func (in *Installer) confirmOverwrite(ctx context.Context, dir string) error {
	empty, err := isEmptyDir(dir)
	if err != nil {
		return err
	}
	if empty {
		return nil
	}

	answers, err := in.Prompter.Ask(ctx, []manifest.Question{overwriteQuestion})
	if err != nil {
		return err
	}
	if v, _ := answers[overwriteKey].(string); strings.EqualFold(strings.TrimSpace(v), "y") {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDirectoryExists, dir)
}

func (in *Installer) installDependencies(ctx context.Context, kit *loadedKit, hc HookContext, res *Result) error {
	if err := runHook(ctx, kit.hooks, manifest.HookBeforeInstallDep, hc); err != nil {
		return err
	}

	if in.PackageManager == nil {
		res.Warnings = append(res.Warnings, "no package manager configured; skipping dependency install")
		return nil
	}

	attempted, err := pkgmgr.Install(ctx, in.PackageManager, in.NPM, hc.Dir)
	if err != nil {
		res.DependencyErr = fmt.Errorf("%w: %w", ErrDependencyInstall, err)
		res.Warnings = append(res.Warnings, res.DependencyErr.Error())
		in.logger().Warn("dependency install failed", "dir", hc.Dir, "err", err)
		return nil
	}
	if !attempted {
		return nil
	}

	return runHook(ctx, kit.hooks, manifest.HookAfterInstallDep, hc)
}

func (in *Installer) logger() *slog.Logger {
	if in.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return in.Logger
}

func (in *Installer) out() io.Writer {
	if in.Out == nil {
		return io.Discard
	}
	return in.Out
}

func (in *Installer) now() time.Time {
	if in.Now == nil {
		return time.Now()
	}
	return in.Now()
}

// mergePackage folds the kit's package.json into the project's existing one,
// kit fields winning. Without an existing file the kit's publishable fields
// are used as-is.
func mergePackage(prior, kitPkg manifest.Package, projectName string) manifest.Package {
	var merged manifest.Package
	if prior != nil {
		merged = manifest.Merge(prior, kitPkg)
	} else {
		merged = kitPkg.Fresh()
	}
	if projectName != "" {
		merged["name"] = projectName
	}
	return merged
}

// readPackage returns the project's package.json, or nil if it has none.
func readPackage(dir string) (manifest.Package, error) {
	p, err := manifest.ReadPackage(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return p, err
}

func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if !ignoredNames[e.Name()] {
			return false, nil
		}
	}
	return true, nil
}

func absDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	return abs, nil
}
