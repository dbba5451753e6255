package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/steamer-labs/steamer-kit/internal/manifest"
)

// PackageFile is copied into every project.
const PackageFile = manifest.PackageFile

// ErrUnsafePath is returned when a planned path would leave the kit or
// project directory.
var ErrUnsafePath = errors.New("path escapes the project directory")

// legacyPaths are always planned for kits that ship no manifest.
var legacyPaths = []string{"src", "tools", "config", "README.md"}

// excludedNames are never copied out of a kit's working copy.
var excludedNames = map[string]bool{
	".git":             true,
	"node_modules":     true,
	manifest.ConfigDir: true,
}

// PlanCopySet returns the top-level paths to copy from kitDir. A manifest's
// file list is used in declared order (installFiles take precedence when
// install is true). Without a manifest, every top-level entry of kitDir is
// planned in name order along with the legacy layout. package.json is always
// included. Duplicates keep their first position. Absolute paths and paths
// that climb out of the directory fail with ErrUnsafePath.
func PlanCopySet(m *manifest.KitManifest, kitDir string, install bool) ([]string, error) {
	var declared []string
	switch {
	case m == nil:
	case install:
		declared = m.InstallList()
	default:
		declared = m.Files
	}

	var paths []string
	if len(declared) > 0 {
		paths = append(paths, declared...)
		paths = append(paths, PackageFile)
	} else {
		listing, err := listTopLevel(kitDir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, listing...)
		paths = append(paths, PackageFile)
		paths = append(paths, legacyPaths...)
	}

	return dedupe(paths)
}

// PlanBackupSet returns the members of copySet that exist under dest, in
// copySet order.
func PlanBackupSet(copySet []string, dest string) ([]string, error) {
	var out []string
	for _, p := range copySet {
		_, err := os.Lstat(filepath.Join(dest, filepath.FromSlash(p)))
		if err == nil {
			out = append(out, p)
			continue
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("checking %s: %w", p, err)
		}
	}
	return out, nil
}

func listTopLevel(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing kit %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if excludedNames[e.Name()] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func dedupe(paths []string) ([]string, error) {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, raw := range paths {
		p := filepath.Clean(filepath.FromSlash(raw))
		if p == "." || seen[p] {
			continue
		}
		if !filepath.IsLocal(p) {
			return nil, fmt.Errorf("%w: %q", ErrUnsafePath, raw)
		}
		seen[p] = true
		out = append(out, filepath.ToSlash(p))
	}
	return out, nil
}
