package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
)

// CopyPaths copies each planned path from src into dst and returns the paths
// that were copied. Paths missing from src are skipped.
func CopyPaths(src, dst string, paths []string) ([]string, error) {
	var copied []string
	for _, p := range paths {
		from := filepath.Join(src, filepath.FromSlash(p))
		to := filepath.Join(dst, filepath.FromSlash(p))

		info, err := os.Stat(from)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("reading %s: %w", from, err)
		}

		if info.IsDir() {
			err = copyDir(from, to)
		} else {
			if err = os.MkdirAll(filepath.Dir(to), 0o755); err == nil {
				err = copyFile(from, to)
			}
		}
		if err != nil {
			return copied, fmt.Errorf("copying %s: %w", p, err)
		}
		copied = append(copied, p)
	}
	return copied, nil
}

// copyDir recursively copies src to dst, skipping excluded names.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.Name() == ".git" || entry.Name() == "node_modules" {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
		// Symlinks and special files are not part of a kit.
	}
	return nil
}

// copyFile copies a single file, preserving its permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}
