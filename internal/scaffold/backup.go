package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// BackupDirName is the project subdirectory that holds update snapshots.
const BackupDirName = "backup"

// BackupDir returns <dir>/backup/<epoch millis>.
func BackupDir(dir string, at time.Time) string {
	return filepath.Join(dir, BackupDirName, strconv.FormatInt(at.UnixMilli(), 10))
}

// Backup moves each path under dir into backupDir unchanged, including VCS
// metadata, dependencies and symlinks. A path that cannot be renamed is copied
// exactly and only then removed, so a failed copy leaves the original in place.
func Backup(dir, backupDir string, paths []string) error {
	for _, p := range paths {
		src := filepath.Join(dir, filepath.FromSlash(p))
		dst := filepath.Join(backupDir, filepath.FromSlash(p))

		_, err := os.Lstat(src)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("backing up %s: %w", p, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("backing up %s: %w", p, err)
		}

		if err := os.Rename(src, dst); err == nil {
			continue
		}

		// Rename fails across devices.
		if err := copyExact(src, dst); err != nil {
			return fmt.Errorf("backing up %s: %w", p, err)
		}
		if err := os.RemoveAll(src); err != nil {
			return fmt.Errorf("removing %s after backup: %w", p, err)
		}
	}
	return nil
}

// copyExact copies src to dst with nothing skipped. Symlinks are recreated,
// not followed; special files are an error.
func copyExact(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch mode := d.Type(); {
		case mode.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case mode&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case mode.IsRegular():
			return copyFile(path, target)
		default:
			return fmt.Errorf("%s: unsupported file type %s", path, mode)
		}
	})
}
