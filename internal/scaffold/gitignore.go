package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// backupIgnoreLine keeps update snapshots out of version control.
const backupIgnoreLine = BackupDirName + "/"

// IgnoreBackups appends backup/ to the project's .gitignore. Projects without
// a .gitignore are left alone. The line is only added once.
func IgnoreBackups(dir string) (bool, error) {
	path := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading .gitignore: %w", err)
	}

	for _, l := range strings.Split(string(content), "\n") {
		switch strings.TrimSpace(l) {
		case backupIgnoreLine, BackupDirName, "/" + BackupDirName, "/" + backupIgnoreLine:
			return false, nil
		}
	}

	suffix := backupIgnoreLine + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening .gitignore for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return false, fmt.Errorf("writing to .gitignore: %w", err)
	}
	return true, nil
}
