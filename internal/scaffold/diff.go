package scaffold

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/steamer-labs/steamer-kit/internal/manifest"
)

// PackageDiff returns a unified diff of package.json before and after an
// update. It is empty when nothing changed.
func PackageDiff(before, after manifest.Package) (string, error) {
	var a, b []byte
	var err error
	if before != nil {
		if a, err = before.Marshal(); err != nil {
			return "", err
		}
	}
	if after != nil {
		if b, err = after.Marshal(); err != nil {
			return "", err
		}
	}
	if string(a) == string(b) {
		return "", nil
	}

	u := difflib.UnifiedDiff{
		A:        splitLines(a),
		B:        splitLines(b),
		FromFile: "a/" + PackageFile,
		ToFile:   "b/" + PackageFile,
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", PackageFile, err)
	}
	return s, nil
}

// splitLines keeps each line's newline so hunks render as written.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}
	lines := strings.SplitAfter(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
