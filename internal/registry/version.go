package registry

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

// AddVersion inserts v into versions if it is not already present and
// returns the list sorted newest first. The input slice is not modified.
//
// Ordering: parseable versions (a leading "v" is tolerated) compare by
// semver and always sort above unparseable strings; ties and unparseable
// strings fall back to descending lexicographic order.
func AddVersion(versions []string, v string) []string {
	out := make([]string, 0, len(versions)+1)
	seen := make(map[string]bool, len(versions)+1)
	for _, existing := range versions {
		if seen[existing] {
			continue
		}
		seen[existing] = true
		out = append(out, existing)
	}
	if v != "" && !seen[v] {
		out = append(out, v)
	}
	SortVersions(out)
	return out
}

// SortVersions sorts versions in place, newest first.
func SortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return CompareVersions(versions[i], versions[j]) > 0
	})
}

// CompareVersions returns 1 if a sorts newer than b, -1 if older, 0 if equal.
func CompareVersions(a, b string) int {
	if a == b {
		return 0
	}
	av, aerr := parseSemver(a)
	bv, berr := parseSemver(b)
	switch {
	case aerr == nil && berr == nil:
		if c := av.Compare(bv); c != 0 {
			return c
		}
	case aerr == nil:
		return 1
	case berr == nil:
		return -1
	}
	return strings.Compare(a, b)
}

// VersionFromTag strips a non-numeric prefix from a tag ("v1.2.0" → "1.2.0").
// Pre-release suffixes are kept.
func VersionFromTag(tag string) string {
	return strings.TrimLeftFunc(tag, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
}

// Resolution is the outcome of resolving a requested kit version.
type Resolution struct {
	Tag        string // tag to check out; empty means "latest on the default branch"
	Version    string // target version; empty until the first fetch when no tag was asked for
	NeedsFetch bool
}

// ResolveRequestedVersion decides which version to check out for a kit.
// An explicit tag always wins. Without a tag the target is the entry's latest
// known version. An unknown kit with no repository URL yields ErrKitNotFound.
func ResolveRequestedVersion(e *Entry, repoURL, tag string) (Resolution, error) {
	if e == nil && repoURL == "" {
		return Resolution{}, ErrKitNotFound
	}

	if tag != "" {
		version := VersionFromTag(tag)
		return Resolution{
			Tag:        tag,
			Version:    version,
			NeedsFetch: e == nil || !slices.Contains(e.Versions, version),
		}, nil
	}

	if e == nil || e.LatestVersion == "" {
		return Resolution{NeedsFetch: true}, nil
	}
	return Resolution{Version: e.LatestVersion}, nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", version, err)
	}
	return v, nil
}
