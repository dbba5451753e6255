package registry

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/steamer-labs/steamer-kit/internal/branding"
)

// ResolveName rewrites a kit name so it carries the kit prefix. For a scoped
// name ("@scope/name") only the name segment is checked. Applying it twice
// yields the same result as applying it once.
func ResolveName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	prefix := branding.KitPrefix()

	if strings.HasPrefix(name, "@") {
		scope, bare, ok := strings.Cut(name, "/")
		if !ok || bare == "" {
			return name
		}
		if !strings.HasPrefix(bare, prefix) {
			bare = prefix + bare
		}
		return scope + "/" + bare
	}

	if strings.HasPrefix(name, prefix) {
		return name
	}
	return prefix + name
}

// NamespaceFromRepo derives "host/owner/repo" from an https or scp-style git
// URL. It returns an empty string for anything else.
func NamespaceFromRepo(repo string) (string, error) {
	switch {
	case strings.HasPrefix(repo, "http://"), strings.HasPrefix(repo, "https://"):
		u, err := url.Parse(repo)
		if err != nil || u.Host == "" {
			return "", fmt.Errorf("invalid repository url %q", repo)
		}
		return u.Host + strings.TrimSuffix(u.Path, ".git"), nil
	case strings.HasPrefix(repo, "git@"):
		ns := strings.TrimPrefix(repo, "git@")
		ns = strings.TrimSuffix(ns, ".git")
		return strings.Replace(ns, ":", "/", 1), nil
	default:
		return "", nil
	}
}

// KitNameFromNamespace returns the repository segment of a namespace
// ("github.com/steamerjs/steamer-react" → "steamer-react"). A namespace with
// no path below the host has no kit name.
func KitNameFromNamespace(ns string) string {
	parts := strings.Split(strings.Trim(ns, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// KitNameFromRepo derives the kit name for a repository. Remote URLs go
// through the namespace; local paths and file:// URLs use their last segment.
func KitNameFromRepo(repo string) (string, error) {
	ns, err := NamespaceFromRepo(repo)
	if err != nil {
		return "", err
	}
	if ns != "" {
		name := KitNameFromNamespace(ns)
		if name == "" {
			return "", fmt.Errorf("cannot derive a kit name from %q; pass --alias", repo)
		}
		return ResolveName(name), nil
	}

	base := path.Base(strings.TrimSuffix(strings.TrimPrefix(repo, "file://"), "/"))
	base = strings.TrimSuffix(base, ".git")
	if base == "" || base == "." || base == "/" {
		return "", fmt.Errorf("cannot derive a kit name from %q; pass --alias", repo)
	}
	return ResolveName(base), nil
}
