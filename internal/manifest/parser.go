package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ConfigDir is the directory inside a kit (and a project) holding steamer files.
const ConfigDir = ".steamer"

// ErrNoManifest is returned by Find when a kit carries no manifest.
var ErrNoManifest = errors.New("kit has no manifest")

// Find returns the manifest path for kitName inside kitDir. Lookup order:
// <name>.yaml > <name>.yml > <name>.json > kit.yaml, where <name> is the
// unscoped kit name.
func Find(kitDir, kitName string) (string, error) {
	base := kitName
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}

	candidates := []string{base + ".yaml", base + ".yml", base + ".json", "kit.yaml"}
	for _, name := range candidates {
		p := filepath.Join(kitDir, ConfigDir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", ErrNoManifest
}

// Load finds, validates, and parses the manifest for kitName. It returns
// (nil, nil) when the kit has no manifest.
func Load(kitDir, kitName string) (*KitManifest, error) {
	path, err := Find(kitDir, kitName)
	if errors.Is(err, ErrNoManifest) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", path, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Path: path, Issues: result.Issues}
	}

	return Parse(data, path)
}

// Parse unmarshals manifest bytes. JSON manifests parse as YAML.
func Parse(data []byte, path string) (*KitManifest, error) {
	var m KitManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// InvalidError reports schema violations in a kit manifest.
type InvalidError struct {
	Path   string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid kit manifest %s:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		if issue.Path != "" {
			b.WriteString(issue.Path + ": ")
		}
		b.WriteString(issue.Message)
	}
	return b.String()
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
