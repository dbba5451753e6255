package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steamer-labs/steamer-kit/internal/branding"
	"github.com/steamer-labs/steamer-kit/internal/manifest"
)

// ErrConfigCorrupt is returned when a marker or generated config exists but
// cannot be parsed. It is never treated as "absent".
var ErrConfigCorrupt = errors.New("project config is corrupt")

// Marker records which kit, at which version, a project was scaffolded from,
// along with any extra answers persisted alongside.
type Marker struct {
	Kit     string
	Version string
	Answers map[string]interface{}
}

// MarkerPath returns <dir>/.steamer/<plugin>.json.
func MarkerPath(dir string) string {
	return filepath.Join(dir, manifest.ConfigDir, branding.PluginName()+".json")
}

// Read returns the project's marker, or (nil, nil) when none exists.
func Read(dir string) (*Marker, error) {
	path := MarkerPath(dir)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigCorrupt, path, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s: not an object", ErrConfigCorrupt, path)
	}

	m := &Marker{Answers: map[string]interface{}{}}
	for key, v := range raw {
		switch key {
		case "kit", "version":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s: %q must be a string", ErrConfigCorrupt, path, key)
			}
			if key == "kit" {
				m.Kit = s
			} else {
				m.Version = s
			}
		default:
			m.Answers[key] = v
		}
	}
	return m, nil
}

// Write replaces the project's marker. Keys are serialized in sorted order so
// the file diffs cleanly under version control.
func Write(dir string, m *Marker) error {
	if m == nil || m.Kit == "" {
		return fmt.Errorf("refusing to write a marker without a kit")
	}

	doc := make(map[string]interface{}, len(m.Answers)+2)
	for k, v := range m.Answers {
		doc[k] = v
	}
	doc["kit"] = m.Kit
	doc["version"] = m.Version

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling marker: %w", err)
	}

	path := MarkerPath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
