package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PackageFile is the npm manifest every kit and project carries.
const PackageFile = "package.json"

// packageFields are carried into a freshly written project package.json.
var packageFields = []string{
	"name", "version", "main", "bin", "description", "repository", "scripts",
	"author", "dependencies", "devDependencies", "peerDependencies", "engines",
}

// Package is a decoded package.json.
type Package map[string]interface{}

// ReadPackage reads dir/package.json. A missing file yields an error that
// wraps os.ErrNotExist.
func ReadPackage(dir string) (Package, error) {
	path := filepath.Join(dir, PackageFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var p Package
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if p == nil {
		p = Package{}
	}
	return p, nil
}

// WritePackage writes p to dir/package.json with two-space indentation.
func WritePackage(dir string, p Package) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, PackageFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Marshal encodes p the way WritePackage stores it.
func (p Package) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling package.json: %w", err)
	}
	return append(data, '\n'), nil
}

// String returns a top-level string field, or "" when absent or not a string.
func (p Package) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Name returns the package name.
func (p Package) Name() string { return p.String("name") }

// Version returns the package version.
func (p Package) Version() string { return p.String("version") }

// Description returns the package description.
func (p Package) Description() string { return p.String("description") }

// Fresh returns a new package carrying only the fields a scaffolded project
// inherits from its kit.
func (p Package) Fresh() Package {
	out := Package{}
	for _, key := range packageFields {
		if v, ok := p[key]; ok {
			out[key] = deepCopy(v)
		}
	}
	return out
}

// Merge deep-merges src over dst and returns the result. Objects merge key by
// key; any other src value replaces the dst value. Neither input is modified.
func Merge(dst, src Package) Package {
	merged := deepCopy(map[string]interface{}(dst)).(map[string]interface{})
	mergeInto(merged, src)
	return Package(merged)
}

func mergeInto(dst, src map[string]interface{}) {
	for k, sv := range src {
		srcMap, srcIsMap := asMap(sv)
		dstMap, dstIsMap := asMap(dst[k])
		if srcIsMap && dstIsMap {
			mergeInto(dstMap, srcMap)
			dst[k] = dstMap
			continue
		}
		dst[k] = deepCopy(sv)
	}
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case Package:
		return map[string]interface{}(m), true
	default:
		return nil, false
	}
}

func deepCopy(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = deepCopy(v)
		}
		return m
	case Package:
		return deepCopy(map[string]interface{}(val))
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = deepCopy(v)
		}
		return a
	default:
		return val
	}
}
