package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ConfigPath is where the generated project config lives, relative to the
// project root. The kit's JavaScript tooling requires it directly.
const ConfigPath = "config/steamer.config.js"

const (
	configPrefix = "module.exports = "
	configSuffix = ";"
)

// Defaults applied to the generated config when an answer is unset.
var Defaults = map[string]interface{}{
	"webserver": "//localhost:9000/",
	"cdn":       "//localhost:8000/",
	"port":      9000,
	"route":     "/",
}

// MergeDefaults returns answers with Defaults filled in for unset or empty
// keys. A numeric port string is stored as a number.
func MergeDefaults(answers map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(answers)+len(Defaults))
	for k, v := range answers {
		out[k] = v
	}
	for k, v := range Defaults {
		if cur, ok := out[k]; !ok || cur == nil || cur == "" {
			out[k] = v
		}
	}
	if s, ok := out["port"].(string); ok {
		if n, err := strconv.Atoi(s); err == nil {
			out["port"] = n
		}
	}
	return out
}

// WriteConfig writes answers to <dir>/config/steamer.config.js.
func WriteConfig(dir string, answers map[string]interface{}) error {
	data, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling project config: %w", err)
	}

	path := filepath.Join(dir, filepath.FromSlash(ConfigPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	buf.WriteString(configPrefix)
	buf.Write(data)
	buf.WriteString(configSuffix + "\n")

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadConfig parses a config written by WriteConfig. It returns (nil, nil)
// when the file is absent and ErrConfigCorrupt when it is not in that form.
func ReadConfig(dir string) (map[string]interface{}, error) {
	path := filepath.Join(dir, filepath.FromSlash(ConfigPath))
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	body := bytes.TrimSpace(data)
	body = bytes.TrimPrefix(body, []byte(configPrefix))
	body = bytes.TrimSuffix(body, []byte(configSuffix))

	var answers map[string]interface{}
	if err := json.Unmarshal(body, &answers); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigCorrupt, path, err)
	}
	return answers, nil
}
