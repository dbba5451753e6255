// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only edits the YAML.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	KitPrefix   string `yaml:"kit_prefix"`
	PluginName  string `yaml:"plugin_name"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "steamer-kit",
			DisplayName: "Steamer Kit",
			Description: "Scaffold and update projects from versioned starter kits",
			HomeDir:     ".steamer",
			EnvPrefix:   "STEAMER",
			GoModule:    "github.com/steamer-labs/steamer-kit",
			KitPrefix:   "steamer-",
			PluginName:  "steamer-plugin-kit",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "steamer-kit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".steamer").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "STEAMER").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// KitPrefix returns the prefix every kit name carries (e.g., "steamer-").
func KitPrefix() string { load(); return defaults.KitPrefix }

// PluginName names the per-project marker file (e.g., "steamer-plugin-kit").
func PluginName() string { load(); return defaults.PluginName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("npm") → "STEAMER_NPM".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
