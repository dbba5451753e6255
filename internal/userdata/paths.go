package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/steamer-labs/steamer-kit/internal/branding"
	"github.com/steamer-labs/steamer-kit/internal/config"
)

// Directory and file name constants for the kits home layout.
const (
	KitsDir      = "starterkits"
	RegistryFile = "starterkits.json"
)

// Permission constants.
const (
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
)

// GetKitsHome returns the directory holding kit clones and the registry.
// It checks the STEAMER_KITS_HOME environment variable first, then the
// kits_home config key, then falls back to ~/.steamer/starterkits.
func GetKitsHome() (string, error) {
	if v := os.Getenv(branding.EnvVar("KITS_HOME")); v != "" {
		return v, nil
	}
	if v := config.Get(config.KeyKitsHome); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir(), KitsDir), nil
}

// GetRegistryPath returns the path to the registry document.
func GetRegistryPath() (string, error) {
	root, err := GetKitsHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, RegistryFile), nil
}

// KitPath returns the clone directory for a kit. Scoped names
// ("@scope/steamer-x") nest one level under the scope directory.
func KitPath(kitsHome, kitName string) string {
	return filepath.Join(kitsHome, filepath.FromSlash(kitName))
}
