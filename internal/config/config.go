package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/viper"
	"github.com/steamer-labs/steamer-kit/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known configuration keys.
const (
	KeyNPM      = "npm"
	KeyGit      = "git"
	KeyKitsHome = "kits_home"
	KeyVerbose  = "verbose"
)

// Keys lists every key Set accepts, in display order.
var Keys = []string{KeyNPM, KeyGit, KeyKitsHome, KeyVerbose}

// ErrUnknownKey is returned by Set for keys outside Keys.
var ErrUnknownKey = errors.New("unknown config key")

// Dir returns the path to the config directory (~/.steamer/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.steamer/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyNPM, "npm")
	viper.SetDefault(KeyGit, "git")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetBool returns a boolean config value by key.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// NPM returns the package-manager binary used to install project dependencies.
func NPM() string {
	if v := Get(KeyNPM); v != "" {
		return v
	}
	return "npm"
}

// Git returns the git binary used for kit clones.
func Git() string {
	if v := Get(KeyGit); v != "" {
		return v
	}
	return "git"
}

// Set validates and stores one key, then rewrites the config file.
func Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("%w %q (known: %v)", ErrUnknownKey, key, Keys)
	}
	var v interface{} = value
	if key == KeyVerbose {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		v = b
	}

	if err := EnsureDir(); err != nil {
		return err
	}
	viper.Set(key, v)

	path := FilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return fmt.Errorf("creating config file %s: %w", path, err)
		}
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
