// Package config manages user-level settings stored at ~/.steamer/config.yaml.
// It provides functions to load, read, and write keys such as the package
// manager binary used after scaffolding and the git binary used for kit clones.
package config
