// Package cli defines the Cobra command tree for the steamer-kit CLI. Each
// file registers one top-level command with the root command. Commands only
// handle flags, prompts and output; kit and project work is delegated to the
// kit and scaffold packages.
package cli
