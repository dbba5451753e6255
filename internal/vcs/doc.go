// Package vcs wraps the git operations the kit engine needs (clone, fetch,
// checkout, branch) behind a small interface so the engine can be exercised
// with a fake in tests.
package vcs
