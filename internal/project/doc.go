// Package project reads and writes the per-project state a scaffolded
// directory carries: the marker recording which kit and version were
// installed, and the generated config holding the answers collected while
// scaffolding.
package project
