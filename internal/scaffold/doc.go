// Package scaffold materializes a kit into a project directory.
//
// PlanCopySet decides which top-level kit paths a project receives. The
// Installer drives the install and update sequences: it checks the kit out
// at the resolved version, runs the kit's lifecycle hooks, copies the planned
// paths (backing up what an update replaces), writes the generated config and
// package.json, records the project marker, and installs dependencies.
//
// Failures part-way through leave whatever was already written on disk.
package scaffold
