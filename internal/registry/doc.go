// Package registry persists the set of known starter kits and resolves kit
// names and versions against it. The backing store is a single JSON document
// that is always read and written whole; callers load it, mutate the
// in-memory Document, and Save it back.
package registry
