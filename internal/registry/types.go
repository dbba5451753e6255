package registry

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrKitNotFound is returned when a kit has no registry entry and no
	// repository URL was supplied to create one.
	ErrKitNotFound = errors.New("kit not found")

	// ErrCorrupt is returned when the registry document exists but cannot be
	// parsed. It is never recovered by resetting the document.
	ErrCorrupt = errors.New("registry document is corrupt")
)

// Entry describes one known kit.
type Entry struct {
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	Path           string   `json:"path"`
	Versions       []string `json:"versions"`
	CurrentVersion string   `json:"currentVersion"`
	LatestVersion  string   `json:"latestVersion"`
	Description    string   `json:"description"`
}

// Document is the whole registry as persisted on disk.
type Document struct {
	List      map[string]*Entry `json:"list"`
	Timestamp int64             `json:"timestamp"`
}

// NewDocument returns an empty document stamped with ts (epoch millis).
func NewDocument(ts int64) *Document {
	return &Document{List: map[string]*Entry{}, Timestamp: ts}
}

// Find returns the entry for name, or nil if the kit is unknown.
func (d *Document) Find(name string) *Entry {
	if d == nil || d.List == nil {
		return nil
	}
	return d.List[name]
}

// Put inserts or replaces the entry keyed by its name.
func (d *Document) Put(e *Entry) {
	if d.List == nil {
		d.List = map[string]*Entry{}
	}
	d.List[e.Name] = e
}

// Delete removes the entry for name. Returns ErrKitNotFound if absent.
func (d *Document) Delete(name string) error {
	if d.Find(name) == nil {
		return fmt.Errorf("%w: %s", ErrKitNotFound, name)
	}
	delete(d.List, name)
	return nil
}

// Names returns all registered kit names in sorted order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.List))
	for name := range d.List {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the entry so callers can stage mutations
// without touching the loaded document.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Versions = append([]string(nil), e.Versions...)
	return &c
}
