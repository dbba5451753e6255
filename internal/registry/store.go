package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store reads and writes the registry document at a fixed path.
//
// A Store caches the last document it loaded. Save drops the cache, so a Load
// after Save always observes what was written.
type Store struct {
	path   string
	now    func() time.Time
	cached *Document
}

// Open returns a Store backed by the file at path. The file is not touched
// until Load or Save is called.
func Open(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load returns the registry document. A missing file is created with an empty
// list. A file that exists but does not parse yields ErrCorrupt.
func (s *Store) Load() (*Document, error) {
	if s.cached != nil {
		return s.cached.clone(), nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		doc := NewDocument(s.now().UnixMilli())
		if err := writeAtomic(s.path, doc); err != nil {
			return nil, fmt.Errorf("creating registry %s: %w", s.path, err)
		}
		s.cached = doc
		return doc.clone(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", s.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if doc.List == nil {
		return nil, fmt.Errorf("%w: %s: missing \"list\"", ErrCorrupt, s.path)
	}
	for name, e := range doc.List {
		if e == nil {
			return nil, fmt.Errorf("%w: %s: entry %q is null", ErrCorrupt, s.path, name)
		}
		if e.Name == "" {
			e.Name = name
		}
	}

	s.cached = &doc
	return doc.clone(), nil
}

// Save replaces the backing file with doc, refreshing its timestamp.
func (s *Store) Save(doc *Document) error {
	s.cached = nil

	if doc.List == nil {
		doc.List = map[string]*Entry{}
	}
	doc.Timestamp = s.now().UnixMilli()

	if err := writeAtomic(s.path, doc); err != nil {
		return fmt.Errorf("writing registry %s: %w", s.path, err)
	}
	return nil
}

// writeAtomic marshals doc and renames a sibling temp file over path.
func writeAtomic(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (d *Document) clone() *Document {
	c := &Document{List: make(map[string]*Entry, len(d.List)), Timestamp: d.Timestamp}
	for name, e := range d.List {
		c.List[name] = e.Clone()
	}
	return c
}
