package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := Open(filepath.Join(t.TempDir(), "starterkits", "starterkits.json"))
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestLoadCreatesMissingDocument(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(doc.List) != 0 {
		t.Errorf("expected empty list, got %d entries", len(doc.List))
	}
	if doc.Timestamp != 1700000000000 {
		t.Errorf("Timestamp = %d, want %d", doc.Timestamp, int64(1700000000000))
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Errorf("registry file not created: %v", err)
	}
}

func TestLoadRecreatesDeletedDocument(t *testing.T) {
	s := newTestStore(t)

	doc, _ := s.Load()
	doc.Put(&Entry{Name: "steamer-example", Versions: []string{"1.0.0"}})
	if err := s.Save(doc); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if err := os.Remove(s.Path()); err != nil {
		t.Fatal(err)
	}

	reopened := Open(s.Path())
	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load() after delete error: %v", err)
	}
	if len(got.List) != 0 {
		t.Errorf("expected empty list after delete, got %v", got.Names())
	}
	if got.Timestamp == 0 {
		t.Error("expected timestamp to be set")
	}
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "module.exports = {};"},
		{"missing list", `{"timestamp": 1}`},
		{"null entry", `{"list": {"steamer-x": null}, "timestamp": 1}`},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := os.MkdirAll(filepath.Dir(s.Path()), 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(s.Path(), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := s.Load()
			if !errors.Is(err, ErrCorrupt) {
				t.Fatalf("Load() error = %v, want ErrCorrupt", err)
			}

			// The corrupt file must be left untouched.
			data, _ := os.ReadFile(s.Path())
			if string(data) != tt.content {
				t.Errorf("corrupt registry was rewritten: %q", data)
			}
		})
	}
}

func TestSaveInvalidatesCache(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	doc.Put(&Entry{Name: "steamer-react", URL: "https://github.com/steamerjs/steamer-react.git"})
	if err := s.Save(doc); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Find("steamer-react") == nil {
		t.Fatal("reload after save did not observe new entry")
	}

	// Mutating a loaded copy must not leak into the next Load.
	reloaded.Find("steamer-react").URL = "changed"
	again, _ := s.Load()
	if got := again.Find("steamer-react").URL; got != "https://github.com/steamerjs/steamer-react.git" {
		t.Errorf("cached document was mutated: URL = %q", got)
	}
}

func TestSaveRefreshesTimestamp(t *testing.T) {
	s := newTestStore(t)
	doc, _ := s.Load()

	s.now = func() time.Time { return time.UnixMilli(1800000000000) }
	if err := s.Save(doc); err != nil {
		t.Fatal(err)
	}

	got, _ := s.Load()
	if got.Timestamp != 1800000000000 {
		t.Errorf("Timestamp = %d, want refreshed value", got.Timestamp)
	}
}

func TestDocumentDelete(t *testing.T) {
	doc := NewDocument(1)
	doc.Put(&Entry{Name: "steamer-example5"})

	if err := doc.Delete("steamer-example5"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if doc.Find("steamer-example5") != nil {
		t.Error("entry still present after Delete")
	}
	if err := doc.Delete("steamer-example5"); !errors.Is(err, ErrKitNotFound) {
		t.Errorf("second Delete() error = %v, want ErrKitNotFound", err)
	}
}

func TestDocumentNamesSorted(t *testing.T) {
	doc := NewDocument(1)
	for _, n := range []string{"steamer-vue", "steamer-react", "@tencent/steamer-h5"} {
		doc.Put(&Entry{Name: n})
	}
	got := doc.Names()
	want := []string{"@tencent/steamer-h5", "steamer-react", "steamer-vue"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}
