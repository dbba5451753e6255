package kit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/steamer-labs/steamer-kit/internal/manifest"
	"github.com/steamer-labs/steamer-kit/internal/registry"
	"github.com/steamer-labs/steamer-kit/internal/userdata"
)

// Manager performs registry-level kit operations. Every method loads the
// registry, mutates one or more entries, and saves it only after the
// underlying clone or checkout succeeded.
type Manager struct {
	Store    *registry.Store
	Engine   *Engine
	KitsHome string
	Logger   *slog.Logger
}

// NewManager wires a Manager.
func NewManager(store *registry.Store, engine *Engine, kitsHome string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{Store: store, Engine: engine, KitsHome: kitsHome, Logger: logger}
}

// Add registers the kit hosted at repo and clones it. With a tag the clone is
// checked out at that tag; otherwise at the latest release on the default
// branch. An alias overrides the name derived from the repository URL.
func (m *Manager) Add(ctx context.Context, repo, tag, alias string) (*registry.Entry, error) {
	name, err := kitName(repo, alias)
	if err != nil {
		return nil, err
	}

	doc, err := m.Store.Load()
	if err != nil {
		return nil, err
	}

	entry := doc.Find(name)
	if entry == nil {
		entry = &registry.Entry{Name: name, Path: userdata.KitPath(m.KitsHome, name)}
	}
	entry.URL = repo
	if entry.Path == "" {
		entry.Path = userdata.KitPath(m.KitsHome, name)
	}

	m.Logger.Debug("adding kit", "kit", name, "repo", repo, "tag", tag)

	var updated *registry.Entry
	if tag != "" {
		updated, err = m.Engine.CloneTag(ctx, entry, tag)
	} else {
		updated, err = m.Engine.CloneLatest(ctx, entry)
	}
	if err != nil {
		return nil, err
	}

	doc.Put(updated)
	if err := m.Store.Save(doc); err != nil {
		return nil, err
	}
	return updated, nil
}

// Develop registers a local working directory as a kit. The kit is used in
// place: it has no repository URL and is never cloned, fetched, or deleted.
func (m *Manager) Develop(dir, alias string) (*registry.Entry, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	pkg, err := manifest.ReadPackage(abs)
	if err != nil {
		return nil, err
	}

	name := alias
	if name == "" {
		name = pkg.Name()
	}
	if name == "" {
		name = filepath.Base(abs)
	}
	name = registry.ResolveName(name)

	doc, err := m.Store.Load()
	if err != nil {
		return nil, err
	}

	entry := &registry.Entry{
		Name:        name,
		Path:        abs,
		Description: pkg.Description(),
	}
	if v := pkg.Version(); v != "" {
		entry.Versions = registry.AddVersion(nil, v)
		entry.CurrentVersion = v
		entry.LatestVersion = v
	}

	doc.Put(entry)
	if err := m.Store.Save(doc); err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateGlobal refreshes the named kit, or every cloned kit when name is
// empty, to the latest release. Kits that fail are reported together; the
// ones that succeeded are still saved.
func (m *Manager) UpdateGlobal(ctx context.Context, name string) ([]*registry.Entry, error) {
	doc, err := m.Store.Load()
	if err != nil {
		return nil, err
	}

	names := doc.Names()
	if name != "" {
		name = registry.ResolveName(name)
		if doc.Find(name) == nil {
			return nil, fmt.Errorf("%w: %s", registry.ErrKitNotFound, name)
		}
		names = []string{name}
	}

	var (
		updated []*registry.Entry
		errs    []error
	)
	for _, n := range names {
		entry := doc.Find(n)
		if entry.URL == "" {
			m.Logger.Debug("skipping local kit", "kit", n)
			continue
		}
		u, err := m.Engine.CloneLatest(ctx, entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		doc.Put(u)
		updated = append(updated, u)
	}

	if len(updated) > 0 {
		if err := m.Store.Save(doc); err != nil {
			return nil, err
		}
	}
	return updated, errors.Join(errs...)
}

// Remove deletes the kit's entry and its clone. Local kits registered with
// Develop keep their working directory.
func (m *Manager) Remove(name string) (*registry.Entry, error) {
	name = registry.ResolveName(name)

	doc, err := m.Store.Load()
	if err != nil {
		return nil, err
	}
	entry := doc.Find(name)
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", registry.ErrKitNotFound, name)
	}

	if entry.URL != "" && entry.Path != "" {
		if err := os.RemoveAll(entry.Path); err != nil {
			return nil, fmt.Errorf("removing %s: %w", entry.Path, err)
		}
	}

	if err := doc.Delete(name); err != nil {
		return nil, err
	}
	if err := m.Store.Save(doc); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns every registered kit ordered by name.
func (m *Manager) List() ([]*registry.Entry, error) {
	doc, err := m.Store.Load()
	if err != nil {
		return nil, err
	}
	names := doc.Names()
	entries := make([]*registry.Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, doc.Find(n))
	}
	return entries, nil
}

// Prepare makes the kit's clone sit at the requested version, fetching it
// when the registry does not know that version yet. An empty version means
// the latest known release. It returns the entry as it stands afterwards.
func (m *Manager) Prepare(ctx context.Context, name, version string) (*registry.Entry, error) {
	name = registry.ResolveName(name)

	doc, err := m.Store.Load()
	if err != nil {
		return nil, err
	}
	entry := doc.Find(name)
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", registry.ErrKitNotFound, name)
	}

	// Local kits are used as they are on disk.
	if entry.URL == "" {
		return entry, nil
	}

	res, err := registry.ResolveRequestedVersion(entry, entry.URL, version)
	if err != nil {
		return nil, err
	}

	fetch := func(tag string) (*registry.Entry, error) {
		var updated *registry.Entry
		var err error
		if tag != "" {
			updated, err = m.Engine.CloneTag(ctx, entry, tag)
		} else {
			updated, err = m.Engine.CloneLatest(ctx, entry)
		}
		if err != nil {
			return nil, err
		}
		doc.Put(updated)
		if err := m.Store.Save(doc); err != nil {
			return nil, err
		}
		return updated, nil
	}

	if res.NeedsFetch || !exists(entry.Path) {
		return fetch(res.Tag)
	}

	err = m.Engine.Checkout(ctx, entry, res.Version)
	if errors.Is(err, ErrTagNotFound) {
		// A shallow tag clone only carries the tag it was cut from.
		return fetch("v" + res.Version)
	}
	if err != nil {
		return nil, err
	}
	if entry.CurrentVersion != res.Version {
		entry.CurrentVersion = res.Version
		doc.Put(entry)
		if err := m.Store.Save(doc); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

func kitName(repo, alias string) (string, error) {
	if alias != "" {
		return registry.ResolveName(alias), nil
	}
	return registry.KitNameFromRepo(repo)
}
