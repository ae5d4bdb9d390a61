// Package settings reads and writes desktop settings on behalf of tweak
// modules. A Store maps string keys to string values; concrete stores cover
// gsettings schemas and INI-style key files such as .desktop entries.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when a key has no value in a store.
var ErrNotFound = errors.New("settings: key not found")

// Store is a source of settings values.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Previewer is implemented by stores that can describe a pending change
// before applying it.
type Previewer interface {
	Preview(key, value string) (string, error)
}

// Registry resolves store names used in plugin manifests. Besides stores
// registered by name, "keyfile:<path>" resolves to a KeyFile for path.
type Registry struct {
	mu      sync.RWMutex
	stores  map[string]Store
	overlay *Memory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]Store)}
}

// SetDryRun makes every store returned by Lookup keep its writes in memory.
// Reads see earlier dry-run writes; previews still describe the change
// against the real store.
func (r *Registry) SetDryRun(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case on && r.overlay == nil:
		r.overlay = NewMemory(nil)
	case !on:
		r.overlay = nil
	}
}

// DryRun reports whether writes are kept in memory.
func (r *Registry) DryRun() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.overlay != nil
}

// Register adds a named store. An existing store with the same name is
// replaced.
func (r *Registry) Register(name string, s Store) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stores[name] = s
}

// Lookup returns the named store.
func (r *Registry) Lookup(name string) (Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s Store
	if path, ok := strings.CutPrefix(name, "keyfile:"); ok {
		if path == "" {
			return nil, fmt.Errorf("settings: keyfile store without a path")
		}
		s = NewKeyFile(path)
	} else if s, ok = r.stores[name]; !ok {
		return nil, fmt.Errorf("settings: unknown store %q", name)
	}

	if r.overlay != nil {
		return &overlay{Store: s, prefix: name + "\x00", mem: r.overlay}, nil
	}
	return s, nil
}

// overlay sends writes to memory and reads them back before falling through
// to the wrapped store.
type overlay struct {
	Store
	prefix string
	mem    *Memory
}

func (o *overlay) Get(ctx context.Context, key string) (string, error) {
	if v, err := o.mem.Get(ctx, o.prefix+key); err == nil {
		return v, nil
	}
	return o.Store.Get(ctx, key)
}

func (o *overlay) Set(ctx context.Context, key, value string) error {
	return o.mem.Set(ctx, o.prefix+key, value)
}

func (o *overlay) Preview(key, value string) (string, error) {
	if pv, ok := o.Store.(Previewer); ok {
		return pv.Preview(key, value)
	}
	return "", nil
}

// Names returns the registered store names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.stores))
	for n := range r.stores {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Memory is an in-process Store. It backs dry runs, where changes are shown
// but never reach the desktop.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates a Memory store seeded with values.
func NewMemory(values map[string]string) *Memory {
	m := &Memory{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}
