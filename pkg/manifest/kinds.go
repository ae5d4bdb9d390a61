package manifest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/germanamz/tweak/pkg/tweak"
)

// DefaultKind is used for module entries that name no kind.
const DefaultKind = "settings"

// Constructor builds a module's panel.
type Constructor func(env tweak.Env) (tweak.Panel, error)

// Kind checks a module entry and returns the constructor for its panels.
// It runs at load time, so errors it returns mark the plugin as broken.
type Kind func(spec ModuleSpec) (Constructor, error)

// Kinds is a thread-safe directory of module kinds.
type Kinds struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewKinds creates a directory holding the built-in kinds.
func NewKinds() *Kinds {
	k := &Kinds{kinds: make(map[string]Kind)}
	k.Register(DefaultKind, SettingsKind)
	return k
}

// Register adds a kind. If a kind with the same name already exists, it is
// replaced.
func (k *Kinds) Register(name string, kind Kind) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.kinds[name] = kind
}

// Names returns the registered kind names sorted.
func (k *Kinds) Names() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	names := make([]string, 0, len(k.kinds))
	for n := range k.kinds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build turns a module entry into a class.
func (k *Kinds) Build(spec ModuleSpec) (tweak.Class, error) {
	if err := spec.Info.Validate(); err != nil {
		return tweak.Class{}, err
	}

	name := spec.Kind
	if name == "" {
		name = DefaultKind
	}

	k.mu.RLock()
	kind, ok := k.kinds[name]
	k.mu.RUnlock()

	if !ok {
		return tweak.Class{}, fmt.Errorf("unknown kind %q", name)
	}

	ctor, err := kind(spec)
	if err != nil {
		return tweak.Class{}, fmt.Errorf("kind %s: %w", name, err)
	}

	return tweak.Class{Info: spec.Info, New: ctor}, nil
}
