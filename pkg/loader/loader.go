// Package loader discovers tweak modules and catalogs them by name and by
// category. Plugins come from compiled-in sources and from manifest files in
// a modules directory; a plugin that fails to load is replaced by a broken
// module so the failure is visible in the running application.
package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/germanamz/tweak/pkg/manifest"
	"github.com/germanamz/tweak/pkg/tweak"
	"github.com/germanamz/tweak/pkg/tweakdir"
)

// ErrModuleNotFound is returned by Module for unregistered names.
var ErrModuleNotFound = errors.New("module not found")

// Loader holds the module table and the category table.
type Loader struct {
	mu         sync.RWMutex
	log        *slog.Logger
	kinds      *manifest.Kinds
	disabled   map[string]struct{}
	modules    map[string]tweak.Class
	origins    map[string]string
	categories map[tweak.Category]map[string]tweak.Class
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) { ld.log = l }
}

// WithKinds sets the manifest kinds used to build classes from plugin files.
func WithKinds(k *manifest.Kinds) Option {
	return func(ld *Loader) { ld.kinds = k }
}

// WithDisabled treats the named modules as inactive.
func WithDisabled(names ...string) Option {
	return func(ld *Loader) {
		for _, n := range names {
			ld.disabled[n] = struct{}{}
		}
	}
}

// New creates a Loader with an empty table for every category.
func New(opts ...Option) *Loader {
	l := &Loader{
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		disabled:   make(map[string]struct{}),
		modules:    make(map[string]tweak.Class),
		origins:    make(map[string]string),
		categories: make(map[tweak.Category]map[string]tweak.Class),
	}
	for _, c := range tweak.Categories() {
		l.categories[c.Tag] = make(map[string]tweak.Class)
	}
	for _, o := range opts {
		o(l)
	}
	if l.kinds == nil {
		l.kinds = manifest.NewKinds()
	}
	return l
}

// Load loads path as a plugin directory if it is one, or as a single plugin
// file otherwise.
func (l *Loader) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	if info.IsDir() {
		return l.LoadDir(path)
	}
	return l.LoadFile(path)
}

// LoadDir loads every manifest in dir. A manifest that fails to load is
// registered as a broken module and loading continues; only failing to read
// the directory itself is an error.
func (l *Loader) LoadDir(dir string) error {
	files, err := tweakdir.ManifestFiles(dir)
	if err != nil {
		return fmt.Errorf("loader: load dir %q: %w", dir, err)
	}

	for _, path := range files {
		l.LoadSource(originOf(path), l.fileSource(path))
	}

	return nil
}

// LoadFile loads a single manifest. Unlike LoadDir, failures are returned
// rather than turned into broken modules.
func (l *Loader) LoadFile(path string) error {
	classes, err := run(l.fileSource(path))
	if err == nil {
		err = l.insertAll(originOf(path), classes)
	}
	if err != nil {
		return fmt.Errorf("loader: load %q: %w", path, err)
	}
	return nil
}

// LoadSource runs a plugin source and registers the classes it yields. If
// the source errors, panics or yields an invalid class, nothing it declared
// is registered; a broken module named after origin is registered instead.
// It reports whether the plugin loaded.
func (l *Loader) LoadSource(origin string, src tweak.Source) bool {
	l.log.Debug("loading module", "origin", origin)

	classes, err := run(src)
	if err == nil {
		err = l.insertAll(origin, classes)
	}
	if err == nil {
		return true
	}

	l.log.Error("module import error", "origin", origin, "error", err)

	l.mu.Lock()
	broken := tweak.NewBrokenNamed(l.freeName(tweak.BrokenName(origin)), origin, err)
	l.modules[broken.Name] = broken
	l.origins[broken.Name] = origin
	l.categories[tweak.CategoryBroken][broken.Name] = broken
	l.mu.Unlock()

	return false
}

// freeName returns name, or name followed by the first number that makes it
// unregistered. l.mu must be held.
func (l *Loader) freeName(name string) string {
	candidate := name
	for i := 2; ; i++ {
		if _, taken := l.modules[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s%d", name, i)
	}
}

func (l *Loader) fileSource(path string) tweak.Source {
	return func() ([]tweak.Class, error) {
		m, err := manifest.ParseFile(path)
		if err != nil {
			return nil, err
		}
		return m.Classes(l.kinds)
	}
}

// run calls src, converting a panic into an error.
func run(src tweak.Source) (classes []tweak.Class, err error) {
	defer func() {
		if r := recover(); r != nil {
			classes = nil
			err = fmt.Errorf("plugin panicked: %v", r)
		}
	}()

	return src()
}

func originOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// insertAll validates every class before inserting any of them.
func (l *Loader) insertAll(origin string, classes []tweak.Class) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if err := l.check(c); err != nil {
			return err
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("loader: module %q declared twice", c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	for _, c := range classes {
		l.insert(origin, c)
	}
	return nil
}

// Insert registers a single class under origin. Inactive or disabled classes
// are skipped without error.
func (l *Loader) Insert(origin string, c tweak.Class) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.check(c); err != nil {
		return err
	}
	l.insert(origin, c)
	return nil
}

func (l *Loader) check(c tweak.Class) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if prev, dup := l.origins[c.Name]; dup && l.active(c) {
		return fmt.Errorf("loader: module %q already registered by %s", c.Name, prev)
	}
	return nil
}

func (l *Loader) active(c tweak.Class) bool {
	if c.Inactive {
		return false
	}
	_, off := l.disabled[c.Name]
	return !off
}

func (l *Loader) insert(origin string, c tweak.Class) {
	if !l.active(c) {
		l.log.Debug("skipping inactive module", "module", c.Name, "origin", origin)
		return
	}
	l.modules[c.Name] = c
	l.origins[c.Name] = origin
	l.categories[c.Category][c.Name] = c
}

// Categories returns the fixed ordered category list.
func (l *Loader) Categories() []tweak.CategoryInfo {
	return tweak.Categories()
}

// ModulesByCategory returns the classes filed under cat sorted by title.
func (l *Loader) ModulesByCategory(cat tweak.Category) ([]tweak.Class, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	table, ok := l.categories[cat]
	if !ok {
		return nil, fmt.Errorf("loader: %w %q", tweak.ErrUnknownCategory, cat)
	}

	classes := make([]tweak.Class, 0, len(table))
	for _, c := range table {
		classes = append(classes, c)
	}
	sortByTitle(classes)

	return classes, nil
}

// Modules returns every registered class sorted by title.
func (l *Loader) Modules() []tweak.Class {
	l.mu.RLock()
	defer l.mu.RUnlock()

	classes := make([]tweak.Class, 0, len(l.modules))
	for _, c := range l.modules {
		classes = append(classes, c)
	}
	sortByTitle(classes)

	return classes
}

// Module returns the class registered under name.
func (l *Loader) Module(name string) (tweak.Class, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, ok := l.modules[name]
	if !ok {
		return tweak.Class{}, fmt.Errorf("loader: %w: %s", ErrModuleNotFound, name)
	}
	return c, nil
}

// Origin returns the plugin that declared the named module.
func (l *Loader) Origin(name string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	o, ok := l.origins[name]
	return o, ok
}

func sortByTitle(classes []tweak.Class) {
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].Title != classes[j].Title {
			return classes[i].Title < classes[j].Title
		}
		return classes[i].Name < classes[j].Name
	})
}
