package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// objectSpec is one object in a UI description file.
type objectSpec struct {
	Type        string            `yaml:"type"`
	Name        string            `yaml:"name"`
	Text        string            `yaml:"text"`
	Label       string            `yaml:"label"`
	Style       string            `yaml:"style"`
	Value       string            `yaml:"value"`
	Placeholder string            `yaml:"placeholder"`
	Active      bool              `yaml:"active"`
	Options     []string          `yaml:"options"`
	Orientation string            `yaml:"orientation"`
	Spacing     int               `yaml:"spacing"`
	Border      int               `yaml:"border"`
	Signals     map[string]string `yaml:"signals"`
	Children    []objectSpec      `yaml:"children"`
}

type document struct {
	Objects []objectSpec `yaml:"objects"`
}

// signalsByType lists the signals each widget type can emit.
var signalsByType = map[string][]string{
	"toggle": {SignalToggled},
	"entry":  {SignalChanged},
	"choice": {SignalChanged},
	"button": {SignalClicked},
}

// Builder loads UI descriptions and indexes the named objects they declare.
// Several descriptions may be added to one builder; names must stay unique
// across all of them.
type Builder struct {
	log     *slog.Logger
	roots   []Widget
	objects []Widget
	byName  map[string]Widget
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for signal wiring warnings.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.log = l }
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		byName: make(map[string]Widget),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// AddFromFile parses the description at path and adds its objects.
func (b *Builder) AddFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the data directory
	if err != nil {
		return fmt.Errorf("ui: load %q: %w", path, err)
	}
	return b.AddFromBytes(path, data)
}

// AddFromBytes parses a description held in memory. source names it in
// error messages. Nothing is added when the description is invalid.
func (b *Builder) AddFromBytes(source string, data []byte) error {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("ui: parse %q: %w", source, err)
	}
	if len(doc.Objects) == 0 {
		return fmt.Errorf("ui: parse %q: no objects", source)
	}

	staged := &Builder{log: b.log, byName: make(map[string]Widget, len(b.byName))}
	for k, v := range b.byName {
		staged.byName[k] = v
	}

	roots := make([]Widget, 0, len(doc.Objects))
	for _, spec := range doc.Objects {
		w, err := staged.build(spec)
		if err != nil {
			return fmt.Errorf("ui: %s: %w", source, err)
		}
		roots = append(roots, w)
	}

	b.roots = append(b.roots, roots...)
	b.objects = append(b.objects, staged.objects...)
	b.byName = staged.byName

	return nil
}

func (b *Builder) build(spec objectSpec) (Widget, error) {
	if err := checkSignals(spec); err != nil {
		return nil, err
	}

	var w Widget
	switch spec.Type {
	case "box":
		o := Vertical
		switch spec.Orientation {
		case "", "vertical":
		case "horizontal":
			o = Horizontal
		default:
			return nil, fmt.Errorf("box %q: unknown orientation %q", spec.Name, spec.Orientation)
		}
		box := NewBox(spec.Name, o, spec.Spacing)
		box.SetBorder(spec.Border)
		for _, cs := range spec.Children {
			child, err := b.build(cs)
			if err != nil {
				return nil, err
			}
			box.PackStart(child)
		}
		w = box
	case "label":
		l := NewLabel(spec.Name, spec.Text)
		l.style = spec.Style
		w = l
	case "text":
		t := NewText(spec.Name, spec.Text)
		t.style = spec.Style
		w = t
	case "separator":
		w = &Separator{base: base{name: spec.Name}}
	case "toggle":
		w = NewToggle(spec.Name, spec.Label, spec.Active)
	case "entry":
		e := NewEntry(spec.Name, spec.Label, spec.Value)
		e.SetPlaceholder(spec.Placeholder)
		w = e
	case "choice":
		c := NewChoice(spec.Name, spec.Label, spec.Options)
		if spec.Value != "" && !c.SetSelected(spec.Value) {
			return nil, fmt.Errorf("choice %q: value %q is not an option", spec.Name, spec.Value)
		}
		w = c
	case "button":
		w = NewButton(spec.Name, spec.Label)
	default:
		return nil, fmt.Errorf("object %q: unknown type %q", spec.Name, spec.Type)
	}

	if spec.Children != nil && spec.Type != "box" {
		return nil, fmt.Errorf("object %q: %s cannot have children", spec.Name, spec.Type)
	}

	if _, interactive := w.(Focusable); interactive && spec.Name == "" {
		return nil, fmt.Errorf("%s without a name", spec.Type)
	}

	if s, ok := w.(interface{ setWiring(map[string]string) }); ok {
		s.setWiring(spec.Signals)
	}

	if spec.Name != "" {
		if _, dup := b.byName[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate object name %q", spec.Name)
		}
		b.byName[spec.Name] = w
		b.objects = append(b.objects, w)
	}

	return w, nil
}

func checkSignals(spec objectSpec) error {
	allowed := signalsByType[spec.Type]
	for sig := range spec.Signals {
		ok := false
		for _, a := range allowed {
			if a == sig {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("object %q: %s has no signal %q", spec.Name, spec.Type, sig)
		}
	}
	return nil
}

func (b *base) setWiring(m map[string]string) { b.wiring = m }

// Roots returns the top-level objects of every added description.
func (b *Builder) Roots() []Widget { return b.roots }

// Objects returns every named object in declaration order.
func (b *Builder) Objects() []Widget { return b.objects }

// Object returns the named object.
func (b *Builder) Object(name string) (Widget, bool) {
	w, ok := b.byName[name]
	return w, ok
}

// ConnectSignals binds declared signal handlers by name. Handler names that
// are missing from handlers are logged and left unbound.
func (b *Builder) ConnectSignals(handlers map[string]Handler) {
	for _, w := range b.objects {
		s, ok := w.(Signaler)
		if !ok {
			continue
		}
		wiring := s.Wiring()
		signals := make([]string, 0, len(wiring))
		for sig := range wiring {
			signals = append(signals, sig)
		}
		sort.Strings(signals)

		for _, sig := range signals {
			name := wiring[sig]
			h, ok := handlers[name]
			if !ok {
				b.log.Warn("ui: no handler for signal", "object", w.Name(), "signal", sig, "handler", name)
				continue
			}
			s.Connect(sig, h)
		}
	}
}

// Lookup returns the named object as a T. It fails when the name is unknown
// or the object has a different type.
func Lookup[T Widget](b *Builder, name string) (T, error) {
	var zero T
	w, ok := b.Object(name)
	if !ok {
		return zero, fmt.Errorf("ui: no object named %q", name)
	}
	t, ok := w.(T)
	if !ok {
		return zero, fmt.Errorf("ui: object %q is %T", name, w)
	}
	return t, nil
}
