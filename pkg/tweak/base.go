package tweak

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/tweak/pkg/ui"
)

const (
	innerSpacing = 1
	innerBorder  = 1
)

// Base is the container every panel is built on: a scrolled window around
// an inner vertical box. When created with WithUI it also owns a ui.Builder
// holding the widgets of the module's UI description.
type Base struct {
	info     Info
	env      Env
	viewport viewport.Model
	inner    *ui.Box
	builder  *ui.Builder
	focus    *ui.FocusRing
	width    int
	height   int
}

type baseOptions struct {
	uiPath   string
	uiData   []byte
	handlers map[string]ui.Handler
}

// Option configures NewBase.
type Option func(*baseOptions)

// WithUI loads the UI description at rel, relative to the data directory's
// ui/ folder.
func WithUI(rel string) Option {
	return func(o *baseOptions) { o.uiPath = rel }
}

// WithUIData loads a UI description held in memory. name is used in error
// messages. It is used when WithUI is not given or its file does not exist.
func WithUIData(name string, data []byte) Option {
	return func(o *baseOptions) {
		if o.uiPath == "" {
			o.uiPath = name
		}
		o.uiData = data
	}
}

// WithHandlers binds signal handlers declared in the UI description.
func WithHandlers(h map[string]ui.Handler) Option {
	return func(o *baseOptions) { o.handlers = h }
}

// NewBase creates a Base for the module described by info.
func NewBase(info Info, env Env, opts ...Option) (*Base, error) {
	var o baseOptions
	for _, opt := range opts {
		opt(&o)
	}

	inner := ui.NewBox("inner_vbox", ui.Vertical, innerSpacing)
	inner.SetBorder(innerBorder)

	b := &Base{
		info:     info,
		env:      env,
		viewport: viewport.New(0, 0),
		inner:    inner,
		focus:    ui.NewFocusRing(inner),
	}

	if o.uiPath != "" {
		if err := b.loadUI(o); err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (b *Base) loadUI(o baseOptions) error {
	b.builder = ui.NewBuilder(ui.WithLogger(b.env.Logger()))

	path := b.env.Dir.UIPath(o.uiPath)
	err := b.builder.AddFromFile(path)
	if err != nil && o.uiData != nil {
		if errors.Is(err, os.ErrNotExist) {
			b.env.Logger().Debug("using built-in ui description", "module", b.info.Name, "path", path)
		} else {
			b.env.Logger().Warn("ignoring broken ui description", "module", b.info.Name, "path", path, "error", err)
		}
		err = b.builder.AddFromBytes(o.uiPath, o.uiData)
	}
	if err != nil {
		return fmt.Errorf("tweak: module %q: %w", b.info.Name, err)
	}

	if o.handlers != nil {
		b.builder.ConnectSignals(o.handlers)
	}
	return nil
}

// Info returns the module metadata.
func (b *Base) Info() Info { return b.info }

// Env returns the environment the panel was created with.
func (b *Base) Env() Env { return b.env }

// Builder returns the UI builder, or nil when the module has no UI file.
func (b *Base) Builder() *ui.Builder { return b.builder }

// Inner returns the inner box holding the panel's content.
func (b *Base) Inner() *ui.Box { return b.inner }

// ConnectSignals binds signal handlers declared in the UI description.
func (b *Base) ConnectSignals(h map[string]ui.Handler) {
	if b.builder != nil {
		b.builder.ConnectSignals(h)
	}
}

// Object returns a named widget from the module's UI description.
func (b *Base) Object(name string) (ui.Widget, error) {
	if b.builder == nil {
		return nil, fmt.Errorf("tweak: module %q has no ui description", b.info.Name)
	}
	w, ok := b.builder.Object(name)
	if !ok {
		return nil, fmt.Errorf("tweak: module %q: no object named %q", b.info.Name, name)
	}
	return w, nil
}

// AddStart packs w at the start of the inner box.
func (b *Base) AddStart(w ui.Widget) { b.inner.PackStart(w) }

// AddEnd packs w at the end of the inner box.
func (b *Base) AddEnd(w ui.Widget) { b.inner.PackEnd(w) }

// RemoveAllChildren empties the inner box.
func (b *Base) RemoveAllChildren() {
	b.focus.Blur()
	b.inner.Clear()
}

// Reparent moves w into the inner box, detaching it from whichever box of
// the UI description held it. Modules with a UI description call it to show
// their main container.
func (b *Base) Reparent(w ui.Widget) {
	if b.builder != nil {
		for _, root := range b.builder.Roots() {
			if box, ok := root.(*ui.Box); ok {
				detach(box, w)
			}
		}
	}
	b.inner.Remove(w)
	b.inner.PackStart(w)
}

func detach(box *ui.Box, w ui.Widget) bool {
	if box.Remove(w) {
		return true
	}
	for _, c := range box.Children() {
		if sub, ok := c.(*ui.Box); ok && detach(sub, w) {
			return true
		}
	}
	return false
}

// Init focuses the first interactive widget.
func (b *Base) Init() tea.Cmd {
	return b.focus.First()
}

// Update routes keys to the focused widget and scrolls with the rest.
func (b *Base) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		default:
			if cmd, consumed := b.focus.HandleKey(km); consumed {
				return cmd
			}
		}
	}
	var cmd tea.Cmd
	b.viewport, cmd = b.viewport.Update(msg)
	return cmd
}

// SetSize sets the visible area of the scrolled window.
func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
	b.viewport.Width = width
	b.viewport.Height = height
}

// View renders the inner box through the scrolled window.
func (b *Base) View() string {
	content := b.inner.View(b.width)
	if b.height <= 0 {
		return content
	}
	b.viewport.SetContent(content)
	return b.viewport.View()
}

var _ Panel = (*Base)(nil)
