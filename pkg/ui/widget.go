// Package ui builds terminal widget trees from declarative YAML descriptions.
// A description lists objects (boxes, labels, toggles, entries and so on);
// named objects can be looked up after loading and their signals bound to
// handlers by name.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Signal names emitted by interactive widgets.
const (
	SignalToggled = "toggled"
	SignalChanged = "changed"
	SignalClicked = "clicked"
)

// Widget is a node in a widget tree.
type Widget interface {
	Name() string
	View(width int) string
}

// Focusable is a widget that receives key input while focused.
type Focusable interface {
	Widget
	Focus() tea.Cmd
	Blur()
	Focused() bool
	HandleKey(msg tea.KeyMsg) tea.Cmd
}

// Handler reacts to a signal emitted by w.
type Handler func(w Widget) tea.Cmd

// Signaler is implemented by widgets that can emit signals.
type Signaler interface {
	// Connect binds h to the named signal, replacing any previous handler.
	Connect(signal string, h Handler)
	// Wiring returns the signal -> handler name bindings declared in the
	// description the widget was built from.
	Wiring() map[string]string
}

type base struct {
	name     string
	wiring   map[string]string
	handlers map[string]Handler
}

func (b *base) Name() string { return b.name }

func (b *base) Connect(signal string, h Handler) {
	if b.handlers == nil {
		b.handlers = make(map[string]Handler)
	}
	b.handlers[signal] = h
}

func (b *base) Wiring() map[string]string { return b.wiring }

func (b *base) emit(signal string, w Widget) tea.Cmd {
	h, ok := b.handlers[signal]
	if !ok || h == nil {
		return nil
	}
	return h(w)
}

// focus holds focus state shared by interactive widgets.
type focus struct {
	focused bool
}

func (f *focus) Focus() tea.Cmd { f.focused = true; return nil }
func (f *focus) Blur()          { f.focused = false }
func (f *focus) Focused() bool  { return f.focused }
