package ui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Orientation of a Box.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// Box lays out children in a row or column. Children packed at the start
// keep insertion order; children packed at the end stack up from the far
// edge, so the last one packed sits closest to the start group.
type Box struct {
	base
	orientation Orientation
	spacing     int
	border      int
	start       []Widget
	end         []Widget
}

// NewBox creates an empty Box.
func NewBox(name string, o Orientation, spacing int) *Box {
	return &Box{base: base{name: name}, orientation: o, spacing: spacing}
}

// SetBorder sets the padding drawn around the children.
func (b *Box) SetBorder(n int) { b.border = n }

// PackStart appends w to the start group.
func (b *Box) PackStart(w Widget) { b.start = append(b.start, w) }

// PackEnd appends w to the end group.
func (b *Box) PackEnd(w Widget) { b.end = append(b.end, w) }

// Children returns the children in display order.
func (b *Box) Children() []Widget {
	out := make([]Widget, 0, len(b.start)+len(b.end))
	out = append(out, b.start...)
	for i := len(b.end) - 1; i >= 0; i-- {
		out = append(out, b.end[i])
	}
	return out
}

// Remove detaches w from the box. It reports whether w was a child.
func (b *Box) Remove(w Widget) bool {
	if i := slices.Index(b.start, w); i >= 0 {
		b.start = slices.Delete(b.start, i, i+1)
		return true
	}
	if i := slices.Index(b.end, w); i >= 0 {
		b.end = slices.Delete(b.end, i, i+1)
		return true
	}
	return false
}

// Clear removes every child.
func (b *Box) Clear() {
	b.start = nil
	b.end = nil
}

// Focusables returns every focusable widget below b, depth first.
func (b *Box) Focusables() []Focusable {
	var out []Focusable
	for _, c := range b.Children() {
		switch w := c.(type) {
		case Focusable:
			out = append(out, w)
		case *Box:
			out = append(out, w.Focusables()...)
		}
	}
	return out
}

func (b *Box) View(width int) string {
	children := b.Children()
	if len(children) == 0 {
		return ""
	}

	inner := width - 2*b.border
	if width <= 0 || inner < 1 {
		inner = width
	}

	var out string
	if b.orientation == Horizontal {
		out = b.viewRow(children, inner)
	} else {
		out = b.viewColumn(children, inner)
	}

	if b.border > 0 {
		out = lipgloss.NewStyle().Padding(0, b.border).Render(out)
	}
	return out
}

func (b *Box) viewColumn(children []Widget, width int) string {
	sep := "\n" + strings.Repeat("\n", b.spacing)
	parts := make([]string, 0, len(children))
	for _, c := range children {
		parts = append(parts, c.View(width))
	}
	return strings.Join(parts, sep)
}

func (b *Box) viewRow(children []Widget, width int) string {
	gap := strings.Repeat(" ", max(b.spacing, 1))
	cell := 0
	if width > 0 {
		cell = max((width-len(gap)*(len(children)-1))/len(children), 1)
	}
	parts := make([]string, 0, 2*len(children)-1)
	for i, c := range children {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, c.View(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// FocusRing tracks which focusable widget below a root box has focus.
// The widget list is recomputed on every move so children may be added or
// removed between calls.
type FocusRing struct {
	root  *Box
	index int
}

// NewFocusRing creates a ring over root. Nothing is focused until First or
// Next is called.
func NewFocusRing(root *Box) *FocusRing {
	return &FocusRing{root: root, index: -1}
}

// Current returns the focused widget, or nil.
func (r *FocusRing) Current() Focusable {
	items := r.root.Focusables()
	if r.index < 0 || r.index >= len(items) {
		return nil
	}
	return items[r.index]
}

// First focuses the first focusable widget.
func (r *FocusRing) First() tea.Cmd {
	r.index = -1
	return r.move(1)
}

// Next moves focus forward, wrapping around.
func (r *FocusRing) Next() tea.Cmd { return r.move(1) }

// Prev moves focus backward, wrapping around.
func (r *FocusRing) Prev() tea.Cmd { return r.move(-1) }

// Blur removes focus from the current widget.
func (r *FocusRing) Blur() {
	if cur := r.Current(); cur != nil {
		cur.Blur()
	}
	r.index = -1
}

func (r *FocusRing) move(step int) tea.Cmd {
	items := r.root.Focusables()
	if cur := r.Current(); cur != nil {
		cur.Blur()
	}
	if len(items) == 0 {
		r.index = -1
		return nil
	}
	switch {
	case r.index < 0 && step > 0:
		r.index = 0
	case r.index < 0:
		r.index = len(items) - 1
	default:
		r.index = (r.index + step + len(items)) % len(items)
	}
	return items[r.index].Focus()
}

// HandleKey cycles focus on tab/shift+tab and forwards any other key to the
// focused widget. It reports whether the key was consumed.
func (r *FocusRing) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		return r.Next(), true
	case "shift+tab":
		return r.Prev(), true
	}
	cur := r.Current()
	if cur == nil {
		return nil, false
	}
	return cur.HandleKey(msg), true
}
