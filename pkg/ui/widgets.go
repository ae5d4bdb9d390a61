package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Label ---

// Label displays a line (or paragraph) of static text.
type Label struct {
	base
	text  string
	style string
}

// NewLabel creates a Label.
func NewLabel(name, text string) *Label {
	return &Label{base: base{name: name}, text: text}
}

// Text returns the label text.
func (l *Label) Text() string { return l.text }

// SetText replaces the label text.
func (l *Label) SetText(s string) { l.text = s }

func (l *Label) View(width int) string {
	st := textStyle(l.style)
	if width > 0 {
		st = st.Width(width)
	}
	return st.Render(l.text)
}

// --- Text ---

// Text is a read-only multi-line text view rendered as a bordered block.
type Text struct {
	base
	text  string
	style string
}

// NewText creates a Text view.
func NewText(name, text string) *Text {
	return &Text{base: base{name: name}, text: text}
}

// Text returns the buffer contents.
func (t *Text) Text() string { return t.text }

// SetText replaces the buffer contents.
func (t *Text) SetText(s string) { t.text = s }

func (t *Text) View(width int) string {
	st := textBlockStyle
	if t.style == "error" {
		st = errorBlockStyle
	}
	if width > 2 {
		st = st.Width(width - 2)
	}
	return st.Render(strings.TrimRight(t.text, "\n"))
}

// --- Separator ---

// Separator draws a horizontal rule.
type Separator struct {
	base
}

func (s *Separator) View(width int) string {
	if width <= 0 {
		width = 1
	}
	return mutedStyle.Render(strings.Repeat("─", width))
}

// --- Toggle ---

// Toggle is a boolean switch. Space or enter flips it and emits "toggled".
type Toggle struct {
	base
	focus
	label  string
	active bool
}

// NewToggle creates a Toggle.
func NewToggle(name, label string, active bool) *Toggle {
	return &Toggle{base: base{name: name}, label: label, active: active}
}

// Active reports the toggle state.
func (t *Toggle) Active() bool { return t.active }

// SetActive sets the state without emitting a signal.
func (t *Toggle) SetActive(v bool) { t.active = v }

// Label returns the toggle caption.
func (t *Toggle) Label() string { return t.label }

func (t *Toggle) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case " ", "enter":
		t.active = !t.active
		return t.emit(SignalToggled, t)
	}
	return nil
}

func (t *Toggle) View(int) string {
	box := toggleOffStyle.Render("[ ]")
	if t.active {
		box = toggleOnStyle.Render("[x]")
	}
	label := labelStyle.Render(t.label)
	if t.focused {
		label = focusedStyle.Render(t.label)
	}
	return box + " " + label
}

// --- Entry ---

// Entry is a single-line text input. Enter emits "changed".
type Entry struct {
	base
	label string
	input textinput.Model
}

// NewEntry creates an Entry with an initial value.
func NewEntry(name, label, value string) *Entry {
	in := textinput.New()
	in.Prompt = ""
	in.SetValue(value)
	return &Entry{base: base{name: name}, label: label, input: in}
}

// Value returns the current text.
func (e *Entry) Value() string { return e.input.Value() }

// SetValue replaces the text without emitting a signal.
func (e *Entry) SetValue(s string) { e.input.SetValue(s) }

// SetPlaceholder sets the hint shown while the entry is empty.
func (e *Entry) SetPlaceholder(s string) { e.input.Placeholder = s }

func (e *Entry) Focus() tea.Cmd { return e.input.Focus() }
func (e *Entry) Blur()          { e.input.Blur() }
func (e *Entry) Focused() bool  { return e.input.Focused() }

func (e *Entry) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEnter {
		return e.emit(SignalChanged, e)
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

func (e *Entry) View(width int) string {
	label := labelStyle.Render(e.label)
	if e.Focused() {
		label = focusedStyle.Render(e.label)
	}
	if e.label == "" {
		return e.input.View()
	}
	if width > 0 {
		e.input.Width = max(width-lipgloss.Width(e.label)-3, 1)
	}
	return label + ": " + e.input.View()
}

// --- Choice ---

// Choice selects one of a fixed list of options with left/right.
// Changing the selection emits "changed".
type Choice struct {
	base
	focus
	label   string
	options []string
	index   int
}

// NewChoice creates a Choice. The first option is selected.
func NewChoice(name, label string, options []string) *Choice {
	return &Choice{base: base{name: name}, label: label, options: options}
}

// Options returns the option list.
func (c *Choice) Options() []string { return c.options }

// Selected returns the selected option, or "" when there are none.
func (c *Choice) Selected() string {
	if len(c.options) == 0 {
		return ""
	}
	return c.options[c.index]
}

// SetSelected selects the option equal to s. It reports false and leaves the
// selection unchanged when s is not an option.
func (c *Choice) SetSelected(s string) bool {
	for i, o := range c.options {
		if o == s {
			c.index = i
			return true
		}
	}
	return false
}

func (c *Choice) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if len(c.options) < 2 {
		return nil
	}
	switch msg.String() {
	case "left", "h":
		c.index = (c.index - 1 + len(c.options)) % len(c.options)
	case "right", "l", " ":
		c.index = (c.index + 1) % len(c.options)
	default:
		return nil
	}
	return c.emit(SignalChanged, c)
}

func (c *Choice) View(int) string {
	label := labelStyle.Render(c.label)
	if c.focused {
		label = focusedStyle.Render(c.label)
	}
	return label + ": " + mutedStyle.Render("‹ ") + c.Selected() + mutedStyle.Render(" ›")
}

// --- Button ---

// Button emits "clicked" on enter or space.
type Button struct {
	base
	focus
	label string
}

// NewButton creates a Button.
func NewButton(name, label string) *Button {
	return &Button{base: base{name: name}, label: label}
}

// Label returns the button caption.
func (b *Button) Label() string { return b.label }

func (b *Button) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case " ", "enter":
		return b.emit(SignalClicked, b)
	}
	return nil
}

func (b *Button) View(int) string {
	if b.focused {
		return buttonFocusedStyle.Render(b.label)
	}
	return buttonStyle.Render(b.label)
}

var (
	_ Focusable = (*Toggle)(nil)
	_ Focusable = (*Entry)(nil)
	_ Focusable = (*Choice)(nil)
	_ Focusable = (*Button)(nil)
)
