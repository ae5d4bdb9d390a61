package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ws []Widget) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Name())
	}
	return out
}

func TestBoxPackOrder(t *testing.T) {
	b := NewBox("root", Vertical, 0)
	b.PackStart(NewLabel("a", "A"))
	b.PackEnd(NewLabel("z", "Z"))
	b.PackStart(NewLabel("b", "B"))
	b.PackEnd(NewLabel("y", "Y"))

	assert.Equal(t, []string{"a", "b", "y", "z"}, names(b.Children()))
}

func TestBoxRemoveAndClear(t *testing.T) {
	b := NewBox("root", Vertical, 0)
	a := NewLabel("a", "A")
	z := NewLabel("z", "Z")
	b.PackStart(a)
	b.PackEnd(z)

	assert.True(t, b.Remove(z))
	assert.False(t, b.Remove(z))
	assert.Equal(t, []string{"a"}, names(b.Children()))

	b.Clear()
	assert.Empty(t, b.Children())
	assert.Empty(t, b.View(40))
}

func TestBoxViewColumn(t *testing.T) {
	b := NewBox("root", Vertical, 1)
	b.PackStart(NewLabel("a", "first"))
	b.PackStart(NewLabel("b", "second"))

	view := b.View(0)

	assert.Equal(t, "first\n\nsecond", view)
}

func TestBoxFocusables(t *testing.T) {
	inner := NewBox("inner", Horizontal, 1)
	inner.PackStart(NewButton("ok", "OK"))
	root := NewBox("root", Vertical, 0)
	root.PackStart(NewLabel("l", "text"))
	root.PackStart(NewToggle("t", "Toggle", false))
	root.PackStart(inner)

	fs := root.Focusables()

	require.Len(t, fs, 2)
	assert.Equal(t, "t", fs[0].Name())
	assert.Equal(t, "ok", fs[1].Name())
}

func TestFocusRingCycles(t *testing.T) {
	root := NewBox("root", Vertical, 0)
	t1 := NewToggle("t1", "One", false)
	t2 := NewToggle("t2", "Two", false)
	root.PackStart(t1)
	root.PackStart(t2)

	ring := NewFocusRing(root)
	assert.Nil(t, ring.Current())

	ring.First()
	assert.Equal(t, "t1", ring.Current().Name())
	assert.True(t, t1.Focused())

	_, consumed := ring.HandleKey(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, consumed)
	assert.Equal(t, "t2", ring.Current().Name())
	assert.False(t, t1.Focused())

	ring.Next()
	assert.Equal(t, "t1", ring.Current().Name())

	ring.Prev()
	assert.Equal(t, "t2", ring.Current().Name())

	_, consumed = ring.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, consumed)
	assert.True(t, t2.Active())

	ring.Blur()
	assert.Nil(t, ring.Current())
	assert.False(t, t2.Focused())
}

func TestFocusRingEmpty(t *testing.T) {
	ring := NewFocusRing(NewBox("root", Vertical, 0))

	assert.Nil(t, ring.First())
	_, consumed := ring.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, consumed)
}

func TestChoiceCycles(t *testing.T) {
	c := NewChoice("theme", "Theme", []string{"light", "dark", "auto"})
	var got []string
	c.Connect(SignalChanged, func(w Widget) tea.Cmd {
		got = append(got, w.(*Choice).Selected())
		return nil
	})

	c.HandleKey(tea.KeyMsg{Type: tea.KeyRight})
	c.HandleKey(tea.KeyMsg{Type: tea.KeyRight})
	c.HandleKey(tea.KeyMsg{Type: tea.KeyRight})
	c.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})

	assert.Equal(t, []string{"dark", "auto", "light", "auto"}, got)
	assert.False(t, c.SetSelected("sepia"))
	assert.Equal(t, "auto", c.Selected())
}

func TestEntryEmitsOnEnter(t *testing.T) {
	e := NewEntry("font", "Font", "Sans 10")
	var got string
	e.Connect(SignalChanged, func(w Widget) tea.Cmd {
		got = w.(*Entry).Value()
		return nil
	})
	e.Focus()

	e.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	e.HandleKey(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "Sans 10!", got)
}
