package autostart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/tweak/pkg/settings"
	"github.com/germanamz/tweak/pkg/tweak"
	"github.com/germanamz/tweak/pkg/tweakdir"
	"github.com/germanamz/tweak/pkg/ui"
)

func writeEntry(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func autostartDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeEntry(t, dir, "tracker.desktop", "[Desktop Entry]\nType=Application\nName=Tracker\nComment=File indexer\n")
	writeEntry(t, dir, "blueman.desktop", "[Desktop Entry]\nName=Blueman Applet\nHidden=true\n")
	writeEntry(t, dir, "nameless.desktop", "[Desktop Entry]\nExec=true\n")
	writeEntry(t, dir, "README", "not an entry")
	return dir
}

func TestScan(t *testing.T) {
	dir := autostartDir(t)

	entries, err := Scan(context.Background(), settings.NewRegistry(), dir)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Blueman Applet", entries[0].Name)
	assert.True(t, entries[0].Hidden)
	assert.Equal(t, "nameless", entries[1].Name)
	assert.Equal(t, "Tracker", entries[2].Name)
	assert.Equal(t, "File indexer", entries[2].Comment)
	assert.False(t, entries[2].Hidden)
}

func TestScanMissingDir(t *testing.T) {
	entries, err := Scan(context.Background(), settings.NewRegistry(), filepath.Join(t.TempDir(), "absent"))

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")

	assert.Equal(t, "/tmp/cfg/autostart", DefaultDir())
}

func TestSource(t *testing.T) {
	classes, err := Source()

	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.NoError(t, classes[0].Validate())
	assert.Equal(t, tweak.CategoryStartup, classes[0].Category)
}

func TestNewRequiresSettings(t *testing.T) {
	_, err := New(tweak.Env{}, t.TempDir())

	require.Error(t, err)
}

func newPanel(t *testing.T, dir string, reg *settings.Registry) *Panel {
	t.Helper()
	p, err := New(tweak.Env{Dir: tweakdir.New(t.TempDir()), Settings: reg}, dir)
	require.NoError(t, err)
	p.Update(p.Init()())
	return p
}

func TestPanelListsEntries(t *testing.T) {
	p := newPanel(t, autostartDir(t), settings.NewRegistry())

	require.Len(t, p.Entries(), 3)
	children := p.list.Children()
	require.Len(t, children, 3)
	assert.False(t, children[0].(*ui.Toggle).Active())
	assert.True(t, children[2].(*ui.Toggle).Active())
	assert.Contains(t, p.View(), "Tracker - File indexer")
}

func TestPanelEmptyDir(t *testing.T) {
	p := newPanel(t, t.TempDir(), settings.NewRegistry())

	assert.Empty(t, p.Entries())
	assert.Contains(t, p.View(), "No applications start at login.")
}

func TestPanelDisableEntry(t *testing.T) {
	dir := autostartDir(t)
	p := newPanel(t, dir, settings.NewRegistry())

	// Blueman (hidden) is focused first; move to nameless, then Tracker.
	p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p.Update(tea.KeyMsg{Type: tea.KeyTab})
	cmd := p.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)

	set := cmd()
	require.IsType(t, hiddenSetMsg{}, set)
	update := p.Update(set)
	require.NotNil(t, update)
	assert.Equal(t, "Tracker disabled", p.status.Text())
	assert.Contains(t, p.diff.Text(), "+Hidden=true")

	data, err := os.ReadFile(filepath.Join(dir, "tracker.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hidden=true\n")

	upd, ok := update().(tweak.UpdateMsg)
	require.True(t, ok)
	assert.Equal(t, "Autostart", upd.Addressee())
	rescan := p.Update(upd)
	require.NotNil(t, rescan)
	p.Update(rescan())
	assert.True(t, p.Entries()[2].Hidden)
	assert.False(t, p.list.Children()[2].(*ui.Toggle).Active())
}

func TestPanelDryRunLeavesFilesAlone(t *testing.T) {
	dir := autostartDir(t)
	reg := settings.NewRegistry()
	reg.SetDryRun(true)
	p := newPanel(t, dir, reg)

	// Blueman is focused first; enabling it clears Hidden.
	cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	p.Update(cmd())

	assert.Equal(t, "Blueman Applet enabled", p.status.Text())
	assert.Contains(t, p.diff.Text(), "+Hidden=false")
	data, err := os.ReadFile(filepath.Join(dir, "blueman.desktop"))
	require.NoError(t, err)
	assert.Equal(t, "[Desktop Entry]\nName=Blueman Applet\nHidden=true\n", string(data))

	p.Update(p.scan()())
	assert.False(t, p.Entries()[0].Hidden)
}
