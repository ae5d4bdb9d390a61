// Package autostart is the Startup module listing the applications started
// at login. Disabling one sets Hidden=true in its autostart .desktop entry.
package autostart

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/tweak/pkg/settings"
	"github.com/germanamz/tweak/pkg/tweak"
	"github.com/germanamz/tweak/pkg/ui"
)

const (
	entrySection = "Desktop Entry"
	keyName      = entrySection + "/Name"
	keyComment   = entrySection + "/Comment"
	keyHidden    = entrySection + "/Hidden"
)

// Info describes the module.
var Info = tweak.Info{
	Name:        "Autostart",
	Title:       "Session Applications",
	Icon:        tweak.IconNames{"session-properties", "system-run"},
	Description: "Choose the applications started when you log in.",
	Category:    tweak.CategoryStartup,
}

// Source declares the module.
func Source() ([]tweak.Class, error) {
	return []tweak.Class{{
		Info: Info,
		New: func(env tweak.Env) (tweak.Panel, error) {
			return New(env, DefaultDir())
		},
	}}, nil
}

// DefaultDir returns the user autostart directory.
func DefaultDir() string {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "autostart")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "autostart")
	}
	return filepath.Join(".config", "autostart")
}

// Entry is one autostart .desktop file.
type Entry struct {
	Path    string
	Name    string
	Comment string
	Hidden  bool
}

// Scan reads the .desktop entries in dir sorted by name. A missing
// directory has no entries.
func Scan(ctx context.Context, reg *settings.Registry, dir string) ([]Entry, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.desktop"))
	if err != nil {
		return nil, fmt.Errorf("autostart: scan %q: %w", dir, err)
	}

	entries := make([]Entry, 0, len(files))
	var errs []error
	for _, path := range files {
		e, err := readEntry(ctx, reg, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, errors.Join(errs...)
}

func readEntry(ctx context.Context, reg *settings.Registry, path string) (Entry, error) {
	store, err := reg.Lookup("keyfile:" + path)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{Path: path}
	if e.Name, err = store.Get(ctx, keyName); err != nil {
		if !errors.Is(err, settings.ErrNotFound) {
			return Entry{}, fmt.Errorf("autostart: %w", err)
		}
		e.Name = strings.TrimSuffix(filepath.Base(path), ".desktop")
	}
	e.Comment, _ = store.Get(ctx, keyComment)
	if v, err := store.Get(ctx, keyHidden); err == nil {
		e.Hidden, _ = strconv.ParseBool(v)
	}
	return e, nil
}

// Panel shows one toggle per autostart entry.
type Panel struct {
	*tweak.Base
	dir     string
	entries []Entry
	list    *ui.Box
	diff    *ui.Text
	status  *ui.Label
}

type entriesMsg struct {
	module  string
	entries []Entry
	err     error
}

func (m entriesMsg) Addressee() string { return m.module }

type hiddenSetMsg struct {
	module string
	entry  Entry
	diff   string
	err    error
}

func (m hiddenSetMsg) Addressee() string { return m.module }

// New creates the panel for the entries in dir.
func New(env tweak.Env, dir string) (*Panel, error) {
	if env.Settings == nil {
		return nil, errors.New("autostart: no settings stores")
	}

	base, err := tweak.NewBase(Info, env)
	if err != nil {
		return nil, err
	}

	p := &Panel{
		Base:   base,
		dir:    dir,
		list:   ui.NewBox("autostart_list", ui.Vertical, 0),
		diff:   ui.NewText("diff_view", ""),
		status: ui.NewLabel("status_label", ""),
	}

	p.AddStart(ui.NewLabel("heading_label", "Applications started at login from "+dir))
	p.AddStart(p.list)
	p.AddEnd(p.diff)
	p.AddEnd(p.status)

	return p, nil
}

// Entries returns the entries currently shown.
func (p *Panel) Entries() []Entry { return p.entries }

// Init scans the autostart directory.
func (p *Panel) Init() tea.Cmd {
	return p.scan()
}

func (p *Panel) scan() tea.Cmd {
	module := p.Info().Name
	reg := p.Env().Settings
	dir := p.dir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entries, err := Scan(ctx, reg, dir)
		return entriesMsg{module: module, entries: entries, err: err}
	}
}

func (p *Panel) setHidden(e Entry, hidden bool) tea.Cmd {
	module := p.Info().Name
	reg := p.Env().Settings
	value := strconv.FormatBool(hidden)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		msg := hiddenSetMsg{module: module, entry: e}
		store, err := reg.Lookup("keyfile:" + e.Path)
		if err != nil {
			msg.err = err
			return msg
		}
		if pv, ok := store.(settings.Previewer); ok {
			if msg.diff, err = pv.Preview(keyHidden, value); err != nil {
				msg.err = err
				return msg
			}
		}
		msg.err = store.Set(ctx, keyHidden, value)
		msg.entry.Hidden = hidden
		return msg
	}
}

// Update shows scanned entries and write results, and rescans on refresh.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case entriesMsg:
		if msg.err != nil {
			p.Env().Logger().Warn("scan autostart", "module", msg.module, "path", p.dir, "error", msg.err)
			p.status.SetText("Some entries could not be read")
		}
		return p.showEntries(msg.entries)
	case hiddenSetMsg:
		if msg.err != nil {
			p.Env().Logger().Error("set hidden", "module", msg.module, "path", msg.entry.Path, "error", msg.err)
			p.status.SetText("Could not update " + msg.entry.Name + ": " + msg.err.Error())
			return p.scan()
		}
		p.diff.SetText(msg.diff)
		state := "enabled"
		if msg.entry.Hidden {
			state = "disabled"
		}
		p.status.SetText(msg.entry.Name + " " + state)
		return p.EmitUpdate(msg.entry.Path)
	case tweak.UpdateMsg:
		return p.scan()
	}
	return p.Base.Update(msg)
}

// showEntries updates the toggles in place when the entry files are
// unchanged and rebuilds the list otherwise.
func (p *Panel) showEntries(entries []Entry) tea.Cmd {
	if samePaths(p.entries, entries) {
		for i, w := range p.list.Children() {
			w.(*ui.Toggle).SetActive(!entries[i].Hidden)
		}
		p.entries = entries
		return nil
	}

	p.entries = entries
	p.list.Clear()
	for i, e := range entries {
		label := e.Name
		if e.Comment != "" {
			label += " - " + e.Comment
		}
		t := ui.NewToggle(fmt.Sprintf("entry_%d", i), label, !e.Hidden)
		t.Connect(ui.SignalToggled, func(w ui.Widget) tea.Cmd {
			return p.setHidden(e, !w.(*ui.Toggle).Active())
		})
		p.list.PackStart(t)
	}
	if len(entries) == 0 {
		p.list.PackStart(ui.NewLabel("empty_label", "No applications start at login."))
	}

	return p.Base.Init()
}

func samePaths(a, b []Entry) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for i := range a {
		if a[i].Path != b[i].Path {
			return false
		}
	}
	return true
}

var _ tweak.Panel = (*Panel)(nil)
