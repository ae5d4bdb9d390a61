package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/tweak/pkg/config"
	"github.com/germanamz/tweak/pkg/loader"
	"github.com/germanamz/tweak/pkg/manifest"
	"github.com/germanamz/tweak/pkg/settings"
	"github.com/germanamz/tweak/pkg/tweak"
	"github.com/germanamz/tweak/pkg/tweakdir"
)

// echoPanel records the messages it receives and accepts calls.
type echoPanel struct {
	*tweak.Base
	got   []tea.Msg
	calls []string
}

func (p *echoPanel) Update(msg tea.Msg) tea.Cmd {
	p.got = append(p.got, msg)
	return nil
}

func (p *echoPanel) HandleCall(method string, _ any) tea.Cmd {
	p.calls = append(p.calls, method)
	return nil
}

func echoClass(name, title string, cat tweak.Category) tweak.Class {
	info := tweak.Info{Name: name, Title: title, Category: cat, Description: "About " + title}
	return tweak.Class{
		Info: info,
		New: func(env tweak.Env) (tweak.Panel, error) {
			b, err := tweak.NewBase(info, env)
			if err != nil {
				return nil, err
			}
			return &echoPanel{Base: b}, nil
		},
	}
}

func failingClass(name string) tweak.Class {
	return tweak.Class{
		Info: tweak.Info{Name: name, Title: name, Category: tweak.CategoryDesktop},
		New: func(tweak.Env) (tweak.Panel, error) {
			return nil, errors.New("compiz is not running")
		},
	}
}

func testApp(t *testing.T, cfg config.Config) *app {
	t.Helper()
	l := loader.New()
	l.LoadSource("test", func() ([]tweak.Class, error) {
		return []tweak.Class{
			echoClass("Fonts", "Fonts", tweak.CategoryDesktop),
			echoClass("Computer", "Computer Details", tweak.CategorySystem),
			failingClass("Compiz"),
		}, nil
	})
	l.LoadSource("sound", func() ([]tweak.Class, error) {
		return nil, errors.New("no sound server")
	})

	reg := settings.NewRegistry()
	reg.Register("memory", settings.NewMemory(nil))
	reg.SetDryRun(cfg.DryRun)
	return &app{
		cfg:    cfg,
		loader: l,
		kinds:  manifest.NewKinds(),
		env:    tweak.Env{Dir: tweakdir.New(t.TempDir()), Settings: reg},
	}
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(appModel)
	require.True(t, ok)
	return am, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavListsCategoriesInOrder(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))

	var rows []string
	for _, it := range m.nav.items {
		if it.selectable() {
			rows = append(rows, "  "+it.class.Name)
		} else {
			rows = append(rows, string(it.category.Tag))
		}
	}

	assert.Equal(t, []string{
		"broken", "  BrokenSound",
		"desktop", "  Compiz", "  Fonts",
		"system", "  Computer",
	}, rows)
	require.NotNil(t, m.nav.selected())
	assert.Equal(t, "BrokenSound", m.nav.selected().Name)
}

func TestNavMovesOverHeaders(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))

	m, _ = update(t, m, key("down"))
	assert.Equal(t, "Compiz", m.nav.selected().Name)
	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("j"))
	assert.Equal(t, "Computer", m.nav.selected().Name)
	m, _ = update(t, m, key("down"))
	assert.Equal(t, "Computer", m.nav.selected().Name)
	m, _ = update(t, m, key("k"))
	assert.Equal(t, "Fonts", m.nav.selected().Name)
}

func TestActivateCreatesPanelOnce(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	require.True(t, m.nav.selectModule("Fonts"))
	m, _ = update(t, m, key("enter"))

	assert.Equal(t, "Fonts", m.active)
	assert.Equal(t, panePanel, m.focus)
	first := m.panels["Fonts"]
	require.NotNil(t, first)

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, paneNav, m.focus)
	m, _ = update(t, m, key("enter"))
	assert.Same(t, first, m.panels["Fonts"])

	view := m.View()
	assert.Contains(t, view, "Fonts")
	assert.Contains(t, view, "About Fonts")
}

func TestConstructorFailureShowsBrokenPanel(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = update(t, m, activateMsg{name: "Compiz"})

	p, ok := m.panels["Compiz"].(*tweak.Broken)
	require.True(t, ok)
	assert.Equal(t, "compiz is not running", p.ErrorText())
	assert.Contains(t, m.View(), "compiz is not running")
}

func TestActivateUnknownModule(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))

	m, cmd := update(t, m, activateMsg{name: "Nautilus"})

	assert.Nil(t, cmd)
	assert.Empty(t, m.active)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "module not found")
}

func TestStartModule(t *testing.T) {
	cfg := config.Default()
	cfg.StartModule = "Computer"
	m := newAppModel(testApp(t, cfg))

	cmd := m.Init()
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "Computer", m.active)
	assert.Equal(t, "Computer", m.nav.selected().Name)
}

func TestAddressedMessagesReachTheirPanel(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))
	m, _ = update(t, m, activateMsg{name: "Fonts"})
	m, _ = update(t, m, activateMsg{name: "Computer"})

	m, _ = update(t, m, tweak.UpdateMsg{Module: "Fonts", Payload: "font_entry"})
	m, _ = update(t, m, tweak.UpdateMsg{Module: "Unopened"})

	fonts := m.panels["Fonts"].(*echoPanel)
	computer := m.panels["Computer"].(*echoPanel)
	assert.Equal(t, []tea.Msg{tweak.UpdateMsg{Module: "Fonts", Payload: "font_entry"}}, fonts.got)
	assert.Empty(t, computer.got)
}

func TestCallActivatesTarget(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))
	m, _ = update(t, m, activateMsg{name: "Fonts"})

	m, _ = update(t, m, tweak.CallMsg{From: "Fonts", Target: "Computer", Method: "refresh"})

	assert.Equal(t, "Computer", m.active)
	assert.Equal(t, []string{"refresh"}, m.panels["Computer"].(*echoPanel).calls)
}

func TestCallToBrokenPanel(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))

	m, _ = update(t, m, tweak.CallMsg{From: "Fonts", Target: "BrokenSound", Method: "refresh"})

	assert.Equal(t, "BrokenSound", m.active)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "accepts no calls")
}

func TestKeysGoToActivePanel(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))
	m, _ = update(t, m, activateMsg{name: "Fonts"})

	m, _ = update(t, m, key("x"))

	assert.Equal(t, []tea.Msg{key("x")}, m.panels["Fonts"].(*echoPanel).got)
}

func TestQuit(t *testing.T) {
	m := newAppModel(testApp(t, config.Default()))

	_, cmd := update(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	m, _ = update(t, m, activateMsg{name: "Fonts"})
	_, cmd = update(t, m, key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestStatusLineShowsDryRun(t *testing.T) {
	cfg := config.Default()
	cfg.DryRun = true
	m := newAppModel(testApp(t, cfg))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})

	lines := strings.Split(m.View(), "\n")
	assert.Contains(t, lines[len(lines)-1], "DRY RUN")
}

func TestRunList(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, runList(&buf, testApp(t, config.Default()), ""))

	out := buf.String()
	assert.Contains(t, out, "Broken Modules (broken)\n└ BrokenSound  error: no sound server\n")
	assert.Contains(t, out, "Desktop (desktop)\n├ Compiz  Compiz\n└ Fonts  Fonts\n")
	assert.NotContains(t, out, "Applications")
	assert.Contains(t, out, "\nPanel kinds: settings\nSettings stores: memory\n")
}

func TestRunListCategory(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, runList(&buf, testApp(t, config.Default()), "system"))

	assert.Equal(t, "System (system)\n└ Computer  Computer Details\n", buf.String())
}

func TestRunListUnknownCategory(t *testing.T) {
	var buf bytes.Buffer

	err := runList(&buf, testApp(t, config.Default()), "games")

	require.ErrorIs(t, err, tweak.ErrUnknownCategory)
	assert.Empty(t, buf.String())
}

func TestModuleMarkdown(t *testing.T) {
	c := tweak.NewBroken("apt", errors.New("E: could not open /etc/apt/sources.list.d/ppa.list"))

	md := moduleMarkdown(c, "apt", tweak.ResolveIcon(c.Info, tweakdir.New(t.TempDir())))

	assert.Contains(t, md, "# ✖ apt\n")
	assert.Contains(t, md, "| Name | `BrokenApt` |")
	assert.Contains(t, md, "| Category | Broken Modules |")
	assert.Contains(t, md, "## Error")
	assert.Contains(t, md, "Report ID: `"+c.Failure.ReportID+"`")
	assert.Contains(t, md, "sudoedit /etc/apt/sources.list.d/ppa.list")
}
