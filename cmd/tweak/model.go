package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/germanamz/tweak/pkg/tweak"
)

const (
	navMinWidth = 20
	navMaxWidth = 32
	// borderSize is the cells a rounded border adds on each axis.
	borderSize = 2
)

// focusPane says which pane receives keys.
type focusPane int

const (
	paneNav focusPane = iota
	panePanel
)

// appModel is the root bubbletea model: a navigation pane listing modules
// by category and the panel of the active module. Panels are created the
// first time they are shown and kept for the rest of the session.
type appModel struct {
	app       *app
	nav       navModel
	panels    map[string]tweak.Panel
	headers   map[string]string
	active    string
	focus     focusPane
	status    string
	statusErr bool
	width     int
	height    int
}

func newAppModel(a *app) appModel {
	return appModel{
		app:     a,
		nav:     newNav(a.loader, a.env.Dir),
		panels:  make(map[string]tweak.Panel),
		headers: make(map[string]string),
	}
}

func (m appModel) Init() tea.Cmd {
	if name := m.app.cfg.StartModule; name != "" {
		return func() tea.Msg { return activateMsg{name: name} }
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.headers = make(map[string]string)
		m.resizePanel()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case activateMsg:
		cmd := m.activate(msg.name)
		if m.active == msg.name {
			m.focus = panePanel
		}
		return m, cmd

	case tweak.CallMsg:
		return m, m.handleCall(msg)

	case tweak.Addressed:
		name := msg.Addressee()
		p, ok := m.panels[name]
		if !ok {
			m.app.env.Logger().Debug("dropping message for inactive module", "module", name, "msg", fmt.Sprintf("%T", msg))
			return m, nil
		}
		return m, p.Update(msg)
	}

	// Everything else (cursor blinks and the like) goes to the active panel.
	if p := m.activePanel(); p != nil {
		return m, p.Update(msg)
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.focus == panePanel {
		if msg.String() == "esc" {
			m.focus = paneNav
			return m, nil
		}
		if p := m.activePanel(); p != nil {
			return m, p.Update(msg)
		}
		m.focus = paneNav
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.nav.move(-1)
	case "down", "j":
		m.nav.move(1)
	case "enter", "right", "l":
		c := m.nav.selected()
		if c == nil {
			return m, nil
		}
		cmd := m.activate(c.Name)
		if m.active == c.Name {
			m.focus = panePanel
		}
		return m, cmd
	case "tab":
		if m.activePanel() != nil {
			m.focus = panePanel
		}
	}
	return m, nil
}

// activate shows the named module, creating its panel on first use. A
// constructor failure is shown as a broken module.
func (m *appModel) activate(name string) tea.Cmd {
	m.status, m.statusErr = "", false

	p, ok := m.panels[name]
	var cmd tea.Cmd
	if !ok {
		c, err := m.app.loader.Module(name)
		if err != nil {
			m.setError(err)
			return nil
		}

		p, err = c.New(m.app.env)
		if err != nil {
			m.app.env.Logger().Error("create module panel", "module", name, "error", err)
			p, err = tweak.NewBroken(name, err).New(m.app.env)
			if err != nil {
				m.setError(err)
				return nil
			}
		}
		m.panels[name] = p
		cmd = p.Init()
	}

	m.active = name
	m.nav.selectModule(name)
	m.resizePanel()
	return cmd
}

// handleCall shows the target module and hands it the call.
func (m *appModel) handleCall(msg tweak.CallMsg) tea.Cmd {
	activated := m.activate(msg.Target)
	p, ok := m.panels[msg.Target]
	if !ok {
		m.app.env.Logger().Warn("call to unknown module", "module", msg.From, "target", msg.Target, "method", msg.Method)
		return nil
	}
	m.focus = panePanel

	caller, ok := p.(tweak.Caller)
	if !ok {
		m.setError(fmt.Errorf("%s: module %s accepts no calls", msg.From, msg.Target))
		return activated
	}
	return tea.Batch(activated, caller.HandleCall(msg.Method, msg.Args))
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m appModel) activePanel() tweak.Panel {
	return m.panels[m.active]
}

// layout returns the inner sizes of the two panes and of the panel body
// below its header.
func (m appModel) layout() (navW, panelW, bodyH int) {
	navW = min(max(m.width/4, navMinWidth), navMaxWidth)
	panelW = max(m.width-navW-2*borderSize, 1)
	bodyH = max(m.height-borderSize-1, 1) // status line
	return navW, panelW, bodyH
}

func (m *appModel) resizePanel() {
	p := m.activePanel()
	if p == nil || m.width == 0 {
		return
	}
	_, panelW, bodyH := m.layout()
	header := m.header(p.Info(), panelW)
	p.SetSize(panelW, max(bodyH-lipgloss.Height(header), 1))
}

// header renders the module title and description, cached per module until
// the window is resized.
func (m *appModel) header(info tweak.Info, width int) string {
	if h, ok := m.headers[info.Name]; ok {
		return h
	}

	h := panelTitleStyle.Render(truncate(info.Title, width))
	if info.Description != "" {
		h += "\n" + panelDescStyle.Render(renderMarkdown(info.Description, width))
	}
	if info.URL != "" {
		h += "\n" + dimStyle.Render(truncate(info.URLLabel()+": "+info.URL, width))
	}
	h += "\n"

	m.headers[info.Name] = h
	return h
}

func (m appModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	navW, panelW, bodyH := m.layout()

	navStyle, panelStyle := navFocusedBorderStyle, panelBorderStyle
	if m.focus == panePanel {
		navStyle, panelStyle = navBorderStyle, panelFocusedBorderStyle
	}

	nav := navStyle.Width(navW).Height(bodyH).Render(m.nav.view(navW, bodyH, m.active))

	var content string
	if p := m.activePanel(); p != nil {
		content = m.header(p.Info(), panelW) + "\n" + p.View()
	} else {
		content = dimStyle.Render("Select a module and press enter.")
	}
	panel := panelStyle.Width(panelW).Height(bodyH).MaxHeight(bodyH + borderSize).Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, nav, panel) + "\n" + m.statusLine()
}

func (m appModel) statusLine() string {
	var prefix string
	if m.app.env.Settings != nil && m.app.env.Settings.DryRun() {
		prefix = dryRunStyle.Render("DRY RUN") + " "
	}

	if m.status != "" {
		st := statusStyle
		if m.statusErr {
			st = errorStyle
		}
		return prefix + st.Render(truncate(m.status, max(m.width-8, 1)))
	}

	help := "↑/↓ select · enter open · q quit"
	if m.focus == panePanel {
		help = "tab next · shift+tab previous · pgup/pgdown scroll · esc back"
	}
	return prefix + statusStyle.Render(truncate(help, max(m.width-8, 1)))
}
