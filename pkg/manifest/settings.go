package manifest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/tweak/pkg/settings"
	"github.com/germanamz/tweak/pkg/tweak"
	"github.com/germanamz/tweak/pkg/ui"
)

const storeTimeout = 5 * time.Second

var generatedTypes = map[string]struct{}{
	"toggle": {},
	"entry":  {},
	"choice": {},
}

// SettingsKind builds panels whose widgets read and write settings keys.
// Widgets come from the module's UI description or, without one, are
// generated from the bindings.
func SettingsKind(spec ModuleSpec) (Constructor, error) {
	if len(spec.Bindings) == 0 {
		return nil, errors.New("no bindings")
	}

	seen := make(map[string]struct{}, len(spec.Bindings))
	for i, b := range spec.Bindings {
		switch {
		case b.Widget == "":
			return nil, fmt.Errorf("binding %d: widget is required", i)
		case b.Store == "":
			return nil, fmt.Errorf("binding %s: store is required", b.Widget)
		case b.Key == "":
			return nil, fmt.Errorf("binding %s: key is required", b.Widget)
		}
		if _, dup := seen[b.Widget]; dup {
			return nil, fmt.Errorf("binding %s: widget bound twice", b.Widget)
		}
		seen[b.Widget] = struct{}{}

		if spec.UI != "" {
			continue
		}
		if _, ok := generatedTypes[b.Type]; !ok {
			return nil, fmt.Errorf("binding %s: type must be toggle, entry or choice without a ui file", b.Widget)
		}
		if b.Type == "choice" && len(b.Options) == 0 {
			return nil, fmt.Errorf("binding %s: choice needs options", b.Widget)
		}
	}

	return func(env tweak.Env) (tweak.Panel, error) {
		return NewSettingsPanel(spec, env)
	}, nil
}

type boundWidget struct {
	Binding
	widget ui.Widget
	store  settings.Store
}

// SettingsPanel shows widgets bound to settings keys. Values are loaded when
// the panel starts and written back whenever a bound widget signals a
// change.
type SettingsPanel struct {
	*tweak.Base
	bound  []boundWidget
	status *ui.Label
	diff   *ui.Text
}

type valuesLoadedMsg struct {
	module string
	values map[string]string
	errs   map[string]error
}

func (m valuesLoadedMsg) Addressee() string { return m.module }

type valueAppliedMsg struct {
	module string
	widget string
	diff   string
	err    error
}

func (m valueAppliedMsg) Addressee() string { return m.module }

// NewSettingsPanel creates the panel for spec.
func NewSettingsPanel(spec ModuleSpec, env tweak.Env) (*SettingsPanel, error) {
	if env.Settings == nil {
		return nil, fmt.Errorf("manifest: module %q: no settings stores", spec.Name)
	}

	var opts []tweak.Option
	if spec.UI != "" {
		opts = append(opts, tweak.WithUI(spec.UI))
	}
	base, err := tweak.NewBase(spec.Info, env, opts...)
	if err != nil {
		return nil, err
	}

	p := &SettingsPanel{Base: base}

	if spec.UI != "" {
		for _, root := range base.Builder().Roots() {
			p.Reparent(root)
		}
	}

	for _, b := range spec.Bindings {
		w, err := p.widgetFor(b)
		if err != nil {
			return nil, fmt.Errorf("manifest: module %q: %w", spec.Name, err)
		}
		store, err := env.Settings.Lookup(b.Store)
		if err != nil {
			return nil, fmt.Errorf("manifest: module %q: %w", spec.Name, err)
		}

		bw := boundWidget{Binding: b, widget: w, store: store}
		signal := ui.SignalChanged
		if _, ok := w.(*ui.Toggle); ok {
			signal = ui.SignalToggled
		}
		w.(ui.Signaler).Connect(signal, func(ui.Widget) tea.Cmd {
			return p.apply(bw)
		})
		p.bound = append(p.bound, bw)
	}

	p.status = ui.NewLabel("status_label", "")
	p.diff = ui.NewText("diff_view", "")
	p.AddEnd(p.diff)
	p.AddEnd(p.status)

	return p, nil
}

func (p *SettingsPanel) widgetFor(b Binding) (ui.Widget, error) {
	if p.Builder() != nil {
		w, err := p.Object(b.Widget)
		if err != nil {
			return nil, err
		}
		switch w.(type) {
		case *ui.Toggle, *ui.Entry, *ui.Choice:
			return w, nil
		}
		return nil, fmt.Errorf("widget %q is %T, not a toggle, entry or choice", b.Widget, w)
	}

	var w ui.Widget
	switch b.Type {
	case "toggle":
		w = ui.NewToggle(b.Widget, b.Label, false)
	case "entry":
		w = ui.NewEntry(b.Widget, b.Label, "")
	case "choice":
		w = ui.NewChoice(b.Widget, b.Label, b.Options)
	}
	p.AddStart(w)
	return w, nil
}

// Init focuses the first widget and loads the current values.
func (p *SettingsPanel) Init() tea.Cmd {
	return tea.Batch(p.Base.Init(), p.load())
}

func (p *SettingsPanel) load() tea.Cmd {
	module := p.Info().Name
	bound := p.bound
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		msg := valuesLoadedMsg{
			module: module,
			values: make(map[string]string, len(bound)),
			errs:   make(map[string]error),
		}
		for _, b := range bound {
			v, err := b.store.Get(ctx, b.Key)
			if err != nil {
				msg.errs[b.Widget] = err
				continue
			}
			msg.values[b.Widget] = v
		}
		return msg
	}
}

func (p *SettingsPanel) apply(b boundWidget) tea.Cmd {
	module := p.Info().Name
	value := widgetValue(b.widget)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		msg := valueAppliedMsg{module: module, widget: b.Widget}
		if pv, ok := b.store.(settings.Previewer); ok {
			diff, err := pv.Preview(b.Key, value)
			if err != nil {
				msg.err = err
				return msg
			}
			msg.diff = diff
		}
		msg.err = b.store.Set(ctx, b.Key, value)
		return msg
	}
}

// Update handles store results and refresh requests, and passes everything
// else to the base panel.
func (p *SettingsPanel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case valuesLoadedMsg:
		p.applyLoaded(msg)
		return nil
	case valueAppliedMsg:
		if msg.err != nil {
			p.Env().Logger().Error("apply setting", "module", msg.module, "widget", msg.widget, "error", msg.err)
			p.status.SetText("Could not apply " + msg.widget + ": " + msg.err.Error())
			return nil
		}
		p.diff.SetText(msg.diff)
		p.status.SetText("Applied " + msg.widget)
		return p.EmitUpdate(msg.widget)
	case tweak.UpdateMsg:
		return p.load()
	}
	return p.Base.Update(msg)
}

func (p *SettingsPanel) applyLoaded(msg valuesLoadedMsg) {
	var failed []string
	for _, b := range p.bound {
		if err, ok := msg.errs[b.Widget]; ok {
			p.Env().Logger().Warn("read setting", "module", msg.module, "key", b.Key, "error", err)
			failed = append(failed, b.Widget)
			continue
		}
		v, ok := msg.values[b.Widget]
		if !ok {
			continue
		}
		if err := setWidgetValue(b.widget, v); err != nil {
			p.Env().Logger().Warn("show setting", "module", msg.module, "key", b.Key, "error", err)
			failed = append(failed, b.Widget)
		}
	}
	if len(failed) > 0 {
		p.status.SetText(fmt.Sprintf("Could not read %d setting(s): %v", len(failed), failed))
	}
}

func widgetValue(w ui.Widget) string {
	switch w := w.(type) {
	case *ui.Toggle:
		return strconv.FormatBool(w.Active())
	case *ui.Entry:
		return w.Value()
	case *ui.Choice:
		return w.Selected()
	}
	return ""
}

func setWidgetValue(w ui.Widget, v string) error {
	switch w := w.(type) {
	case *ui.Toggle:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("widget %s: %w", w.Name(), err)
		}
		w.SetActive(b)
	case *ui.Entry:
		w.SetValue(v)
	case *ui.Choice:
		if !w.SetSelected(v) {
			return fmt.Errorf("widget %s: %q is not an option", w.Name(), v)
		}
	}
	return nil
}
