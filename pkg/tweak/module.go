// Package tweak defines tweak modules: the configuration panels the
// application discovers, catalogs by category and shows in its navigation
// pane. A Class describes a module and knows how to build its Panel; Base is
// the scrollable container concrete panels are built on; Broken stands in
// for modules that failed to load.
package tweak

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/tweak/pkg/settings"
	"github.com/germanamz/tweak/pkg/tweakdir"
)

// DefaultURLTitle is the link caption used when a module sets none.
const DefaultURLTitle = "More"

// Info is the descriptive metadata every module carries.
type Info struct {
	Name        string    `yaml:"name"`
	Title       string    `yaml:"title"`
	Version     string    `yaml:"version"`
	Icon        IconNames `yaml:"icon"`
	Author      string    `yaml:"author"`
	Description string    `yaml:"description"`
	URL         string    `yaml:"url"`
	URLTitle    string    `yaml:"url_title"`
	Category    Category  `yaml:"category"`
	// Inactive modules are skipped at registration.
	Inactive bool `yaml:"inactive"`
}

// URLLabel returns the caption for the module's URL.
func (i Info) URLLabel() string {
	if i.URLTitle == "" {
		return DefaultURLTitle
	}
	return i.URLTitle
}

// Validate checks the required attributes.
func (i Info) Validate() error {
	if i.Name == "" {
		return errors.New("tweak: module name is required")
	}
	if strings.IndexFunc(i.Name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("tweak: module name %q contains whitespace", i.Name)
	}
	if i.Title == "" {
		return fmt.Errorf("tweak: module %q: title is required", i.Name)
	}
	if !i.Category.Valid() {
		return fmt.Errorf("tweak: module %q: %w %q", i.Name, ErrUnknownCategory, i.Category)
	}
	return nil
}

// Panel is an instantiated module as shown by the host.
type Panel interface {
	Info() Info
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
}

// Class describes a module and constructs its panels.
type Class struct {
	Info
	New func(env Env) (Panel, error)
	// Failure is set on classes that stand in for a plugin that failed to
	// load.
	Failure *Failure
}

// Validate checks the metadata and that the class can be constructed.
func (c Class) Validate() error {
	if err := c.Info.Validate(); err != nil {
		return err
	}
	if c.New == nil {
		return fmt.Errorf("tweak: module %q: constructor is required", c.Name)
	}
	return nil
}

// Source yields the classes a plugin declares. Loading a source is how the
// application brings a plugin in; a source that errors or panics is replaced
// by a broken module.
type Source func() ([]Class, error)

// Env is handed to class constructors.
type Env struct {
	Dir       tweakdir.Dir
	Log       *slog.Logger
	Settings  *settings.Registry
	Open      func(url string) error
	ReportURL string
}

// Logger returns the env logger, or a discarding one.
func (e Env) Logger() *slog.Logger {
	if e.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Log
}

// OpenURL opens url with the env opener, defaulting to xdg-open.
func (e Env) OpenURL(url string) error {
	if e.Open != nil {
		return e.Open(url)
	}
	return XDGOpen(url)
}

// XDGOpen opens url in the desktop's preferred application.
func XDGOpen(url string) error {
	cmd := exec.Command("xdg-open", url) //nolint:gosec // fixed binary
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("tweak: open %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
