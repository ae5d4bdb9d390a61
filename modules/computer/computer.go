// Package computer is the System module showing host, distribution and
// hardware details.
package computer

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"

	"github.com/germanamz/tweak/pkg/tweak"
	"github.com/germanamz/tweak/pkg/ui"
)

const uiFile = "computer.yaml"

//go:embed computer.yaml
var computerUI []byte

// MethodRefresh is the call method that makes the panel gather facts again.
const MethodRefresh = "refresh"

// Info describes the module.
var Info = tweak.Info{
	Name:        "Computer",
	Title:       "Computer Details",
	Icon:        tweak.IconNames{"computer"},
	Description: "Host name, distribution, kernel and hardware of this machine.",
	Category:    tweak.CategorySystem,
}

// Source declares the module.
func Source() ([]tweak.Class, error) {
	return []tweak.Class{{
		Info: Info,
		New: func(env tweak.Env) (tweak.Panel, error) {
			return New(env, Probe{})
		},
	}}, nil
}

// Facts are the details the panel shows.
type Facts struct {
	Hostname     string
	Distribution string
	Kernel       string
	CPU          string
	CPUCount     int
	MemTotal     uint64 // bytes
	Uptime       time.Duration
}

// Probe gathers Facts. The zero value reads the running system.
type Probe struct {
	// Root is prepended to /proc and /etc paths. Empty means "/".
	Root     string
	Hostname func() (string, error)
	Kernel   func() (string, error)
	Now      func() time.Time
}

func (p Probe) path(elem ...string) string {
	root := p.Root
	if root == "" {
		root = "/"
	}
	return filepath.Join(append([]string{root}, elem...)...)
}

// Gather collects every fact it can. Facts that could not be read are left
// empty and reported in the joined error.
func (p Probe) Gather(ctx context.Context) (Facts, error) {
	var (
		f    Facts
		errs []error
	)

	hostname := p.Hostname
	if hostname == nil {
		hostname = os.Hostname
	}
	kernel := p.Kernel
	if kernel == nil {
		kernel = unameRelease
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	var err error
	if f.Hostname, err = hostname(); err != nil {
		errs = append(errs, fmt.Errorf("hostname: %w", err))
	}
	if f.Kernel, err = kernel(); err != nil {
		errs = append(errs, fmt.Errorf("kernel: %w", err))
	}
	if f.Distribution, err = distribution(p.path("etc", "os-release")); err != nil {
		errs = append(errs, err)
	}

	if err := ctx.Err(); err != nil {
		return f, err
	}

	fs, err := procfs.NewFS(p.path("proc"))
	if err != nil {
		errs = append(errs, fmt.Errorf("proc: %w", err))
		return f, errors.Join(errs...)
	}

	if cpus, err := fs.CPUInfo(); err != nil {
		errs = append(errs, fmt.Errorf("cpuinfo: %w", err))
	} else if len(cpus) > 0 {
		f.CPU = strings.TrimSpace(cpus[0].ModelName)
		f.CPUCount = len(cpus)
	}

	if mem, err := fs.Meminfo(); err != nil {
		errs = append(errs, fmt.Errorf("meminfo: %w", err))
	} else if mem.MemTotal != nil {
		f.MemTotal = *mem.MemTotal * 1024
	}

	if stat, err := fs.Stat(); err != nil {
		errs = append(errs, fmt.Errorf("stat: %w", err))
	} else if stat.BootTime > 0 {
		boot := time.Unix(int64(stat.BootTime), 0) //nolint:gosec // boot time fits int64
		f.Uptime = now().Sub(boot)
	}

	return f, errors.Join(errs...)
}

// distribution returns PRETTY_NAME from an os-release file, falling back to
// NAME and VERSION.
func distribution(path string) (string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return "", fmt.Errorf("os-release: %w", err)
	}
	if v := vars["PRETTY_NAME"]; v != "" {
		return v, nil
	}
	return strings.TrimSpace(vars["NAME"] + " " + vars["VERSION"]), nil
}

func unameRelease() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(u.Release[:]), nil
}

// FormatUptime renders d as days, hours and minutes.
func FormatUptime(d time.Duration) string {
	d = d.Truncate(time.Minute)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	minutes := int((d - time.Duration(hours)*time.Hour) / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Panel shows the gathered Facts.
type Panel struct {
	*tweak.Base
	probe  Probe
	labels map[string]*ui.Label
	status *ui.Label
}

type factsMsg struct {
	module string
	facts  Facts
	err    error
}

func (m factsMsg) Addressee() string { return m.module }

// New creates the panel. Facts are gathered by Init.
func New(env tweak.Env, probe Probe) (*Panel, error) {
	p := &Panel{probe: probe, labels: make(map[string]*ui.Label)}

	base, err := tweak.NewBase(Info, env,
		tweak.WithUI(uiFile),
		tweak.WithUIData(uiFile, computerUI),
		tweak.WithHandlers(map[string]ui.Handler{
			"on_refresh_button_clicked": p.onRefreshClicked,
		}),
	)
	if err != nil {
		return nil, err
	}
	p.Base = base

	for _, name := range []string{"hostname_label", "distribution_label", "kernel_label", "cpu_label", "memory_label", "uptime_label"} {
		l, err := ui.Lookup[*ui.Label](base.Builder(), name)
		if err != nil {
			return nil, fmt.Errorf("computer: %w", err)
		}
		p.labels[name] = l
	}
	if p.status, err = ui.Lookup[*ui.Label](base.Builder(), "status_label"); err != nil {
		return nil, fmt.Errorf("computer: %w", err)
	}

	box, err := base.Object("computer_box")
	if err != nil {
		return nil, err
	}
	p.Reparent(box)

	return p, nil
}

// Init focuses the refresh button and gathers facts.
func (p *Panel) Init() tea.Cmd {
	return tea.Batch(p.Base.Init(), p.gather())
}

func (p *Panel) gather() tea.Cmd {
	probe := p.probe
	module := p.Info().Name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		f, err := probe.Gather(ctx)
		return factsMsg{module: module, facts: f, err: err}
	}
}

func (p *Panel) onRefreshClicked(ui.Widget) tea.Cmd {
	p.status.SetText("Refreshing...")
	return p.EmitUpdate(MethodRefresh)
}

// HandleCall accepts MethodRefresh from other modules.
func (p *Panel) HandleCall(method string, _ any) tea.Cmd {
	if method != MethodRefresh {
		p.Env().Logger().Warn("unknown call", "module", p.Info().Name, "method", method)
		return nil
	}
	return p.gather()
}

// Update shows gathered facts and regathers on refresh.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case factsMsg:
		p.show(msg.facts)
		if msg.err != nil {
			p.Env().Logger().Warn("gather facts", "module", msg.module, "error", msg.err)
			p.status.SetText("Some details are unavailable")
		} else {
			p.status.SetText("")
		}
		return nil
	case tweak.UpdateMsg:
		return p.gather()
	}
	return p.Base.Update(msg)
}

func (p *Panel) show(f Facts) {
	unknown := func(s string) string {
		if s == "" {
			return "unknown"
		}
		return s
	}

	cpu := unknown(f.CPU)
	if f.CPUCount > 1 {
		cpu = fmt.Sprintf("%s x %d", cpu, f.CPUCount)
	}
	memory := "unknown"
	if f.MemTotal > 0 {
		memory = humanize.IBytes(f.MemTotal)
	}
	uptime := "unknown"
	if f.Uptime > 0 {
		uptime = FormatUptime(f.Uptime)
	}

	p.labels["hostname_label"].SetText("Hostname: " + unknown(f.Hostname))
	p.labels["distribution_label"].SetText("Distribution: " + unknown(f.Distribution))
	p.labels["kernel_label"].SetText("Kernel: " + unknown(f.Kernel))
	p.labels["cpu_label"].SetText("CPU: " + cpu)
	p.labels["memory_label"].SetText("Memory: " + memory)
	p.labels["uptime_label"].SetText("Uptime: " + uptime)
}

var (
	_ tweak.Panel  = (*Panel)(nil)
	_ tweak.Caller = (*Panel)(nil)
)
