package tweak

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/germanamz/tweak/pkg/ui"
)

// DefaultReportURL is where bug reports for broken modules are filed.
const DefaultReportURL = "https://bugs.launchpad.net/ubuntu-tweak/+filebug"

const brokenUIFile = "brokenmodule.yaml"

//go:embed brokenmodule.yaml
var brokenUI []byte

// Failure records why a plugin could not be loaded.
type Failure struct {
	Origin   string
	Error    string
	ReportID string
}

// BrokenName is the module name of the stand-in for the plugin origin:
// "Broken" followed by the title-cased origin.
func BrokenName(origin string) string {
	return "Broken" + titleCase(origin)
}

// NewBroken returns the class standing in for the plugin origin, which
// failed to load with err. Its name is BrokenName(origin); its title is
// origin itself.
func NewBroken(origin string, err error) Class {
	return NewBrokenNamed(BrokenName(origin), origin, err)
}

// NewBrokenNamed is NewBroken with an explicit module name, for when
// BrokenName(origin) is already taken.
func NewBrokenNamed(name, origin string, err error) Class {
	text := "unknown error"
	if err != nil && err.Error() != "" {
		text = err.Error()
	}

	f := &Failure{
		Origin:   origin,
		Error:    text,
		ReportID: uuid.NewString(),
	}

	info := Info{
		Name:     name,
		Title:    origin,
		Icon:     IconNames{"dialog-error"},
		Category: CategoryBroken,
	}

	return Class{
		Info:    info,
		Failure: f,
		New: func(env Env) (Panel, error) {
			return newBrokenPanel(info, f, env)
		},
	}
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest. Any non-letter separates words.
func titleCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			sb.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return sb.String()
}

// Broken is the panel of a module that failed to load.
type Broken struct {
	*Base
	failure *Failure
	status  *ui.Label
}

var (
	aptConfRe    = regexp.MustCompile(`(/etc/apt/apt\.conf\.d/[\w.-]+)`)
	aptSourcesRe = regexp.MustCompile(`(/etc/apt/sources\.list\.d/[\w.-]+)`)
)

func newBrokenPanel(info Info, f *Failure, env Env) (*Broken, error) {
	p := &Broken{failure: f}

	base, err := NewBase(info, env,
		WithUI(brokenUIFile),
		WithUIData(brokenUIFile, brokenUI),
		WithHandlers(map[string]ui.Handler{
			"on_report_button_clicked": p.onReportButtonClicked,
		}),
	)
	if err != nil {
		return nil, err
	}
	p.Base = base

	errorView, err := ui.Lookup[*ui.Text](base.Builder(), "error_view")
	if err != nil {
		return nil, err
	}
	errorView.SetText(f.Error)

	message, err := ui.Lookup[*ui.Label](base.Builder(), "message_label")
	if err != nil {
		return nil, err
	}
	if hint := RemediationHint(f.Error); hint != "" {
		message.SetText(hint)
	}

	reportID, err := ui.Lookup[*ui.Label](base.Builder(), "report_id_label")
	if err != nil {
		return nil, err
	}
	reportID.SetText("Report ID: " + f.ReportID)

	p.status, err = ui.Lookup[*ui.Label](base.Builder(), "status_label")
	if err != nil {
		return nil, err
	}

	mainBox, err := base.Object("main_box")
	if err != nil {
		return nil, err
	}
	p.Reparent(mainBox)

	return p, nil
}

// ErrorText returns the captured error text.
func (p *Broken) ErrorText() string { return p.failure.Error }

func (p *Broken) onReportButtonClicked(ui.Widget) tea.Cmd {
	url := p.env.ReportURL
	if url == "" {
		url = DefaultReportURL
	}
	if err := p.env.OpenURL(url); err != nil {
		p.env.Logger().Error("open bug tracker", "module", p.info.Name, "error", err)
		p.status.SetText("Could not open " + url + ": " + err.Error())
		return nil
	}
	p.status.SetText("Opened " + url)
	return nil
}

// RemediationHint explains how to fix errors caused by an unreadable apt
// configuration or source list file. It returns "" for any other error.
func RemediationHint(errText string) string {
	if strings.Contains(errText, "/etc/apt/apt.conf.d") {
		if m := aptConfRe.FindString(errText); m != "" {
			return fmt.Sprintf("Your apt configuration is broken.\n"+
				"Try to fix it by following these steps:\n\n"+
				"\t1. Open your terminal\n"+
				"\t2. Run the commands to fix:\n\n"+
				"\t\tsudo chmod 644 %[1]s\n"+
				"\t\tsudo chown root:root %[1]s\n\n"+
				"Or you can submit the error message to the developer for help:", m)
		}
	}
	if strings.Contains(errText, "/etc/apt/sources.list.d/") {
		if m := aptSourcesRe.FindString(errText); m != "" {
			return fmt.Sprintf("Your apt list file is broken.\n"+
				"Try to fix it by following these steps:\n\n"+
				"\t1. Open your terminal\n"+
				"\t2. Run the command to open the list file:\n\n"+
				"\t\tsudoedit %s\n\n"+
				"\t3. Edit the list to make it correct\n\n"+
				"Or you can submit the error message to the developer for help:", m)
		}
	}
	return ""
}
