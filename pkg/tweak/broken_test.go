package tweak

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/tweak/pkg/tweakdir"
	"github.com/germanamz/tweak/pkg/ui"
)

func TestNewBrokenClass(t *testing.T) {
	c := NewBroken("nautilus_extras", errors.New("yaml: line 3: mapping values are not allowed"))

	require.NoError(t, c.Validate())
	assert.Equal(t, "BrokenNautilus_Extras", c.Name)
	assert.Equal(t, "nautilus_extras", c.Title)
	assert.Equal(t, CategoryBroken, c.Category)
	require.NotNil(t, c.Failure)
	assert.Equal(t, "nautilus_extras", c.Failure.Origin)
	assert.Contains(t, c.Failure.Error, "mapping values")
	assert.NotEmpty(t, c.Failure.ReportID)
}

func TestNewBrokenNamed(t *testing.T) {
	c := NewBrokenNamed("BrokenNet2", "Net", errors.New("no network"))

	require.NoError(t, c.Validate())
	assert.Equal(t, "BrokenNet", BrokenName("net"))
	assert.Equal(t, "BrokenNet2", c.Name)
	assert.Equal(t, "Net", c.Title)
	assert.Equal(t, "Net", c.Failure.Origin)

	p, err := c.New(Env{Dir: tweakdir.New(t.TempDir())})
	require.NoError(t, err)
	assert.Equal(t, "BrokenNet2", p.Info().Name)
}

func TestNewBrokenNilError(t *testing.T) {
	c := NewBroken("x", nil)

	assert.Equal(t, "unknown error", c.Failure.Error)
}

func TestBrokenPanel(t *testing.T) {
	c := NewBroken("compiz", errors.New("boom"))

	var opened string
	p, err := c.New(Env{
		Dir:       tweakdir.New(t.TempDir()),
		ReportURL: "https://example.com/bugs",
		Open: func(url string) error {
			opened = url
			return nil
		},
	})
	require.NoError(t, err)

	broken, ok := p.(*Broken)
	require.True(t, ok)
	assert.Equal(t, "boom", broken.ErrorText())

	p.SetSize(80, 30)
	view := p.View()
	assert.Contains(t, view, "boom")
	assert.Contains(t, view, c.Failure.ReportID)

	p.Init()
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "https://example.com/bugs", opened)

	status, err := ui.Lookup[*ui.Label](broken.Builder(), "status_label")
	require.NoError(t, err)
	assert.Equal(t, "Opened https://example.com/bugs", status.Text())
}

func TestBrokenPanelReportFailure(t *testing.T) {
	c := NewBroken("compiz", errors.New("boom"))
	p, err := c.New(Env{Open: func(string) error { return errors.New("no browser") }})
	require.NoError(t, err)

	p.Init()
	p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	status, err := ui.Lookup[*ui.Label](p.(*Broken).Builder(), "status_label")
	require.NoError(t, err)
	assert.Contains(t, status.Text(), "no browser")
	assert.Contains(t, status.Text(), DefaultReportURL)
}

func TestRemediationHint(t *testing.T) {
	tests := []struct {
		name    string
		err     string
		contain string
	}{
		{
			name:    "apt conf",
			err:     "open /etc/apt/apt.conf.d/99-proxy: permission denied",
			contain: "sudo chmod 644 /etc/apt/apt.conf.d/99-proxy",
		},
		{
			name:    "sources list",
			err:     "parse /etc/apt/sources.list.d/ppa-foo.list: malformed line",
			contain: "sudoedit /etc/apt/sources.list.d/ppa-foo.list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, RemediationHint(tt.err), tt.contain)
		})
	}

	assert.Empty(t, RemediationHint("something else"))
}

func TestBrokenPanelShowsHint(t *testing.T) {
	c := NewBroken("sources", errors.New("open /etc/apt/sources.list.d/x.list: permission denied"))
	p, err := c.New(Env{})
	require.NoError(t, err)

	msg, err := ui.Lookup[*ui.Label](p.(*Broken).Builder(), "message_label")
	require.NoError(t, err)
	assert.Contains(t, msg.Text(), "apt list file is broken")
}
