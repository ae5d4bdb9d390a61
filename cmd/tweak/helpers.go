package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"
	"github.com/mattn/go-runewidth"

	"github.com/germanamz/tweak/pkg/config"
	"github.com/germanamz/tweak/pkg/tweakdir"
)

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath picks the configuration file: the explicit flag, then
// config.yaml in the data directory.
func resolveConfigPath(explicit string, d tweakdir.Dir) string {
	if explicit != "" {
		return explicit
	}
	return d.ConfigPath()
}

// resolveModulesDir returns the plugin directory from the configuration,
// defaulting to the data directory's modules/ folder. Relative paths are
// taken relative to the data directory.
func resolveModulesDir(cfg config.Config, d tweakdir.Dir) string {
	switch {
	case cfg.ModulesDir == "":
		return d.ModulesDir()
	case filepath.IsAbs(cfg.ModulesDir):
		return cfg.ModulesDir
	}
	return filepath.Join(d.Root(), cfg.ModulesDir)
}

// truncate shortens s to at most width terminal cells, with "…" appended if
// truncated. Newlines are replaced with spaces for single-line display.
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// renderMarkdown converts markdown text to terminal-formatted output,
// falling back to the raw text.
func renderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// newLogger builds the logger described by cfg writing to w.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler)
}

// openLog opens the log file under the data directory for appending. The
// TUI owns the terminal, so nothing is logged to stderr while it runs.
func openLog(d tweakdir.Dir) (*os.File, error) {
	if err := os.MkdirAll(d.LocalDir(), 0o750); err != nil {
		return nil, err
	}
	return os.OpenFile(d.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path under the data directory
}
