package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/germanamz/tweak/modules"
	"github.com/germanamz/tweak/pkg/config"
	"github.com/germanamz/tweak/pkg/loader"
	"github.com/germanamz/tweak/pkg/manifest"
	"github.com/germanamz/tweak/pkg/settings"
	"github.com/germanamz/tweak/pkg/tweak"
	"github.com/germanamz/tweak/pkg/tweakdir"
)

// app bundles what every command needs: the loaded modules and the
// environment panels are created with.
type app struct {
	cfg    config.Config
	loader *loader.Loader
	kinds  *manifest.Kinds
	env    tweak.Env
}

// newApp loads the compiled-in modules and the plugin directory.
func newApp(cfg config.Config, d tweakdir.Dir, log *slog.Logger) (*app, error) {
	reg := settings.NewRegistry()
	reg.Register("gsettings", settings.NewGSettings(settings.ExecRunner))
	reg.Register("memory", settings.NewMemory(nil))
	reg.SetDryRun(cfg.DryRun)

	kinds := manifest.NewKinds()
	l := loader.New(
		loader.WithLogger(log),
		loader.WithKinds(kinds),
		loader.WithDisabled(cfg.Disabled...),
	)

	for _, b := range modules.Builtins() {
		l.LoadSource(b.Origin, b.Source)
	}

	dir := resolveModulesDir(cfg, d)
	if err := l.LoadDir(dir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Debug("no plugin directory", "path", dir)
	}

	return &app{
		cfg:    cfg,
		loader: l,
		kinds:  kinds,
		env: tweak.Env{
			Dir:       d,
			Log:       log,
			Settings:  reg,
			ReportURL: cfg.ReportURL,
		},
	}, nil
}
