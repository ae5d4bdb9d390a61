package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/germanamz/tweak/pkg/config"
)

type wizardConfig struct {
	ModulesDir  string
	Disabled    string // comma separated
	LogLevel    string
	LogFormat   string
	StartModule string
	DryRun      bool
}

// configYAML mirrors config.Config for writing, omitting unset fields.
type configYAML struct {
	ModulesDir  string   `yaml:"modules_dir,omitempty"`
	Disabled    []string `yaml:"disabled,omitempty"`
	Log         logYAML  `yaml:"log"`
	StartModule string   `yaml:"start_module,omitempty"`
	DryRun      bool     `yaml:"dry_run,omitempty"`
}

type logYAML struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func runWizard(moduleNames []string) ([]byte, error) {
	cfg := wizardConfig{LogLevel: "info", LogFormat: "text"}

	startOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, n := range moduleNames {
		startOptions = append(startOptions, huh.NewOption(n, n))
	}

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Plugin directory").
				Description("Leave empty for the modules/ folder of the data directory.").
				Value(&cfg.ModulesDir),
			huh.NewInput().
				Title("Disabled modules").
				Description("Comma-separated module names.").
				Value(&cfg.Disabled),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warning", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&cfg.LogLevel),
			huh.NewSelect[string]().
				Title("Log format").
				Options(
					huh.NewOption("Text", "text"),
					huh.NewOption("JSON", "json"),
				).
				Value(&cfg.LogFormat),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Module shown at start").
				Options(startOptions...).
				Value(&cfg.StartModule),
			huh.NewConfirm().
				Title("Dry run?").
				Description("Show changes without writing any setting.").
				Value(&cfg.DryRun),
		),
	).Run(); err != nil {
		return nil, err
	}

	return marshalWizardConfig(cfg)
}

// marshalWizardConfig renders the wizard answers as config.yaml, checking
// them the way the application will when loading the file.
func marshalWizardConfig(cfg wizardConfig) ([]byte, error) {
	out := configYAML{
		ModulesDir:  strings.TrimSpace(cfg.ModulesDir),
		Disabled:    splitList(cfg.Disabled),
		Log:         logYAML{Level: cfg.LogLevel, Format: cfg.LogFormat},
		StartModule: cfg.StartModule,
		DryRun:      cfg.DryRun,
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	parsed, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := parsed.Validate(); err != nil {
		return nil, err
	}

	return data, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
