package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/tweak/pkg/config"
)

func TestMarshalWizardConfig(t *testing.T) {
	data, err := marshalWizardConfig(wizardConfig{
		ModulesDir:  " ~/tweaks ",
		Disabled:    "Compiz, ,Nautilus",
		LogLevel:    "debug",
		LogFormat:   "json",
		StartModule: "Computer",
		DryRun:      true,
	})
	require.NoError(t, err)

	cfg, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "~/tweaks", cfg.ModulesDir)
	assert.Equal(t, []string{"Compiz", "Nautilus"}, cfg.Disabled)
	assert.Equal(t, config.LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, "Computer", cfg.StartModule)
	assert.True(t, cfg.DryRun)
}

func TestMarshalWizardConfigOmitsDefaults(t *testing.T) {
	data, err := marshalWizardConfig(wizardConfig{LogLevel: "info", LogFormat: "text"})
	require.NoError(t, err)

	assert.Equal(t, "log:\n    level: info\n    format: text\n", string(data))
}

func TestMarshalWizardConfigRejectsDisabledStart(t *testing.T) {
	_, err := marshalWizardConfig(wizardConfig{
		Disabled:    "Computer",
		LogLevel:    "info",
		LogFormat:   "text",
		StartModule: "Computer",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is disabled")
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,b,, "))
}
