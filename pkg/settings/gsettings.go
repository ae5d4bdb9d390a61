package settings

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output() //nolint:gosec // fixed binary, arguments from manifests
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// GSettings reads and writes GSettings keys through the gsettings binary.
// Keys have the form "<schema> <key>", for example
// "org.gnome.desktop.interface clock-show-seconds".
type GSettings struct {
	run Runner
}

// NewGSettings creates a GSettings store. A nil runner uses ExecRunner.
func NewGSettings(run Runner) *GSettings {
	if run == nil {
		run = ExecRunner
	}
	return &GSettings{run: run}
}

func (g *GSettings) Get(ctx context.Context, key string) (string, error) {
	schema, name, err := splitSchemaKey(key)
	if err != nil {
		return "", err
	}

	out, err := g.run(ctx, "gsettings", "get", schema, name)
	if err != nil {
		return "", fmt.Errorf("settings: gsettings get %s: %w", key, err)
	}

	return unquoteVariant(strings.TrimSpace(string(out))), nil
}

func (g *GSettings) Set(ctx context.Context, key, value string) error {
	schema, name, err := splitSchemaKey(key)
	if err != nil {
		return err
	}

	if _, err := g.run(ctx, "gsettings", "set", schema, name, value); err != nil {
		return fmt.Errorf("settings: gsettings set %s: %w", key, err)
	}
	return nil
}

func splitSchemaKey(key string) (string, string, error) {
	schema, name, ok := strings.Cut(strings.TrimSpace(key), " ")
	name = strings.TrimSpace(name)
	if !ok || schema == "" || name == "" {
		return "", "", fmt.Errorf("settings: gsettings key %q must be \"<schema> <key>\"", key)
	}
	return schema, name, nil
}

// unquoteVariant strips the quotes GVariant text uses for plain strings.
func unquoteVariant(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], `\'`, `'`)
	}
	return s
}
