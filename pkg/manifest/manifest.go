// Package manifest parses plugin manifests: YAML files in the modules
// directory that declare tweak modules without compiled code. Each module
// entry names a kind, and the kind turns the entry into a tweak.Class.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/tweak/pkg/tweak"
)

// Manifest is the content of one plugin file.
type Manifest struct {
	Modules []ModuleSpec `yaml:"modules"`
}

// ModuleSpec declares one module.
type ModuleSpec struct {
	tweak.Info `yaml:",inline"`
	Kind       string    `yaml:"kind"`
	UI         string    `yaml:"ui"`
	Bindings   []Binding `yaml:"bindings"`
}

// Binding connects a widget to a settings key.
type Binding struct {
	Widget string `yaml:"widget"`
	Store  string `yaml:"store"`
	Key    string `yaml:"key"`
	// Type, Label and Options describe the widget when the module has no UI
	// description and the widget is generated.
	Type    string   `yaml:"type"`
	Label   string   `yaml:"label"`
	Options []string `yaml:"options"`
}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the modules directory
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: load %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses manifest YAML. Unknown fields are rejected so typos in a
// plugin surface as load failures. An empty document declares no modules.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return Manifest{}, fmt.Errorf("manifest: parse: %w", err)
	}
	return m, nil
}

// Classes builds the classes the manifest declares. Any invalid module
// fails the whole manifest.
func (m Manifest) Classes(kinds *Kinds) ([]tweak.Class, error) {
	classes := make([]tweak.Class, 0, len(m.Modules))
	var errs []error

	for i, spec := range m.Modules {
		c, err := kinds.Build(spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("module %d (%s): %w", i, spec.Name, err))
			continue
		}
		classes = append(classes, c)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("manifest: %w", errors.Join(errs...))
	}
	return classes, nil
}
