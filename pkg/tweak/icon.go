package tweak

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/tweak/pkg/tweakdir"
)

// Icon is a resolved module icon. Path is set for image icons found in the
// pixmaps directory; Glyph is what the terminal shows.
type Icon struct {
	Glyph string
	Path  string
}

const (
	glyphImage   = "▣"
	glyphUnknown = "•"
)

var iconGlyphs = map[string]string{
	"dialog-error":                  "✖",
	"gtk-dialog-error":              "✖",
	"computer":                      "🖥",
	"system":                        "⚙",
	"preferences-system":            "⚙",
	"preferences-desktop":           "🖵",
	"preferences-desktop-theme":     "🎨",
	"preferences-desktop-font":      "🅰",
	"preferences-desktop-wallpaper": "🖼",
	"system-file-manager":           "🗀",
	"folder":                        "🗀",
	"user-home":                     "⌂",
	"system-run":                    "▶",
	"application-x-executable":      "▶",
	"applications-system":           "⚙",
	"session-properties":            "⏻",
	"system-users":                  "👤",
	"input-keyboard":                "⌨",
	"input-mouse":                   "🖱",
	"audio-volume-high":             "🔊",
	"network-workgroup":             "🖧",
	"drive-harddisk":                "🖴",
	"security-high":                 "🔒",
	"software-update-available":     "⟳",
}

// ResolveIcon resolves the module icon. A name ending in .png refers to an
// image in the pixmaps directory; any other name is looked up in the glyph
// table. With several names the first one that resolves wins.
func ResolveIcon(info Info, dir tweakdir.Dir) Icon {
	for _, name := range info.Icon {
		if strings.HasSuffix(name, ".png") {
			path := dir.PixmapPath(name)
			if _, err := os.Stat(path); err == nil {
				return Icon{Glyph: glyphImage, Path: path}
			}
			continue
		}
		if g, ok := iconGlyphs[name]; ok {
			return Icon{Glyph: g}
		}
	}
	return Icon{Glyph: glyphUnknown}
}

// IconNames is a list of icon names tried in order. In YAML it may be
// written as a single name or a list.
type IconNames []string

// UnmarshalYAML accepts a scalar or a sequence.
func (n *IconNames) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*n = IconNames{value.Value}
		return nil
	}
	var names []string
	if err := value.Decode(&names); err != nil {
		return err
	}
	*n = names
	return nil
}
