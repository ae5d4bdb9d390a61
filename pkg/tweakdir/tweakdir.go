// Package tweakdir encapsulates all path knowledge for the tweak data
// directory. It provides a Dir value object with accessors for the config
// file, UI descriptions, pixmaps, plugin manifests and local runtime state.
package tweakdir

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Dir is a value object that resolves paths within a data directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed; use EnsureStructure to create the
// directory layout.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// DefaultRoot returns $XDG_DATA_HOME/tweak, falling back to
// ~/.local/share/tweak and finally to ./.tweak.
func DefaultRoot() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tweak")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "tweak")
	}
	return ".tweak"
}

// Root returns the absolute path to the data directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the main config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// UIDir returns the directory holding UI description files.
func (d Dir) UIDir() string { return filepath.Join(d.root, "ui") }

// UIPath resolves a UI description referenced by relative path.
func (d Dir) UIPath(rel string) string { return filepath.Join(d.root, "ui", rel) }

// PixmapsDir returns the directory holding icon images.
func (d Dir) PixmapsDir() string { return filepath.Join(d.root, "pixmaps") }

// PixmapPath resolves an icon image referenced by file name.
func (d Dir) PixmapPath(name string) string { return filepath.Join(d.root, "pixmaps", name) }

// ModulesDir returns the directory scanned for plugin manifests.
func (d Dir) ModulesDir() string { return filepath.Join(d.root, "modules") }

// LocalDir returns the path to the local (gitignored) runtime state directory.
func (d Dir) LocalDir() string { return filepath.Join(d.root, "local") }

// LogPath returns the path to the log file inside local/.
func (d Dir) LogPath() string { return filepath.Join(d.root, "local", "tweak.log") }

// GitignorePath returns the path to the .gitignore file inside the root.
func (d Dir) GitignorePath() string { return filepath.Join(d.root, ".gitignore") }

// ManifestFiles returns sorted paths of every plugin manifest in dir
// (non-recursive). Files starting with "_" or "." are skipped.
func ManifestFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsManifest(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	sort.Strings(files)

	return files, nil
}

// IsManifest reports whether a file name looks like a plugin manifest.
func IsManifest(name string) bool {
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return false
	}
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// Exists reports whether the root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}
