package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
)

// KeyFile is a Store over an INI-style file with [Section] headers and
// key=value lines, the format of freedesktop .desktop entries. Keys have the
// form "Section/Key"; a key without a slash addresses the lines before the
// first section header. Comments, blank lines and ordering are preserved on
// write.
type KeyFile struct {
	path string
	mu   sync.Mutex
}

// NewKeyFile creates a KeyFile store for path. The file is read on every
// access.
func NewKeyFile(path string) *KeyFile {
	return &KeyFile{path: path}
}

// Path returns the file the store reads and writes.
func (k *KeyFile) Path() string { return k.path }

func (k *KeyFile) Get(_ context.Context, key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	lines, err := k.read()
	if err != nil {
		return "", err
	}

	section, name := splitKeyFileKey(key)
	if i := findKey(lines, section, name); i >= 0 {
		_, v, _ := strings.Cut(lines[i], "=")
		return strings.TrimSpace(v), nil
	}

	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, key, k.path)
}

func (k *KeyFile) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	lines, err := k.read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	updated := setKey(lines, key, value)

	return writeAtomic(k.path, joinLines(updated))
}

// Preview returns a unified diff of the change Set(key, value) would make.
// It returns an empty string when the value is already set.
func (k *KeyFile) Preview(key, value string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	lines, err := k.read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	return computeDiff(k.path, joinLines(lines), joinLines(setKey(lines, key, value))), nil
}

func (k *KeyFile) read() ([]string, error) {
	data, err := os.ReadFile(k.path)
	if err != nil {
		return nil, fmt.Errorf("settings: read %s: %w", k.path, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func splitKeyFileKey(key string) (string, string) {
	i := strings.LastIndex(key, "/")
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+1:]
}

func sectionHeader(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if len(t) >= 2 && t[0] == '[' && t[len(t)-1] == ']' {
		return t[1 : len(t)-1], true
	}
	return "", false
}

func isComment(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || t[0] == '#' || t[0] == ';'
}

// findKey returns the index of the line holding section/name, or -1.
func findKey(lines []string, section, name string) int {
	current := ""
	for i, line := range lines {
		if s, ok := sectionHeader(line); ok {
			current = s
			continue
		}
		if current != section || isComment(line) {
			continue
		}
		k, _, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(k) == name {
			return i
		}
	}
	return -1
}

// setKey returns a copy of lines with section/name set to value. Missing
// keys are appended to the end of their section; missing sections are
// appended to the file.
func setKey(lines []string, key, value string) []string {
	section, name := splitKeyFileKey(key)
	entry := name + "=" + value

	out := make([]string, len(lines), len(lines)+2)
	copy(out, lines)

	if i := findKey(out, section, name); i >= 0 {
		out[i] = entry
		return out
	}

	end := sectionEnd(out, section)
	if end < 0 {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		return append(out, "["+section+"]", entry)
	}

	out = append(out, "")
	copy(out[end+1:], out[end:])
	out[end] = entry
	return out
}

// sectionEnd returns the index just past the last key line of section, or
// -1 when the section does not exist. The unnamed leading section always
// exists.
func sectionEnd(lines []string, section string) int {
	current := ""
	found := section == ""
	end := 0
	for i, line := range lines {
		if s, ok := sectionHeader(line); ok {
			current = s
			if s == section {
				found = true
				end = i + 1
			}
			continue
		}
		if current == section && !isComment(line) {
			end = i + 1
		}
	}
	if !found {
		return -1
	}
	return end
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// computeDiff returns a unified diff between oldContent and newContent labeled
// with the given path. Returns an empty string when the contents are equal.
func computeDiff(path, oldContent, newContent string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}

	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("(diff error: %v)", err)
	}

	return result
}

func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	return nil
}
