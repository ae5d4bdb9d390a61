package tweakdir

import (
	"fmt"
	"os"
)

const gitignoreContent = "local/\n"

// EnsureStructure creates the ui/, pixmaps/, modules/ and local/ directories
// and the .gitignore file if they are missing. It is safe to call multiple
// times.
func EnsureStructure(d Dir) error {
	for _, dir := range []string{d.UIDir(), d.PixmapsDir(), d.ModulesDir(), d.LocalDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("tweakdir: create %s: %w", dir, err)
		}
	}

	if err := ensureGitignore(d); err != nil {
		return fmt.Errorf("tweakdir: gitignore: %w", err)
	}

	return nil
}

// BootstrapWithConfig creates the directory layout and writes configYAML to
// the config path. An existing config file is left untouched and reported
// as an error.
func BootstrapWithConfig(d Dir, configYAML []byte) error {
	if err := EnsureStructure(d); err != nil {
		return err
	}

	f, err := os.OpenFile(d.ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("tweakdir: write config: %w", err)
	}

	if _, err := f.Write(configYAML); err != nil {
		_ = f.Close()
		return fmt.Errorf("tweakdir: write config: %w", err)
	}

	return f.Close()
}

// ensureGitignore creates the .gitignore file if it does not exist.
func ensureGitignore(d Dir) error {
	path := d.GitignorePath()

	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}

	return os.WriteFile(path, []byte(gitignoreContent), 0o600)
}
