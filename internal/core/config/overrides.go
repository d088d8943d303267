package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	coreerrors "simpleimport/internal/core/errors"

	"github.com/BurntSushi/toml"
)

// DefaultOverridesPath is where the editor/global layer lives when no path is given.
func DefaultOverridesPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "simple-import", "settings.toml")
	}
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "simple-import", "settings.toml")
	}
	return "simple-import.toml"
}

// LoadOverrides decodes a TOML file whose keys mirror the project settings
// file. A missing file yields empty overrides when optional is set.
func LoadOverrides(path string, optional bool) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Overrides{}, nil
		}
		return nil, coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeMalformedConfig, "cannot read overrides file"),
			coreerrors.CtxPath, path)
	}

	values := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &values); err != nil {
		return nil, coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeMalformedConfig, "cannot parse overrides file"),
			coreerrors.CtxPath, path)
	}
	return Overrides(values), nil
}
