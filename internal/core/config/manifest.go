package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	coreerrors "simpleimport/internal/core/errors"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

const ManifestFile = "package.json"

// LoadDependencies returns the keys of the `dependencies` object of the
// project's package.json in file order. A missing manifest yields no names.
func LoadDependencies(projectRoot string) ([]string, error) {
	path := filepath.Join(projectRoot, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeMalformedConfig, "cannot read manifest"),
			coreerrors.CtxPath, path)
	}

	clean := jsonc.ToJSON(data)
	if !gjson.ValidBytes(clean) {
		return nil, coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeMalformedConfig, "manifest is not valid JSON"),
			coreerrors.CtxPath, path)
	}

	var names []string
	gjson.GetBytes(clean, "dependencies").ForEach(func(key, _ gjson.Result) bool {
		if name := key.String(); name != "" {
			names = append(names, name)
		}
		return true
	})
	return names, nil
}
