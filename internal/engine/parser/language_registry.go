package parser

import (
	"path"
	"sort"
	"strings"

	coreerrors "simpleimport/internal/core/errors"
)

type LanguageSpec struct {
	Name       string
	Extensions []string
}

// DefaultLanguageRegistry lists the file types whose import syntax the
// engine renders (ES-module and CommonJS).
func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		"javascript": {
			Name:       "javascript",
			Extensions: []string{".js", ".cjs", ".mjs", ".jsx"},
		},
		"typescript": {
			Name:       "typescript",
			Extensions: []string{".ts", ".cts", ".mts", ".tsx"},
		},
		"vue": {
			Name:       "vue",
			Extensions: []string{".vue"},
		},
		"svelte": {
			Name:       "svelte",
			Extensions: []string{".svelte"},
		},
	}
}

// LookupLanguage resolves the language for filename. Extensions configured
// for search (without dot) count as javascript so projects using custom
// extensions can still expand tokens in those files.
func LookupLanguage(filename string, extraExtensions []string) (LanguageSpec, error) {
	ext := strings.ToLower(path.Ext(filename))
	registry := DefaultLanguageRegistry()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec := registry[name]
		for _, candidate := range spec.Extensions {
			if candidate == ext {
				return spec, nil
			}
		}
	}

	for _, extra := range extraExtensions {
		if ext != "" && "."+strings.TrimPrefix(strings.ToLower(extra), ".") == ext {
			return registry["javascript"], nil
		}
	}

	syntax := strings.TrimPrefix(ext, ".")
	if syntax == "" {
		syntax = path.Base(filename)
	}
	return LanguageSpec{}, coreerrors.AddContext(
		coreerrors.New(coreerrors.CodeUnsupportedSyntax, "no import syntax registered for file type"),
		coreerrors.CtxSyntax, syntax)
}
