package config

import (
	"fmt"
	"log/slog"
	"strings"
)

const DefaultSettingsFile = ".simple-import.json"

// PathRule is one entry of the project file's `paths` object. Prefixes are
// regular expressions anchored at the start of the view's project-relative
// path; Values holds the settings object merged when a prefix matches.
type PathRule struct {
	Prefixes []string
	Values   map[string]interface{}
}

// Settings is the effective configuration for one expansion. It is built once
// by Resolve and passed by value to the parser, search and renderer.
type Settings struct {
	Paths                     []PathRule
	Separator                 string
	NameSeparator             string
	FromIndicator             string
	ExcludedDirectories       []string
	Extensions                []string
	RemoveIndexFromPath       bool
	SearchIndicator           string
	SearchIgnorecaseIndicator string
	SettingsFile              string
	SearchByDefault           bool
	SearchIgnorecaseByDefault bool
	ES6ByDefault              bool
}

// Overrides is the editor/global layer, keyed like the project settings file.
type Overrides map[string]interface{}

func Defaults() Settings {
	return Settings{
		Separator:                 ";",
		NameSeparator:             ":",
		FromIndicator:             "::",
		ExcludedDirectories:       []string{},
		Extensions:                []string{"js"},
		RemoveIndexFromPath:       true,
		SearchIndicator:           "@",
		SearchIgnorecaseIndicator: "!",
		SettingsFile:              DefaultSettingsFile,
		SearchByDefault:           true,
		SearchIgnorecaseByDefault: true,
		ES6ByDefault:              true,
	}
}

// HasExtension reports whether ext (without the dot) is a recognized source extension.
func (s Settings) HasExtension(ext string) bool {
	for _, candidate := range s.Extensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

// apply merges a settings object onto s. Unknown keys and values of the wrong
// type are logged and skipped; `paths` is only meaningful in the project file
// and is handled by the resolver.
func (s *Settings) apply(values map[string]interface{}) {
	for key, raw := range values {
		var ok bool
		switch key {
		case "paths":
			ok = true
		case "separator":
			ok = setString(&s.Separator, raw)
		case "name_separator":
			ok = setString(&s.NameSeparator, raw)
		case "from_indicator":
			ok = setString(&s.FromIndicator, raw)
		case "excluded_directories":
			ok = setList(&s.ExcludedDirectories, raw)
		case "extensions":
			ok = setList(&s.Extensions, raw)
		case "remove_index_from_path":
			ok = setBool(&s.RemoveIndexFromPath, raw)
		case "search_indicator":
			ok = setString(&s.SearchIndicator, raw)
		case "search_ignorecase_indicator":
			ok = setString(&s.SearchIgnorecaseIndicator, raw)
		case "settings_file":
			ok = setString(&s.SettingsFile, raw)
		case "search_by_default":
			ok = setBool(&s.SearchByDefault, raw)
		case "search_ignorecase_by_default":
			ok = setBool(&s.SearchIgnorecaseByDefault, raw)
		case "es6_by_default":
			ok = setBool(&s.ES6ByDefault, raw)
		default:
			slog.Debug("ignoring unknown setting", "key", key)
			continue
		}
		if !ok {
			slog.Warn("ignoring setting with unexpected type", "key", key, "type", fmt.Sprintf("%T", raw))
		}
	}
	s.normalize()
}

// normalize restores defaults for tokens the parser cannot work without.
func (s *Settings) normalize() {
	defaults := Defaults()
	if s.NameSeparator == "" {
		slog.Warn("name_separator must not be empty, using default", "default", defaults.NameSeparator)
		s.NameSeparator = defaults.NameSeparator
	}
	if s.FromIndicator == "" {
		s.FromIndicator = s.NameSeparator + s.NameSeparator
	}
	if s.Separator == "" {
		s.Separator = defaults.Separator
	}
	if strings.TrimSpace(s.SettingsFile) == "" {
		s.SettingsFile = defaults.SettingsFile
	}

	extensions := make([]string, 0, len(s.Extensions))
	for _, ext := range s.Extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			extensions = append(extensions, ext)
		}
	}
	if len(extensions) == 0 {
		extensions = defaults.Extensions
	}
	s.Extensions = extensions
}

func setString(target *string, raw interface{}) bool {
	value, ok := raw.(string)
	if ok {
		*target = value
	}
	return ok
}

func setBool(target *bool, raw interface{}) bool {
	value, ok := raw.(bool)
	if ok {
		*target = value
	}
	return ok
}

func setList(target *[]string, raw interface{}) bool {
	switch values := raw.(type) {
	case []string:
		*target = append([]string(nil), values...)
		return true
	case []interface{}:
		out := make([]string, 0, len(values))
		for _, v := range values {
			str, ok := v.(string)
			if !ok {
				return false
			}
			out = append(out, str)
		}
		*target = out
		return true
	}
	return false
}
