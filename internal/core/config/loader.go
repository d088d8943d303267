package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	coreerrors "simpleimport/internal/core/errors"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// Resolve builds the effective settings for the file at viewRelPath
// (project-relative, slash separated): defaults, then overrides, then the
// project settings file. A malformed project file is reported through the
// returned error while the returned Settings still carry defaults plus
// overrides, so callers can log and carry on.
func Resolve(projectRoot string, overrides Overrides, viewRelPath string) (Settings, error) {
	settings := Defaults()
	settings.apply(overrides)

	if strings.TrimSpace(projectRoot) == "" {
		return settings, nil
	}

	path := filepath.Join(projectRoot, settings.SettingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, coreerrors.AddContext(
			coreerrors.Wrap(err, coreerrors.CodeMalformedConfig, "cannot read settings file"),
			coreerrors.CtxPath, path)
	}

	project, err := parseProjectFile(data)
	if err != nil {
		return settings, coreerrors.AddContext(err, coreerrors.CtxPath, path)
	}

	merged := settings
	merged.Paths = project.rules
	if rule, ok := project.match(filepath.ToSlash(viewRelPath)); ok {
		slog.Debug("applying path-scoped settings", "view", viewRelPath, "prefixes", rule.Prefixes)
		merged.apply(rule.Values)
		return merged, nil
	}
	merged.apply(project.top)
	return merged, nil
}

type projectFile struct {
	top   map[string]interface{}
	rules []PathRule
}

func parseProjectFile(data []byte) (projectFile, error) {
	clean := jsonc.ToJSON(data)
	if !gjson.ValidBytes(clean) {
		return projectFile{}, coreerrors.New(coreerrors.CodeMalformedConfig, "settings file is not valid JSON")
	}
	root := gjson.ParseBytes(clean)
	if !root.IsObject() {
		return projectFile{}, coreerrors.New(coreerrors.CodeMalformedConfig, "settings file must contain a JSON object")
	}

	pf := projectFile{top: objectValues(root)}
	// ForEach walks object members in file order, which decides the first match.
	root.Get("paths").ForEach(func(key, value gjson.Result) bool {
		if rule, ok := ruleFrom([]string{key.String()}, value); ok {
			pf.rules = append(pf.rules, rule)
		} else {
			slog.Warn("ignoring path rule without a settings object", "key", key.String())
		}
		return true
	})
	return pf, nil
}

// ruleFrom reads one `paths` entry. An array value is (prefix..., settings)
// and replaces the object key as the prefix list.
func ruleFrom(prefixes []string, value gjson.Result) (PathRule, bool) {
	switch {
	case value.IsObject():
		return PathRule{Prefixes: prefixes, Values: objectValues(value)}, true
	case value.IsArray():
		items := value.Array()
		if len(items) == 0 {
			return PathRule{}, false
		}
		inner := make([]string, 0, len(items)-1)
		for _, item := range items[:len(items)-1] {
			inner = append(inner, item.String())
		}
		return ruleFrom(inner, items[len(items)-1])
	}
	return PathRule{}, false
}

func (pf projectFile) match(viewRelPath string) (PathRule, bool) {
	for _, rule := range pf.rules {
		if prefixPattern(rule.Prefixes).MatchString(viewRelPath) {
			return rule, true
		}
	}
	return PathRule{}, false
}

// prefixPattern compiles `^(p1|p2|...)`. Prefixes are user supplied regular
// expressions; one that does not compile is matched literally instead.
func prefixPattern(prefixes []string) *regexp.Regexp {
	re, err := regexp.Compile("^(" + strings.Join(prefixes, "|") + ")")
	if err == nil {
		return re
	}
	slog.Warn("path rule is not a valid pattern, matching literally", "prefixes", prefixes, "error", err)
	quoted := make([]string, len(prefixes))
	for i, p := range prefixes {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("^(" + strings.Join(quoted, "|") + ")")
}

func objectValues(obj gjson.Result) map[string]interface{} {
	values, ok := obj.Value().(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return values
}
