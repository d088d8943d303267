package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const envPrefix = "SIMPLE_IMPORT_"

var (
	envStringKeys = []string{
		"separator",
		"name_separator",
		"from_indicator",
		"search_indicator",
		"search_ignorecase_indicator",
		"settings_file",
	}
	envBoolKeys = []string{
		"remove_index_from_path",
		"search_by_default",
		"search_ignorecase_by_default",
		"es6_by_default",
	}
	envListKeys = []string{
		"excluded_directories",
		"extensions",
	}
)

// ApplyEnvOverrides layers environment variables on top of the editor
// overrides. Pattern: SIMPLE_IMPORT_<KEY> (e.g. SIMPLE_IMPORT_ES6_BY_DEFAULT).
// List values are comma separated.
func ApplyEnvOverrides(o Overrides) Overrides {
	if o == nil {
		o = Overrides{}
	}
	for _, key := range envStringKeys {
		setEnvString(o, key)
	}
	for _, key := range envBoolKeys {
		setEnvBool(o, key)
	}
	for _, key := range envListKeys {
		setEnvList(o, key)
	}
	return o
}

func envName(key string) string {
	return envPrefix + strings.ToUpper(key)
}

func setEnvString(o Overrides, key string) {
	if val, ok := os.LookupEnv(envName(key)); ok {
		slog.Debug("applying env override", "key", envName(key), "value", val)
		o[key] = val
	}
}

func setEnvBool(o Overrides, key string) {
	if val, ok := os.LookupEnv(envName(key)); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err != nil {
			slog.Warn("ignoring env override", "key", envName(key), "value", val, "error", err)
			return
		}
		slog.Debug("applying env override", "key", envName(key), "value", val)
		o[key] = b
	}
}

func setEnvList(o Overrides, key string) {
	if val, ok := os.LookupEnv(envName(key)); ok {
		items := []interface{}{}
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		slog.Debug("applying env override", "key", envName(key), "value", val)
		o[key] = items
	}
}
