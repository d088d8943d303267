package util

import (
	"path"
	"strings"
)

// NormalizePatternPath cleans and normalizes paths for matcher/pattern usage.
func NormalizePatternPath(s string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, "\\", "/"))
	if trimmed == "" {
		return ""
	}
	clean := path.Clean(trimmed)
	if clean == "." || clean == "/" {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}

// TrimIndexSegment drops a trailing `/index` from a module path whose first
// segment is non-empty, so `./components/button/index` becomes
// `./components/button`. A bare `index` or an absolute `/index` is kept.
func TrimIndexSegment(modulePath string) string {
	if !strings.Contains(modulePath, "/") || strings.HasPrefix(modulePath, "/") {
		return modulePath
	}
	if !strings.HasSuffix(modulePath, "/index") {
		return modulePath
	}
	return strings.TrimSuffix(modulePath, "/index")
}

// EnsureRelative prefixes `./` unless the path is already explicitly relative.
func EnsureRelative(modulePath string) string {
	if modulePath == "." || modulePath == ".." {
		return modulePath
	}
	if strings.HasPrefix(modulePath, "./") || strings.HasPrefix(modulePath, "../") {
		return modulePath
	}
	return "./" + modulePath
}
