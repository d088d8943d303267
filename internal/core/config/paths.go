package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var rootMarkers = []string{
	DefaultSettingsFile,
	ManifestFile,
	".git",
}

// DetectProjectRoot walks up from each candidate until a directory holding a
// root marker is found. The first candidate that reaches one wins; without any
// marker the current working directory is used.
func DetectProjectRoot(candidates []string) (string, error) {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range rootMarkers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}

// ViewPath returns file relative to root with forward slashes, the form used
// for path rules and for excluding the current file from search results.
func ViewPath(root, file string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absFile, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absFile)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside project root %s", file, root)
	}
	return filepath.ToSlash(rel), nil
}
