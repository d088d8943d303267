package app

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"simpleimport/internal/engine/parser"
)

// dependencyUse is one occurrence of a package.json dependency in the buffer.
type dependencyUse struct {
	Region parser.Region
	Name   string
}

// dependencyUses finds every whole-word, case-insensitive use of a
// dependency name in source. A use starts the text or follows whitespace and
// ends the text or is followed by whitespace, `.`, `(` or `|`. Longer names
// are tried first so `react-dom` is not read as `react`.
func dependencyUses(source string, dependencies []string) []dependencyUse {
	names := make([]string, 0, len(dependencies))
	for _, dep := range dependencies {
		if dep = strings.TrimSpace(dep); dep != "" {
			names = append(names, dep)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	var uses []dependencyUse
	for i := 0; i < len(source); {
		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(source[:i])
			if !unicode.IsSpace(prev) {
				_, size := utf8.DecodeRuneInString(source[i:])
				i += size
				continue
			}
		}
		name, end := matchDependency(source, i, names)
		if end < 0 {
			_, size := utf8.DecodeRuneInString(source[i:])
			i += size
			continue
		}
		uses = append(uses, dependencyUse{Region: parser.Region{Start: i, End: end}, Name: name})
		i = end
	}
	return uses
}

func matchDependency(source string, at int, names []string) (string, int) {
	for _, name := range names {
		end := at + len(name)
		if end > len(source) || !strings.EqualFold(source[at:end], name) {
			continue
		}
		if end == len(source) {
			return name, end
		}
		next, _ := utf8.DecodeRuneInString(source[end:])
		if unicode.IsSpace(next) || strings.ContainsRune(".(|", next) {
			return name, end
		}
	}
	return "", -1
}
