// # internal/engine/parser/parser.go
package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"simpleimport/internal/core/config"
	"simpleimport/internal/shared/util"
)

// es6ImportRE recognizes a complete ES-module statement typed as a token,
// e.g. `import { a, b } from "./x"`, optionally followed by a style suffix.
var es6ImportRE = regexp.MustCompile(`^import\s+(\{)?\s*((?:\s*,\s*|[^\s{}.])+)\s*(\})?\s+from\s+['"](.+)['"]`)

// Parse turns a shorthand token into an ImportSpec. context is the text from
// the start of the token's line up to the token's end and may be empty. Parse
// is pure and never fails; degenerate tokens yield name == module == token.
func Parse(token, context string, s config.Settings) ImportSpec {
	token = strings.TrimSpace(token)
	p := &tokenParser{
		settings: s,
		spec: ImportSpec{
			Raw:             token,
			CaseInsensitive: s.SearchIgnorecaseByDefault,
		},
	}

	if m := es6ImportRE.FindStringSubmatch(token); m != nil {
		p.statement(token, m)
		return p.spec
	}

	word := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, token)

	if strings.HasPrefix(word, "=") {
		p.spec.IsBareSideEffect = true
		word = word[1:]
	}

	if strings.Contains(word, s.NameSeparator) || strings.Contains(word, s.FromIndicator) {
		p.separated(word)
		return p.spec
	}

	if context != "" && assignmentPattern(word).MatchString(context) {
		p.spec.OnlyModule = true
	}
	p.spec.Name = p.name(word)
	p.spec.Module = p.module(word)
	return p.spec
}

type tokenParser struct {
	settings config.Settings
	spec     ImportSpec
}

func (p *tokenParser) statement(token string, m []string) {
	module := m[4]
	p.spec.IsNamedImport = m[1] != ""
	p.spec.Name = strings.TrimSpace(m[2])
	if strings.HasSuffix(module, "$") {
		module = strings.TrimSuffix(module, "$")
		p.spec.IsAlternativeStyle = true
	}
	if strings.HasSuffix(token, p.settings.NameSeparator+"$") {
		p.spec.IsAlternativeStyle = true
	}
	p.spec.Module = module
}

func (p *tokenParser) separated(word string) {
	sep := p.settings.NameSeparator
	if strings.Contains(word, p.settings.FromIndicator) {
		sep = p.settings.FromIndicator
		p.spec.IsNamedImport = true
	}

	parts := strings.SplitN(word, sep, 2)
	name, module := parts[0], parts[1]

	switch {
	case module == "$":
		p.spec.IsAlternativeStyle = true
		module = ""
	case strings.HasSuffix(module, p.settings.NameSeparator+"$"):
		p.spec.IsAlternativeStyle = true
		module = strings.TrimSuffix(module, p.settings.NameSeparator+"$")
	}
	if module == "" {
		module = name
	}
	if name == "" {
		name = module
	}

	p.spec.Name = p.name(name)
	p.spec.Module = p.module(module)
}

// name derives the bound identifier: `@my-lib/sub-thing.js` -> `subThing`.
func (p *tokenParser) name(raw string) string {
	name := p.detectSearch(raw)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '!', '@', '*':
			return -1
		}
		return r
	}, name)

	if strings.Contains(name, "/") {
		segments := nonEmpty(strings.Split(name, "/"))
		if len(segments) == 0 {
			return ""
		}
		name = segments[len(segments)-1]
		if name == "index" && len(segments) > 1 {
			name = segments[len(segments)-2]
		}
	}

	if strings.Contains(name, "-") {
		words := strings.Split(name, "-")
		var b strings.Builder
		b.WriteString(words[0])
		for _, w := range words[1:] {
			if w == "" {
				continue
			}
			r, size := utf8.DecodeRuneInString(w)
			b.WriteRune(unicode.ToUpper(r))
			b.WriteString(w[size:])
		}
		name = b.String()
	}

	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

// module derives the module reference. Bare package names are lower-cased,
// path-like references keep their case.
func (p *tokenParser) module(raw string) string {
	module := p.detectSearch(raw)
	if !strings.Contains(module, "/") {
		return strings.ToLower(module)
	}
	if p.settings.RemoveIndexFromPath {
		module = util.TrimIndexSegment(module)
	}
	return module
}

// detectSearch consumes the leading search/ignorecase indicators of raw,
// records the resulting flags and returns the remainder. The search indicator
// flips search_by_default; the ignorecase indicator flips
// search_ignorecase_by_default and keeps search on only when search is on by
// default.
func (p *tokenParser) detectSearch(raw string) string {
	s := p.settings
	rest := raw
	var sawSearch, sawIgnorecase bool
	for i := 0; i < 2; i++ {
		switch {
		case !sawSearch && s.SearchIndicator != "" && strings.HasPrefix(rest, s.SearchIndicator):
			sawSearch = true
			rest = rest[len(s.SearchIndicator):]
		case !sawIgnorecase && s.SearchIgnorecaseIndicator != "" && strings.HasPrefix(rest, s.SearchIgnorecaseIndicator):
			sawIgnorecase = true
			rest = rest[len(s.SearchIgnorecaseIndicator):]
		}
	}

	search := s.SearchByDefault
	if sawSearch {
		search = !s.SearchByDefault
	}
	if sawIgnorecase {
		p.spec.CaseInsensitive = !s.SearchIgnorecaseByDefault
		search = search && s.SearchByDefault
	}
	if search {
		p.spec.Search = true
		p.spec.SearchTerm = rest
	}
	return rest
}

// assignmentPattern matches a line ending in `= <token>` with an optional `;`.
func assignmentPattern(token string) *regexp.Regexp {
	return regexp.MustCompile(`=\s*` + regexp.QuoteMeta(token) + `(\s*;\n?)?$`)
}

func nonEmpty(items []string) []string {
	out := items[:0:0]
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
