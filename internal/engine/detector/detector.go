package detector

import (
	"regexp"
	"strings"

	"simpleimport/internal/engine/parser"
)

// anyName and anyModule are the wildcards used when only one side of an
// import has to match.
const (
	anyName   = ".+"
	anyModule = ".+"
)

// Find locates an existing import of module (bound to any name) or, failing
// that, an import bound to name (from any module). Both forms are recognized:
//
//	import Name from "module";
//	import { Name } from "module";
//	const Name = require("module").prop;
//
// The returned region is the byte range of the first match.
func Find(name, module, source string) (parser.Region, bool) {
	if module != "" {
		if r, ok := find(anyName, regexp.QuoteMeta(module), source); ok {
			return r, true
		}
	}
	if name != "" {
		if r, ok := find(regexp.QuoteMeta(name), anyModule, source); ok {
			return r, true
		}
	}
	return parser.Region{}, false
}

func find(namePattern, modulePattern, source string) (parser.Region, bool) {
	re, err := regexp.Compile(importPattern(namePattern, modulePattern))
	if err != nil {
		return parser.Region{}, false
	}
	loc := re.FindStringIndex(source)
	if loc == nil {
		return parser.Region{}, false
	}
	return parser.Region{Start: loc[0], End: loc[1]}, true
}

func importPattern(name, module string) string {
	var b strings.Builder
	b.WriteString(`(import\s+\{?\s*`)
	b.WriteString(name)
	b.WriteString(`\s*\}?\s+from\s+("|')`)
	b.WriteString(module)
	b.WriteString(`("|')|((var|const|let)\s+)?`)
	b.WriteString(name)
	b.WriteString(`\s*=\s*require\(\s*['"]`)
	b.WriteString(module)
	b.WriteString(`['"]\s*\)(\s*\.\s*\w+)?)(\s*;)?`)
	return b.String()
}
