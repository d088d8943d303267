// # internal/engine/render/render.go
package render

import (
	"fmt"
	"strings"

	"simpleimport/internal/core/config"
	coreerrors "simpleimport/internal/core/errors"
	"simpleimport/internal/engine/parser"
)

// Style is the statement flavor a spec renders to.
type Style int

const (
	StyleES6 Style = iota
	StyleCommonJS
)

func (s Style) String() string {
	if s == StyleCommonJS {
		return "commonjs"
	}
	return "es6"
}

// StyleOf picks the statement flavor: es6_by_default, inverted by the
// alternative-style marker.
func StyleOf(spec *parser.ImportSpec, s config.Settings) Style {
	if s.ES6ByDefault != spec.IsAlternativeStyle {
		return StyleES6
	}
	return StyleCommonJS
}

// Render serializes a resolved spec. forceFull renders the complete binding
// even for module-only specs.
func Render(spec *parser.ImportSpec, forceFull bool, s config.Settings) (string, error) {
	if !spec.Resolved() {
		return "", coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeInvalidState, "cannot render a pending import"),
			coreerrors.CtxModule, spec.Module)
	}

	moduleOnly := spec.ModuleOnly() && !forceFull
	if StyleOf(spec, s) == StyleES6 {
		return es6(spec, moduleOnly), nil
	}
	return commonJS(spec, moduleOnly), nil
}

func es6(spec *parser.ImportSpec, moduleOnly bool) string {
	if moduleOnly {
		return fmt.Sprintf("%q;", spec.Module)
	}
	binding := spec.Name
	if spec.IsNamedImport {
		binding = "{ " + spec.Name + " }"
	}
	return fmt.Sprintf("import %s from %q;", binding, spec.Module)
}

func commonJS(spec *parser.ImportSpec, moduleOnly bool) string {
	if moduleOnly {
		return fmt.Sprintf("require(%q);", spec.Module)
	}
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("const %s = require(%q)", spec.Name, spec.Module))
	if spec.IsNamedImport {
		buf.WriteString("." + spec.Name)
	}
	buf.WriteString(";")
	return buf.String()
}

// Join drops exact duplicates, keeping the first occurrence, and joins the
// rest with newlines.
func Join(statements []string) string {
	seen := make(map[string]bool, len(statements))
	kept := make([]string, 0, len(statements))
	for _, stmt := range statements {
		if stmt == "" || seen[stmt] {
			continue
		}
		seen[stmt] = true
		kept = append(kept, stmt)
	}
	return strings.Join(kept, "\n")
}
