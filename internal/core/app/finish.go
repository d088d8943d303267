package app

import (
	"strings"

	"simpleimport/internal/core/ports"
	"simpleimport/internal/engine/detector"
	"simpleimport/internal/engine/parser"
	"simpleimport/internal/engine/render"
	"simpleimport/internal/shared/observability"
)

// splitTokens splits selection text into shorthand tokens on the statement
// separator and on newlines, dropping blank pieces.
func splitTokens(text, separator string) []string {
	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		pieces := []string{line}
		if separator != "" {
			pieces = strings.Split(line, separator)
		}
		for _, piece := range pieces {
			if piece = strings.TrimSpace(piece); piece != "" {
				tokens = append(tokens, piece)
			}
		}
	}
	return tokens
}

// finish emits the edits of sel once none of its specs is pending.
func (s *Session) finish(sel *Selection) {
	if sel.Status == parser.StatusResolved || sel.pending() {
		return
	}

	typed := sel.Specs
	remaining := make([]*parser.ImportSpec, 0, len(sel.Specs))
	for _, spec := range sel.Specs {
		if s.mergeExisting(spec) {
			continue
		}
		remaining = append(remaining, spec)
	}
	sel.Specs = remaining

	// In insert mode the typed token becomes the bare name when it stands
	// for a single import, whether new or merged into an existing one.
	if s.req.Mode == ModeInsert {
		var single *parser.ImportSpec
		switch {
		case len(remaining) == 1:
			single = remaining[0]
		case len(typed) == 1:
			single = typed[0]
		}
		if single != nil && single.Name != "" && s.source[sel.Region.Start:sel.Region.End] != single.Name {
			s.emit(ports.Edit{Kind: ports.EditReplace, Start: sel.Region.Start, End: sel.Region.End, Text: single.Name})
		}
	}

	statements := make([]string, 0, len(remaining))
	for _, spec := range remaining {
		stmt, err := render.Render(spec, s.req.Mode.inserts(), s.settings)
		if err != nil {
			s.logger.Error("rendering import", "token", spec.Raw, "error", err)
			continue
		}
		if s.req.Mode.inserts() {
			if s.inserted[stmt] {
				continue
			}
			s.inserted[stmt] = true
		}
		statements = append(statements, stmt)
	}

	if text := render.Join(statements); text != "" {
		if s.req.Mode.inserts() || sel.Index > 0 {
			text += "\n"
		}
		if s.req.Mode.inserts() {
			s.emit(ports.Edit{Kind: ports.EditInsert, Start: 0, End: 0, Text: text})
		} else {
			s.emit(ports.Edit{Kind: ports.EditReplace, Start: sel.Region.Start, End: sel.Region.End, Text: text})
		}
	}

	sel.Status = parser.StatusResolved
	s.logger.Debug("selection resolved", "selection", sel.Index, "statements", len(statements))
}

// mergeExisting looks for an import of the same module or name already in the
// buffer. Specs found there are rewritten in place, even when the statement
// is unchanged, and reported as handled. Module-only specs in replace mode
// still expand where typed.
func (s *Session) mergeExisting(spec *parser.ImportSpec) bool {
	region, ok := detector.Find(spec.Name, spec.Module, s.source)
	if !ok {
		return false
	}
	spec.AlreadyImportedAt = &region
	if spec.ModuleOnly() && !s.req.Mode.inserts() {
		return false
	}

	observability.AlreadyImported.Inc()
	s.markReport(spec, observability.OutcomeAlreadyImported)
	if s.merged[region] {
		return true
	}
	s.merged[region] = true

	stmt, err := render.Render(spec, true, s.settings)
	if err != nil {
		s.logger.Error("rendering import", "token", spec.Raw, "error", err)
		return true
	}
	s.logger.Debug("rewriting existing import", "region", region.String(), "statement", stmt)
	s.emit(ports.Edit{Kind: ports.EditReplace, Start: region.Start, End: region.End, Text: stmt})
	return true
}

func (s *Session) emit(edit ports.Edit) {
	observability.EditsEmitted.WithLabelValues(edit.Kind.String()).Inc()
	s.edits = append(s.edits, edit)
}
