package app

import (
	"simpleimport/internal/engine/parser"
	"simpleimport/internal/engine/render"
)

// SpecReport records how one token was resolved.
type SpecReport struct {
	Selection int
	Token     string
	Spec      *parser.ImportSpec
	Style     string
	Outcome   string
}

// Reports lists resolved and dropped specs in resolution order.
func (s *Session) Reports() []SpecReport {
	return append([]SpecReport(nil), s.reports...)
}

func (s *Session) report(spec *parser.ImportSpec, outcome string) {
	s.reports = append(s.reports, SpecReport{
		Selection: spec.Selection,
		Token:     spec.Raw,
		Spec:      spec,
		Style:     render.StyleOf(spec, s.settings).String(),
		Outcome:   outcome,
	})
}

func (s *Session) markReport(spec *parser.ImportSpec, outcome string) {
	for i := range s.reports {
		if s.reports[i].Spec == spec {
			s.reports[i].Outcome = outcome
			return
		}
	}
}
