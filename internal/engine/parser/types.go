package parser

import (
	"fmt"

	coreerrors "simpleimport/internal/core/errors"
)

// Region is a half-open byte range [Start, End) in the host buffer.
type Region struct {
	Start int
	End   int
}

func (r Region) Empty() bool { return r.End <= r.Start }

func (r Region) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

type Status int

const (
	StatusPending Status = iota
	StatusResolved
)

func (s Status) String() string {
	if s == StatusResolved {
		return "resolved"
	}
	return "pending"
}

// ImportSpec is one parsed shorthand token on its way to becoming a statement.
type ImportSpec struct {
	Raw    string
	Name   string
	Module string

	IsNamedImport      bool
	IsAlternativeStyle bool
	// IsBareSideEffect comes from a leading `=`; OnlyModule from an assignment
	// context such as `const x = token`. Both render the module reference alone
	// unless a full statement is forced.
	IsBareSideEffect bool
	OnlyModule       bool

	Search          bool
	SearchTerm      string
	CaseInsensitive bool

	Status            Status
	AlreadyImportedAt *Region
	// Selection is the index of the owning selection.
	Selection int
}

// ModuleOnly reports whether the spec renders without a binding by default.
func (s *ImportSpec) ModuleOnly() bool {
	return s.IsBareSideEffect || s.OnlyModule
}

func (s *ImportSpec) Resolved() bool {
	return s.Status == StatusResolved
}

// Resolve completes the spec, replacing the module when one is given.
// A spec resolves exactly once.
func (s *ImportSpec) Resolve(module string) error {
	if s.Status == StatusResolved {
		return coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeInvalidState, "import spec already resolved"),
			coreerrors.CtxModule, s.Module)
	}
	if module != "" {
		s.Module = module
	}
	s.Status = StatusResolved
	return nil
}
