// # internal/core/app/session.go
package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"simpleimport/internal/core/config"
	coreerrors "simpleimport/internal/core/errors"
	"simpleimport/internal/core/ports"
	"simpleimport/internal/engine/parser"
	"simpleimport/internal/engine/search"
	"simpleimport/internal/shared/observability"

	"github.com/google/uuid"
)

type Mode int

const (
	// ModeReplace replaces each selection with its statements.
	ModeReplace Mode = iota
	// ModeInsert inserts statements at the top of the buffer and leaves the
	// bound name where the token was typed.
	ModeInsert
	// ModeResolveAll turns every package.json dependency used in the buffer
	// into an import at the top of the buffer.
	ModeResolveAll
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "insert"
	case ModeResolveAll:
		return "resolve-all"
	default:
		return "replace"
	}
}

func (m Mode) inserts() bool { return m != ModeReplace }

// Request carries everything one expansion needs from the host.
type Request struct {
	Editor ports.Editor
	// Project is the project root; searches walk it.
	Project fs.FS
	// ViewPath is the slash-separated path of the edited file inside Project.
	ViewPath string
	Settings config.Settings
	Mode     Mode
	// Dependencies are the package.json dependency names, used by
	// ModeResolveAll.
	Dependencies []string
}

// Selection is one region of the buffer and the specs typed into it.
type Selection struct {
	Index   int
	Region  parser.Region
	Context parser.Region
	Specs   []*parser.ImportSpec
	Status  parser.Status
}

func (s *Selection) pending() bool {
	for _, spec := range s.Specs {
		if !spec.Resolved() {
			return true
		}
	}
	return false
}

func (s *Selection) remove(target *parser.ImportSpec) {
	for i, spec := range s.Specs {
		if spec == target {
			s.Specs = append(s.Specs[:i], s.Specs[i+1:]...)
			return
		}
	}
}

type pendingChoice struct {
	spec       *parser.ImportSpec
	selection  *Selection
	candidates []string
}

// Session resolves the shorthand tokens of one invocation. Searches with
// several candidates suspend in a FIFO queue; Next exposes the head and
// Choose resumes it.
type Session struct {
	ID string

	req      Request
	settings config.Settings
	source   string
	viewDir  string
	logger   *slog.Logger

	selections []*Selection
	queue      []pendingChoice
	edits      []ports.Edit
	merged     map[parser.Region]bool
	inserted   map[string]bool
	reports    []SpecReport
	cursor     int
	done       bool
}

var _ ports.ImportSession = (*Session)(nil)

// NewSession parses every selection of req.Editor, runs the searches and
// resolves whatever does not need a choice. The returned session may already
// be done.
func NewSession(req Request) (*Session, error) {
	if req.Editor == nil {
		return nil, coreerrors.New(coreerrors.CodeInvalidState, "editor is required")
	}
	if _, err := parser.LookupLanguage(req.ViewPath, req.Settings.Extensions); err != nil {
		return nil, coreerrors.AddContext(err, coreerrors.CtxPath, req.ViewPath)
	}

	id := uuid.NewString()
	s := &Session{
		ID:       id,
		req:      req,
		settings: req.Settings,
		source:   req.Editor.Substr(parser.Region{Start: 0, End: req.Editor.Size()}),
		viewDir:  path.Dir(req.ViewPath),
		logger:   slog.With("session", id),
		merged:   make(map[parser.Region]bool),
		inserted: make(map[string]bool),
	}

	if req.Mode == ModeResolveAll {
		uses := dependencyUses(s.source, req.Dependencies)
		s.logger.Info("resolving dependencies", "file", req.ViewPath, "dependencies", len(req.Dependencies), "uses", len(uses))
		for i, use := range uses {
			s.selections = append(s.selections, s.parseSelection(i, use.Region, use.Name))
		}
	} else {
		regions := req.Editor.Selections()
		s.logger.Info("resolving imports", "file", req.ViewPath, "mode", req.Mode.String(), "selections", len(regions))
		for i, raw := range regions {
			s.selections = append(s.selections, s.parseSelection(i, raw, ""))
		}
	}
	for _, sel := range s.selections {
		s.finish(sel)
	}
	s.checkDone()
	return s, nil
}

// parseSelection expands raw to its token, splits it and parses every piece.
// A non-empty module names the dependency a resolve-all match stands for; it
// becomes the module verbatim and disables search.
func (s *Session) parseSelection(index int, raw parser.Region, module string) *Selection {
	ed := s.req.Editor
	region := raw
	if module == "" {
		region = ed.Word(raw)
	}
	line := ed.Line(raw)
	sel := &Selection{
		Index:   index,
		Region:  region,
		Context: parser.Region{Start: line.Start, End: region.End},
	}
	lineContext := ed.Substr(sel.Context)

	for _, token := range splitTokens(ed.Substr(region), s.settings.Separator) {
		spec := parser.Parse(token, lineContext, s.settings)
		if spec.Name == "" && spec.Module == "" {
			s.logger.Debug("skipping empty token", "token", token)
			continue
		}
		spec.Selection = index
		specPtr := &spec
		sel.Specs = append(sel.Specs, specPtr)
		if module != "" {
			specPtr.Search = false
			s.resolve(specPtr, module, observability.OutcomeLiteral)
			continue
		}
		s.lookup(sel, specPtr)
	}
	return sel
}

// lookup resolves spec right away or parks it in the choice queue.
func (s *Session) lookup(sel *Selection, spec *parser.ImportSpec) {
	if !spec.Search {
		s.resolve(spec, "", observability.OutcomeLiteral)
		return
	}

	candidates, err := search.Search(s.req.Project, spec.SearchTerm, s.settings, search.Options{
		ViewPath:        s.req.ViewPath,
		ExcludeViewFile: true,
		CaseInsensitive: spec.CaseInsensitive,
	})
	if err != nil {
		s.logger.Warn("candidate search failed", "term", spec.SearchTerm, "error", err)
	}

	switch len(candidates) {
	case 0:
		err := coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeNoCandidates, "no file matches search term"),
			coreerrors.CtxTerm, spec.SearchTerm)
		s.logger.Debug("keeping typed module", "module", spec.Module, "error", err)
		s.resolve(spec, "", observability.OutcomeNoMatch)
	case 1:
		s.resolve(spec, search.ModulePath(candidates[0], s.viewDir, s.settings), observability.OutcomeSingle)
	default:
		s.logger.Debug("search is ambiguous", "term", spec.SearchTerm, "candidates", len(candidates))
		s.queue = append(s.queue, pendingChoice{spec: spec, selection: sel, candidates: candidates})
	}
}

func (s *Session) resolve(spec *parser.ImportSpec, module, outcome string) {
	if err := spec.Resolve(module); err != nil {
		s.logger.Error("resolving import spec", "error", err)
		return
	}
	observability.SpecsResolved.WithLabelValues(outcome).Inc()
	s.report(spec, outcome)
}

// Next returns the choice the session is waiting for, if any.
func (s *Session) Next() (ports.ChoiceRequest, bool) {
	if len(s.queue) == 0 {
		return ports.ChoiceRequest{}, false
	}
	head := s.queue[0]
	return ports.ChoiceRequest{
		Title:     fmt.Sprintf("Import %s", head.spec.SearchTerm),
		Term:      head.spec.SearchTerm,
		Options:   append([]string(nil), head.candidates...),
		Selection: head.selection.Index,
	}, true
}

// Choose resumes the head of the choice queue with the candidate at index,
// or drops its spec when index is -1.
func (s *Session) Choose(index int) error {
	if len(s.queue) == 0 {
		return coreerrors.New(coreerrors.CodeInvalidState, "no choice is pending")
	}
	head := s.queue[0]
	if index < -1 || index >= len(head.candidates) {
		err := coreerrors.New(coreerrors.CodeInvalidState, fmt.Sprintf("choice %d out of range (%d candidates)", index, len(head.candidates)))
		err = coreerrors.AddContext(err, coreerrors.CtxSelector, head.selection.Index)
		return coreerrors.AddContext(err, coreerrors.CtxTerm, head.spec.SearchTerm)
	}
	s.queue = s.queue[1:]

	if index == -1 {
		err := coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeUserCancelled, "choice dismissed"),
			coreerrors.CtxTerm, head.spec.SearchTerm)
		err = coreerrors.AddContext(err, coreerrors.CtxSelector, head.selection.Index)
		s.logger.Info("dropping import", "token", head.spec.Raw, "reason", err)
		head.selection.remove(head.spec)
		observability.SpecsResolved.WithLabelValues(observability.OutcomeCancelled).Inc()
		s.report(head.spec, observability.OutcomeCancelled)
	} else {
		s.resolve(head.spec, search.ModulePath(head.candidates[index], s.viewDir, s.settings), observability.OutcomeChosen)
	}

	s.finish(head.selection)
	s.checkDone()
	return nil
}

// Run answers every pending choice with picker until the session is done.
func (s *Session) Run(ctx context.Context, picker ports.Picker) error {
	for {
		req, ok := s.Next()
		if !ok {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		index, err := picker.Pick(ctx, req.Title, req.Options)
		if err != nil {
			return coreerrors.AddContext(
				coreerrors.Wrap(err, coreerrors.CodeInternal, "picking candidate"),
				coreerrors.CtxTerm, req.Term)
		}
		if err := s.Choose(index); err != nil {
			return err
		}
	}
}

func (s *Session) Done() bool { return s.done }

// Edits returns the edits emitted so far, in emission order.
func (s *Session) Edits() []ports.Edit {
	return append([]ports.Edit(nil), s.edits...)
}

// Cursor is where the caret goes once the session is done, in original
// buffer offsets.
func (s *Session) Cursor() int { return s.cursor }

func (s *Session) Selections() []*Selection { return s.selections }

func (s *Session) checkDone() {
	if s.done {
		return
	}
	for _, sel := range s.selections {
		if sel.Status != parser.StatusResolved {
			return
		}
	}
	s.done = true
	s.cursor = s.finalCursor()
	s.logger.Info("imports resolved", "edits", len(s.edits), "cursor", s.cursor)
}

func (s *Session) finalCursor() int {
	if s.req.Mode != ModeResolveAll && len(s.selections) > 0 {
		return s.selections[len(s.selections)-1].Region.End
	}
	if raw := s.req.Editor.Selections(); len(raw) > 0 {
		return raw[len(raw)-1].End
	}
	return 0
}
