package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"simpleimport/internal/core/config"
	coreerrors "simpleimport/internal/core/errors"
	"simpleimport/internal/core/ports"
	"simpleimport/internal/engine/buffer"
	"simpleimport/internal/engine/parser"

	"github.com/google/go-cmp/cmp"
)

func caret(offset int) parser.Region {
	return parser.Region{Start: offset, End: offset}
}

func newSession(t *testing.T, req Request) *Session {
	t.Helper()
	if req.Project == nil {
		req.Project = fstest.MapFS{}
	}
	if req.ViewPath == "" {
		req.ViewPath = "src/app.js"
	}
	if req.Settings.Separator == "" {
		req.Settings = config.Defaults()
	}
	s, err := NewSession(req)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func buttonProject() fstest.MapFS {
	return fstest.MapFS{
		"a/Button.js": {},
		"b/Button.js": {},
		"src/app.js":  {},
	}
}

func TestSession_AmbiguousSearchSuspends(t *testing.T) {
	ed := buffer.New("Button", caret(6))
	s := newSession(t, Request{Editor: ed, Project: buttonProject()})

	if s.Done() {
		t.Fatal("expected session to wait for a choice")
	}
	req, ok := s.Next()
	if !ok {
		t.Fatal("expected a pending choice")
	}
	if diff := cmp.Diff([]string{"a/Button.js", "b/Button.js"}, req.Options); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
	if req.Title != "Import Button" {
		t.Fatalf("unexpected title %q", req.Title)
	}

	if err := s.Choose(1); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if !s.Done() {
		t.Fatal("expected session to be done")
	}
	want := []ports.Edit{{Kind: ports.EditReplace, Start: 0, End: 6, Text: `import Button from "../b/Button";`}}
	if diff := cmp.Diff(want, s.Edits()); diff != "" {
		t.Fatalf("unexpected edits (-want +got):\n%s", diff)
	}
	if s.Cursor() != 6 {
		t.Fatalf("expected cursor 6, got %d", s.Cursor())
	}
}

func TestSession_CancelDropsSpec(t *testing.T) {
	ed := buffer.New("Button", caret(0))
	s := newSession(t, Request{Editor: ed, Project: buttonProject()})

	if err := s.Choose(-1); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if !s.Done() {
		t.Fatal("expected session to be done")
	}
	if len(s.Edits()) != 0 {
		t.Fatalf("expected no edits, got %#v", s.Edits())
	}
	if got := s.Selections()[0].Specs; len(got) != 0 {
		t.Fatalf("expected cancelled spec to leave its selection, got %d specs", len(got))
	}
}

func TestSession_ChooseMisuse(t *testing.T) {
	s := newSession(t, Request{Editor: buffer.New("foo:./bar", caret(9))})
	if err := s.Choose(0); !coreerrors.IsCode(err, coreerrors.CodeInvalidState) {
		t.Fatalf("expected INVALID_STATE without a pending choice, got %v", err)
	}

	s = newSession(t, Request{Editor: buffer.New("Button", caret(6)), Project: buttonProject()})
	err := s.Choose(2)
	if !coreerrors.IsCode(err, coreerrors.CodeInvalidState) {
		t.Fatalf("expected INVALID_STATE for out of range choice, got %v", err)
	}
	var de *coreerrors.DomainError
	if !errors.As(err, &de) || de.Context[coreerrors.CtxSelector] != 0 || de.Context[coreerrors.CtxTerm] != "Button" {
		t.Fatalf("expected selection and term context, got %#v", err)
	}
	if _, ok := s.Next(); !ok {
		t.Fatal("a rejected choice must leave the queue untouched")
	}
}

func TestSession_QueueIsFIFO(t *testing.T) {
	project := fstest.MapFS{
		"a/Button.js": {},
		"b/Button.js": {},
		"a/Card.js":   {},
		"b/Card.js":   {},
	}
	ed := buffer.New("Card\nButton", caret(4), caret(11))
	s := newSession(t, Request{Editor: ed, Project: project, ViewPath: "main.js"})

	req, _ := s.Next()
	if req.Term != "Card" || req.Selection != 0 {
		t.Fatalf("expected first choice for Card, got %+v", req)
	}
	if err := s.Choose(0); err != nil {
		t.Fatal(err)
	}
	req, _ = s.Next()
	if req.Term != "Button" || req.Selection != 1 {
		t.Fatalf("expected second choice for Button, got %+v", req)
	}
	if err := s.Choose(0); err != nil {
		t.Fatal(err)
	}

	got := buffer.Apply(ed.Content(), s.Edits())
	want := "import Card from \"./a/Card\";\nimport Button from \"./a/Button\";\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSession_LiteralRoundTrip(t *testing.T) {
	for _, es6 := range []bool{true, false} {
		settings := config.Defaults()
		settings.ES6ByDefault = es6
		ed := buffer.New("foo:./bar", caret(9))
		s := newSession(t, Request{Editor: ed, Settings: settings})

		want := `import foo from "./bar";`
		if !es6 {
			want = `const foo = require("./bar");`
		}
		if got := buffer.Apply(ed.Content(), s.Edits()); got != want {
			t.Fatalf("es6=%v: expected %q, got %q", es6, want, got)
		}
	}
}

func TestSession_SingleCandidateAutoResolves(t *testing.T) {
	project := fstest.MapFS{"components/button/index.js": {}, "src/app.js": {}}
	ed := buffer.New("button", caret(6))
	s := newSession(t, Request{Editor: ed, Project: project})

	if !s.Done() {
		t.Fatal("single candidate must not suspend")
	}
	want := `import button from "../components/button";`
	if got := buffer.Apply(ed.Content(), s.Edits()); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSession_SplitsTokens(t *testing.T) {
	text := "a:./a;b:./b"
	ed := buffer.New(text, parser.Region{Start: 0, End: len(text)})
	s := newSession(t, Request{Editor: ed})

	want := "import a from \"./a\";\nimport b from \"./b\";"
	if got := buffer.Apply(ed.Content(), s.Edits()); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSession_NewlineAfterLaterSelections(t *testing.T) {
	ed := buffer.New("a:./a\nb:./b", caret(5), caret(11))
	s := newSession(t, Request{Editor: ed})

	want := "import a from \"./a\";\nimport b from \"./b\";\n"
	if got := buffer.Apply(ed.Content(), s.Edits()); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSession_AlreadyImportedIsMerged(t *testing.T) {
	source := "const React = require(\"react\");\nReact\n"
	ed := buffer.New(source, caret(strings.LastIndex(source, "React")+5))
	s := newSession(t, Request{Editor: ed})

	want := []ports.Edit{{Kind: ports.EditReplace, Start: 0, End: 31, Text: `import React from "react";`}}
	if diff := cmp.Diff(want, s.Edits()); diff != "" {
		t.Fatalf("unexpected edits (-want +got):\n%s", diff)
	}
	if len(s.Selections()[0].Specs) != 0 {
		t.Fatal("merged spec must leave its selection")
	}
	spec := s.Reports()[0].Spec
	if spec.AlreadyImportedAt == nil || *spec.AlreadyImportedAt != (parser.Region{Start: 0, End: 31}) {
		t.Fatalf("expected already imported region [0,31), got %v", spec.AlreadyImportedAt)
	}

	// Running again over the result rewrites the import with itself.
	merged := buffer.Apply(source, s.Edits())
	ed = buffer.New(merged, caret(strings.LastIndex(merged, "React")+5))
	s = newSession(t, Request{Editor: ed})
	want = []ports.Edit{{Kind: ports.EditReplace, Start: 0, End: 26, Text: `import React from "react";`}}
	if diff := cmp.Diff(want, s.Edits()); diff != "" {
		t.Fatalf("unexpected edits on second run (-want +got):\n%s", diff)
	}
	if got := buffer.Apply(merged, s.Edits()); got != merged {
		t.Fatalf("expected unchanged content, got %q", got)
	}
}

func TestSession_UnchangedImportStillReplaced(t *testing.T) {
	source := "import X from \"./x\";\nX:./x"
	ed := buffer.New(source, caret(len(source)))
	s := newSession(t, Request{Editor: ed})

	want := []ports.Edit{{Kind: ports.EditReplace, Start: 0, End: 20, Text: `import X from "./x";`}}
	if diff := cmp.Diff(want, s.Edits()); diff != "" {
		t.Fatalf("unexpected edits (-want +got):\n%s", diff)
	}
}

func TestSession_InsertModeNamesMergedToken(t *testing.T) {
	source := "import X from \"./x\";\nX:./y"
	ed := buffer.New(source, caret(len(source)))
	s := newSession(t, Request{Editor: ed, Mode: ModeInsert})

	want := "import X from \"./y\";\nX"
	got := buffer.Apply(source, s.Edits())
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if cursor := buffer.MapOffset(s.Cursor(), s.Edits()); cursor != len(want) {
		t.Fatalf("expected cursor at %d, got %d", len(want), cursor)
	}
}

func TestSession_InsertMode(t *testing.T) {
	source := "const a = 1;\nfoo:./bar"
	ed := buffer.New(source, caret(len(source)))
	s := newSession(t, Request{Editor: ed, Mode: ModeInsert})

	want := "import foo from \"./bar\";\nconst a = 1;\nfoo"
	got := buffer.Apply(source, s.Edits())
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if cursor := buffer.MapOffset(s.Cursor(), s.Edits()); cursor != len(want) {
		t.Fatalf("expected cursor at %d, got %d", len(want), cursor)
	}
}

func TestSession_InsertModeForcesFullStatement(t *testing.T) {
	source := "const _ = lodash"
	ed := buffer.New(source, caret(len(source)))
	s := newSession(t, Request{Editor: ed, Mode: ModeInsert})

	want := "import lodash from \"lodash\";\nconst _ = lodash"
	if got := buffer.Apply(source, s.Edits()); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSession_AssignmentContextReplace(t *testing.T) {
	settings := config.Defaults()
	settings.ES6ByDefault = false
	source := "const _ = lodash;"
	ed := buffer.New(source, caret(len(source)))
	s := newSession(t, Request{Editor: ed, Settings: settings})

	want := `const _ = require("lodash");`
	if got := buffer.Apply(source, s.Edits()); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSession_ResolveAll(t *testing.T) {
	source := "import React from \"react\";\naxios.get(url);\nconst r = React.createElement;\naxios.post(url)\n"
	ed := buffer.New(source, caret(0))
	s := newSession(t, Request{
		Editor:       ed,
		Mode:         ModeResolveAll,
		Dependencies: []string{"react", "axios", "react-dom"},
	})

	want := []ports.Edit{
		{Kind: ports.EditReplace, Start: 0, End: 26, Text: "import React from \"react\";"},
		{Kind: ports.EditInsert, Start: 0, End: 0, Text: "import axios from \"axios\";\n"},
	}
	if diff := cmp.Diff(want, s.Edits()); diff != "" {
		t.Fatalf("unexpected edits (-want +got):\n%s", diff)
	}
	if s.Cursor() != 0 {
		t.Fatalf("resolve-all keeps the caret, got %d", s.Cursor())
	}
}

func TestSession_UnsupportedSyntax(t *testing.T) {
	_, err := NewSession(Request{
		Editor:   buffer.New("foo", caret(3)),
		Project:  fstest.MapFS{},
		ViewPath: "main.py",
		Settings: config.Defaults(),
	})
	if !coreerrors.IsCode(err, coreerrors.CodeUnsupportedSyntax) {
		t.Fatalf("expected UNSUPPORTED_SYNTAX, got %v", err)
	}
}

type scriptedPicker struct {
	answers []int
	titles  []string
	err     error
}

func (p *scriptedPicker) Pick(_ context.Context, title string, _ []string) (int, error) {
	p.titles = append(p.titles, title)
	if p.err != nil {
		return 0, p.err
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func TestSession_RunDrivesPicker(t *testing.T) {
	ed := buffer.New("Button", caret(6))
	s := newSession(t, Request{Editor: ed, Project: buttonProject()})
	picker := &scriptedPicker{answers: []int{0}}

	if err := s.Run(context.Background(), picker); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !s.Done() {
		t.Fatal("expected session to be done")
	}
	if diff := cmp.Diff([]string{"Import Button"}, picker.titles); diff != "" {
		t.Fatalf("unexpected prompts (-want +got):\n%s", diff)
	}

	s = newSession(t, Request{Editor: ed, Project: buttonProject()})
	boom := errors.New("terminal closed")
	if err := s.Run(context.Background(), &scriptedPicker{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected picker error, got %v", err)
	}
}

func TestSplitTokens(t *testing.T) {
	got := splitTokens(" a:./a ; b \n\n c;", ";")
	if diff := cmp.Diff([]string{"a:./a", "b", "c"}, got); diff != "" {
		t.Fatalf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestDependencyUses(t *testing.T) {
	source := "react-dom.render(x)\npreact React|x axios\nREACT"
	uses := dependencyUses(source, []string{"react", "react-dom", "axios"})

	var got []string
	for _, use := range uses {
		got = append(got, use.Name+"="+source[use.Region.Start:use.Region.End])
	}
	want := []string{"react-dom=react-dom", "react=React", "axios=axios", "react=REACT"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected uses (-want +got):\n%s", diff)
	}
}
