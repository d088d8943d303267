package ports

import (
	"context"

	"simpleimport/internal/engine/parser"
)

// Editor abstracts the host buffer. Offsets are byte offsets into the buffer
// as it was when the session started.
type Editor interface {
	// Selections returns the caret/selection regions in buffer order.
	Selections() []parser.Region
	Substr(r parser.Region) string
	// Word expands r to the shorthand token around it.
	Word(r parser.Region) parser.Region
	// Line expands r to the full lines it touches, without the newline.
	Line(r parser.Region) parser.Region
	Size() int
}

// Picker asks the user to choose among candidate files. It returns the chosen
// index or -1 when the user dismissed the choice.
type Picker interface {
	Pick(ctx context.Context, title string, options []string) (int, error)
}

type EditKind int

const (
	EditInsert EditKind = iota
	EditReplace
)

func (k EditKind) String() string {
	if k == EditReplace {
		return "replace"
	}
	return "insert"
}

// Edit is one text change for the host to apply. Start and End refer to the
// original buffer; inserts have Start == End.
type Edit struct {
	Kind  EditKind
	Start int
	End   int
	Text  string
}

// ChoiceRequest is a suspended search waiting for the user to pick a
// candidate.
type ChoiceRequest struct {
	Title     string
	Term      string
	Options   []string
	Selection int
}

// ImportSession is the driving-port surface of one expansion.
type ImportSession interface {
	Next() (ChoiceRequest, bool)
	Choose(index int) error
	Done() bool
	Edits() []Edit
	Cursor() int
}
