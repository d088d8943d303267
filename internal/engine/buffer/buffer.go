package buffer

import (
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"simpleimport/internal/core/ports"
	"simpleimport/internal/engine/parser"
)

// Buffer is an in-memory ports.Editor over one file's content.
type Buffer struct {
	content    string
	selections []parser.Region
}

var _ ports.Editor = (*Buffer)(nil)

// New returns a buffer over content. Selections are clamped to the content
// and kept in the given order.
func New(content string, selections ...parser.Region) *Buffer {
	b := &Buffer{content: content}
	for _, sel := range selections {
		b.selections = append(b.selections, b.clamp(sel))
	}
	return b
}

func (b *Buffer) Content() string { return b.content }

func (b *Buffer) Selections() []parser.Region {
	return append([]parser.Region(nil), b.selections...)
}

func (b *Buffer) Size() int { return len(b.content) }

func (b *Buffer) Substr(r parser.Region) string {
	r = b.clamp(r)
	return b.content[r.Start:r.End]
}

// Word expands an empty region to the token around it. Tokens are runs of
// non-space characters other than quotes, brackets and commas; non-empty
// regions are returned unchanged.
func (b *Buffer) Word(r parser.Region) parser.Region {
	r = b.clamp(r)
	if !r.Empty() {
		return r
	}
	start, end := r.Start, r.End
	for start > 0 {
		c, size := utf8.DecodeLastRuneInString(b.content[:start])
		if !isTokenRune(c) {
			break
		}
		start -= size
	}
	for end < len(b.content) {
		c, size := utf8.DecodeRuneInString(b.content[end:])
		if !isTokenRune(c) {
			break
		}
		end += size
	}
	return parser.Region{Start: start, End: end}
}

func (b *Buffer) Line(r parser.Region) parser.Region {
	r = b.clamp(r)
	start := strings.LastIndexByte(b.content[:r.Start], '\n') + 1
	end := len(b.content)
	if i := strings.IndexByte(b.content[r.End:], '\n'); i >= 0 {
		end = r.End + i
	}
	return parser.Region{Start: start, End: end}
}

func (b *Buffer) clamp(r parser.Region) parser.Region {
	n := len(b.content)
	if r.Start < 0 {
		r.Start = 0
	}
	if r.Start > n {
		r.Start = n
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	if r.End > n {
		r.End = n
	}
	return r
}

func isTokenRune(c rune) bool {
	if unicode.IsSpace(c) {
		return false
	}
	return !strings.ContainsRune("\"'`()[]{}<>,", c)
}

// Apply returns content with edits applied. Edits refer to the original
// content; when two edits overlap the larger one wins. Inserts at the same
// offset keep their relative order and land before a replace starting there.
func Apply(content string, edits []ports.Edit) string {
	picked := pick(edits)
	var builder strings.Builder
	last := 0
	for _, e := range picked {
		if e.Start < last || e.End < e.Start || e.End > len(content) {
			slog.Warn("dropping out of range edit", "start", e.Start, "end", e.End, "size", len(content))
			continue
		}
		builder.WriteString(content[last:e.Start])
		builder.WriteString(e.Text)
		last = e.End
	}
	builder.WriteString(content[last:])
	return builder.String()
}

// MapOffset translates an offset of the original content to the content
// produced by Apply with the same edits.
func MapOffset(offset int, edits []ports.Edit) int {
	shifted := offset
	for _, e := range pick(edits) {
		switch {
		case e.End <= offset:
			shifted += len(e.Text) - (e.End - e.Start)
		case e.Start < offset:
			// The offset sat inside a replaced range; move it to the replacement's end.
			shifted += e.Start + len(e.Text) - offset
		}
	}
	return shifted
}

func pick(edits []ports.Edit) []ports.Edit {
	bySize := append([]ports.Edit(nil), edits...)
	sort.SliceStable(bySize, func(i, j int) bool {
		return bySize[i].End-bySize[i].Start > bySize[j].End-bySize[j].Start
	})

	var picked []ports.Edit
	for _, e := range bySize {
		overlaps := false
		for _, p := range picked {
			if e.Start < p.End && p.Start < e.End {
				overlaps = true
				break
			}
		}
		if overlaps {
			slog.Debug("dropping overlapping edit", "start", e.Start, "end", e.End)
			continue
		}
		picked = append(picked, e)
	}

	sort.SliceStable(picked, func(i, j int) bool {
		if picked[i].Start != picked[j].Start {
			return picked[i].Start < picked[j].Start
		}
		return picked[i].Kind == ports.EditInsert && picked[j].Kind != ports.EditInsert
	})
	return picked
}
