package cli

import (
	"fmt"
	"strconv"
	"strings"

	coreapp "simpleimport/internal/core/app"
	"simpleimport/internal/core/ports"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// renderDiff returns a line diff of before and after, additions in green and
// removals in red. Unchanged lines are kept for context.
func renderDiff(name, before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	added := color.New(color.FgGreen).SprintFunc()
	removed := color.New(color.FgRed).SprintFunc()
	header := color.New(color.Bold).SprintFunc()

	var buf strings.Builder
	buf.WriteString(header("--- " + name))
	buf.WriteString("\n")
	buf.WriteString(header("+++ " + name))
	buf.WriteString("\n")
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				buf.WriteString(added("+" + line))
			case diffmatchpatch.DiffDelete:
				buf.WriteString(removed("-" + line))
			default:
				buf.WriteString(" " + line)
			}
			buf.WriteString("\n")
		}
	}
	return buf.String()
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// renderExplain tabulates how every token of the session was resolved and
// the edits it produced.
func renderExplain(reports []coreapp.SpecReport, edits []ports.Edit) string {
	specs := table.NewWriter()
	specs.SetStyle(table.StyleLight)
	specs.AppendHeader(table.Row{"Sel", "Token", "Name", "Module", "Style", "Outcome"})
	for _, r := range reports {
		specs.AppendRow(table.Row{r.Selection, r.Token, r.Spec.Name, r.Spec.Module, r.Style, r.Outcome})
	}
	specs.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d tokens", len(reports))})

	changes := table.NewWriter()
	changes.SetStyle(table.StyleLight)
	changes.AppendHeader(table.Row{"Kind", "Range", "Text"})
	for _, e := range edits {
		changes.AppendRow(table.Row{e.Kind.String(), "[" + strconv.Itoa(e.Start) + "," + strconv.Itoa(e.End) + ")", strconv.Quote(e.Text)})
	}
	changes.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d edits", len(edits))})

	return specs.Render() + "\n" + changes.Render() + "\n"
}
