package report

import (
	"github.com/gookit/color"

	"github.com/dbsmedya/gomerge/internal/merge"
)

// MergeResult prints per-table counts of a merge result and a total line.
func (w *Writer) MergeResult(mode merge.Mode, res *merge.Result) {
	w.Section("Merge Result: " + mode.String())
	if res == nil || res.IsEmpty() {
		w.Line("  no changes")
		return
	}

	g := &grid{header: []string{"TABLE", "ADDED", "UPDATED", "DELETED"}}
	for _, c := range res.Counts() {
		g.add(
			text(c.Table),
			number(c.Added, color.FgGreen),
			number(c.Updated, color.FgYellow),
			number(c.Deleted, color.FgRed),
		)
	}
	g.add(
		styled("total", color.OpBold),
		number(len(res.Added), color.FgGreen),
		number(len(res.Updated), color.FgYellow),
		number(len(res.Deleted), color.FgRed),
	)
	w.grid(g)
}

// Changes lists every reported record with its table and values.
func (w *Writer) Changes(res *merge.Result) {
	if res == nil || res.IsEmpty() {
		return
	}
	w.Section("Changes")
	list := func(tag string, c color.Color, changes []merge.Change) {
		for _, ch := range changes {
			w.Line("  %s %s %v", w.paint(c, tag), ch.Table, ch.Record.Values())
		}
	}
	list("+", color.FgGreen, res.Added)
	list("~", color.FgYellow, res.Updated)
	list("-", color.FgRed, res.Deleted)
}
