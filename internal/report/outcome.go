package report

import (
	"github.com/gookit/color"

	"github.com/dbsmedya/gomerge/internal/bridge"
)

// Outcomes prints what a save wrote to the store, one row per table.
func (w *Writer) Outcomes(outcomes []*bridge.Outcome) {
	w.Section("Saved Changes")
	g := &grid{header: []string{"TABLE", "INSERTED", "PATCHED", "DELETED", "MISSING"}}
	var inserted, patched, deleted, missing int
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		g.add(
			text(o.Table),
			number(o.Inserted, color.FgGreen),
			number(o.Patched, color.FgYellow),
			number(o.Deleted, color.FgRed),
			number(o.Missing, color.FgGray),
		)
		inserted += o.Inserted
		patched += o.Patched
		deleted += o.Deleted
		missing += o.Missing
	}
	if len(g.rows) == 0 {
		w.Line("  nothing to save")
		return
	}
	g.add(
		styled("total", color.OpBold),
		number(inserted, color.FgGreen),
		number(patched, color.FgYellow),
		number(deleted, color.FgRed),
		number(missing, color.FgGray),
	)
	w.grid(g)
}
