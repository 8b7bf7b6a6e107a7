package report

import (
	"fmt"

	"github.com/gookit/color"

	"github.com/dbsmedya/gomerge/internal/integrity"
)

var kindColors = map[integrity.Kind]color.Color{
	integrity.InvalidRelationDefinition: color.FgMagenta,
	integrity.OrphanChildRow:            color.FgRed,
	integrity.DeletedParentHasChildren:  color.FgYellow,
}

// Violations prints one row per violation followed by per-kind totals.
func (w *Writer) Violations(vs integrity.Violations) {
	w.Section("Relation Integrity")
	if len(vs) == 0 {
		w.Line("  %s", w.paint(color.FgGreen, "no violations"))
		return
	}

	g := &grid{header: []string{"KIND", "RELATION", "TABLE", "KEY", "DETAIL"}}
	for _, v := range vs {
		g.add(
			styled(v.Kind.String(), kindColors[v.Kind]),
			text(v.Relation),
			text(v.Table),
			text(v.Key.String()),
			text(detail(v)),
		)
	}
	w.grid(g)

	w.Blank()
	for _, kind := range []integrity.Kind{
		integrity.InvalidRelationDefinition,
		integrity.OrphanChildRow,
		integrity.DeletedParentHasChildren,
	} {
		if n := vs.Count(kind); n > 0 {
			w.Line("  %-28s %d", kind, n)
		}
	}
}

func detail(v integrity.Violation) string {
	switch v.Kind {
	case integrity.OrphanChildRow:
		return "no parent " + v.ExpectedParentKey.String()
	case integrity.DeletedParentHasChildren:
		return fmt.Sprintf("%d child row(s) reference it", v.Children)
	default:
		return v.Message
	}
}
