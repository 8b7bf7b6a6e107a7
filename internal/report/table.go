package report

import (
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// maxCellWidth truncates long cells such as key snapshots.
const maxCellWidth = 48

type cell struct {
	text  string
	style color.Color
	right bool
}

func text(s string) cell {
	return cell{text: s}
}

func styled(s string, c color.Color) cell {
	return cell{text: s, style: c}
}

func number(n int, c color.Color) cell {
	out := cell{text: strconv.Itoa(n), right: true}
	if n > 0 {
		out.style = c
	}
	return out
}

// grid is a column-aligned table. Widths are measured on the plain text so
// escape codes never shift columns.
type grid struct {
	header []string
	rows   [][]cell
}

func (g *grid) add(cells ...cell) {
	g.rows = append(g.rows, cells)
}

func (g *grid) widths() []int {
	widths := make([]int, len(g.header))
	for i, h := range g.header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range g.rows {
		for i, c := range row {
			if i >= len(widths) {
				break
			}
			if cw := runewidth.StringWidth(clip(c.text)); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	return widths
}

func (w *Writer) grid(g *grid) {
	widths := g.widths()

	head := make([]string, len(g.header))
	rule := make([]string, len(g.header))
	for i, h := range g.header {
		head[i] = runewidth.FillRight(h, widths[i])
		rule[i] = strings.Repeat("-", widths[i])
	}
	w.Line("  %s", strings.TrimRight(strings.Join(head, "  "), " "))
	w.Line("  %s", strings.Join(rule, "  "))

	for _, row := range g.rows {
		parts := make([]string, len(g.header))
		for i := range g.header {
			var c cell
			if i < len(row) {
				c = row[i]
			}
			s := clip(c.text)
			if c.right {
				s = runewidth.FillLeft(s, widths[i])
			} else if i < len(g.header)-1 {
				s = runewidth.FillRight(s, widths[i])
			}
			parts[i] = w.paint(c.style, s)
		}
		w.Line("  %s", strings.Join(parts, "  "))
	}
}

func clip(s string) string {
	if runewidth.StringWidth(s) <= maxCellWidth {
		return s
	}
	return runewidth.Truncate(s, maxCellWidth, "...")
}
