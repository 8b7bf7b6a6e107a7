// Package report renders merge results, relation violations and merge plans
// as aligned text for the command line.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// Writer prints report sections to an output stream.
type Writer struct {
	out     io.Writer
	colored bool
}

// New returns a Writer. When colored is false no escape codes are written.
func New(out io.Writer, colored bool) *Writer {
	return &Writer{out: out, colored: colored}
}

// ColorSupported reports whether the terminal understands color codes.
func ColorSupported() bool {
	return color.SupportColor()
}

// Header prints a title framed by '=' lines.
func (w *Writer) Header(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := runewidth.StringWidth(title) + 4
	fmt.Fprintln(w.out, strings.Repeat("=", width))
	fmt.Fprintf(w.out, "  %s\n", w.paint(color.OpBold, title))
	fmt.Fprintln(w.out, strings.Repeat("=", width))
}

// Section prints a bracketed section title with an underline.
func (w *Writer) Section(title string) {
	fmt.Fprintf(w.out, "[%s]\n", title)
	fmt.Fprintln(w.out, strings.Repeat("-", runewidth.StringWidth(title)+2))
}

// Line prints one formatted line.
func (w *Writer) Line(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Blank prints an empty line.
func (w *Writer) Blank() {
	fmt.Fprintln(w.out)
}

func (w *Writer) paint(c color.Color, s string) string {
	if !w.colored || c == 0 || s == "" {
		return s
	}
	return c.Sprint(s)
}

// sideBySide prints two blocks of lines next to each other with at least
// padding spaces between them.
func (w *Writer) sideBySide(left, right []string, padding int) {
	leftWidth := 0
	for _, line := range left {
		if lw := runewidth.StringWidth(line); lw > leftWidth {
			leftWidth = lw
		}
	}

	height := len(left)
	if len(right) > height {
		height = len(right)
	}

	for i := 0; i < height; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		if r == "" {
			fmt.Fprintln(w.out, l)
			continue
		}
		fmt.Fprintf(w.out, "%s%s%s\n", runewidth.FillRight(l, leftWidth), strings.Repeat(" ", padding), r)
	}
}
