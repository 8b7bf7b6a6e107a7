package report

import (
	"fmt"
	"strings"

	"github.com/gookit/color"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/graph"
	"github.com/dbsmedya/gomerge/internal/merge"
)

// Action is what a dataset merge does with one table.
type Action string

const (
	ActionMerge Action = "merge"
	ActionCopy  Action = "copy"
	ActionKeep  Action = "keep"
	ActionSkip  Action = "skip"
)

// Step is one table of a merge plan, in merge order.
type Step struct {
	Table    string
	Action   Action
	Keys     []string
	Pending  int
	Incoming int
	// KeepsRows is set when rows are never removed from the table.
	KeepsRows bool
	// Blocked holds the precondition failure that would stop the merge.
	Blocked string
}

// Plan describes what merging incoming into current would do, without
// doing it.
type Plan struct {
	Mode      merge.Mode
	Steps     []Step
	Graph     *graph.Graph
	Cycle     *graph.CycleInfo
	Relations []dataset.Relation
}

// NewPlan inspects both datasets through m. Neither dataset is modified.
func NewPlan(m *merge.Merger, current, incoming *dataset.Dataset) *Plan {
	g := graph.FromDatasets(current, incoming)
	p := &Plan{
		Mode:      m.Mode(),
		Graph:     g,
		Cycle:     g.DetectIncompleteProcessing(),
		Relations: unionRelations(current, incoming),
	}

	for _, name := range m.TableOrder(current, incoming) {
		cur, inCurrent := current.Table(name)
		in, inIncoming := incoming.Table(name)

		step := Step{Table: name, KeepsRows: m.KeepsRows(name)}
		switch {
		case !inIncoming:
			step.Action = ActionKeep
		case m.Excluded(name):
			step.Action = ActionSkip
		case !inCurrent:
			step.Action = ActionCopy
		default:
			step.Action = ActionMerge
		}

		if inCurrent {
			step.Keys = m.KeyColumns(cur)
			step.Pending = pending(cur)
			if step.Action == ActionMerge {
				if err := m.Policy().CheckPreconditions(cur); err != nil {
					step.Blocked = err.Error()
				}
			}
		} else {
			step.Keys = m.KeyColumns(in)
		}
		if inIncoming {
			step.Incoming = in.Len()
		}
		p.Steps = append(p.Steps, step)
	}
	return p
}

// Blocked reports whether any table would fail its precondition.
func (p *Plan) Blocked() bool {
	for _, s := range p.Steps {
		if s.Blocked != "" {
			return true
		}
	}
	return false
}

func pending(t *dataset.Table) int {
	n := 0
	for _, r := range t.Rows() {
		if r.State() != dataset.Unchanged {
			n++
		}
	}
	return n
}

func unionRelations(sets ...*dataset.Dataset) []dataset.Relation {
	var out []dataset.Relation
	seen := make(map[string]bool)
	for _, ds := range sets {
		for _, rel := range ds.Relations() {
			id := relationLabel(rel)
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, rel)
		}
	}
	return out
}

func relationLabel(rel dataset.Relation) string {
	return fmt.Sprintf("%s(%s) -> %s(%s)",
		rel.ParentTable, strings.Join(rel.ParentColumns, ", "),
		rel.ChildTable, strings.Join(rel.ChildColumns, ", "))
}

// Plan prints the relation tree beside a summary, the merge order, the
// delete order used when saving, the relations and any cycle.
func (w *Writer) Plan(p *Plan) {
	w.Header("Merge Plan: %s", p.Mode)
	w.Blank()

	summary := []string{
		"[ Summary ]",
		strings.Repeat("-", 11),
		fmt.Sprintf("Mode:       %s", p.Mode),
		fmt.Sprintf("Tables:     %d", len(p.Steps)),
		fmt.Sprintf("Relations:  %d", len(p.Relations)),
		fmt.Sprintf("Pending:    %d rows", p.pendingRows()),
		fmt.Sprintf("Incoming:   %d rows", p.incomingRows()),
	}
	w.Section("Relation Tree")
	w.sideBySide(relationTree(p.Graph), summary, 4)

	w.Blank()
	w.Section("Merge Order (parent tables first)")
	g := &grid{header: []string{"#", "TABLE", "ACTION", "KEY", "PENDING", "INCOMING", "NOTE"}}
	for i, s := range p.Steps {
		g.add(
			text(fmt.Sprintf("[%d]", i+1)),
			text(s.Table),
			styled(string(s.Action), actionColor(s)),
			text(keyLabel(s.Keys)),
			number(s.Pending, color.FgYellow),
			number(s.Incoming, 0),
			styled(s.note(), noteColor(s)),
		)
	}
	w.grid(g)

	if order, err := p.Graph.DeleteOrder(); err == nil && len(order) > 0 {
		w.Blank()
		w.Section("Delete Order (child tables first)")
		for i, table := range order {
			w.Line("  [%d] %s", i+1, table)
		}
	}

	if len(p.Relations) > 0 {
		w.Blank()
		w.Section("Relations")
		for _, rel := range p.Relations {
			label := relationLabel(rel)
			if rel.Name != "" {
				label = rel.Name + ": " + label
			}
			w.Line("  • %s", label)
		}
	}

	if p.Cycle != nil {
		w.Blank()
		w.Section("Cycle")
		if len(p.Cycle.CyclePath) > 0 {
			w.Line("  %s", w.paint(color.FgRed, strings.Join(p.Cycle.CyclePath, " -> ")))
		}
		w.Line("  tables merged in dataset order: %s", strings.Join(p.Cycle.UnprocessedNodes, ", "))
	}
}

func (p *Plan) pendingRows() int {
	n := 0
	for _, s := range p.Steps {
		n += s.Pending
	}
	return n
}

func (p *Plan) incomingRows() int {
	n := 0
	for _, s := range p.Steps {
		n += s.Incoming
	}
	return n
}

func (s Step) note() string {
	var notes []string
	if s.Blocked != "" {
		notes = append(notes, "blocked: "+s.Blocked)
	}
	if len(s.Keys) == 0 && s.Action == ActionMerge {
		notes = append(notes, "no key")
	}
	if s.KeepsRows {
		notes = append(notes, "rows kept")
	}
	return strings.Join(notes, "; ")
}

func keyLabel(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	return strings.Join(keys, ", ")
}

func actionColor(s Step) color.Color {
	switch s.Action {
	case ActionCopy:
		return color.FgGreen
	case ActionSkip, ActionKeep:
		return color.FgGray
	default:
		return color.FgCyan
	}
}

func noteColor(s Step) color.Color {
	if s.Blocked != "" {
		return color.FgRed
	}
	return 0
}

// relationTree draws every table below its parents, roots first. A table
// reached a second time is printed with a marker and not expanded again.
func relationTree(g *graph.Graph) []string {
	var lines []string
	seen := make(map[string]bool)

	var walk func(name, indent string, last, root bool)
	walk = func(name, indent string, last, root bool) {
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		if root {
			branch, next = "", ""
		}
		if seen[name] {
			lines = append(lines, indent+branch+name+" (*)")
			return
		}
		seen[name] = true
		lines = append(lines, indent+branch+name)

		children := g.GetChildren(name)
		for i, child := range children {
			walk(child, indent+next, i == len(children)-1, false)
		}
	}

	for _, root := range g.RootNodes() {
		walk(root, "", true, true)
	}
	for _, name := range g.AllNodes() {
		if !seen[name] {
			walk(name, "", true, true)
		}
	}
	return lines
}
