package merge

import "github.com/dbsmedya/gomerge/internal/dataset"

// Change names a record touched by a merge. Deleted records are detached by
// the time they are reported but keep their last values.
type Change struct {
	Table  string
	Record *dataset.Record
}

// Result lists the records a merge added, deleted and updated, in the order
// the merge touched them.
type Result struct {
	Added   []Change
	Deleted []Change
	Updated []Change
}

// TableCounts summarizes a Result for one table.
type TableCounts struct {
	Table   string
	Added   int
	Deleted int
	Updated int
}

func (r *Result) added(table string, rec *dataset.Record) {
	r.Added = append(r.Added, Change{Table: table, Record: rec})
}

func (r *Result) deleted(table string, rec *dataset.Record) {
	r.Deleted = append(r.Deleted, Change{Table: table, Record: rec})
}

func (r *Result) updated(table string, rec *dataset.Record) {
	r.Updated = append(r.Updated, Change{Table: table, Record: rec})
}

// Append adds the changes of other to r.
func (r *Result) Append(other *Result) {
	if other == nil {
		return
	}
	r.Added = append(r.Added, other.Added...)
	r.Deleted = append(r.Deleted, other.Deleted...)
	r.Updated = append(r.Updated, other.Updated...)
}

// IsEmpty reports whether the merge changed nothing.
func (r *Result) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Deleted) == 0 && len(r.Updated) == 0
}

// Total returns the number of reported changes.
func (r *Result) Total() int {
	return len(r.Added) + len(r.Deleted) + len(r.Updated)
}

// ForTable returns the subset of r concerning table.
func (r *Result) ForTable(table string) *Result {
	out := &Result{}
	for _, c := range r.Added {
		if c.Table == table {
			out.Added = append(out.Added, c)
		}
	}
	for _, c := range r.Deleted {
		if c.Table == table {
			out.Deleted = append(out.Deleted, c)
		}
	}
	for _, c := range r.Updated {
		if c.Table == table {
			out.Updated = append(out.Updated, c)
		}
	}
	return out
}

// Counts returns per-table counts, tables in first-touched order.
func (r *Result) Counts() []TableCounts {
	var order []string
	byTable := make(map[string]*TableCounts)
	get := func(table string) *TableCounts {
		c, ok := byTable[table]
		if !ok {
			c = &TableCounts{Table: table}
			byTable[table] = c
			order = append(order, table)
		}
		return c
	}
	for _, c := range r.Added {
		get(c.Table).Added++
	}
	for _, c := range r.Deleted {
		get(c.Table).Deleted++
	}
	for _, c := range r.Updated {
		get(c.Table).Updated++
	}

	out := make([]TableCounts, len(order))
	for i, table := range order {
		out[i] = *byTable[table]
	}
	return out
}
