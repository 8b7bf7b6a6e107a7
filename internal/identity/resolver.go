package identity

import "github.com/dbsmedya/gomerge/internal/dataset"

// Resolver picks the effective key columns of a table: a configured override
// when present, the table's declared primary key otherwise.
type Resolver struct {
	overrides map[string][]string
}

// NewResolver creates a resolver. overrides maps a table name to its ordered
// key columns; the map is copied.
func NewResolver(overrides map[string][]string) *Resolver {
	r := &Resolver{overrides: make(map[string][]string, len(overrides))}
	for table, cols := range overrides {
		r.overrides[table] = append([]string(nil), cols...)
	}
	return r
}

// KeyColumns returns the effective key columns for t. An empty result means
// identity is undefined and callers must fall back to whole-table strategies.
func (r *Resolver) KeyColumns(t *dataset.Table) []string {
	if r != nil {
		if cols, ok := r.overrides[t.Name]; ok && len(cols) > 0 {
			return append([]string(nil), cols...)
		}
	}
	return t.PrimaryKeys()
}

// Overridden reports whether the key of table comes from an override.
func (r *Resolver) Overridden(table string) bool {
	if r == nil {
		return false
	}
	cols, ok := r.overrides[table]
	return ok && len(cols) > 0
}

// MissingColumns returns the key columns t does not declare.
func MissingColumns(t *dataset.Table, columns []string) []string {
	var missing []string
	for _, col := range columns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
