package dataset

import "slices"

// ClientKeyColumn is the reserved correlation column. When a table declares it,
// every record created through Table.NewRecord receives a fresh GUID there, and
// the merge engine uses it to re-identify inserted records after the
// authoritative source assigns their real primary key.
const ClientKeyColumn = "ClientKey"

// Column describes one column of a table schema. The foreign-key fields are
// descriptive only; integrity checks use Dataset relations.
type Column struct {
	Name             string
	DataType         string
	Nullable         bool
	PrimaryKey       bool
	ForeignKey       bool
	ReferencedTable  string
	ReferencedColumn string
	Description      string
}

// Relation declares a parent/child column mapping between two tables.
// ParentColumns[i] pairs with ChildColumns[i].
type Relation struct {
	Name          string
	ParentTable   string
	ParentColumns []string
	ChildTable    string
	ChildColumns  []string
}

// SameAs reports whether r and other declare one relation: both carry the
// same non-empty name, or both map the same columns between the same tables.
func (r Relation) SameAs(other Relation) bool {
	if r.Name != "" && r.Name == other.Name {
		return true
	}
	return r.ParentTable == other.ParentTable && r.ChildTable == other.ChildTable &&
		slices.Equal(r.ParentColumns, other.ParentColumns) &&
		slices.Equal(r.ChildColumns, other.ChildColumns)
}

func (r Relation) clone() Relation {
	r.ParentColumns = append([]string(nil), r.ParentColumns...)
	r.ChildColumns = append([]string(nil), r.ChildColumns...)
	return r
}
