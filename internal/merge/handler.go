package merge

import (
	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/value"
)

// RowHandler copies incoming field values onto a local record and reports
// whether any field changed. It does not accept the record; the policy
// decides that afterwards.
type RowHandler interface {
	MergeRow(local, incoming *dataset.Record) (changed bool, err error)
}

// RowHandlerFunc adapts a function to RowHandler.
type RowHandlerFunc func(local, incoming *dataset.Record) (bool, error)

// MergeRow calls f.
func (f RowHandlerFunc) MergeRow(local, incoming *dataset.Record) (bool, error) {
	return f(local, incoming)
}

// TableHandler merges one table pair.
type TableHandler interface {
	MergeTable(tm *TableMerge) error
}

// TableHandlerFunc adapts a function to TableHandler.
type TableHandlerFunc func(tm *TableMerge) error

// MergeTable calls f.
func (f TableHandlerFunc) MergeTable(tm *TableMerge) error {
	return f(tm)
}

// FieldMerger is the default RowHandler. For every column of the local
// schema that the incoming record carries it writes the incoming value when
// the two differ under null-aware equality. The correlation column is never
// overwritten with null.
type FieldMerger struct{}

// MergeRow implements RowHandler.
func (FieldMerger) MergeRow(local, incoming *dataset.Record) (bool, error) {
	changed := false
	for _, col := range local.Table().ColumnNames() {
		newValue, ok := incoming.Get(col)
		if !ok {
			continue
		}
		if col == dataset.ClientKeyColumn && value.IsNull(newValue) {
			continue
		}
		if value.Equal(local.Value(col), newValue) {
			continue
		}
		if err := local.Set(col, newValue); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

var (
	// DefaultRowHandler is used for tables without a RowHandlers entry.
	DefaultRowHandler RowHandler = FieldMerger{}
	// DefaultTableHandler is used for tables without a TableHandlers entry.
	DefaultTableHandler TableHandler = Skeleton{}
)
