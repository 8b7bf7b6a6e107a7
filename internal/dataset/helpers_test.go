package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newOrdersTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable("orders",
		Column{Name: "Id", DataType: "int64", PrimaryKey: true},
		Column{Name: "Customer", DataType: "varchar", Nullable: true},
		Column{Name: "Total", DataType: "double"},
	)
	require.NoError(t, err)
	require.NoError(t, tbl.SetPrimaryKeys("Id"))
	return tbl
}

func loadOrder(t *testing.T, tbl *Table, id int64, customer string, total float64) *Record {
	t.Helper()
	r, err := tbl.Load(map[string]interface{}{"Id": id, "Customer": customer, "Total": total})
	require.NoError(t, err)
	return r
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) RecordAdded(t *Table, r *Record)   { o.events = append(o.events, "added") }
func (o *recordingObserver) RecordRemoved(t *Table, r *Record) { o.events = append(o.events, "removed") }
func (o *recordingObserver) FieldChanged(r *Record, column string, oldValue, newValue interface{}) {
	o.events = append(o.events, "field:"+column)
}
func (o *recordingObserver) StateChanged(r *Record, from, to RowState) {
	o.events = append(o.events, "state:"+from.String()+">"+to.String())
}
