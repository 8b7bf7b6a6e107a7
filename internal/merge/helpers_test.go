package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/gomerge/internal/dataset"
)

type row = map[string]interface{}

// newOrders returns an "orders" table keyed by Id. withToken adds the
// correlation column.
func newOrders(t *testing.T, withToken bool) *dataset.Table {
	t.Helper()
	cols := []dataset.Column{
		{Name: "Id", DataType: "int64", PrimaryKey: true},
		{Name: "Name", DataType: "varchar", Nullable: true},
	}
	if withToken {
		cols = append(cols, dataset.Column{Name: dataset.ClientKeyColumn, DataType: "guid", Nullable: true})
	}
	tbl, err := dataset.NewTable("orders", cols...)
	require.NoError(t, err)
	require.NoError(t, tbl.SetPrimaryKeys("Id"))
	return tbl
}

func newUnkeyed(t *testing.T, withToken bool) *dataset.Table {
	t.Helper()
	cols := []dataset.Column{{Name: "Message", DataType: "varchar", Nullable: true}}
	if withToken {
		cols = append(cols, dataset.Column{Name: dataset.ClientKeyColumn, DataType: "guid", Nullable: true})
	}
	tbl, err := dataset.NewTable("audit", cols...)
	require.NoError(t, err)
	return tbl
}

func load(t *testing.T, tbl *dataset.Table, values row) *dataset.Record {
	t.Helper()
	r, err := tbl.Load(values)
	require.NoError(t, err)
	return r
}

func add(t *testing.T, tbl *dataset.Table, values row) *dataset.Record {
	t.Helper()
	r, err := tbl.AddValues(values)
	require.NoError(t, err)
	return r
}

func modify(t *testing.T, r *dataset.Record, column string, v interface{}) *dataset.Record {
	t.Helper()
	require.NoError(t, r.Set(column, v))
	return r
}

func names(tbl *dataset.Table) []interface{} {
	out := make([]interface{}, 0, tbl.Len())
	for _, r := range tbl.Rows() {
		out = append(out, r.Value("Name"))
	}
	return out
}

func messages(tbl *dataset.Table) []interface{} {
	out := make([]interface{}, 0, tbl.Len())
	for _, r := range tbl.Rows() {
		out = append(out, r.Value("Message"))
	}
	return out
}

func ids(changes []Change) []interface{} {
	out := make([]interface{}, 0, len(changes))
	for _, c := range changes {
		out = append(out, c.Record.Value("Id"))
	}
	return out
}

func states(tbl *dataset.Table) []dataset.RowState {
	out := make([]dataset.RowState, 0, tbl.Len())
	for _, r := range tbl.Rows() {
		out = append(out, r.State())
	}
	return out
}
