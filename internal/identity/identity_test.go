package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/gomerge/internal/dataset"
)

func newLinesTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable("order_lines",
		dataset.Column{Name: "OrderId", DataType: "int64", PrimaryKey: true},
		dataset.Column{Name: "Line", DataType: "int32", PrimaryKey: true},
		dataset.Column{Name: "Sku", DataType: "varchar", Nullable: true},
		dataset.Column{Name: dataset.ClientKeyColumn, DataType: "guid", Nullable: true},
	)
	require.NoError(t, err)
	require.NoError(t, tbl.SetPrimaryKeys("OrderId", "Line"))
	return tbl
}

func load(t *testing.T, tbl *dataset.Table, values map[string]interface{}) *dataset.Record {
	t.Helper()
	r, err := tbl.Load(values)
	require.NoError(t, err)
	return r
}

func TestCompileKey(t *testing.T) {
	tbl := newLinesTable(t)

	tests := []struct {
		name   string
		values map[string]interface{}
		want   string
	}{
		{"ints", map[string]interface{}{"OrderId": int64(12), "Line": int32(3)}, "2#12|1#3"},
		{"null part", map[string]interface{}{"OrderId": int64(7), "Line": nil}, "1#7|0#"},
		{"width independent", map[string]interface{}{"OrderId": uint8(12), "Line": 3}, "2#12|1#3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := load(t, tbl, tt.values)
			assert.Equal(t, tt.want, CompileKey(r, []string{"OrderId", "Line"}))
		})
	}
}

func TestCompileKey_DelimiterInsideValueIsUnambiguous(t *testing.T) {
	tbl := dataset.MustNewTable("t",
		dataset.Column{Name: "A", DataType: "varchar"},
		dataset.Column{Name: "B", DataType: "varchar"},
	)
	r1 := load(t, tbl, map[string]interface{}{"A": "x|1#y", "B": "z"})
	r2 := load(t, tbl, map[string]interface{}{"A": "x", "B": "y|1#z"})

	assert.NotEqual(t, CompileKey(r1, []string{"A", "B"}), CompileKey(r2, []string{"A", "B"}))
	assert.Equal(t, CompileKey(r1, []string{"A", "B"}), CompileValues([]interface{}{"x|1#y", "z"}))
}

func TestResolver_KeyColumns(t *testing.T) {
	tbl := newLinesTable(t)

	r := NewResolver(map[string][]string{"order_lines": {"Sku"}, "other": {"Id"}})
	assert.Equal(t, []string{"Sku"}, r.KeyColumns(tbl))
	assert.True(t, r.Overridden("order_lines"))

	var none *Resolver
	assert.Equal(t, []string{"OrderId", "Line"}, none.KeyColumns(tbl))
	assert.False(t, none.Overridden("order_lines"))

	assert.Equal(t, []string{"Missing"}, MissingColumns(tbl, []string{"Sku", "Missing"}))
}

func TestIndex_FirstWins(t *testing.T) {
	tbl := newLinesTable(t)
	first := load(t, tbl, map[string]interface{}{"OrderId": int64(1), "Line": 1, "Sku": "a"})
	dup := load(t, tbl, map[string]interface{}{"OrderId": int64(1), "Line": 1, "Sku": "b"})
	other := load(t, tbl, map[string]interface{}{"OrderId": int64(1), "Line": 2})

	idx := NewIndex([]*dataset.Record{first, dup, other}, []string{"OrderId", "Line"})

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 1, idx.Dropped())
	got, key, ok := idx.Find(dup)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, "1#1|1#1", key)
	assert.Equal(t, []string{"1#1|1#1", "1#1|1#2"}, idx.Keys())

	idx.Delete(key)
	_, ok = idx.Get(key)
	assert.False(t, ok)
}

func TestTokenIndex(t *testing.T) {
	tbl := newLinesTable(t)
	a, err := tbl.AddValues(map[string]interface{}{"OrderId": int64(-1), "Line": 1})
	require.NoError(t, err)
	b, err := tbl.AddValues(map[string]interface{}{"OrderId": int64(-2), "Line": 1})
	require.NoError(t, err)
	noToken := load(t, tbl, map[string]interface{}{"OrderId": int64(3), "Line": 1, dataset.ClientKeyColumn: nil})

	idx, err := NewTokenIndex("order_lines", []*dataset.Record{a, b, noToken})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	got, ok := idx.Get(a.ClientKey())
	require.True(t, ok)
	assert.Same(t, a, got)

	require.NoError(t, b.Set(dataset.ClientKeyColumn, a.ClientKey()))
	_, err = NewTokenIndex("order_lines", []*dataset.Record{a, b})
	assert.True(t, errors.Is(err, ErrDuplicateToken))
	assert.Contains(t, err.Error(), "order_lines")
}

func TestMatcher_Find(t *testing.T) {
	local := newLinesTable(t)
	remote := newLinesTable(t)

	pending, err := local.AddValues(map[string]interface{}{"OrderId": int64(-1), "Line": 1})
	require.NoError(t, err)
	stable := load(t, local, map[string]interface{}{"OrderId": int64(5), "Line": 1})

	saved := load(t, remote, map[string]interface{}{"OrderId": int64(42), "Line": 1, dataset.ClientKeyColumn: pending.ClientKey()})
	same := load(t, remote, map[string]interface{}{"OrderId": int64(5), "Line": 1})
	unknown := load(t, remote, map[string]interface{}{"OrderId": int64(6), "Line": 1})

	tokens, err := NewTokenIndex("order_lines", local.Rows())
	require.NoError(t, err)
	m := Matcher{Keys: NewIndex(local.Rows(), []string{"OrderId", "Line"}), Tokens: tokens}

	got, how := m.Find(same)
	assert.Same(t, stable, got)
	assert.Equal(t, MatchPrimaryKey, how)

	got, how = m.Find(saved)
	assert.Same(t, pending, got)
	assert.Equal(t, MatchClientKey, how)

	got, how = m.Find(unknown)
	assert.Nil(t, got)
	assert.Equal(t, MatchNone, how)

	keysOnly := Matcher{Keys: m.Keys}
	_, how = keysOnly.Find(saved)
	assert.Equal(t, MatchNone, how, "token fallback needs a token index")
}
