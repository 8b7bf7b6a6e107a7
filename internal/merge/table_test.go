package merge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/identity"
)

func TestReplace_RebuildsFromIncoming(t *testing.T) {
	current := newOrders(t, false)
	load(t, current, row{"Id": int64(1), "Name": "a"})
	modify(t, load(t, current, row{"Id": int64(2), "Name": "b"}), "Name", "bb")
	add(t, current, row{"Id": int64(3), "Name": "local"})

	incoming := newOrders(t, false)
	load(t, incoming, row{"Id": int64(1), "Name": "a"})
	load(t, incoming, row{"Id": int64(2), "Name": "B"})
	load(t, incoming, row{"Id": int64(4), "Name": "d"})

	res, err := MergeTable(current, incoming, Options{Mode: Replace})
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"a", "B", "d"}, names(current))
	assert.Equal(t, []dataset.RowState{dataset.Unchanged, dataset.Unchanged, dataset.Unchanged}, states(current))
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(4)}, ids(res.Added))
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, ids(res.Deleted))
	assert.Empty(t, res.Updated)
	for _, c := range res.Deleted {
		assert.Equal(t, dataset.Detached, c.Record.State())
	}
}

func TestReplace_Idempotent(t *testing.T) {
	current := newOrders(t, false)
	load(t, current, row{"Id": int64(1), "Name": "a"})
	add(t, current, row{"Id": int64(9), "Name": "pending"})

	incoming := newOrders(t, false)
	load(t, incoming, row{"Id": int64(1), "Name": "x"})
	load(t, incoming, row{"Id": int64(2), "Name": "y"})

	_, err := MergeTable(current, incoming, Options{Mode: Replace})
	require.NoError(t, err)
	first := names(current)
	assert.False(t, current.HasChanges())

	res, err := MergeTable(current, incoming, Options{Mode: Replace})
	require.NoError(t, err)
	assert.Equal(t, first, names(current))
	assert.False(t, current.HasChanges())
	assert.Len(t, res.Deleted, 2)
	assert.Len(t, res.Added, 2)
}

func TestReplace_Conservation(t *testing.T) {
	tests := []struct {
		name     string
		current  []int64
		incoming []int64
	}{
		{"overlapping keys", []int64{1, 2}, []int64{1, 2, 3}},
		{"identical rows", []int64{5}, []int64{5}},
		{"disjoint keys", []int64{1, 2}, []int64{10, 11, 12}},
		{"empty incoming", []int64{1, 2}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := newOrders(t, false)
			for _, id := range tt.current {
				load(t, current, row{"Id": id, "Name": "same"})
			}
			incoming := newOrders(t, false)
			for _, id := range tt.incoming {
				load(t, incoming, row{"Id": id, "Name": "same"})
			}

			res, err := MergeTable(current, incoming, Options{Mode: Replace})
			require.NoError(t, err)
			assert.Equal(t, incoming.Len(), current.Len())
			assert.Len(t, res.Deleted, len(tt.current))
			assert.Len(t, res.Added, len(tt.incoming))
			assert.Empty(t, res.Updated)
		})
	}
}

func TestReplace_LocallyDeletedRowIsReinsertedFresh(t *testing.T) {
	current := newOrders(t, false)
	local := load(t, current, row{"Id": int64(1), "Name": "a"})
	require.NoError(t, local.Delete())
	incoming := newOrders(t, false)
	load(t, incoming, row{"Id": int64(1), "Name": "a"})

	res, err := MergeTable(current, incoming, Options{Mode: Replace})
	require.NoError(t, err)
	require.Equal(t, 1, current.Len())
	assert.NotSame(t, local, current.Row(0))
	assert.Equal(t, dataset.Unchanged, current.Row(0).State())
	assert.Equal(t, dataset.Detached, local.State())
	assert.Len(t, res.Deleted, 1)
	assert.Len(t, res.Added, 1)
}

func TestIdentityStability(t *testing.T) {
	for _, mode := range []Mode{RefreshIfNoChangesExist, RefreshPreservingLocalChanges, PostSave} {
		t.Run(mode.String(), func(t *testing.T) {
			current := newOrders(t, false)
			local := load(t, current, row{"Id": int64(5), "Name": "same"})
			incoming := newOrders(t, false)
			load(t, incoming, row{"Id": 5, "Name": "same"})

			res, err := MergeTable(current, incoming, Options{Mode: mode})
			require.NoError(t, err)
			assert.Same(t, local, current.Row(0))
			assert.Equal(t, 0, res.Total())
		})
	}
}

func TestIncomingDeletedRowsIgnoredOutsidePostSave(t *testing.T) {
	current := newOrders(t, false)
	incoming := newOrders(t, false)
	require.NoError(t, load(t, incoming, row{"Id": int64(1)}).Delete())

	res, err := MergeTable(current, incoming, Options{Mode: Replace})
	require.NoError(t, err)
	assert.Equal(t, 0, current.Len())
	assert.True(t, res.IsEmpty())
}

func TestReplace_FirstIncomingRowPerKeyWins(t *testing.T) {
	current := newOrders(t, false)
	incoming := newOrders(t, false)
	load(t, incoming, row{"Id": int64(1), "Name": "first"})
	load(t, incoming, row{"Id": int64(1), "Name": "second"})

	res, err := MergeTable(current, incoming, Options{Mode: Replace})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"first"}, names(current))
	assert.Len(t, res.Added, 1)
}

func TestRefreshIfNoChangesExist(t *testing.T) {
	t.Run("refreshes clean table", func(t *testing.T) {
		current := newOrders(t, false)
		load(t, current, row{"Id": int64(1), "Name": "a"})
		load(t, current, row{"Id": int64(2), "Name": "b"})
		incoming := newOrders(t, false)
		load(t, incoming, row{"Id": int64(1), "Name": "A"})

		res, err := MergeTable(current, incoming, Options{Mode: RefreshIfNoChangesExist})
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"A"}, names(current))
		assert.Equal(t, dataset.Unchanged, current.Row(0).State())
		assert.Equal(t, []interface{}{int64(2)}, ids(res.Deleted))
		assert.Equal(t, []interface{}{int64(1)}, ids(res.Updated))
	})

	t.Run("fails before mutating a table with pending changes", func(t *testing.T) {
		current := newOrders(t, false)
		load(t, current, row{"Id": int64(1), "Name": "a"})
		modify(t, load(t, current, row{"Id": int64(2), "Name": "b"}), "Name", "edited")
		incoming := newOrders(t, false)
		load(t, incoming, row{"Id": int64(1), "Name": "A"})

		res, err := MergeTable(current, incoming, Options{Mode: RefreshIfNoChangesExist})
		var pre *PreconditionError
		require.True(t, errors.As(err, &pre))
		assert.Equal(t, "orders", pre.Table)
		assert.Equal(t, RefreshIfNoChangesExist, pre.Mode)
		assert.True(t, res.IsEmpty())
		assert.Equal(t, []interface{}{"a", "edited"}, names(current))
	})
}

func TestRefreshPreservingLocalChanges(t *testing.T) {
	current := newOrders(t, false)
	load(t, current, row{"Id": int64(1), "Name": "a"})
	edited := modify(t, load(t, current, row{"Id": int64(2), "Name": "b"}), "Name", "mine")
	load(t, current, row{"Id": int64(3), "Name": "c"})
	matchedEdit := modify(t, load(t, current, row{"Id": int64(4), "Name": "d"}), "Name", "also mine")
	pending := add(t, current, row{"Id": int64(5), "Name": "new"})

	incoming := newOrders(t, false)
	load(t, incoming, row{"Id": int64(1), "Name": "A"})
	load(t, incoming, row{"Id": int64(4), "Name": "D"})

	res, err := MergeTable(current, incoming, Options{Mode: RefreshPreservingLocalChanges})
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"A", "mine", "also mine", "new"}, names(current))
	assert.Equal(t, dataset.Modified, edited.State())
	assert.Equal(t, "b", edited.Original("Name"))
	assert.Equal(t, dataset.Modified, matchedEdit.State(), "local edit wins over a match")
	assert.Equal(t, dataset.Added, pending.State())

	assert.Equal(t, []interface{}{int64(3)}, ids(res.Deleted))
	assert.Equal(t, []interface{}{int64(1)}, ids(res.Updated))
	assert.Empty(t, res.Added, "matched edited row is consumed, not re-added")
}

func TestPostSave_CorrelatesInsertedRecord(t *testing.T) {
	current := newOrders(t, true)
	local := add(t, current, row{"Id": int64(-1), "Name": "draft"})
	token := local.ClientKey()
	require.NotEmpty(t, token)

	incoming := newOrders(t, true)
	add(t, incoming, row{"Id": int64(42), "Name": "draft", dataset.ClientKeyColumn: token})

	res, err := MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)

	require.Equal(t, 1, current.Len())
	assert.Same(t, local, current.Row(0))
	assert.Equal(t, int64(42), local.Value("Id"))
	assert.Equal(t, dataset.Unchanged, local.State())
	assert.Equal(t, token, local.ClientKey())
	assert.Empty(t, res.Added)
	require.Len(t, res.Updated, 1)
	assert.Same(t, local, res.Updated[0].Record)
}

func TestPostSave_LastDuplicateWins(t *testing.T) {
	current := newOrders(t, true)
	local := load(t, current, row{"Id": int64(10), "Name": "a"})

	incoming := newOrders(t, true)
	modify(t, load(t, incoming, row{"Id": int64(10), "Name": "x"}), "Name", "first")
	modify(t, load(t, incoming, row{"Id": int64(10), "Name": "y"}), "Name", "second")

	res, err := MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)

	assert.Equal(t, "second", local.Value("Name"))
	assert.Equal(t, dataset.Unchanged, local.State())
	require.Len(t, res.Updated, 2)
	assert.Same(t, local, res.Updated[0].Record)
	assert.Same(t, local, res.Updated[1].Record)
	assert.Empty(t, res.Added)
}

func TestPostSave_DuplicateMatchingLocalValuesIsReported(t *testing.T) {
	current := newOrders(t, true)
	local := load(t, current, row{"Id": int64(10), "Name": "a"})

	incoming := newOrders(t, true)
	modify(t, load(t, incoming, row{"Id": int64(10), "Name": "x"}), "Name", "a")
	modify(t, load(t, incoming, row{"Id": int64(10), "Name": "y"}), "Name", "b")

	res, err := MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)

	assert.Equal(t, "b", local.Value("Name"))
	assert.Equal(t, dataset.Unchanged, local.State())
	require.Len(t, res.Updated, 2)
	assert.Same(t, local, res.Updated[0].Record)
	assert.Same(t, local, res.Updated[1].Record)
	assert.Equal(t, 1, current.Len())
}

func TestPostSave_AcceptsOverLocalEdit(t *testing.T) {
	current := newOrders(t, true)
	local := modify(t, load(t, current, row{"Id": int64(1), "Name": "a"}), "Name", "local")
	incoming := newOrders(t, true)
	load(t, incoming, row{"Id": int64(1), "Name": "saved"})

	_, err := MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)
	assert.Equal(t, "saved", local.Value("Name"))
	assert.Equal(t, dataset.Unchanged, local.State())
	assert.False(t, local.HasBaseline())
}

func TestPostSave_MissingRowsAreKeptAndUnmatchedInserted(t *testing.T) {
	current := newOrders(t, true)
	load(t, current, row{"Id": int64(1), "Name": "a"})
	load(t, current, row{"Id": int64(2), "Name": "b"})
	incoming := newOrders(t, true)
	load(t, incoming, row{"Id": int64(1), "Name": "a"})
	add(t, incoming, row{"Id": int64(3), "Name": "c"})

	res, err := MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"a", "b", "c"}, names(current))
	assert.Empty(t, res.Deleted)
	assert.Equal(t, []interface{}{int64(3)}, ids(res.Added))
	assert.Equal(t, dataset.Unchanged, current.Row(2).State())
}

func TestPostSave_IncomingDeletes(t *testing.T) {
	current := newOrders(t, true)
	load(t, current, row{"Id": int64(7), "Name": "gone"})
	load(t, current, row{"Id": int64(8), "Name": "kept"})

	incoming := newOrders(t, true)
	require.NoError(t, load(t, incoming, row{"Id": int64(7)}).Delete())
	require.NoError(t, load(t, incoming, row{"Id": int64(99)}).Delete())

	res, err := MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"kept"}, names(current))
	assert.Equal(t, []interface{}{int64(7)}, ids(res.Deleted))
	assert.Empty(t, res.Added, "unmatched delete is a no-op")

	// Applying the same confirmation again changes nothing.
	res, err = MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
}

func TestPostSave_RestoresLocallyDeletedRecord(t *testing.T) {
	current := newOrders(t, true)
	local := load(t, current, row{"Id": int64(5), "Name": "a"})
	require.NoError(t, local.Delete())
	incoming := newOrders(t, true)
	load(t, incoming, row{"Id": int64(5), "Name": "b"})

	res, err := MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)
	assert.Equal(t, dataset.Unchanged, local.State())
	assert.Equal(t, "b", local.Value("Name"))
	assert.Len(t, res.Updated, 1)
}

func TestPostSave_NullClientKeyNeverOverwrites(t *testing.T) {
	current := newOrders(t, true)
	local := load(t, current, row{"Id": int64(1), "Name": "a"})
	token := local.ClientKey()
	incoming := newOrders(t, true)
	load(t, incoming, row{"Id": int64(1), "Name": "b", dataset.ClientKeyColumn: nil})

	_, err := MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)
	assert.Equal(t, token, local.ClientKey())
	assert.Equal(t, "b", local.Value("Name"))
}

func TestPostSave_TokenOnlyMatchingWithoutPrimaryKey(t *testing.T) {
	current := newUnkeyed(t, true)
	local := add(t, current, row{"Message": "draft"})
	incoming := newUnkeyed(t, true)
	add(t, incoming, row{"Message": "saved", dataset.ClientKeyColumn: local.ClientKey()})
	add(t, incoming, row{"Message": "other"})

	res, err := MergeTable(current, incoming, Options{Mode: PostSave})
	require.NoError(t, err)
	require.Equal(t, 2, current.Len())
	assert.Same(t, local, current.Row(0))
	assert.Equal(t, "saved", local.Value("Message"))
	assert.Len(t, res.Updated, 1)
	assert.Len(t, res.Added, 1)
}

func TestPostSave_DuplicateTokensAreConfigurationFaults(t *testing.T) {
	current := newOrders(t, true)
	incoming := newOrders(t, true)
	a := add(t, incoming, row{"Id": int64(1)})
	add(t, incoming, row{"Id": int64(2), dataset.ClientKeyColumn: a.ClientKey()})

	_, err := MergeTable(current, incoming, Options{Mode: PostSave})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, dataset.ClientKeyColumn, cfgErr.Column)
	assert.True(t, errors.Is(err, identity.ErrDuplicateToken))
}

func TestMissingKeyColumnInIncoming(t *testing.T) {
	current := newOrders(t, false)
	load(t, current, row{"Id": int64(1)})
	incoming := dataset.MustNewTable("orders", dataset.Column{Name: "Name", DataType: "varchar"})

	_, err := MergeTable(current, incoming, Options{Mode: Replace})
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Id", cfgErr.Column)
	assert.Contains(t, err.Error(), "missing from the incoming table")
	assert.Equal(t, 1, current.Len())
}

func TestOverriddenPrimaryKey(t *testing.T) {
	build := func() *dataset.Table {
		tbl := newOrders(t, false)
		require.NoError(t, tbl.AddColumn(dataset.Column{Name: "Code", DataType: "varchar"}))
		return tbl
	}
	current := build()
	local := load(t, current, row{"Id": int64(1), "Code": "A"})
	incoming := build()
	load(t, incoming, row{"Id": int64(100), "Code": "A"})

	opts := Options{Mode: RefreshIfNoChangesExist, OverriddenPrimaryKeyNames: map[string][]string{"orders": {"Code"}}}
	res, err := MergeTable(current, incoming, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(100), local.Value("Id"))
	assert.Len(t, res.Updated, 1)
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Deleted)

	opts.OverriddenPrimaryKeyNames = map[string][]string{"orders": {"Nope"}}
	_, err = MergeTable(current, incoming, opts)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Nope", cfgErr.Column)
}

func TestUnkeyedTables(t *testing.T) {
	build := func() (*dataset.Table, *dataset.Table) {
		current := newUnkeyed(t, false)
		load(t, current, row{"Message": "old 1"})
		load(t, current, row{"Message": "old 2"})
		incoming := newUnkeyed(t, false)
		load(t, incoming, row{"Message": "new 1"})
		load(t, incoming, row{"Message": "new 2"})
		load(t, incoming, row{"Message": "old 1"})
		return current, incoming
	}

	t.Run("append fallback", func(t *testing.T) {
		current, incoming := build()
		res, err := MergeTable(current, incoming, Options{Mode: Replace})
		require.NoError(t, err)
		assert.Equal(t, 5, current.Len())
		assert.Len(t, res.Added, 3)
		assert.Empty(t, res.Deleted)
	})

	t.Run("full reload", func(t *testing.T) {
		current, incoming := build()
		res, err := MergeTable(current, incoming, Options{Mode: Replace, ReplaceAllRowsWhenNoPrimaryKey: true})
		require.NoError(t, err)
		assert.Equal(t, 3, current.Len())
		assert.Len(t, res.Deleted, 2)
		assert.Len(t, res.Added, 3)
		assert.False(t, current.HasChanges())
	})

	t.Run("reload degrades to append when rows may not be deleted", func(t *testing.T) {
		current, incoming := build()
		res, err := MergeTable(current, incoming, Options{
			Mode:                           Replace,
			ReplaceAllRowsWhenNoPrimaryKey: true,
			ExcludeTablesFromRowDeletion:   []string{"audit"},
		})
		require.NoError(t, err)
		assert.Equal(t, 5, current.Len())
		assert.Empty(t, res.Deleted)
	})

	t.Run("post save without tokens appends", func(t *testing.T) {
		current, incoming := build()
		res, err := MergeTable(current, incoming, Options{Mode: PostSave})
		require.NoError(t, err)
		assert.Equal(t, 5, current.Len())
		assert.Len(t, res.Added, 3)
	})

	t.Run("post save never inserts incoming deletes", func(t *testing.T) {
		current := newUnkeyed(t, false)
		load(t, current, row{"Message": "gone"})
		incoming := newUnkeyed(t, false)
		require.NoError(t, load(t, incoming, row{"Message": "gone"}).Delete())
		load(t, incoming, row{"Message": "new"})

		res, err := MergeTable(current, incoming, Options{Mode: PostSave})
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"gone", "new"}, messages(current))
		assert.Equal(t, []dataset.RowState{dataset.Unchanged, dataset.Unchanged}, states(current))
		require.Len(t, res.Added, 1)
		assert.Equal(t, "new", res.Added[0].Record.Value("Message"))
		assert.Empty(t, res.Deleted)
	})
}

func TestExcludeTables(t *testing.T) {
	current := newOrders(t, false)
	load(t, current, row{"Id": int64(1), "Name": "a"})
	incoming := newOrders(t, false)
	load(t, incoming, row{"Id": int64(2), "Name": "b"})

	res, err := MergeTable(current, incoming, Options{Mode: Replace, ExcludeTablesFromMerge: []string{"orders"}})
	require.NoError(t, err)
	assert.True(t, res.IsEmpty())
	assert.Equal(t, []interface{}{"a"}, names(current))

	res, err = MergeTable(current, incoming, Options{Mode: Replace, ExcludeTablesFromRowDeletion: []string{"orders"}})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "b"}, names(current))
	assert.Empty(t, res.Deleted)
}

func TestPostSave_ExcludedFromRowDeletionIgnoresIncomingDeletes(t *testing.T) {
	current := newOrders(t, true)
	load(t, current, row{"Id": int64(1)})
	incoming := newOrders(t, true)
	require.NoError(t, load(t, incoming, row{"Id": int64(1)}).Delete())

	res, err := MergeTable(current, incoming, Options{Mode: PostSave, ExcludeTablesFromRowDeletion: []string{"orders"}})
	require.NoError(t, err)
	assert.Equal(t, 1, current.Len())
	assert.True(t, res.IsEmpty())
}

func TestCustomHandlers(t *testing.T) {
	current := newOrders(t, false)
	load(t, current, row{"Id": int64(1), "Name": "a"})
	incoming := newOrders(t, false)
	load(t, incoming, row{"Id": int64(1), "Name": "b"})
	load(t, incoming, row{"Id": int64(2), "Name": "c"})

	var rowCalls, tableCalls int
	opts := Options{
		Mode: Replace,
		RowHandlers: map[string]RowHandler{
			"orders": RowHandlerFunc(func(local, in *dataset.Record) (bool, error) {
				rowCalls++
				return FieldMerger{}.MergeRow(local, in)
			}),
		},
		TableHandlers: map[string]TableHandler{
			"orders": TableHandlerFunc(func(tm *TableMerge) error {
				tableCalls++
				assert.Equal(t, []string{"Id"}, tm.KeyColumns)
				return Skeleton{}.MergeTable(tm)
			}),
			"other": nil,
		},
	}

	res, err := MergeTable(current, incoming, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, tableCalls)
	assert.Equal(t, 2, rowCalls, "one call per inserted row")
	assert.Equal(t, []interface{}{"b", "c"}, names(current))
	assert.Len(t, res.Added, 2)
	assert.Len(t, res.Deleted, 1)
}

func TestRowHandlerErrorPropagates(t *testing.T) {
	current := newOrders(t, false)
	load(t, current, row{"Id": int64(1)})
	incoming := newOrders(t, false)
	load(t, incoming, row{"Id": int64(1)})

	boom := errors.New("boom")
	_, err := MergeTable(current, incoming, Options{
		Mode: Replace,
		RowHandlers: map[string]RowHandler{
			"orders": RowHandlerFunc(func(_, _ *dataset.Record) (bool, error) { return false, boom }),
		},
	})
	assert.ErrorIs(t, err, boom)
}

func TestDefaultValueFillsColumnsIncomingLacks(t *testing.T) {
	current := newOrders(t, false)
	require.NoError(t, current.AddColumn(dataset.Column{Name: "Note", DataType: "varchar"}))
	incoming := newOrders(t, false)
	load(t, incoming, row{"Id": int64(1), "Name": "a"})

	res, err := MergeTable(current, incoming, Options{
		Mode:         Replace,
		DefaultValue: func(string, bool) interface{} { return "n/a" },
	})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, "n/a", res.Added[0].Record.Value("Note"))
	assert.Equal(t, "a", res.Added[0].Record.Value("Name"))
}

func TestMergeTable_InvalidInput(t *testing.T) {
	_, err := MergeTable(nil, newOrders(t, false), Options{})
	assert.Error(t, err)

	_, err = MergeTable(newOrders(t, false), newOrders(t, false), Options{Mode: "overwrite"})
	assert.Error(t, err)
}
