package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/gomerge/internal/config"
	"github.com/dbsmedya/gomerge/internal/dataset"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"replace", Replace, false},
		{"POST_SAVE", PostSave, false},
		{" refresh-preserving-local-changes ", RefreshPreservingLocalChanges, false},
		{"refresh_if_no_changes", RefreshIfNoChangesExist, false},
		{"", "", true},
		{"merge", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModesMatchConfigValidation(t *testing.T) {
	require.Len(t, config.MergeModes, len(Modes))
	for i, m := range Modes {
		assert.Equal(t, config.MergeModes[i], m.String())
	}
}

func TestPolicyPredicates(t *testing.T) {
	tbl := newOrders(t, false)
	unchanged := load(t, tbl, row{"Id": int64(1)})
	edited := modify(t, load(t, tbl, row{"Id": int64(2)}), "Name", "x")

	tests := []struct {
		mode             Mode
		overwriteEdited  bool
		preserveMissing  bool
		acceptUnchanged  bool
		clientKey        bool
		incomingDeletes  bool
		reapplyDuplicate bool
	}{
		{Replace, true, false, true, false, false, false},
		{RefreshIfNoChangesExist, true, false, false, false, false, false},
		{RefreshPreservingLocalChanges, false, true, false, false, false, false},
		{PostSave, true, true, true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			p, err := PolicyFor(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, p.Mode())

			assert.True(t, p.CanOverwriteRow(unchanged))
			assert.Equal(t, tt.overwriteEdited, p.CanOverwriteRow(edited))
			assert.Equal(t, tt.preserveMissing, p.PreserveRowWhenMissing(edited))
			assert.Equal(t, tt.mode == PostSave, p.PreserveRowWhenMissing(unchanged))
			assert.True(t, p.ShouldAcceptAfterMerge(true))
			assert.Equal(t, tt.acceptUnchanged, p.ShouldAcceptAfterMerge(false))
			assert.Equal(t, tt.clientKey, p.MatchesByClientKey())
			assert.Equal(t, tt.incomingDeletes, p.AppliesIncomingDeletes())
			assert.Equal(t, tt.reapplyDuplicate, p.ReappliesDuplicates())
			assert.Equal(t, tt.mode == Replace, p.RebuildsTable())
		})
	}

	_, err := PolicyFor("bogus")
	assert.Error(t, err)
}

func TestPolicy_RequiresPrimaryKey(t *testing.T) {
	plain := newUnkeyed(t, false)
	tokened := newUnkeyed(t, true)

	post, _ := PolicyFor(PostSave)
	assert.False(t, post.RequiresPrimaryKey(tokened, tokened))
	assert.True(t, post.RequiresPrimaryKey(tokened, plain))

	replace, _ := PolicyFor(Replace)
	assert.True(t, replace.RequiresPrimaryKey(tokened, tokened))
}

func TestPolicy_CheckPreconditions(t *testing.T) {
	tbl := newOrders(t, false)
	load(t, tbl, row{"Id": int64(1)})

	strict, _ := PolicyFor(RefreshIfNoChangesExist)
	assert.NoError(t, strict.CheckPreconditions(tbl))

	add(t, tbl, row{"Id": int64(2)})
	err := strict.CheckPreconditions(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 row(s) have pending changes")

	lenient, _ := PolicyFor(Replace)
	assert.NoError(t, lenient.CheckPreconditions(tbl))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig().Merge
	cfg.Mode = "post_save"
	cfg.ExcludeTablesFromMerge = []string{"audit"}
	cfg.PrimaryKeyOverrides = []config.PrimaryKeyOverride{{Table: "lines", Columns: []string{"OrderId", "Line"}}}
	cfg.ReplaceAllRowsWhenNoPrimaryKey = true

	opts, err := OptionsFromConfig(&cfg)
	require.NoError(t, err)
	assert.Equal(t, PostSave, opts.Mode)
	assert.Equal(t, []string{"audit"}, opts.ExcludeTablesFromMerge)
	assert.Equal(t, map[string][]string{"lines": {"OrderId", "Line"}}, opts.OverriddenPrimaryKeyNames)
	assert.True(t, opts.ReplaceAllRowsWhenNoPrimaryKey)

	cfg.Mode = "nope"
	_, err = OptionsFromConfig(&cfg)
	assert.Error(t, err)

	assert.Equal(t, Replace, DefaultOptions().Mode)
}

func TestFieldMerger(t *testing.T) {
	tbl := newOrders(t, true)
	local := load(t, tbl, row{"Id": int64(1), "Name": "a"})
	other := dataset.MustNewTable("orders", dataset.Column{Name: "Name", DataType: "varchar"}, dataset.Column{Name: "Extra"})
	in := load(t, other, row{"Name": "b", "Extra": 1})

	changed, err := FieldMerger{}.MergeRow(local, in)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "b", local.Value("Name"))
	assert.Equal(t, int64(1), local.Value("Id"), "columns the incoming record lacks are left alone")
	assert.Equal(t, dataset.Modified, local.State(), "merging does not accept")

	changed, err = FieldMerger{}.MergeRow(local, in)
	require.NoError(t, err)
	assert.False(t, changed)
}
