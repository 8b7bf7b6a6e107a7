package merge

import (
	"github.com/dbsmedya/gomerge/internal/config"
	"github.com/dbsmedya/gomerge/internal/logger"
	"github.com/dbsmedya/gomerge/internal/value"
)

// Options configures a merge.
type Options struct {
	Mode Mode

	// ExcludeTablesFromMerge names tables that are left untouched.
	ExcludeTablesFromMerge []string
	// ExcludeTablesFromRowDeletion names tables from which no row is ever
	// removed: missing rows survive, incoming deletes are ignored and an
	// unkeyed reload degrades to an append.
	ExcludeTablesFromRowDeletion []string
	// OverriddenPrimaryKeyNames replaces the declared primary key per table.
	OverriddenPrimaryKeyNames map[string][]string
	// ReplaceAllRowsWhenNoPrimaryKey reloads unkeyed tables instead of
	// appending incoming rows to them.
	ReplaceAllRowsWhenNoPrimaryKey bool

	// RowHandlers and TableHandlers override the default handlers per table.
	RowHandlers   map[string]RowHandler
	TableHandlers map[string]TableHandler

	// DefaultValue fills columns of inserted records that the incoming table
	// does not carry. Nil keeps the current table's own defaults.
	DefaultValue value.DefaultFunc

	// Logger receives merge decisions. Nil discards them.
	Logger *logger.Logger
}

// DefaultOptions returns options for a Replace merge.
func DefaultOptions() Options {
	return Options{Mode: Replace}
}

// OptionsFromConfig translates the merge section of the configuration.
func OptionsFromConfig(cfg *config.MergeConfig) (Options, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Mode:                           mode,
		ExcludeTablesFromMerge:         append([]string(nil), cfg.ExcludeTablesFromMerge...),
		ExcludeTablesFromRowDeletion:   append([]string(nil), cfg.ExcludeTablesFromRowDeletion...),
		OverriddenPrimaryKeyNames:      cfg.PrimaryKeyOverrideMap(),
		ReplaceAllRowsWhenNoPrimaryKey: cfg.ReplaceAllRowsWhenNoPrimaryKey,
	}, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
