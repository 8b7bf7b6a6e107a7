package merge

import (
	"errors"
	"fmt"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/identity"
	"github.com/dbsmedya/gomerge/internal/logger"
	"github.com/dbsmedya/gomerge/internal/value"
)

// TableMerge carries the state of one table merge through a TableHandler.
// Current is mutated in place; Incoming is read only.
type TableMerge struct {
	Current  *dataset.Table
	Incoming *dataset.Table

	// KeyColumns are the effective key columns, override included. Empty
	// means the table is unkeyed.
	KeyColumns []string
	Policy     Policy
	Rows       RowHandler
	Result     *Result
	Log        *logger.Logger

	// KeepRows forbids removing rows from Current.
	KeepRows bool
	// ReloadUnkeyed clears an unkeyed table before inserting incoming rows.
	ReloadUnkeyed bool
	DefaultValue  value.DefaultFunc

	// repeated holds incoming rows whose key another incoming row shares.
	repeated map[*dataset.Record]bool
}

// Skeleton is the default TableHandler: the single walk shared by every
// merge mode, parametrized by the Policy.
type Skeleton struct{}

// MergeTable implements TableHandler. A rebuild that may not remove rows
// falls back to the matching walk.
func (Skeleton) MergeTable(tm *TableMerge) error {
	if len(tm.KeyColumns) == 0 && tm.Policy.RequiresPrimaryKey(tm.Current, tm.Incoming) {
		return tm.mergeUnkeyed()
	}
	if tm.Policy.RebuildsTable() && !tm.KeepRows && len(tm.KeyColumns) > 0 {
		return tm.rebuild()
	}
	return tm.mergeKeyed()
}

// IncomingRows returns the incoming records that take part in the merge.
// Deleted rows only do when the policy treats them as deletion signals.
func (tm *TableMerge) IncomingRows() []*dataset.Record {
	rows := tm.Incoming.Rows()
	out := make([]*dataset.Record, 0, len(rows))
	for _, r := range rows {
		if r.State() == dataset.Deleted && !tm.Policy.AppliesIncomingDeletes() {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (tm *TableMerge) usesClientKey() bool {
	return tm.Policy.MatchesByClientKey() && tm.Current.HasClientKey() && tm.Incoming.HasClientKey()
}

// rebuild evicts every current row and inserts the first incoming row per
// key, all reported.
func (tm *TableMerge) rebuild() error {
	keys := identity.NewIndex(tm.IncomingRows(), tm.KeyColumns)
	if keys.Dropped() > 0 {
		tm.Log.Debugw("incoming rows share a key", "columns", tm.KeyColumns, "duplicates", keys.Dropped())
	}
	tm.Log.Debugw("rebuilding table from incoming rows",
		"current_rows", tm.Current.Len(), "incoming_rows", keys.Len())

	for _, local := range tm.Current.Rows() {
		if err := tm.Remove(local); err != nil {
			return err
		}
	}
	for _, key := range keys.Keys() {
		rec, _ := keys.Get(key)
		if _, err := tm.Insert(rec); err != nil {
			return err
		}
	}
	return nil
}

func (tm *TableMerge) mergeKeyed() error {
	candidates := tm.IncomingRows()

	var keys *identity.Index
	if len(tm.KeyColumns) > 0 {
		keys = identity.NewIndex(candidates, tm.KeyColumns)
		if keys.Dropped() > 0 {
			tm.Log.Debugw("incoming rows share a key", "columns", tm.KeyColumns, "duplicates", keys.Dropped())
		}
	}
	var tokens *identity.TokenIndex
	if tm.usesClientKey() {
		idx, err := identity.NewTokenIndex(tm.Incoming.Name, candidates)
		if err != nil {
			return tokenError(tm.Incoming.Name, err)
		}
		tokens = idx
	}
	incoming := identity.Matcher{Keys: keys, Tokens: tokens}
	if keys != nil && tm.Policy.ReappliesDuplicates() {
		tm.repeated = repeatedKeys(candidates, keys)
	}

	consumed := make(map[*dataset.Record]bool, len(candidates))
	for i := tm.Current.Len() - 1; i >= 0; i-- {
		local := tm.Current.Row(i)
		match, how := incoming.Find(local)

		if match == nil {
			if tm.KeepRows || tm.Policy.PreserveRowWhenMissing(local) {
				continue
			}
			if err := tm.Remove(local); err != nil {
				return err
			}
			continue
		}

		consumed[match] = true
		if how == identity.MatchClientKey {
			tm.Log.Debugw("row correlated by client key", "client_key", local.ClientKey())
		}
		if match.State() == dataset.Deleted {
			if tm.KeepRows {
				continue
			}
			if err := tm.Remove(local); err != nil {
				return err
			}
			continue
		}
		if err := tm.Apply(local, match); err != nil {
			return err
		}
	}

	if tm.Policy.ReappliesDuplicates() || keys == nil {
		return tm.applyRemaining(candidates, consumed)
	}
	for _, key := range keys.Keys() {
		rec, _ := keys.Get(key)
		if consumed[rec] {
			continue
		}
		if _, err := tm.Insert(rec); err != nil {
			return err
		}
	}
	return nil
}

// applyRemaining handles incoming rows the walk did not consume, in incoming
// order. Each is matched against the current table as it stands: matched
// rows are applied again, so the last of several rows for one key wins;
// incoming deletes remove their match; anything else is inserted.
func (tm *TableMerge) applyRemaining(candidates []*dataset.Record, consumed map[*dataset.Record]bool) error {
	var keys *identity.Index
	if len(tm.KeyColumns) > 0 {
		keys = identity.NewIndex(tm.Current.Rows(), tm.KeyColumns)
	}
	var tokens *identity.TokenIndex
	if tm.usesClientKey() {
		idx, err := identity.NewTokenIndex(tm.Current.Name, tm.Current.Rows())
		if err != nil {
			return tokenError(tm.Current.Name, err)
		}
		tokens = idx
	}
	current := identity.Matcher{Keys: keys, Tokens: tokens}

	for _, rec := range candidates {
		if consumed[rec] {
			continue
		}
		target, _ := current.Find(rec)

		if rec.State() == dataset.Deleted {
			if target == nil || tm.KeepRows {
				continue
			}
			if keys != nil {
				keys.Remove(target)
			}
			tokens.Remove(target)
			if err := tm.Remove(target); err != nil {
				return err
			}
			continue
		}

		if target != nil {
			if err := tm.Apply(target, rec); err != nil {
				return err
			}
			if keys != nil {
				keys.Add(target)
			}
			continue
		}

		inserted, err := tm.Insert(rec)
		if err != nil {
			return err
		}
		if keys != nil {
			keys.Add(inserted)
		}
		if err := tokens.Add(tm.Current.Name, inserted); err != nil {
			return tokenError(tm.Current.Name, err)
		}
	}
	return nil
}

func repeatedKeys(rows []*dataset.Record, keys *identity.Index) map[*dataset.Record]bool {
	groups := make(map[string][]*dataset.Record, len(rows))
	for _, r := range rows {
		k := keys.Key(r)
		groups[k] = append(groups[k], r)
	}
	repeated := make(map[*dataset.Record]bool)
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		for _, r := range group {
			repeated[r] = true
		}
	}
	return repeated
}

func (tm *TableMerge) mergeUnkeyed() error {
	candidates := tm.IncomingRows()

	if tm.ReloadUnkeyed && !tm.KeepRows {
		tm.Log.Infow("table has no primary key, reloading all rows",
			"current_rows", tm.Current.Len(), "incoming_rows", len(candidates))
		for i := tm.Current.Len() - 1; i >= 0; i-- {
			if err := tm.Remove(tm.Current.Row(i)); err != nil {
				return err
			}
		}
	} else {
		tm.Log.Infow("table has no primary key, appending incoming rows",
			"current_rows", tm.Current.Len(), "incoming_rows", len(candidates))
	}

	for _, rec := range candidates {
		if rec.State() == dataset.Deleted {
			continue
		}
		if _, err := tm.Insert(rec); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges incoming onto local when the policy allows it. A locally
// Deleted record is restored first. The record is reported Updated when a
// field changed or when it had pending changes. Every application of a
// repeated incoming key is reported.
func (tm *TableMerge) Apply(local, incoming *dataset.Record) error {
	if !tm.Policy.CanOverwriteRow(local) {
		return nil
	}

	prior := local.State()
	if prior == dataset.Deleted {
		if err := local.RejectChanges(); err != nil {
			return err
		}
	}

	changed, err := tm.Rows.MergeRow(local, incoming)
	if err != nil {
		return fmt.Errorf("merge row of table %q: %w", tm.Current.Name, err)
	}
	if tm.Policy.ShouldAcceptAfterMerge(changed) {
		if err := local.AcceptChanges(); err != nil {
			return err
		}
	}
	if changed || prior != dataset.Unchanged || tm.repeated[incoming] {
		tm.Result.updated(tm.Current.Name, local)
	}
	return nil
}

// Insert adds a new current record built from column defaults and the
// values of incoming. It ends Unchanged and is reported Added.
func (tm *TableMerge) Insert(incoming *dataset.Record) (*dataset.Record, error) {
	rec := tm.Current.NewRecord()
	if tm.DefaultValue != nil {
		for _, col := range tm.Current.Columns() {
			if col.Name == dataset.ClientKeyColumn || incoming.Has(col.Name) {
				continue
			}
			if err := rec.Set(col.Name, tm.DefaultValue(col.DataType, col.Nullable)); err != nil {
				return nil, err
			}
		}
	}
	if _, err := tm.Rows.MergeRow(rec, incoming); err != nil {
		return nil, fmt.Errorf("copy row into table %q: %w", tm.Current.Name, err)
	}
	if err := tm.Current.Add(rec); err != nil {
		return nil, err
	}
	if err := rec.AcceptChanges(); err != nil {
		return nil, err
	}
	tm.Result.added(tm.Current.Name, rec)
	return rec, nil
}

// Remove physically evicts local from the current table and reports it
// Deleted.
func (tm *TableMerge) Remove(local *dataset.Record) error {
	if err := tm.Current.Remove(local); err != nil {
		return fmt.Errorf("remove row from table %q: %w", tm.Current.Name, err)
	}
	tm.Result.deleted(tm.Current.Name, local)
	return nil
}

func tokenError(table string, err error) error {
	if errors.Is(err, identity.ErrDuplicateToken) {
		return &ConfigurationError{
			Table:   table,
			Column:  dataset.ClientKeyColumn,
			Message: "correlation tokens must be unique",
			Err:     err,
		}
	}
	return err
}
