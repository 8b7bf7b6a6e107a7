package merge

import (
	"fmt"

	"github.com/dbsmedya/gomerge/internal/dataset"
)

// Policy holds the mode-dependent decisions of the merge skeleton. Every
// mode runs the same walk; only these answers differ.
type Policy struct {
	mode Mode
}

// PolicyFor returns the policy of mode.
func PolicyFor(mode Mode) (Policy, error) {
	for _, m := range Modes {
		if m == mode {
			return Policy{mode: mode}, nil
		}
	}
	return Policy{}, fmt.Errorf("unknown merge mode %q", mode)
}

// Mode returns the mode the policy implements.
func (p Policy) Mode() Mode {
	return p.mode
}

// CheckPreconditions fails when current cannot be merged at all. It runs
// before any mutation.
func (p Policy) CheckPreconditions(current *dataset.Table) error {
	if p.mode != RefreshIfNoChangesExist {
		return nil
	}
	pending := 0
	for _, r := range current.Rows() {
		if r.State() != dataset.Unchanged {
			pending++
		}
	}
	if pending > 0 {
		return &PreconditionError{
			Table:   current.Name,
			Mode:    p.mode,
			Message: fmt.Sprintf("%d row(s) have pending changes", pending),
		}
	}
	return nil
}

// CanOverwriteRow reports whether incoming values may be copied onto local.
// Only RefreshPreservingLocalChanges protects pending edits.
func (p Policy) CanOverwriteRow(local *dataset.Record) bool {
	if p.mode == RefreshPreservingLocalChanges {
		return local.State() == dataset.Unchanged
	}
	return true
}

// PreserveRowWhenMissing reports whether local survives when the incoming
// snapshot has no counterpart for it.
func (p Policy) PreserveRowWhenMissing(local *dataset.Record) bool {
	switch p.mode {
	case PostSave:
		return true
	case RefreshPreservingLocalChanges:
		return local.State() != dataset.Unchanged
	default:
		return false
	}
}

// RequiresPrimaryKey reports whether per-record matching needs a key. A
// post-save merge can match on correlation tokens alone when both tables
// carry them.
func (p Policy) RequiresPrimaryKey(current, incoming *dataset.Table) bool {
	if p.mode == PostSave {
		return !(current.HasClientKey() && incoming.HasClientKey())
	}
	return true
}

// ShouldAcceptAfterMerge reports whether a matched record is accepted after
// its fields were merged. Replace and PostSave always accept; the refresh
// modes accept when a field changed.
func (p Policy) ShouldAcceptAfterMerge(changed bool) bool {
	switch p.mode {
	case Replace, PostSave:
		return true
	default:
		return changed
	}
}

// RebuildsTable reports whether a keyed table is rebuilt from the incoming
// rows: every current row is evicted and every incoming row inserted, so no
// record survives by matching.
func (p Policy) RebuildsTable() bool {
	return p.mode == Replace
}

// MatchesByClientKey reports whether correlation tokens are a fallback when
// the primary key does not match.
func (p Policy) MatchesByClientKey() bool {
	return p.mode == PostSave
}

// AppliesIncomingDeletes reports whether incoming Deleted rows are deletion
// signals. Other modes treat the incoming table as a snapshot and ignore them.
func (p Policy) AppliesIncomingDeletes() bool {
	return p.mode == PostSave
}

// ReappliesDuplicates reports whether incoming rows that share an already
// matched key are applied again, last write winning, each application
// reported Updated. Other modes keep the first row per key.
func (p Policy) ReappliesDuplicates() bool {
	return p.mode == PostSave
}
