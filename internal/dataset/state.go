// Package dataset provides the in-memory tabular model reconciled by the merge
// engine: records with lifecycle state, tables with column schema and primary
// keys, and datasets of tables plus declared relations.
package dataset

import (
	"fmt"
	"strings"
)

// RowState is the lifecycle state of a Record.
type RowState int

const (
	// Unchanged is the state of loaded or accepted records. It has no baseline.
	Unchanged RowState = iota
	// Added records were inserted locally and are not yet confirmed.
	Added
	// Modified records hold local edits; the baseline keeps the pre-edit values.
	Modified
	// Deleted records are soft-deleted; the baseline keeps the last accepted values.
	Deleted
	// Detached records are not part of any table.
	Detached
)

var stateNames = [...]string{"unchanged", "added", "modified", "deleted", "detached"}

func (s RowState) String() string {
	if s < Unchanged || s > Detached {
		return fmt.Sprintf("RowState(%d)", int(s))
	}
	return stateNames[s]
}

// ParseRowState converts a state name (case-insensitive) into a RowState.
// The empty string parses as Unchanged.
func ParseRowState(s string) (RowState, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Unchanged, nil
	}
	for i, n := range stateNames {
		if n == name {
			return RowState(i), nil
		}
	}
	return Unchanged, fmt.Errorf("unknown row state %q", s)
}

// hasBaseline reports whether records in state s keep a baseline snapshot.
func (s RowState) hasBaseline() bool {
	return s == Modified || s == Deleted
}
