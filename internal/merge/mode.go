// Package merge reconciles a working copy holding local edits with an
// incoming snapshot of the same tables.
package merge

import (
	"fmt"
	"strings"
)

// Mode selects the merge policy.
type Mode string

const (
	// Replace rebuilds the table from the incoming snapshot.
	Replace Mode = "replace"
	// RefreshIfNoChangesExist refreshes the table and fails when any row has
	// pending changes.
	RefreshIfNoChangesExist Mode = "refresh_if_no_changes"
	// RefreshPreservingLocalChanges refreshes unchanged rows and leaves rows
	// with pending changes alone.
	RefreshPreservingLocalChanges Mode = "refresh_preserving_local_changes"
	// PostSave applies the source's confirmation of a saved changeset.
	PostSave Mode = "post_save"
)

// Modes lists every merge mode.
var Modes = []Mode{Replace, RefreshIfNoChangesExist, RefreshPreservingLocalChanges, PostSave}

// ParseMode parses a mode name. Matching ignores case, and '-' is accepted
// in place of '_'.
func ParseMode(s string) (Mode, error) {
	norm := Mode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, m := range Modes {
		if m == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown merge mode %q", s)
}

func (m Mode) String() string {
	return string(m)
}
