package integrity

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/value"
)

// Kind classifies a relation violation.
type Kind int

const (
	// InvalidRelationDefinition marks a relation whose columns or tables do
	// not line up. No row checks run for it.
	InvalidRelationDefinition Kind = iota + 1
	// OrphanChildRow marks a child row whose foreign key matches no parent.
	OrphanChildRow
	// DeletedParentHasChildren marks a Deleted parent still referenced by a
	// child row.
	DeletedParentHasChildren
)

func (k Kind) String() string {
	switch k {
	case InvalidRelationDefinition:
		return "invalid_relation_definition"
	case OrphanChildRow:
		return "orphan_child_row"
	case DeletedParentHasChildren:
		return "deleted_parent_has_children"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KeyValue is one column of a key snapshot.
type KeyValue struct {
	Column string
	Value  interface{}
}

// Key is an ordered key snapshot.
type Key []KeyValue

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, kv := range k {
		v := "null"
		if !value.IsNull(kv.Value) {
			v = value.String(kv.Value)
		}
		parts[i] = kv.Column + "=" + v
	}
	return strings.Join(parts, ", ")
}

func snapshot(r *dataset.Record, columns []string) Key {
	out := make(Key, len(columns))
	for i, col := range columns {
		out[i] = KeyValue{Column: col, Value: r.Value(col)}
	}
	return out
}

// expectedParentKey relabels the child's foreign-key values with the parent
// column names.
func expectedParentKey(child *dataset.Record, rel dataset.Relation) Key {
	out := make(Key, len(rel.ChildColumns))
	for i, col := range rel.ChildColumns {
		out[i] = KeyValue{Column: rel.ParentColumns[i], Value: child.Value(col)}
	}
	return out
}

// Violation is one integrity problem found by Validate.
type Violation struct {
	Kind     Kind
	Relation string

	// Table and Record locate the offending row: the child for
	// OrphanChildRow, the parent for DeletedParentHasChildren. Both are
	// empty for InvalidRelationDefinition.
	Table  string
	Record *dataset.Record

	// Key is the child's foreign key for OrphanChildRow and the parent's key
	// for DeletedParentHasChildren.
	Key Key
	// ExpectedParentKey is set for OrphanChildRow.
	ExpectedParentKey Key
	// Children counts the rows still referencing a deleted parent.
	Children int

	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

// Violations is the ordered result of Validate.
type Violations []Violation

// Count returns the number of violations of kind.
func (vs Violations) Count(kind Kind) int {
	n := 0
	for _, v := range vs {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// Err returns nil for an empty list and an error summarizing it otherwise.
func (vs Violations) Err() error {
	if len(vs) == 0 {
		return nil
	}
	return &Error{Violations: vs}
}

// Error wraps a non-empty violation list for callers that treat violations
// as fatal.
type Error struct {
	Violations Violations
}

func (e *Error) Error() string {
	if len(e.Violations) == 1 {
		return "relation integrity violated: " + e.Violations[0].String()
	}
	return fmt.Sprintf("relation integrity violated: %d violations (first: %s)",
		len(e.Violations), e.Violations[0])
}
