package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a column is not declared by the table schema.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrDuplicateColumn is returned when a column name is declared twice.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrDuplicateTable is returned when a dataset already holds a table with that name.
	ErrDuplicateTable = errors.New("duplicate table")
	// ErrDuplicateRelation is returned when a dataset already declares a relation with that name.
	ErrDuplicateRelation = errors.New("duplicate relation")
	// ErrDetached is returned for lifecycle operations on a record that is not in a table.
	ErrDetached = errors.New("record is detached")
	// ErrAttached is returned when adding a record that already belongs to a table.
	ErrAttached = errors.New("record is already attached")
	// ErrForeignRecord is returned when a record created by one table is added to another.
	ErrForeignRecord = errors.New("record was created by a different table")
)

// StateError reports a lifecycle operation that is not permitted in the
// record's current state.
type StateError struct {
	Op      string
	State   RowState
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s record: %s", e.Op, e.State, e.Message)
}
