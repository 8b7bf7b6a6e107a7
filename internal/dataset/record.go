package dataset

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/gomerge/internal/value"
)

type fields = orderedmap.OrderedMap[string, interface{}]

// Record is one table row: an ordered column -> value mapping, a lifecycle
// state and, while Modified or Deleted, a baseline of the last accepted values.
//
// Records are created by Table.NewRecord and only ever belong to that table.
type Record struct {
	table    *Table
	values   *fields
	baseline *fields
	state    RowState

	// Selected is a transient UI flag. The merge engine ignores it.
	Selected bool
}

func newFields() *fields {
	return orderedmap.NewOrderedMap[string, interface{}]()
}

func copyFields(src *fields) *fields {
	dst := newFields()
	for el := src.Front(); el != nil; el = el.Next() {
		dst.Set(el.Key, el.Value)
	}
	return dst
}

// Table returns the table whose schema the record follows.
func (r *Record) Table() *Table {
	return r.table
}

// State returns the record's lifecycle state.
func (r *Record) State() RowState {
	return r.state
}

// HasBaseline reports whether a baseline snapshot is held (Modified or Deleted).
func (r *Record) HasBaseline() bool {
	return r.baseline != nil
}

// Get returns the current value of column and whether the column exists.
func (r *Record) Get(column string) (interface{}, bool) {
	return r.values.Get(column)
}

// Value returns the current value of column, or nil when it does not exist.
func (r *Record) Value(column string) interface{} {
	v, _ := r.values.Get(column)
	return v
}

// Has reports whether the record carries column.
func (r *Record) Has(column string) bool {
	_, ok := r.values.Get(column)
	return ok
}

// Original returns the baseline value of column when a baseline is held and
// the current value otherwise.
func (r *Record) Original(column string) interface{} {
	if r.baseline != nil {
		v, _ := r.baseline.Get(column)
		return v
	}
	return r.Value(column)
}

// Values returns a copy of the current values keyed by column name.
func (r *Record) Values() map[string]interface{} {
	out := make(map[string]interface{}, r.values.Len())
	for el := r.values.Front(); el != nil; el = el.Next() {
		out[el.Key] = el.Value
	}
	return out
}

// BaselineValues returns a copy of the baseline, or nil when none is held.
func (r *Record) BaselineValues() map[string]interface{} {
	if r.baseline == nil {
		return nil
	}
	out := make(map[string]interface{}, r.baseline.Len())
	for el := r.baseline.Front(); el != nil; el = el.Next() {
		out[el.Key] = el.Value
	}
	return out
}

// ClientKey returns the correlation token, or "" when the table does not
// declare ClientKeyColumn or the value is null.
func (r *Record) ClientKey() string {
	v, ok := r.values.Get(ClientKeyColumn)
	if !ok {
		return ""
	}
	return value.String(v)
}

// Set writes a field value. Writing a value equal to the current one is a
// no-op. The first effective write on an Unchanged record snapshots the
// baseline and moves it to Modified; further writes keep the original
// baseline. Deleted records cannot be written.
func (r *Record) Set(column string, v interface{}) error {
	old, ok := r.values.Get(column)
	if !ok {
		return fmt.Errorf("%w: %q in table %q", ErrUnknownColumn, column, r.table.Name)
	}
	if r.state == Deleted {
		return &StateError{Op: "set", State: r.state, Message: "reject the delete before editing values"}
	}
	if value.Equal(old, v) {
		return nil
	}

	if r.state == Unchanged {
		r.baseline = copyFields(r.values)
	}
	r.values.Set(column, v)

	if r.state != Detached {
		r.table.notifyFieldChanged(r, column, old, v)
	}
	if r.state == Unchanged {
		r.setState(Modified)
	}
	return nil
}

// SetValues writes several fields in schema order. It stops at the first error.
func (r *Record) SetValues(values map[string]interface{}) error {
	for name := range values {
		if !r.table.HasColumn(name) {
			return fmt.Errorf("%w: %q in table %q", ErrUnknownColumn, name, r.table.Name)
		}
	}
	for _, col := range r.table.columns {
		v, ok := values[col.Name]
		if !ok {
			continue
		}
		if err := r.Set(col.Name, v); err != nil {
			return err
		}
	}
	return nil
}

// Delete soft-deletes the record. Added records never existed at the source
// and are evicted from the table instead (state Detached). Unchanged and
// Modified records become Deleted with their baseline preserved.
func (r *Record) Delete() error {
	switch r.state {
	case Detached:
		return ErrDetached
	case Deleted:
		return nil
	case Added:
		return r.table.Remove(r)
	case Unchanged:
		r.baseline = copyFields(r.values)
	}
	r.setState(Deleted)
	return nil
}

// AcceptChanges commits local edits: Added and Modified records become
// Unchanged and drop their baseline. A Deleted record cannot be accepted at
// row scope because acceptance evicts it; use Table.AcceptChanges.
func (r *Record) AcceptChanges() error {
	switch r.state {
	case Detached:
		return ErrDetached
	case Deleted:
		return &StateError{
			Op:      "accept",
			State:   r.state,
			Message: "deleted records are accepted at table scope; call Table.AcceptChanges to evict it",
		}
	case Unchanged:
		return nil
	}
	r.baseline = nil
	r.setState(Unchanged)
	return nil
}

// RejectChanges rolls local edits back: Added records are evicted, Modified
// and Deleted records get their baseline values restored and become Unchanged.
func (r *Record) RejectChanges() error {
	switch r.state {
	case Detached:
		return ErrDetached
	case Unchanged:
		return nil
	case Added:
		return r.table.Remove(r)
	}

	restored := r.baseline
	r.baseline = nil
	for el := restored.Front(); el != nil; el = el.Next() {
		old, _ := r.values.Get(el.Key)
		if value.Equal(old, el.Value) {
			continue
		}
		r.values.Set(el.Key, el.Value)
		r.table.notifyFieldChanged(r, el.Key, old, el.Value)
	}
	r.setState(Unchanged)
	return nil
}

func (r *Record) setState(to RowState) {
	from := r.state
	if from == to {
		return
	}
	r.state = to
	if !to.hasBaseline() {
		r.baseline = nil
	}
	r.table.notifyStateChanged(r, from, to)
}

func (r *Record) String() string {
	return fmt.Sprintf("%s[%s]%v", r.table.Name, r.state, r.Values())
}
