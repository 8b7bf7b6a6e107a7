package dataset

// Observer receives synchronous change notifications from a Table. Callbacks
// run on the goroutine performing the mutation and must not mutate the table
// or re-enter the merge engine.
type Observer interface {
	RecordAdded(t *Table, r *Record)
	RecordRemoved(t *Table, r *Record)
	FieldChanged(r *Record, column string, oldValue, newValue interface{})
	StateChanged(r *Record, from, to RowState)
}

// ObserverFuncs adapts optional callback functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnRecordAdded   func(t *Table, r *Record)
	OnRecordRemoved func(t *Table, r *Record)
	OnFieldChanged  func(r *Record, column string, oldValue, newValue interface{})
	OnStateChanged  func(r *Record, from, to RowState)
}

func (o ObserverFuncs) RecordAdded(t *Table, r *Record) {
	if o.OnRecordAdded != nil {
		o.OnRecordAdded(t, r)
	}
}

func (o ObserverFuncs) RecordRemoved(t *Table, r *Record) {
	if o.OnRecordRemoved != nil {
		o.OnRecordRemoved(t, r)
	}
}

func (o ObserverFuncs) FieldChanged(r *Record, column string, oldValue, newValue interface{}) {
	if o.OnFieldChanged != nil {
		o.OnFieldChanged(r, column, oldValue, newValue)
	}
}

func (o ObserverFuncs) StateChanged(r *Record, from, to RowState) {
	if o.OnStateChanged != nil {
		o.OnStateChanged(r, from, to)
	}
}
