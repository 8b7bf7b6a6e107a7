package dataset

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dbsmedya/gomerge/internal/value"
)

// Table is a named, ordered collection of records sharing one column schema.
// PrimaryKeys is an explicit ordered column list; it may be empty or composite.
//
// A Table is not safe for concurrent mutation.
type Table struct {
	Name string

	columns     []Column
	index       map[string]int
	primaryKeys []string
	rows        []*Record
	observers   []Observer
	defaults    value.DefaultFunc
}

// NewTable creates a table with the given columns.
func NewTable(name string, columns ...Column) (*Table, error) {
	t := &Table{
		Name:     name,
		index:    make(map[string]int),
		defaults: value.DefaultValue,
	}
	for _, col := range columns {
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on a duplicate column.
func MustNewTable(name string, columns ...Column) *Table {
	t, err := NewTable(name, columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// SetDefaults replaces the default-value provider used by NewRecord.
func (t *Table) SetDefaults(fn value.DefaultFunc) {
	if fn == nil {
		fn = value.DefaultValue
	}
	t.defaults = fn
}

// AddColumn appends a column to the schema. Existing records receive the
// column's default value; baselines are extended the same way.
func (t *Table) AddColumn(col Column) error {
	if col.Name == "" {
		return fmt.Errorf("column name is empty in table %q", t.Name)
	}
	if _, exists := t.index[col.Name]; exists {
		return fmt.Errorf("%w: %q in table %q", ErrDuplicateColumn, col.Name, t.Name)
	}
	t.index[col.Name] = len(t.columns)
	t.columns = append(t.columns, col)

	for _, r := range t.rows {
		v := t.defaultFor(col)
		r.values.Set(col.Name, v)
		if r.baseline != nil {
			r.baseline.Set(col.Name, v)
		}
	}
	return nil
}

// Columns returns a copy of the column schema in declaration order.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// HasColumn reports whether the schema declares name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// SetPrimaryKeys declares the ordered primary-key columns. Every column must
// exist in the schema. Passing no columns clears the key.
func (t *Table) SetPrimaryKeys(columns ...string) error {
	for _, name := range columns {
		if !t.HasColumn(name) {
			return fmt.Errorf("primary key %w: %q in table %q", ErrUnknownColumn, name, t.Name)
		}
	}
	t.primaryKeys = append([]string(nil), columns...)
	return nil
}

// PrimaryKeys returns the declared primary-key columns.
func (t *Table) PrimaryKeys() []string {
	return append([]string(nil), t.primaryKeys...)
}

// HasClientKey reports whether the table declares ClientKeyColumn.
func (t *Table) HasClientKey() bool {
	return t.HasColumn(ClientKeyColumn)
}

// EnsureClientKeyColumn declares ClientKeyColumn if missing and hands every
// existing record a fresh token without changing its state.
func (t *Table) EnsureClientKeyColumn() error {
	if t.HasClientKey() {
		return nil
	}
	if err := t.AddColumn(Column{Name: ClientKeyColumn, DataType: value.TypeGUID, Nullable: true}); err != nil {
		return err
	}
	for _, r := range t.rows {
		token := uuid.NewString()
		r.values.Set(ClientKeyColumn, token)
		if r.baseline != nil {
			r.baseline.Set(ClientKeyColumn, token)
		}
	}
	return nil
}

// Observe registers an observer for change notifications.
func (t *Table) Observe(o Observer) {
	t.observers = append(t.observers, o)
}

// Len returns the number of attached records.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the record at position i.
func (t *Table) Row(i int) *Record {
	return t.rows[i]
}

// Rows returns the attached records in order. The slice is a copy.
func (t *Table) Rows() []*Record {
	return append([]*Record(nil), t.rows...)
}

// IndexOf returns the position of r, or -1 when r is not attached here.
func (t *Table) IndexOf(r *Record) int {
	for i, row := range t.rows {
		if row == r {
			return i
		}
	}
	return -1
}

// NewRecord creates a detached record holding each column's default value and,
// when the table declares ClientKeyColumn, a freshly generated correlation token.
func (t *Table) NewRecord() *Record {
	r := &Record{
		table:  t,
		values: newFields(),
		state:  Detached,
	}
	for _, col := range t.columns {
		r.values.Set(col.Name, t.defaultFor(col))
	}
	if t.HasClientKey() {
		r.values.Set(ClientKeyColumn, uuid.NewString())
	}
	return r
}

// Add attaches a detached record created by this table. It becomes Added.
func (t *Table) Add(r *Record) error {
	if r.table != t {
		return fmt.Errorf("%w: table %q", ErrForeignRecord, t.Name)
	}
	if r.state != Detached {
		return ErrAttached
	}
	t.rows = append(t.rows, r)
	t.notifyRecordAdded(r)
	r.setState(Added)
	return nil
}

// AddValues creates, fills and attaches a record in the Added state.
func (t *Table) AddValues(values map[string]interface{}) (*Record, error) {
	r := t.NewRecord()
	if err := r.SetValues(values); err != nil {
		return nil, err
	}
	if err := t.Add(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Load attaches a record holding values in the Unchanged state, the initial
// state for data read from a source.
func (t *Table) Load(values map[string]interface{}) (*Record, error) {
	r := t.NewRecord()
	if err := r.SetValues(values); err != nil {
		return nil, err
	}
	t.attach(r, Unchanged, nil)
	return r, nil
}

// Import attaches a copy of src (from any table) keeping its state and
// baseline. Columns are matched by name; columns src lacks keep defaults.
func (t *Table) Import(src *Record) *Record {
	r := t.NewRecord()
	for _, col := range t.columns {
		if v, ok := src.values.Get(col.Name); ok {
			r.values.Set(col.Name, v)
		}
	}

	var baseline *fields
	if src.baseline != nil && src.state.hasBaseline() {
		baseline = copyFields(r.values)
		for _, col := range t.columns {
			if v, ok := src.baseline.Get(col.Name); ok {
				baseline.Set(col.Name, v)
			}
		}
	}

	state := src.state
	if state == Detached {
		state = Added
	}
	if state.hasBaseline() && baseline == nil {
		baseline = copyFields(r.values)
	}
	t.attach(r, state, baseline)
	r.Selected = src.Selected
	return r
}

func (t *Table) attach(r *Record, state RowState, baseline *fields) {
	t.rows = append(t.rows, r)
	r.baseline = baseline
	t.notifyRecordAdded(r)
	r.setState(state)
}

// Remove physically evicts r regardless of its state. The record becomes
// Detached and loses its baseline.
func (t *Table) Remove(r *Record) error {
	i := t.IndexOf(r)
	if i < 0 {
		return ErrDetached
	}
	t.RemoveAt(i)
	return nil
}

// RemoveAt physically evicts the record at position i.
func (t *Table) RemoveAt(i int) {
	r := t.rows[i]
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	t.notifyRecordRemoved(r)
	r.setState(Detached)
}

// Clear evicts every record.
func (t *Table) Clear() {
	for i := len(t.rows) - 1; i >= 0; i-- {
		t.RemoveAt(i)
	}
}

// AcceptChanges accepts every record. Deleted records are evicted here, which
// is the only place a deletion is accepted.
func (t *Table) AcceptChanges() {
	for i := len(t.rows) - 1; i >= 0; i-- {
		r := t.rows[i]
		if r.state == Deleted {
			t.RemoveAt(i)
			continue
		}
		_ = r.AcceptChanges()
	}
}

// RejectChanges rolls every record back to its last accepted values.
func (t *Table) RejectChanges() {
	for i := len(t.rows) - 1; i >= 0; i-- {
		_ = t.rows[i].RejectChanges()
	}
}

// HasChanges reports whether any record is not Unchanged.
func (t *Table) HasChanges() bool {
	for _, r := range t.rows {
		if r.state != Unchanged {
			return true
		}
	}
	return false
}

// CloneSchema returns an empty table with the same name, columns, primary
// keys and default provider. Observers are not copied.
func (t *Table) CloneSchema() *Table {
	c := &Table{
		Name:        t.Name,
		columns:     append([]Column(nil), t.columns...),
		index:       make(map[string]int, len(t.index)),
		primaryKeys: append([]string(nil), t.primaryKeys...),
		defaults:    t.defaults,
	}
	for name, i := range t.index {
		c.index[name] = i
	}
	return c
}

// Clone returns a deep copy of the schema and every record, states and
// baselines included.
func (t *Table) Clone() *Table {
	c := t.CloneSchema()
	for _, r := range t.rows {
		c.Import(r)
	}
	return c
}

// GetChanges returns a changeset table holding copies of every record that is
// not Unchanged, with states and baselines preserved.
func (t *Table) GetChanges() *Table {
	c := t.CloneSchema()
	for _, r := range t.rows {
		if r.state != Unchanged {
			c.Import(r)
		}
	}
	return c
}

func (t *Table) defaultFor(col Column) interface{} {
	if t.defaults == nil {
		return value.DefaultValue(col.DataType, col.Nullable)
	}
	return t.defaults(col.DataType, col.Nullable)
}

func (t *Table) notifyRecordAdded(r *Record) {
	for _, o := range t.observers {
		o.RecordAdded(t, r)
	}
}

func (t *Table) notifyRecordRemoved(r *Record) {
	for _, o := range t.observers {
		o.RecordRemoved(t, r)
	}
}

func (t *Table) notifyFieldChanged(r *Record, column string, oldValue, newValue interface{}) {
	for _, o := range t.observers {
		o.FieldChanged(r, column, oldValue, newValue)
	}
}

func (t *Table) notifyStateChanged(r *Record, from, to RowState) {
	for _, o := range t.observers {
		o.StateChanged(r, from, to)
	}
}
