package dataset

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Dataset is a named, ordered collection of tables plus the declared
// parent/child relations between them.
type Dataset struct {
	Name string

	tables    *orderedmap.OrderedMap[string, *Table]
	relations []Relation
}

// New creates an empty dataset.
func New(name string) *Dataset {
	return &Dataset{
		Name:   name,
		tables: orderedmap.NewOrderedMap[string, *Table](),
	}
}

// AddTable registers t under its name.
func (d *Dataset) AddTable(t *Table) error {
	if t == nil {
		return fmt.Errorf("table is nil")
	}
	if _, exists := d.tables.Get(t.Name); exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTable, t.Name)
	}
	d.tables.Set(t.Name, t)
	return nil
}

// Table returns the named table.
func (d *Dataset) Table(name string) (*Table, bool) {
	return d.tables.Get(name)
}

// HasTable reports whether the dataset holds a table named name.
func (d *Dataset) HasTable(name string) bool {
	_, ok := d.tables.Get(name)
	return ok
}

// RemoveTable drops the named table. Relations referring to it are kept.
func (d *Dataset) RemoveTable(name string) bool {
	return d.tables.Delete(name)
}

// Tables returns the tables in registration order.
func (d *Dataset) Tables() []*Table {
	out := make([]*Table, 0, d.tables.Len())
	for el := d.tables.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// TableNames returns table names in registration order.
func (d *Dataset) TableNames() []string {
	out := make([]string, 0, d.tables.Len())
	for el := d.tables.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key)
	}
	return out
}

// AddRelation declares a relation. Definitions are not checked here; the
// integrity validator reports invalid ones.
func (d *Dataset) AddRelation(rel Relation) error {
	if rel.Name != "" {
		if _, exists := d.Relation(rel.Name); exists {
			return fmt.Errorf("%w: %q", ErrDuplicateRelation, rel.Name)
		}
	}
	d.relations = append(d.relations, rel.clone())
	return nil
}

// Relation returns the relation declared under name.
func (d *Dataset) Relation(name string) (Relation, bool) {
	for _, rel := range d.relations {
		if rel.Name == name {
			return rel.clone(), true
		}
	}
	return Relation{}, false
}

// Relations returns the declared relations in order.
func (d *Dataset) Relations() []Relation {
	out := make([]Relation, len(d.relations))
	for i, rel := range d.relations {
		out[i] = rel.clone()
	}
	return out
}

// HasRelation reports whether a relation the same as rel is declared.
func (d *Dataset) HasRelation(rel Relation) bool {
	for _, existing := range d.relations {
		if existing.SameAs(rel) {
			return true
		}
	}
	return false
}

// HasChanges reports whether any table has pending changes.
func (d *Dataset) HasChanges() bool {
	for _, t := range d.Tables() {
		if t.HasChanges() {
			return true
		}
	}
	return false
}

// AcceptChanges accepts the pending changes of every table.
func (d *Dataset) AcceptChanges() {
	for _, t := range d.Tables() {
		t.AcceptChanges()
	}
}

// GetChanges returns a changeset dataset holding, for each table with pending
// changes, a table of the changed records. Relations are copied.
func (d *Dataset) GetChanges() *Dataset {
	out := New(d.Name)
	for _, t := range d.Tables() {
		if !t.HasChanges() {
			continue
		}
		out.tables.Set(t.Name, t.GetChanges())
	}
	out.relations = d.Relations()
	return out
}

// Clone returns a deep copy of every table and relation.
func (d *Dataset) Clone() *Dataset {
	out := New(d.Name)
	for _, t := range d.Tables() {
		out.tables.Set(t.Name, t.Clone())
	}
	out.relations = d.Relations()
	return out
}
