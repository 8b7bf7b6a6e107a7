package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/google/uuid"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/value"
)

type memTable struct {
	keys   []string
	rows   *orderedmap.OrderedMap[string, map[string]interface{}]
	nextID int64
}

// MemoryStore is an in-memory Store. A table with a single integer-like key
// column assigns the next sequence value when an insert leaves the key null
// or non-positive, the way an auto-increment column would.
//
// MemoryStore is safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	tables *orderedmap.OrderedMap[string, *memTable]
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: orderedmap.NewOrderedMap[string, *memTable]()}
}

// NewMemoryStoreFromDataset creates one store table per dataset table and
// seeds it with every record that is not Deleted.
func NewMemoryStoreFromDataset(ds *dataset.Dataset) (*MemoryStore, error) {
	s := NewMemoryStore()
	for _, t := range ds.Tables() {
		s.CreateTable(t.Name, t.PrimaryKeys()...)
		for _, r := range t.Rows() {
			if r.State() == dataset.Deleted {
				continue
			}
			if _, err := s.Insert(context.Background(), t.Name, r.Values()); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// CreateTable registers a table with its key columns. Registering an existing
// table is a no-op.
func (s *MemoryStore) CreateTable(name string, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables.Get(name); ok {
		return
	}
	s.tables.Set(name, &memTable{
		keys:   append([]string(nil), keys...),
		rows:   orderedmap.NewOrderedMap[string, map[string]interface{}](),
		nextID: 1,
	})
}

// Len returns the number of entities in table.
func (s *MemoryStore) Len(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables.Get(table)
	if !ok {
		return 0
	}
	return t.rows.Len()
}

// Entities returns copies of the entities of table in insertion order.
func (s *MemoryStore) Entities(table string) []Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables.Get(table)
	if !ok {
		return nil
	}
	out := make([]Entity, 0, t.rows.Len())
	for el := t.rows.Front(); el != nil; el = el.Next() {
		out = append(out, entity(el.Key, el.Value))
	}
	return out
}

// Snapshot loads every entity of each table of schema into a copy of that
// table's schema, all Unchanged. Tables the store does not track stay empty.
func (s *MemoryStore) Snapshot(schema *dataset.Dataset) (*dataset.Dataset, error) {
	out := dataset.New(schema.Name)
	for _, t := range schema.Tables() {
		c := t.CloneSchema()
		for _, e := range s.Entities(t.Name) {
			values := make(map[string]interface{}, len(e.Values))
			for col, v := range e.Values {
				if c.HasColumn(col) {
					values[col] = v
				}
			}
			if _, err := c.Load(values); err != nil {
				return nil, err
			}
		}
		if err := out.AddTable(c); err != nil {
			return nil, err
		}
	}
	for _, rel := range schema.Relations() {
		if err := out.AddRelation(rel); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FindByKey implements Store.
func (s *MemoryStore) FindByKey(_ context.Context, table string, columns []string, key []interface{}) (Entity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return Entity{}, false, err
	}
	for el := t.rows.Front(); el != nil; el = el.Next() {
		if matchesAll(el.Value, columns, key) {
			return entity(el.Key, el.Value), true, nil
		}
	}
	return Entity{}, false, nil
}

// FindByValues implements Store.
func (s *MemoryStore) FindByValues(_ context.Context, table string, criteria map[string]interface{}) ([]Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return nil, err
	}
	var out []Entity
	for el := t.rows.Front(); el != nil; el = el.Next() {
		ok := true
		for col, want := range criteria {
			if !value.Equal(el.Value[col], want) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, entity(el.Key, el.Value))
		}
	}
	return out, nil
}

// Insert implements Store.
func (s *MemoryStore) Insert(_ context.Context, table string, values map[string]interface{}) (Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return Entity{}, err
	}

	row := make(map[string]interface{}, len(values))
	for col, v := range values {
		row[col] = v
	}
	if len(t.keys) == 1 {
		key := t.keys[0]
		if needsID(row[key]) {
			row[key] = t.nextID
		}
		if id := value.ToInt64(row[key]); id >= t.nextID {
			t.nextID = id + 1
		}
	}
	if len(t.keys) > 0 {
		for el := t.rows.Front(); el != nil; el = el.Next() {
			if matchesAll(el.Value, t.keys, keyOf(row, t.keys)) {
				return Entity{}, fmt.Errorf("table %q: duplicate key %v", table, keyOf(row, t.keys))
			}
		}
	}

	id := uuid.NewString()
	t.rows.Set(id, row)
	return entity(id, row), nil
}

// Patch implements Store.
func (s *MemoryStore) Patch(_ context.Context, table, id string, values map[string]interface{}) (Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return Entity{}, err
	}
	row, ok := t.rows.Get(id)
	if !ok {
		return Entity{}, fmt.Errorf("table %q entity %s: %w", table, id, ErrNotFound)
	}
	for col, v := range values {
		row[col] = v
	}
	return entity(id, row), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.table(table)
	if err != nil {
		return err
	}
	if !t.rows.Delete(id) {
		return fmt.Errorf("table %q entity %s: %w", table, id, ErrNotFound)
	}
	return nil
}

func (s *MemoryStore) table(name string) (*memTable, error) {
	t, ok := s.tables.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

func entity(id string, row map[string]interface{}) Entity {
	values := make(map[string]interface{}, len(row))
	for col, v := range row {
		values[col] = v
	}
	return Entity{ID: id, Values: values}
}

func keyOf(row map[string]interface{}, columns []string) []interface{} {
	out := make([]interface{}, len(columns))
	for i, col := range columns {
		out[i] = row[col]
	}
	return out
}

func matchesAll(row map[string]interface{}, columns []string, key []interface{}) bool {
	for i, col := range columns {
		if !value.Equal(row[col], key[i]) {
			return false
		}
	}
	return true
}

// needsID reports whether an auto-assigned key should replace v: null, or a
// non-positive number used as a temporary client-side key.
func needsID(v interface{}) bool {
	if value.IsNull(v) {
		return true
	}
	switch v.(type) {
	case int, int8, int16, int32, int64, float32, float64:
		return value.ToInt64(v) <= 0
	}
	return false
}
