// Package bridge writes a changeset back to a tracked store and builds the
// post-save snapshot a PostSave merge consumes.
package bridge

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a Modified record matches no entity.
	ErrNotFound = errors.New("no matching entity")
	// ErrAmbiguous is returned when best-effort matching finds more than one
	// entity.
	ErrAmbiguous = errors.New("more than one matching entity")
	// ErrUnknownTable is returned by stores that do not track a table.
	ErrUnknownTable = errors.New("unknown table")
)

// Entity is one tracked row. ID is the store's own handle and carries no
// domain meaning.
type Entity struct {
	ID     string
	Values map[string]interface{}
}

// Value implements dataset.FieldReader.
func (e Entity) Value(column string) interface{} {
	return e.Values[column]
}

// Has implements dataset.FieldReader.
func (e Entity) Has(column string) bool {
	_, ok := e.Values[column]
	return ok
}

// Store is a tracked store the bridge writes to.
type Store interface {
	// FindByKey returns the entity whose key columns equal key.
	FindByKey(ctx context.Context, table string, columns []string, key []interface{}) (Entity, bool, error)
	// FindByValues returns every entity whose fields equal all criteria.
	FindByValues(ctx context.Context, table string, criteria map[string]interface{}) ([]Entity, error)
	// Insert stores a new entity and returns it with any store-assigned values.
	Insert(ctx context.Context, table string, values map[string]interface{}) (Entity, error)
	// Patch writes only the given fields of entity id and returns the result.
	Patch(ctx context.Context, table, id string, values map[string]interface{}) (Entity, error)
	// Delete removes entity id.
	Delete(ctx context.Context, table, id string) error
}
