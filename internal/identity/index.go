package identity

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/gomerge/internal/dataset"
)

// ErrDuplicateToken is returned when two records of one table carry the same
// non-empty correlation token.
var ErrDuplicateToken = errors.New("duplicate correlation token")

// Index maps compiled keys to records. Construction is first-wins: a later
// record whose key is already indexed is not indexed. Entries keep insertion
// order.
type Index struct {
	columns []string
	entries *orderedmap.OrderedMap[string, *dataset.Record]
	dropped int
}

// NewIndex indexes rows by their compiled key over columns.
func NewIndex(rows []*dataset.Record, columns []string) *Index {
	idx := &Index{
		columns: append([]string(nil), columns...),
		entries: orderedmap.NewOrderedMap[string, *dataset.Record](),
	}
	for _, r := range rows {
		idx.Add(r)
	}
	return idx
}

// Add indexes r unless its key is already present. It reports whether r was
// indexed.
func (i *Index) Add(r *dataset.Record) bool {
	key := CompileKey(r, i.columns)
	if _, exists := i.entries.Get(key); exists {
		i.dropped++
		return false
	}
	i.entries.Set(key, r)
	return true
}

// Columns returns the key columns of the index.
func (i *Index) Columns() []string {
	return append([]string(nil), i.columns...)
}

// Key compiles the key of r over the index columns.
func (i *Index) Key(r dataset.FieldReader) string {
	return CompileKey(r, i.columns)
}

// Get returns the record indexed under key.
func (i *Index) Get(key string) (*dataset.Record, bool) {
	return i.entries.Get(key)
}

// Find returns the record whose key equals the key of r.
func (i *Index) Find(r dataset.FieldReader) (*dataset.Record, string, bool) {
	key := i.Key(r)
	rec, ok := i.entries.Get(key)
	return rec, key, ok
}

// Delete removes key from the index.
func (i *Index) Delete(key string) {
	i.entries.Delete(key)
}

// Remove drops the entry of r when r is the record indexed under its key.
func (i *Index) Remove(r *dataset.Record) bool {
	key := i.Key(r)
	if cur, ok := i.entries.Get(key); ok && cur == r {
		i.entries.Delete(key)
		return true
	}
	return false
}

// Keys returns the indexed keys in insertion order.
func (i *Index) Keys() []string {
	return i.entries.Keys()
}

// Len returns the number of indexed keys.
func (i *Index) Len() int {
	return i.entries.Len()
}

// Dropped returns how many records lost to an earlier record with the same key.
func (i *Index) Dropped() int {
	return i.dropped
}

// TokenIndex maps correlation tokens to records. Records without a token are
// skipped.
type TokenIndex struct {
	entries map[string]*dataset.Record
}

// NewTokenIndex indexes rows by ClientKey. A repeated non-empty token is an
// error naming table.
func NewTokenIndex(table string, rows []*dataset.Record) (*TokenIndex, error) {
	idx := &TokenIndex{entries: make(map[string]*dataset.Record, len(rows))}
	for _, r := range rows {
		if err := idx.Add(table, r); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Add indexes r under its token.
func (i *TokenIndex) Add(table string, r *dataset.Record) error {
	token := r.ClientKey()
	if i == nil || token == "" {
		return nil
	}
	if prev, exists := i.entries[token]; exists && prev != r {
		return fmt.Errorf("%w %q in table %q", ErrDuplicateToken, token, table)
	}
	i.entries[token] = r
	return nil
}

// Get returns the record holding token.
func (i *TokenIndex) Get(token string) (*dataset.Record, bool) {
	if i == nil || token == "" {
		return nil, false
	}
	r, ok := i.entries[token]
	return r, ok
}

// Delete removes token from the index.
func (i *TokenIndex) Delete(token string) {
	if i != nil {
		delete(i.entries, token)
	}
}

// Remove drops the entry of r when r is the record indexed under its token.
func (i *TokenIndex) Remove(r *dataset.Record) {
	if i == nil {
		return
	}
	if cur, ok := i.entries[r.ClientKey()]; ok && cur == r {
		delete(i.entries, r.ClientKey())
	}
}

// Len returns the number of indexed tokens.
func (i *TokenIndex) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}
