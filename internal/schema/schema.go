// Package schema reads table definitions and rows from a MySQL catalog and
// turns them into datasets.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dbsmedya/gomerge/internal/dataset"
)

// ErrTableNotFound is returned when information_schema has no columns for a
// requested table.
var ErrTableNotFound = errors.New("table not found")

// ColumnMetadata describes one catalog column.
type ColumnMetadata struct {
	Name       string
	DataType   string // DATA_TYPE, e.g. "varchar"
	ColumnType string // COLUMN_TYPE, e.g. "varchar(64)"
	Nullable   bool
	// Description is the column comment. A NULL comment reads as "".
	Description string
}

// TypeName returns the data type used for default values and row decoding.
// MySQL's tinyint(1) convention maps to bool.
func (c ColumnMetadata) TypeName() string {
	if strings.EqualFold(c.ColumnType, "tinyint(1)") {
		return "bool"
	}
	return c.DataType
}

// ForeignKey is one foreign-key constraint with its column pairs in order.
type ForeignKey struct {
	Name              string
	Table             string
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	OnDelete          string
	OnUpdate          string
}

// Relation converts the constraint into a dataset relation.
func (fk ForeignKey) Relation() dataset.Relation {
	return dataset.Relation{
		Name:          fk.Name,
		ParentTable:   fk.ReferencedTable,
		ParentColumns: append([]string(nil), fk.ReferencedColumns...),
		ChildTable:    fk.Table,
		ChildColumns:  append([]string(nil), fk.Columns...),
	}
}

// TableSchema is everything the catalog says about one table.
type TableSchema struct {
	Name        string
	Columns     []ColumnMetadata
	PrimaryKeys []string
	ForeignKeys []ForeignKey
}

// Table builds an empty dataset table from the schema. Foreign-key columns
// are marked with the first referenced table and column.
func (s *TableSchema) Table() (*dataset.Table, error) {
	pk := make(map[string]bool, len(s.PrimaryKeys))
	for _, name := range s.PrimaryKeys {
		pk[name] = true
	}

	t, err := dataset.NewTable(s.Name)
	if err != nil {
		return nil, err
	}
	for _, c := range s.Columns {
		col := dataset.Column{
			Name:        c.Name,
			DataType:    c.TypeName(),
			Nullable:    c.Nullable,
			PrimaryKey:  pk[c.Name],
			Description: c.Description,
		}
		if fk, i, ok := s.foreignKeyFor(c.Name); ok {
			col.ForeignKey = true
			col.ReferencedTable = fk.ReferencedTable
			col.ReferencedColumn = fk.ReferencedColumns[i]
		}
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	if err := t.SetPrimaryKeys(s.PrimaryKeys...); err != nil {
		return nil, fmt.Errorf("table %q: %w", s.Name, err)
	}
	return t, nil
}

func (s *TableSchema) foreignKeyFor(column string) (ForeignKey, int, bool) {
	for _, fk := range s.ForeignKeys {
		for i, c := range fk.Columns {
			if c == column {
				return fk, i, true
			}
		}
	}
	return ForeignKey{}, 0, false
}
