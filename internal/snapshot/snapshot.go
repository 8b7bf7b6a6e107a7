// Package snapshot reads and writes datasets as YAML files: schema, rows
// with their lifecycle states and baselines, and relations.
package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/value"
)

// File is the on-disk form of a dataset.
type File struct {
	Name      string     `yaml:"name"`
	Tables    []Table    `yaml:"tables"`
	Relations []Relation `yaml:"relations,omitempty"`
}

// Table is the on-disk form of a table.
type Table struct {
	Name       string   `yaml:"name"`
	PrimaryKey []string `yaml:"primary_key,omitempty"`
	Columns    []Column `yaml:"columns"`
	Rows       []Row    `yaml:"rows,omitempty"`
}

// Column is the on-disk form of a column.
type Column struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Nullable    bool   `yaml:"nullable,omitempty"`
	Description string `yaml:"description,omitempty"`
	References  string `yaml:"references,omitempty"` // table.column
}

// Row is the on-disk form of a record. Original holds the baseline of
// modified and deleted rows.
type Row struct {
	State    string `yaml:"state,omitempty"`
	Values   Fields `yaml:"values"`
	Original Fields `yaml:"original,omitempty"`
}

// Relation is the on-disk form of a relation.
type Relation struct {
	Name          string   `yaml:"name,omitempty"`
	Parent        string   `yaml:"parent"`
	ParentColumns []string `yaml:"parent_columns"`
	Child         string   `yaml:"child"`
	ChildColumns  []string `yaml:"child_columns"`
}

// Load reads a dataset from a YAML file.
func Load(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return ds, nil
}

// Read decodes a dataset from YAML.
func Read(r io.Reader) (*dataset.Dataset, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return file.Dataset()
}

// Save writes ds to a YAML file.
func Save(path string, ds *dataset.Dataset) error {
	var buf bytes.Buffer
	if err := Write(&buf, ds); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Write encodes ds as YAML.
func Write(w io.Writer, ds *dataset.Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromDataset(ds)); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}

// FromDataset converts ds to its on-disk form.
func FromDataset(ds *dataset.Dataset) *File {
	file := &File{Name: ds.Name}
	for _, t := range ds.Tables() {
		file.Tables = append(file.Tables, fromTable(t))
	}
	for _, rel := range ds.Relations() {
		file.Relations = append(file.Relations, Relation{
			Name:          rel.Name,
			Parent:        rel.ParentTable,
			ParentColumns: rel.ParentColumns,
			Child:         rel.ChildTable,
			ChildColumns:  rel.ChildColumns,
		})
	}
	return file
}

func fromTable(t *dataset.Table) Table {
	out := Table{Name: t.Name, PrimaryKey: t.PrimaryKeys()}
	names := t.ColumnNames()
	for _, c := range t.Columns() {
		col := Column{Name: c.Name, Type: c.DataType, Nullable: c.Nullable, Description: c.Description}
		if c.ForeignKey && c.ReferencedTable != "" {
			col.References = c.ReferencedTable + "." + c.ReferencedColumn
		}
		out.Columns = append(out.Columns, col)
	}
	for _, r := range t.Rows() {
		row := Row{Values: ordered(names, r.Values())}
		if r.State() != dataset.Unchanged {
			row.State = r.State().String()
		}
		if r.HasBaseline() {
			row.Original = ordered(names, r.BaselineValues())
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func ordered(names []string, values map[string]interface{}) Fields {
	out := make(Fields, 0, len(names))
	for _, name := range names {
		v, ok := values[name]
		if !ok {
			continue
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		out = append(out, Field{Name: name, Value: v})
	}
	return out
}

// Dataset rebuilds the dataset described by f.
func (f *File) Dataset() (*dataset.Dataset, error) {
	ds := dataset.New(f.Name)
	for _, ft := range f.Tables {
		t, err := ft.table()
		if err != nil {
			return nil, err
		}
		if err := ds.AddTable(t); err != nil {
			return nil, err
		}
	}
	for _, rel := range f.Relations {
		err := ds.AddRelation(dataset.Relation{
			Name:          rel.Name,
			ParentTable:   rel.Parent,
			ParentColumns: rel.ParentColumns,
			ChildTable:    rel.Child,
			ChildColumns:  rel.ChildColumns,
		})
		if err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (ft Table) table() (*dataset.Table, error) {
	pk := make(map[string]bool, len(ft.PrimaryKey))
	for _, name := range ft.PrimaryKey {
		pk[name] = true
	}

	t, err := dataset.NewTable(ft.Name)
	if err != nil {
		return nil, err
	}
	for _, c := range ft.Columns {
		col := dataset.Column{
			Name:        c.Name,
			DataType:    c.Type,
			Nullable:    c.Nullable,
			PrimaryKey:  pk[c.Name],
			Description: c.Description,
		}
		if c.References != "" {
			table, column, ok := strings.Cut(c.References, ".")
			if !ok {
				return nil, fmt.Errorf("table %q column %q: references must be table.column", ft.Name, c.Name)
			}
			col.ForeignKey = true
			col.ReferencedTable = table
			col.ReferencedColumn = column
		}
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	if err := t.SetPrimaryKeys(ft.PrimaryKey...); err != nil {
		return nil, err
	}

	for i, row := range ft.Rows {
		if err := restore(t, row); err != nil {
			return nil, fmt.Errorf("table %q row %d: %w", ft.Name, i+1, err)
		}
	}
	return t, nil
}

// restore attaches row to t in its recorded state.
func restore(t *dataset.Table, row Row) error {
	values, err := coerce(t, row.Values)
	if err != nil {
		return err
	}
	original, err := coerce(t, row.Original)
	if err != nil {
		return err
	}

	state, err := dataset.ParseRowState(row.State)
	if err != nil {
		return err
	}
	switch state {
	case dataset.Detached:
		return fmt.Errorf("rows cannot be stored detached")
	case dataset.Unchanged:
		_, err = t.Load(values)
	case dataset.Added:
		_, err = t.AddValues(values)
	case dataset.Modified:
		if original == nil {
			return fmt.Errorf("modified row has no original values")
		}
		var r *dataset.Record
		if r, err = t.Load(original); err == nil {
			err = r.SetValues(values)
		}
	case dataset.Deleted:
		if original == nil {
			original = values
		}
		var r *dataset.Record
		if r, err = t.Load(original); err == nil {
			err = r.Delete()
		}
	}
	return err
}

func coerce(t *dataset.Table, fields Fields) (map[string]interface{}, error) {
	if fields == nil {
		return nil, nil
	}
	out := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		col, ok := t.Column(f.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", dataset.ErrUnknownColumn, f.Name)
		}
		v, err := value.Coerce(col.DataType, f.Value)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", f.Name, err)
		}
		out[f.Name] = v
	}
	return out, nil
}
