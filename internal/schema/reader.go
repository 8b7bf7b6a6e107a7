package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/logger"
	"github.com/dbsmedya/gomerge/internal/sqlutil"
)

// Reader reads one MySQL schema through information_schema.
type Reader struct {
	db     *sql.DB
	schema string
	log    *logger.Logger
}

// NewReader creates a reader for the named schema (database).
func NewReader(db *sql.DB, schemaName string, log *logger.Logger) (*Reader, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if schemaName == "" {
		return nil, fmt.Errorf("schema name is required")
	}
	return &Reader{db: db, schema: schemaName, log: logger.OrNop(log)}, nil
}

// ListTables returns the base tables of the schema in name order.
func (r *Reader) ListTables(ctx context.Context) ([]string, error) {
	const query = `
		SELECT TABLE_NAME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ?
		AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME`

	rows, err := r.db.QueryContext(ctx, query, r.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ReadTable reads columns, primary key and foreign keys of table.
func (r *Reader) ReadTable(ctx context.Context, table string) (*TableSchema, error) {
	columns, err := r.columns(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrTableNotFound, r.schema, table)
	}
	pks, err := r.primaryKeys(ctx, table)
	if err != nil {
		return nil, err
	}
	fks, err := r.foreignKeys(ctx, table)
	if err != nil {
		return nil, err
	}

	r.log.WithTable(table).Debugw("table schema read",
		"columns", len(columns),
		"primary_key", strings.Join(pks, ","),
		"foreign_keys", len(fks))
	return &TableSchema{Name: table, Columns: columns, PrimaryKeys: pks, ForeignKeys: fks}, nil
}

func (r *Reader) columns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	const query = `
		SELECT COLUMN_NAME, DATA_TYPE, COLUMN_TYPE, IS_NULLABLE, COLUMN_COMMENT
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`

	rows, err := r.db.QueryContext(ctx, query, r.schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var out []ColumnMetadata
	for rows.Next() {
		var (
			c        ColumnMetadata
			nullable string
			comment  sql.NullString
		)
		if err := rows.Scan(&c.Name, &c.DataType, &c.ColumnType, &nullable, &comment); err != nil {
			return nil, err
		}
		c.Nullable = strings.EqualFold(nullable, "YES")
		c.Description = comment.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Reader) primaryKeys(ctx context.Context, table string) ([]string, error) {
	const query = `
		SELECT COLUMN_NAME
		FROM information_schema.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
		AND CONSTRAINT_NAME = 'PRIMARY'
		ORDER BY ORDINAL_POSITION`

	rows, err := r.db.QueryContext(ctx, query, r.schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key of %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *Reader) foreignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	const query = `
		SELECT
			kcu.CONSTRAINT_NAME,
			kcu.COLUMN_NAME,
			kcu.REFERENCED_TABLE_NAME,
			kcu.REFERENCED_COLUMN_NAME,
			rc.DELETE_RULE,
			rc.UPDATE_RULE
		FROM information_schema.KEY_COLUMN_USAGE kcu
		JOIN information_schema.REFERENTIAL_CONSTRAINTS rc
			ON kcu.CONSTRAINT_NAME = rc.CONSTRAINT_NAME
			AND kcu.CONSTRAINT_SCHEMA = rc.CONSTRAINT_SCHEMA
			AND kcu.TABLE_NAME = rc.TABLE_NAME
		WHERE kcu.TABLE_SCHEMA = ?
		AND kcu.TABLE_NAME = ?
		AND kcu.REFERENCED_TABLE_NAME IS NOT NULL
		ORDER BY kcu.CONSTRAINT_NAME, kcu.ORDINAL_POSITION`

	rows, err := r.db.QueryContext(ctx, query, r.schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var out []ForeignKey
	for rows.Next() {
		var name, column, refTable, refColumn, onDelete, onUpdate string
		if err := rows.Scan(&name, &column, &refTable, &refColumn, &onDelete, &onUpdate); err != nil {
			return nil, err
		}
		if n := len(out); n > 0 && out[n-1].Name == name {
			out[n-1].Columns = append(out[n-1].Columns, column)
			out[n-1].ReferencedColumns = append(out[n-1].ReferencedColumns, refColumn)
			continue
		}
		out = append(out, ForeignKey{
			Name:              name,
			Table:             table,
			Columns:           []string{column},
			ReferencedTable:   refTable,
			ReferencedColumns: []string{refColumn},
			OnDelete:          onDelete,
			OnUpdate:          onUpdate,
		})
	}
	return out, rows.Err()
}

// ReadDataset builds an empty dataset holding the named tables, or every
// base table when none are named. Foreign keys whose both ends were read
// become relations.
func (r *Reader) ReadDataset(ctx context.Context, tables ...string) (*dataset.Dataset, error) {
	if len(tables) == 0 {
		var err error
		if tables, err = r.ListTables(ctx); err != nil {
			return nil, err
		}
	}

	ds := dataset.New(r.schema)
	var fks []ForeignKey
	for _, name := range tables {
		s, err := r.ReadTable(ctx, name)
		if err != nil {
			return nil, err
		}
		t, err := s.Table()
		if err != nil {
			return nil, err
		}
		if err := ds.AddTable(t); err != nil {
			return nil, err
		}
		fks = append(fks, s.ForeignKeys...)
	}

	for _, fk := range fks {
		if !ds.HasTable(fk.ReferencedTable) {
			r.log.WithTable(fk.Table).Debugw("foreign key skipped, referenced table not read",
				"constraint", fk.Name, "referenced_table", fk.ReferencedTable)
			continue
		}
		if err := ds.AddRelation(fk.Relation()); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// LoadRows reads every row of t's source table and attaches it Unchanged.
// Rows are ordered by primary key when t declares one.
func (r *Reader) LoadRows(ctx context.Context, t *dataset.Table) (int, error) {
	columns := t.Columns()
	query := sqlutil.SelectAll(t.Name, t.ColumnNames(), t.PrimaryKeys())

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to read rows of %s: %w", t.Name, err)
	}
	defer rows.Close()

	n := 0
	raw := make([]interface{}, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return n, err
		}
		values := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			v, err := Decode(col.DataType, raw[i])
			if err != nil {
				return n, fmt.Errorf("table %s column %s: %w", t.Name, col.Name, err)
			}
			values[col.Name] = v
		}
		if _, err := t.Load(values); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	r.log.WithTable(t.Name).Debugw("rows loaded", "rows", n)
	return n, nil
}

// LoadDataset loads the rows of every table of ds.
func (r *Reader) LoadDataset(ctx context.Context, ds *dataset.Dataset) error {
	for _, t := range ds.Tables() {
		if _, err := r.LoadRows(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
