// Package sqlutil builds the few SQL statements the schema reader issues
// outside information_schema.
package sqlutil

import "strings"

// QuoteIdentifier quotes a MySQL identifier (table name, column name) with backticks.
// It escapes any existing backticks by doubling them.
// Example: "my_table" -> "`my_table`"
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteIdentifiers quotes every name and joins them with ", ".
func QuoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = QuoteIdentifier(name)
	}
	return strings.Join(quoted, ", ")
}

// SelectAll returns a statement reading columns of every row of table,
// ordered by orderBy when it is not empty.
func SelectAll(table string, columns, orderBy []string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(QuoteIdentifiers(columns))
	b.WriteString(" FROM ")
	b.WriteString(QuoteIdentifier(table))
	if len(orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(QuoteIdentifiers(orderBy))
	}
	return b.String()
}
