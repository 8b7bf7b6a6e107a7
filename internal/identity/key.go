// Package identity resolves which records of two snapshots of the same
// logical table describe the same row.
package identity

import (
	"strconv"
	"strings"

	"github.com/dbsmedya/gomerge/internal/dataset"
	"github.com/dbsmedya/gomerge/internal/value"
)

// Delimiter separates compiled key parts. Every part carries its own length
// prefix, so a delimiter inside a value cannot shift part boundaries.
const Delimiter = "|"

// CompileKey builds the compiled key of r over the ordered key columns: each
// part is "<len>#<invariant string>", null or missing values render empty.
// Two records are identity-equal iff their compiled keys are equal.
func CompileKey(r dataset.FieldReader, columns []string) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteString(Delimiter)
		}
		var s string
		if r.Has(col) {
			s = value.String(r.Value(col))
		}
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte('#')
		b.WriteString(s)
	}
	return b.String()
}

// CompileValues is CompileKey over an already extracted value tuple.
func CompileValues(values []interface{}) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteString(Delimiter)
		}
		s := value.String(v)
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte('#')
		b.WriteString(s)
	}
	return b.String()
}

// KeyValues returns the values of columns on r, in order.
func KeyValues(r dataset.FieldReader, columns []string) []interface{} {
	out := make([]interface{}, len(columns))
	for i, col := range columns {
		out[i] = r.Value(col)
	}
	return out
}

// HasNullPart reports whether any key column of r is null or missing.
func HasNullPart(r dataset.FieldReader, columns []string) bool {
	for _, col := range columns {
		if !r.Has(col) || value.IsNull(r.Value(col)) {
			return true
		}
	}
	return false
}
