package schema

import (
	"fmt"

	"github.com/dbsmedya/gomerge/internal/value"
)

// Decode converts a value scanned from the MySQL driver into the Go type of
// the column's canonical data type. The text protocol hands most values over
// as []byte.
func Decode(dataType string, raw interface{}) (interface{}, error) {
	b, ok := raw.([]byte)
	if !ok {
		return value.Coerce(dataType, raw)
	}

	canonical, _ := value.CanonicalTypeName(dataType)
	switch {
	case canonical == value.TypeBytes:
		return value.Coerce(dataType, b)
	case canonical == value.TypeBool && len(b) == 1 && b[0] <= 1:
		return b[0] == 1, nil // BIT(1)
	}
	return value.Coerce(dataType, string(b))
}

// CanonicalType is value.CanonicalTypeName with an error for unknown names.
func CanonicalType(dataType string) (string, error) {
	canonical, ok := value.CanonicalTypeName(dataType)
	if !ok {
		return canonical, fmt.Errorf("unknown data type %q", dataType)
	}
	return canonical, nil
}
