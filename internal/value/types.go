package value

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Canonical data type names understood by the default-value provider.
const (
	TypeString   = "string"
	TypeInt32    = "int32"
	TypeInt64    = "int64"
	TypeFloat64  = "float64"
	TypeDecimal  = "decimal"
	TypeBool     = "bool"
	TypeDateTime = "datetime"
	TypeGUID     = "guid"
	TypeBytes    = "bytes"
)

// DefaultFunc produces the value a freshly created record holds for a column
// of the given data type before any field is written.
type DefaultFunc func(dataType string, nullable bool) interface{}

// typeAliases maps lower-cased source type names onto canonical names.
// Read-only after package initialization.
var typeAliases = map[string]string{
	"string": TypeString, "varchar": TypeString, "char": TypeString, "nvarchar": TypeString,
	"nchar": TypeString, "text": TypeString, "tinytext": TypeString, "mediumtext": TypeString,
	"longtext": TypeString, "enum": TypeString, "set": TypeString, "json": TypeString,

	"int32": TypeInt32, "int": TypeInt32, "integer": TypeInt32, "mediumint": TypeInt32,
	"smallint": TypeInt32, "tinyint": TypeInt32, "int16": TypeInt32, "year": TypeInt32,

	"int64": TypeInt64, "bigint": TypeInt64, "long": TypeInt64,

	"float64": TypeFloat64, "double": TypeFloat64, "float": TypeFloat64, "real": TypeFloat64,
	"float32": TypeFloat64, "single": TypeFloat64,

	"decimal": TypeDecimal, "numeric": TypeDecimal, "money": TypeDecimal,

	"bool": TypeBool, "boolean": TypeBool, "bit": TypeBool,

	"datetime": TypeDateTime, "timestamp": TypeDateTime, "date": TypeDateTime,
	"time": TypeDateTime, "datetime2": TypeDateTime,

	"guid": TypeGUID, "uuid": TypeGUID, "uniqueidentifier": TypeGUID,

	"bytes": TypeBytes, "blob": TypeBytes, "tinyblob": TypeBytes, "mediumblob": TypeBytes,
	"longblob": TypeBytes, "binary": TypeBytes, "varbinary": TypeBytes,
}

// zeroValues builds a fresh non-null default per canonical type. Functions are
// used so mutable defaults ([]byte) are never shared between records.
var zeroValues = map[string]func() interface{}{
	TypeString:   func() interface{} { return "" },
	TypeInt32:    func() interface{} { return int32(0) },
	TypeInt64:    func() interface{} { return int64(0) },
	TypeFloat64:  func() interface{} { return float64(0) },
	TypeDecimal:  func() interface{} { return "0" },
	TypeBool:     func() interface{} { return false },
	TypeDateTime: func() interface{} { return time.Time{} },
	TypeGUID:     func() interface{} { return uuid.Nil.String() },
	TypeBytes:    func() interface{} { return []byte{} },
}

// CanonicalTypeName maps a source data type name (MySQL, .NET-style or Go) onto
// one of the canonical type constants. Unknown names are returned lower-cased
// with ok=false.
func CanonicalTypeName(dataType string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(dataType))
	name = strings.TrimPrefix(name, "system.")
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	canonical, ok := typeAliases[name]
	if !ok {
		return name, false
	}
	return canonical, true
}

// DefaultValue is the stock DefaultFunc. Nullable columns default to null;
// non-nullable columns default to the zero value of their canonical type.
// Unknown types default to null.
func DefaultValue(dataType string, nullable bool) interface{} {
	if nullable {
		return nil
	}
	canonical, ok := CanonicalTypeName(dataType)
	if !ok {
		return nil
	}
	return zeroValues[canonical]()
}
