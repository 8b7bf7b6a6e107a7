package value

import (
	"time"

	"github.com/spf13/cast"
)

// Coerce converts v into the Go type of dataType's canonical type: int32,
// int64, float64, bool, time.Time, []byte or string. Decimal and GUID values
// stay textual. Values of unknown types are returned unchanged.
//
// Datetime values that do not parse stay textual, which keeps TIME columns
// and zero dates readable.
func Coerce(dataType string, v interface{}) (interface{}, error) {
	v = Normalize(v)
	if v == nil {
		return nil, nil
	}
	canonical, ok := CanonicalTypeName(dataType)
	if !ok {
		return v, nil
	}

	switch canonical {
	case TypeInt32:
		return cast.ToInt32E(v)
	case TypeInt64:
		return cast.ToInt64E(v)
	case TypeFloat64:
		return cast.ToFloat64E(v)
	case TypeBool:
		return cast.ToBoolE(v)
	case TypeDateTime:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		if t, err := cast.ToTimeE(v); err == nil {
			return t, nil
		}
		return cast.ToStringE(v)
	case TypeBytes:
		switch b := v.(type) {
		case []byte:
			return append([]byte(nil), b...), nil
		case string:
			return []byte(b), nil
		}
		return v, nil
	default:
		return String(v), nil
	}
}
