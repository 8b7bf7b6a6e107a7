// Package value provides null-aware comparison and normalization of the
// dynamically typed field values stored in dataset records.
package value

import (
	"database/sql/driver"
	"math"
	"reflect"
)

// ToInt64 converts an interface{} to int64.
// Supports int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, and float64.
func ToInt64(v interface{}) int64 {
	switch i := v.(type) {
	case int64:
		return i
	case int:
		return int64(i)
	case int32:
		return int64(i)
	case int16:
		return int64(i)
	case int8:
		return int64(i)
	case uint:
		return int64(i)
	case uint64:
		return int64(i)
	case uint32:
		return int64(i)
	case uint16:
		return int64(i)
	case uint8:
		return int64(i)
	case float64:
		return int64(i)
	case float32:
		return int64(i)
	default:
		return 0
	}
}

// asInteger reports v as int64 when it is one of the integer kinds.
// uint64 values above math.MaxInt64 are not representable and are rejected.
func asInteger(v interface{}) (int64, bool) {
	switch i := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return ToInt64(i), true
	case uint64:
		if i > math.MaxInt64 {
			return 0, false
		}
		return int64(i), true
	default:
		return 0, false
	}
}

// asFloat reports v as float64 when it is any numeric kind.
func asFloat(v interface{}) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	if i, ok := asInteger(v); ok {
		return float64(i), true
	}
	if u, ok := v.(uint64); ok {
		return float64(u), true
	}
	return 0, false
}

// Normalize unwraps driver.Valuer implementations (sql.NullString and friends)
// and typed nil pointers so that callers only ever see plain values or nil.
func Normalize(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if valuer, ok := v.(driver.Valuer); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		inner, err := valuer.Value()
		if err != nil {
			return v
		}
		return inner
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}

// IsNull reports whether v is nil after normalization.
func IsNull(v interface{}) bool {
	return Normalize(v) == nil
}
