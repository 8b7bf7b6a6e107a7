package value

import (
	"bytes"
	"reflect"
	"time"
)

// Equal compares two field values with null awareness.
//
// Two nulls are equal and a null never equals a non-null. Integer kinds are
// compared by value regardless of width, so int(5) equals int64(5); mixed
// integer and float operands are compared as float64. Byte slices compare by
// content and times by instant. Everything else falls back to reflect.DeepEqual.
func Equal(a, b interface{}) bool {
	a, b = Normalize(a), Normalize(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}

	if ai, ok := asInteger(a); ok {
		if bi, ok := asInteger(b); ok {
			return ai == bi
		}
	}
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
	}

	return reflect.DeepEqual(a, b)
}
