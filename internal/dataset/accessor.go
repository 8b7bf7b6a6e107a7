package dataset

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/dbsmedya/gomerge/internal/value"
)

// FieldReader reads field values by column name. *Record implements it.
type FieldReader interface {
	Value(column string) interface{}
	Has(column string) bool
}

// FieldWriter writes field values by column name. *Record implements it.
type FieldWriter interface {
	Set(column string, v interface{}) error
}

// FieldAccessor combines FieldReader and FieldWriter.
type FieldAccessor interface {
	FieldReader
	FieldWriter
}

var _ FieldAccessor = (*Record)(nil)

// Get reads column from r converted to T. Null reads as the zero value of T.
func Get[T any](r FieldReader, column string) (T, error) {
	var zero T
	if !r.Has(column) {
		return zero, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return convert[T](r.Value(column))
}

// Put writes v to column of w.
func Put[T any](w FieldWriter, column string, v T) error {
	return w.Set(column, v)
}

// Field is a typed accessor for one column, declared once per consuming shape:
//
//	var orderID = dataset.Field[int64]{Column: "Id"}
//	id, err := orderID.Get(rec)
type Field[T any] struct {
	Column string
}

// Get reads the field from r.
func (f Field[T]) Get(r FieldReader) (T, error) {
	return Get[T](r, f.Column)
}

// Set writes the field on w.
func (f Field[T]) Set(w FieldWriter, v T) error {
	return Put(w, f.Column, v)
}

// IsNull reports whether the field is null or absent on r.
func (f Field[T]) IsNull(r FieldReader) bool {
	return !r.Has(f.Column) || value.IsNull(r.Value(f.Column))
}

func convert[T any](raw interface{}) (T, error) {
	var zero T
	raw = value.Normalize(raw)
	if raw == nil {
		return zero, nil
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}

	var (
		out interface{}
		err error
	)
	switch any(zero).(type) {
	case string:
		out = value.String(raw)
	case int:
		out, err = cast.ToIntE(raw)
	case int32:
		out, err = cast.ToInt32E(raw)
	case int64:
		out, err = cast.ToInt64E(raw)
	case uint64:
		out, err = cast.ToUint64E(raw)
	case float32:
		out, err = cast.ToFloat32E(raw)
	case float64:
		out, err = cast.ToFloat64E(raw)
	case bool:
		out, err = cast.ToBoolE(raw)
	case time.Time:
		out, err = cast.ToTimeE(raw)
	case time.Duration:
		out, err = cast.ToDurationE(raw)
	default:
		return zero, fmt.Errorf("cannot convert %T to %T", raw, zero)
	}
	if err != nil {
		return zero, fmt.Errorf("cannot convert %T to %T: %w", raw, zero, err)
	}
	return out.(T), nil
}
