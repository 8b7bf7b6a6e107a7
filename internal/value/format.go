package value

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
)

// String renders v in an invariant, locale-independent form. Null renders as
// the empty string. Numbers of any width render identically when they hold
// the same value, which keeps compiled row keys stable across sources that
// decode integers differently.
func String(v interface{}) string {
	v = Normalize(v)
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
