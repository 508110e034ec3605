package trait

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Equal reports whether two values are equal.
// Values that cannot be compared are considered different.
func Equal(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()

	return cmp.Equal(a, b)
}

// Clone returns a copy of v that does not share lists or maps with it.
// Other values are returned as is.
func Clone(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Clone(item)
		}

		return out
	case []string:
		return append([]string(nil), val...)
	case []int:
		return append([]int(nil), val...)
	case []float64:
		return append([]float64(nil), val...)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && !rv.IsNil() {
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}

		return out.Interface()
	}

	return v
}
