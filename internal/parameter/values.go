package parameter

import (
	"fmt"
	"reflect"
)

// listElements returns the elements of v when v is list-shaped (any slice or
// array except []byte), preserving order and nil elements.
func listElements(v any) ([]any, bool) {
	switch typed := v.(type) {
	case nil:
		return nil, false
	case []any:
		out := make([]any, len(typed))
		copy(out, typed)
		return out, true
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return []any{}, true
		}
	case reflect.Array:
	default:
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// StringForm returns the canonical string used to compare v with a submitted
// value. The second result is false when v is null, including typed nils.
// Pointers are followed unless they implement fmt.Stringer.
func StringForm(v any) (string, bool) {
	switch typed := v.(type) {
	case nil:
		return "", false
	case string:
		return typed, true
	case []byte:
		return string(typed), true
	case *string:
		if typed == nil {
			return "", false
		}
		return *typed, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "", false
		}
		if _, ok := v.(fmt.Stringer); !ok {
			return StringForm(rv.Elem().Interface())
		}
	case reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return "", false
		}
	}

	return fmt.Sprint(v), true
}
