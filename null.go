package conformity

import "reflect"

// NullField accepts only null values.
type NullField struct {
	description string
}

// Null returns a field that accepts only null. Besides a nil interface,
// nil pointers, maps, and slices count as null, matching what
// encoding/json produces for JSON null.
func Null() *NullField {
	return &NullField{}
}

// Description attaches a human-readable description.
func (f *NullField) Description(s string) *NullField { f.description = s; return f }

func (f *NullField) Errors(value any) []Error {
	if !isNil(value) {
		return invalid("Value is not null")
	}
	return nil
}

func (f *NullField) Introspect() Introspection {
	doc := Introspection{"type": "null"}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// NullableField sanctions null for its wrapped field.
type NullableField struct {
	inner Field
}

// Nullable wraps a field so that null is also acceptable. No other field
// treats null as valid; wrapping is the single way to sanction it.
func Nullable(inner Field) *NullableField {
	if inner == nil {
		panic("conformity: Nullable requires a field")
	}
	return &NullableField{inner: inner}
}

func (f *NullableField) Errors(value any) []Error {
	if isNil(value) {
		return nil
	}
	return f.inner.Errors(value)
}

// Warnings forwards to the wrapped field for non-null values.
func (f *NullableField) Warnings(value any) []Warning {
	if isNil(value) {
		return nil
	}
	if w, ok := f.inner.(Warner); ok {
		return w.Warnings(value)
	}
	return nil
}

func (f *NullableField) Introspect() Introspection {
	return Introspection{"type": "nullable", "nullable": f.inner.Introspect()}
}

// isNil reports whether value is null in the JSON sense: a nil
// interface, or a nil pointer, map, slice, channel, or function.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
