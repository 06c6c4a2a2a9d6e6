package conformity

import (
	"fmt"
	"reflect"
)

// SetField validates sets.
type SetField struct {
	contents             Field
	minLength, maxLength *int
	additional           func(value any) []Error
	description          string
}

// Set returns a field that validates Go sets: maps whose value type is
// struct{} or bool. Membership is the key set; bool values are not
// inspected. Element errors carry no pointer since sets have no stable
// positions.
func Set(contents Field) *SetField {
	if contents == nil {
		panic("conformity: Set requires a contents field")
	}
	return &SetField{contents: contents}
}

// MinLength requires at least n elements.
func (f *SetField) MinLength(n int) *SetField {
	f.minLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// MaxLength allows at most n elements.
func (f *SetField) MaxLength(n int) *SetField {
	f.maxLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// Additional installs a hook that runs over the whole set once every
// other check has passed.
func (f *SetField) Additional(fn func(value any) []Error) *SetField {
	f.additional = fn
	return f
}

// Description attaches a human-readable description.
func (f *SetField) Description(s string) *SetField { f.description = s; return f }

func (f *SetField) Errors(value any) []Error {
	rv := reflect.ValueOf(value)
	if !isSet(rv) {
		return invalid("Not a set")
	}
	var errs []Error
	n := rv.Len()
	if f.minLength != nil && n < *f.minLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("Set is smaller than %d", *f.minLength),
		})
	}
	if f.maxLength != nil && n > *f.maxLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("Set is larger than %d", *f.maxLength),
		})
	}
	iter := rv.MapRange()
	for iter.Next() {
		errs = append(errs, f.contents.Errors(iter.Key().Interface())...)
	}
	if len(errs) == 0 && f.additional != nil {
		errs = append(errs, f.additional(value)...)
	}
	return errs
}

func (f *SetField) Introspect() Introspection {
	doc := Introspection{"type": "set", "contents": f.contents.Introspect()}
	if f.minLength != nil {
		doc["min_length"] = *f.minLength
	}
	if f.maxLength != nil {
		doc["max_length"] = *f.maxLength
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// isSet reports whether rv is a map usable as a set.
func isSet(rv reflect.Value) bool {
	if rv.Kind() != reflect.Map {
		return false
	}
	switch elem := rv.Type().Elem(); elem.Kind() {
	case reflect.Struct:
		return elem.NumField() == 0
	case reflect.Bool:
		return true
	default:
		return false
	}
}
