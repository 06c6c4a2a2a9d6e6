package conformity

import (
	"fmt"
	"reflect"
	"strconv"
)

// ListField validates sequences.
type ListField struct {
	contents             Field
	minLength, maxLength *int
	additional           func(value any) []Error
	description          string
}

// List returns a field that validates slices and arrays, applying
// contents to every element. Element errors carry the element's index as
// their pointer.
func List(contents Field) *ListField {
	if contents == nil {
		panic("conformity: List requires a contents field")
	}
	return &ListField{contents: contents}
}

// MinLength requires at least n elements.
func (f *ListField) MinLength(n int) *ListField {
	f.minLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// MaxLength allows at most n elements.
func (f *ListField) MaxLength(n int) *ListField {
	f.maxLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// Additional installs a hook that runs over the whole list once every
// other check has passed. Use it for cross-element constraints the
// contents field cannot see.
func (f *ListField) Additional(fn func(value any) []Error) *ListField {
	f.additional = fn
	return f
}

// Description attaches a human-readable description.
func (f *ListField) Description(s string) *ListField { f.description = s; return f }

func (f *ListField) Errors(value any) []Error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return invalid("Not a list")
	}
	var errs []Error
	n := rv.Len()
	if f.minLength != nil && n < *f.minLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("List is shorter than %d", *f.minLength),
		})
	}
	if f.maxLength != nil && n > *f.maxLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("List is longer than %d", *f.maxLength),
		})
	}
	for i := 0; i < n; i++ {
		errs = append(errs, PrefixPointer(f.contents.Errors(rv.Index(i).Interface()), strconv.Itoa(i))...)
	}
	if len(errs) == 0 && f.additional != nil {
		errs = append(errs, f.additional(value)...)
	}
	return errs
}

// Warnings forwards element warnings when the contents field reports
// them, with the same index pointers as Errors.
func (f *ListField) Warnings(value any) []Warning {
	w, ok := f.contents.(Warner)
	if !ok {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	var warnings []Warning
	n := rv.Len()
	for i := 0; i < n; i++ {
		warnings = append(warnings, PrefixWarningPointer(w.Warnings(rv.Index(i).Interface()), strconv.Itoa(i))...)
	}
	return warnings
}

func (f *ListField) Introspect() Introspection {
	doc := Introspection{"type": "list", "contents": f.contents.Introspect()}
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
