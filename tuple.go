package conformity

import (
	"fmt"
	"reflect"
	"strconv"
)

// TupleField validates fixed-arity sequences.
type TupleField struct {
	contents    []Field
	additional  func(value any) []Error
	description string
}

// Tuple returns a field that validates slices of exactly len(contents)
// elements, matching each position against its own field. Position
// errors carry the index as their pointer.
func Tuple(contents ...Field) *TupleField {
	if len(contents) == 0 {
		panic("conformity: Tuple requires at least one field")
	}
	for i, c := range contents {
		if c == nil {
			panic(fmt.Sprintf("conformity: Tuple position %d has no field", i))
		}
	}
	return &TupleField{contents: contents}
}

// Additional installs a hook that runs over the whole tuple once every
// other check has passed.
func (f *TupleField) Additional(fn func(value any) []Error) *TupleField {
	f.additional = fn
	return f
}

// Description attaches a human-readable description.
func (f *TupleField) Description(s string) *TupleField { f.description = s; return f }

// Arity returns the number of positions the tuple declares.
func (f *TupleField) Arity() int { return len(f.contents) }

func (f *TupleField) Errors(value any) []Error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return invalid("Not a tuple")
	}
	if rv.Len() != len(f.contents) {
		return invalidf("Number of elements %d does not match expected %d", rv.Len(), len(f.contents))
	}
	var errs []Error
	for i, c := range f.contents {
		errs = append(errs, PrefixPointer(c.Errors(rv.Index(i).Interface()), strconv.Itoa(i))...)
	}
	if len(errs) == 0 && f.additional != nil {
		errs = append(errs, f.additional(value)...)
	}
	return errs
}

// Warnings forwards per-position warnings with the same index pointers
// as Errors.
func (f *TupleField) Warnings(value any) []Warning {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array || rv.Len() != len(f.contents) {
		return nil
	}
	var warnings []Warning
	for i, c := range f.contents {
		if w, ok := c.(Warner); ok {
			warnings = append(warnings, PrefixWarningPointer(w.Warnings(rv.Index(i).Interface()), strconv.Itoa(i))...)
		}
	}
	return warnings
}

func (f *TupleField) Introspect() Introspection {
	contents := make([]any, len(f.contents))
	for i, c := range f.contents {
		contents[i] = c.Introspect()
	}
	doc := Introspection{"type": "tuple", "contents": contents}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}
