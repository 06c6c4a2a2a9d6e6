package conformity

import (
	"fmt"
	"reflect"
	"sort"
)

// SchemalessDictionaryField validates open mappings.
type SchemalessDictionaryField struct {
	keyField, valueField Field
	minLength, maxLength *int
	additional           func(value any) []Error
	description          string
}

// SchemalessDictionary returns a field that validates mappings with no
// declared key set: every key must satisfy the key field (default
// [Hashable]) and every value the value field (default [Anything]).
// Entry errors are prefixed with the offending key's display form.
func SchemalessDictionary() *SchemalessDictionaryField {
	return &SchemalessDictionaryField{
		keyField:   Hashable(),
		valueField: Anything(),
	}
}

// KeyField replaces the field applied to every key.
func (f *SchemalessDictionaryField) KeyField(field Field) *SchemalessDictionaryField {
	if field == nil {
		panic("conformity: SchemalessDictionary requires a key field")
	}
	f.keyField = field
	return f
}

// ValueField replaces the field applied to every value.
func (f *SchemalessDictionaryField) ValueField(field Field) *SchemalessDictionaryField {
	if field == nil {
		panic("conformity: SchemalessDictionary requires a value field")
	}
	f.valueField = field
	return f
}

// MinLength requires at least n entries.
func (f *SchemalessDictionaryField) MinLength(n int) *SchemalessDictionaryField {
	f.minLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// MaxLength allows at most n entries.
func (f *SchemalessDictionaryField) MaxLength(n int) *SchemalessDictionaryField {
	f.maxLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// Additional installs a hook that runs over the whole mapping once every
// other check has passed.
func (f *SchemalessDictionaryField) Additional(fn func(value any) []Error) *SchemalessDictionaryField {
	f.additional = fn
	return f
}

// Description attaches a human-readable description.
func (f *SchemalessDictionaryField) Description(s string) *SchemalessDictionaryField {
	f.description = s
	return f
}

func (f *SchemalessDictionaryField) Errors(value any) []Error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return invalid("Not a dictionary")
	}
	var errs []Error
	n := rv.Len()
	if f.minLength != nil && n < *f.minLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("Dictionary contains fewer than %d value(s)", *f.minLength),
		})
	}
	if f.maxLength != nil && n > *f.maxLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("Dictionary contains more than %d value(s)", *f.maxLength),
		})
	}
	for _, k := range sortedMapKeys(rv) {
		pointer := fmt.Sprintf("%v", k.Interface())
		errs = append(errs, PrefixPointer(f.keyField.Errors(k.Interface()), pointer)...)
		errs = append(errs, PrefixPointer(f.valueField.Errors(rv.MapIndex(k).Interface()), pointer)...)
	}
	if len(errs) == 0 && f.additional != nil {
		errs = append(errs, f.additional(value)...)
	}
	return errs
}

// Warnings forwards per-entry value warnings with the same key pointers
// as Errors.
func (f *SchemalessDictionaryField) Warnings(value any) []Warning {
	w, ok := f.valueField.(Warner)
	if !ok {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil
	}
	var warnings []Warning
	for _, k := range sortedMapKeys(rv) {
		pointer := fmt.Sprintf("%v", k.Interface())
		warnings = append(warnings, PrefixWarningPointer(w.Warnings(rv.MapIndex(k).Interface()), pointer)...)
	}
	return warnings
}

func (f *SchemalessDictionaryField) Introspect() Introspection {
	doc := Introspection{
		"type":       "schemaless_dictionary",
		"key_type":   f.keyField.Introspect(),
		"value_type": f.valueField.Introspect(),
	}
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

// sortedMapKeys returns rv's keys ordered by display form, so entry
// errors come out deterministically despite map iteration order.
func sortedMapKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%v", keys[i].Interface()) < fmt.Sprintf("%v", keys[j].Interface())
	})
	return keys
}
