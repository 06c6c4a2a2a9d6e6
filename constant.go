package conformity

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ConstantField validates that a value is one of a fixed set.
type ConstantField struct {
	values      []any // sorted by display form
	set         map[any]struct{}
	description string
}

// Constant returns a field that accepts only the given values. Values
// must be hashable (usable as map keys); Constant panics otherwise, and
// on an empty set. An unhashable candidate is simply not a member, never
// a panic.
func Constant(values ...any) *ConstantField {
	if len(values) == 0 {
		panic("conformity: Constant requires at least one value")
	}
	set := make(map[any]struct{}, len(values))
	for _, v := range values {
		if !isHashable(v) {
			panic(fmt.Sprintf("conformity: Constant value %v is not hashable", v))
		}
		set[v] = struct{}{}
	}
	sorted := make([]any, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return displayValue(sorted[i]) < displayValue(sorted[j])
	})
	return &ConstantField{values: sorted, set: set}
}

// Description attaches a human-readable description.
func (f *ConstantField) Description(s string) *ConstantField { f.description = s; return f }

func (f *ConstantField) Errors(value any) []Error {
	if isHashable(value) {
		if _, ok := f.set[value]; ok {
			return nil
		}
	}
	if len(f.values) == 1 {
		return []Error{{
			Code:    CodeUnknown,
			Message: "Value is not " + displayValue(f.values[0]),
		}}
	}
	display := make([]string, len(f.values))
	for i, v := range f.values {
		display[i] = displayValue(v)
	}
	return []Error{{
		Code:    CodeUnknown,
		Message: "Value is not one of: " + strings.Join(display, ", "),
	}}
}

func (f *ConstantField) Introspect() Introspection {
	values := make([]any, len(f.values))
	copy(values, f.values)
	doc := Introspection{"type": "constant", "values": values}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// displayValue renders a constant for error messages: strings quoted,
// everything else in plain %v form.
func displayValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// isHashable reports whether v can be used as a map key. A nil interface
// is a valid key.
func isHashable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}
