package conformity

import (
	"fmt"
	"reflect"
	"strings"
)

// SwitchDefault is the contents-map key consulted when a polymorph's
// switch value is absent or matches no declared branch.
const SwitchDefault = "__default__"

// PolymorphField dispatches between schemas on a switch value.
type PolymorphField struct {
	switchField string
	contentsMap map[any]Field
	description string
}

// Polymorph returns a field that selects one of several schemas by the
// value found under switchField, then validates the whole mapping
// against the selected branch. switchField may be a dotted path into
// nested mappings ("method.payment_type").
//
// Every branch should validate the switch field's own value in a way
// consistent with its contents-map key; the field does not enforce this,
// the schema author must.
func Polymorph(switchField string, contentsMap map[any]Field) *PolymorphField {
	if switchField == "" {
		panic("conformity: Polymorph requires a switch field")
	}
	for k, v := range contentsMap {
		if v == nil {
			panic(fmt.Sprintf("conformity: Polymorph branch %v has no field", k))
		}
	}
	return &PolymorphField{switchField: switchField, contentsMap: contentsMap}
}

// Description attaches a human-readable description.
func (f *PolymorphField) Description(s string) *PolymorphField { f.description = s; return f }

func (f *PolymorphField) Errors(value any) []Error {
	branch, errs := f.branch(value)
	if errs != nil {
		return errs
	}
	return branch.Errors(value)
}

// Warnings forwards to the selected branch when one can be selected.
func (f *PolymorphField) Warnings(value any) []Warning {
	branch, errs := f.branch(value)
	if errs != nil {
		return nil
	}
	if w, ok := branch.(Warner); ok {
		return w.Warnings(value)
	}
	return nil
}

// branch selects the schema for value, or explains why none applies.
// A missing or unmatched switch value falls back to the [SwitchDefault]
// branch; without one it is an UNKNOWN error and no branch ever runs.
func (f *PolymorphField) branch(value any) (Field, []Error) {
	if reflect.ValueOf(value).Kind() != reflect.Map {
		return nil, invalid("Not a dictionary")
	}
	sv, found := lookupPath(value, strings.Split(f.switchField, "."))
	if !found {
		if b, ok := f.contentsMap[SwitchDefault]; ok {
			return b, nil
		}
		return nil, []Error{{
			Code:    CodeUnknown,
			Message: fmt.Sprintf("Missing switch value for '%s'", f.switchField),
		}}
	}
	if isHashable(sv) {
		if b, ok := f.contentsMap[sv]; ok {
			return b, nil
		}
	}
	if b, ok := f.contentsMap[SwitchDefault]; ok {
		return b, nil
	}
	return nil, []Error{{
		Code:    CodeUnknown,
		Message: fmt.Sprintf("Invalid switch value '%v'", sv),
	}}
}

func (f *PolymorphField) Introspect() Introspection {
	contents := make(map[string]any, len(f.contentsMap))
	for k, v := range f.contentsMap {
		contents[fmt.Sprintf("%v", k)] = v.Introspect()
	}
	doc := Introspection{
		"type":         "polymorph",
		"switch_field": f.switchField,
		"contents_map": contents,
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// lookupPath walks nested mappings one key at a time.
func lookupPath(value any, bits []string) (any, bool) {
	cur := value
	for _, bit := range bits {
		rv := reflect.ValueOf(cur)
		if rv.Kind() != reflect.Map {
			return nil, false
		}
		found := false
		iter := rv.MapRange()
		for iter.Next() {
			if ks, ok := stringKey(iter.Key()); ok && ks == bit {
				cur = iter.Value().Interface()
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return cur, true
}
