package conformity

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"
	"strings"
)

// Entry binds one dictionary key to its field. Build entries with [Key].
type Entry struct {
	name  string
	field Field
}

// Key declares a dictionary entry. Entries keep their declaration order,
// which fixes both the order of reported errors and the introspected
// display_order.
func Key(name string, field Field) Entry {
	if field == nil {
		panic(fmt.Sprintf("conformity: Dictionary key %q has no field", name))
	}
	return Entry{name: name, field: field}
}

// DictionaryField validates mappings with a declared key set.
type DictionaryField struct {
	entries     []Entry
	index       map[string]int
	optional    map[string]struct{}
	allowExtra  bool
	additional  func(value any) []Error
	description string
}

// Dictionary returns a field that validates mappings against a declared
// key set. Every declared key is required unless marked
// [DictionaryField.Optional]; keys outside the declaration are rejected
// unless [DictionaryField.AllowExtra] is set.
func Dictionary(entries ...Entry) *DictionaryField {
	f := &DictionaryField{
		index:    make(map[string]int, len(entries)),
		optional: map[string]struct{}{},
	}
	for _, e := range entries {
		f.add(e)
	}
	return f
}

func (f *DictionaryField) add(e Entry) {
	if _, dup := f.index[e.name]; dup {
		panic(fmt.Sprintf("conformity: Dictionary key %q declared twice", e.name))
	}
	f.index[e.name] = len(f.entries)
	f.entries = append(f.entries, e)
}

// Optional marks keys whose absence is not an error. Values that are
// present still validate against their field.
func (f *DictionaryField) Optional(keys ...string) *DictionaryField {
	for _, k := range keys {
		f.optional[k] = struct{}{}
	}
	return f
}

// ReplaceOptional discards the current optional key set and installs
// keys instead. Mainly useful on fields derived with
// [DictionaryField.Extend], which inherit the source's optional keys.
func (f *DictionaryField) ReplaceOptional(keys ...string) *DictionaryField {
	f.optional = make(map[string]struct{}, len(keys))
	return f.Optional(keys...)
}

// AllowExtra permits keys beyond the declared set.
func (f *DictionaryField) AllowExtra() *DictionaryField { f.allowExtra = true; return f }

// DisallowExtra rejects keys beyond the declared set. This is the
// default; the setter exists to tighten extended fields.
func (f *DictionaryField) DisallowExtra() *DictionaryField { f.allowExtra = false; return f }

// Additional installs a hook that runs over the whole mapping once every
// other check has passed. Use it for cross-key constraints.
func (f *DictionaryField) Additional(fn func(value any) []Error) *DictionaryField {
	f.additional = fn
	return f
}

// Description attaches a human-readable description.
func (f *DictionaryField) Description(s string) *DictionaryField { f.description = s; return f }

// Extend derives a new dictionary from f: entries override same-named
// originals in place and new names append after them. The extension
// inherits f's optional keys, extra-key policy, additional hook, and
// description; chain setters on the result to change them. f itself is
// never modified.
func (f *DictionaryField) Extend(entries ...Entry) *DictionaryField {
	out := &DictionaryField{
		entries:     slices.Clone(f.entries),
		index:       maps.Clone(f.index),
		optional:    maps.Clone(f.optional),
		allowExtra:  f.allowExtra,
		additional:  f.additional,
		description: f.description,
	}
	for _, e := range entries {
		if i, ok := out.index[e.name]; ok {
			out.entries[i] = e
		} else {
			out.add(e)
		}
	}
	return out
}

func (f *DictionaryField) Errors(value any) []Error {
	present, extras, ok := f.splitKeys(value)
	if !ok {
		return invalid("Not a dictionary")
	}
	var errs []Error
	for _, e := range f.entries {
		mv, found := present[e.name]
		if !found {
			if _, opt := f.optional[e.name]; !opt {
				errs = append(errs, Error{
					Code:    CodeMissing,
					Message: "Missing key: " + e.name,
					Pointer: e.name,
				})
			}
			continue
		}
		errs = append(errs, PrefixPointer(e.field.Errors(mv), e.name)...)
	}
	if len(extras) > 0 && !f.allowExtra {
		sort.Strings(extras)
		errs = append(errs, Error{
			Code:    CodeUnknown,
			Message: "Extra keys present: " + strings.Join(extras, ", "),
		})
	}
	if len(errs) == 0 && f.additional != nil {
		errs = append(errs, f.additional(value)...)
	}
	return errs
}

// Warnings forwards per-key warnings with the same key pointers as
// Errors. Missing and extra keys produce no warnings.
func (f *DictionaryField) Warnings(value any) []Warning {
	present, _, ok := f.splitKeys(value)
	if !ok {
		return nil
	}
	var warnings []Warning
	for _, e := range f.entries {
		w, isWarner := e.field.(Warner)
		if !isWarner {
			continue
		}
		if mv, found := present[e.name]; found {
			warnings = append(warnings, PrefixWarningPointer(w.Warnings(mv), e.name)...)
		}
	}
	return warnings
}

// splitKeys indexes a candidate mapping by declared name and collects
// the display forms of everything else. ok is false when value is not a
// map at all.
func (f *DictionaryField) splitKeys(value any) (present map[string]any, extras []string, ok bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil, nil, false
	}
	present = make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		ks, isString := stringKey(iter.Key())
		if !isString {
			extras = append(extras, fmt.Sprintf("%v", iter.Key().Interface()))
			continue
		}
		if _, declared := f.index[ks]; declared {
			present[ks] = iter.Value().Interface()
		} else {
			extras = append(extras, ks)
		}
	}
	return present, extras, true
}

func (f *DictionaryField) Introspect() Introspection {
	contents := make(map[string]any, len(f.entries))
	order := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		contents[e.name] = e.field.Introspect()
		order = append(order, e.name)
	}
	doc := Introspection{
		"type":             "dictionary",
		"contents":         contents,
		"allow_extra_keys": f.allowExtra,
		"display_order":    order,
	}
	if len(f.optional) > 0 {
		optional := make([]string, 0, len(f.optional))
		for k := range f.optional {
			optional = append(optional, k)
		}
		sort.Strings(optional)
		doc["optional_keys"] = optional
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// stringKey extracts a map key as a string when its kind allows it.
func stringKey(k reflect.Value) (string, bool) {
	if k.Kind() == reflect.Interface {
		k = k.Elem()
	}
	if k.IsValid() && k.Kind() == reflect.String {
		return k.String(), true
	}
	return "", false
}
