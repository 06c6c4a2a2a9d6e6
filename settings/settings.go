// Package settings turns layered setting definitions into validated,
// read-only configuration.
//
// A [Definition] pairs a schema of conformity fields with default
// values. Definitions extend one another, so a service can layer its own
// settings over a shared base:
//
//	var Base = settings.Define().
//	    Schema(settings.Schema{
//	        "debug": conformity.Boolean(),
//	    }).
//	    Defaults(settings.Data{"debug": false})
//
//	var Service = settings.Define().
//	    Extend(Base).
//	    Schema(settings.Schema{
//	        "workers": conformity.Integer().Gt(0),
//	    })
//
//	cfg, err := Service.New(settings.Data{"workers": 8})
package settings

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/eventbrite/conformity"
)

// Definition declares the shape of a settings mapping: which keys exist,
// how each validates, and what values apply when the caller provides
// none. Build one with [Define] and keep it package-level; a definition
// is immutable once it has produced its first [Settings].
type Definition struct {
	bases    []*Definition
	schema   Schema
	defaults Data

	once              sync.Once
	effectiveSchema   Schema
	effectiveDefaults Data
}

// Define returns an empty definition.
func Define() *Definition {
	return &Definition{schema: Schema{}, defaults: Data{}}
}

// Schema adds fields to the definition's own schema fragment,
// overwriting same-named fields set earlier on this definition.
func (d *Definition) Schema(s Schema) *Definition {
	for key, field := range s {
		if field == nil {
			panic("settings: nil field for key " + key)
		}
		d.schema[key] = field
	}
	return d
}

// Defaults deep-merges values into the definition's own defaults
// fragment.
func (d *Definition) Defaults(data Data) *Definition {
	d.defaults = MergeDefaults(d.defaults, data)
	return d
}

// Extend appends base definitions. The leftmost base has the highest
// precedence among bases, and this definition's own fragments override
// all of them.
func (d *Definition) Extend(bases ...*Definition) *Definition {
	for _, base := range bases {
		if base == nil {
			panic("settings: nil base definition")
		}
		if base == d {
			panic("settings: definition cannot extend itself")
		}
	}
	d.bases = append(d.bases, bases...)
	return d
}

// EffectiveSchema returns the fully merged schema, ancestors first.
func (d *Definition) EffectiveSchema() Schema {
	d.resolve()
	merged := make(Schema, len(d.effectiveSchema))
	for k, v := range d.effectiveSchema {
		merged[k] = v
	}
	return merged
}

// EffectiveDefaults returns the fully merged defaults as a deep copy.
func (d *Definition) EffectiveDefaults() Data {
	d.resolve()
	return Data(deepCopyValue(d.effectiveDefaults).(map[string]any))
}

// resolve computes the effective schema and defaults once: walk the
// extension graph most-distant ancestors first with bases applied
// rightmost to leftmost, each definition's own fragment layered over
// what came before, deduplicated so a shared ancestor contributes once.
func (d *Definition) resolve() {
	d.once.Do(func() {
		chain := d.linearize()
		schemas := make([]Schema, len(chain))
		defaults := make([]Data, len(chain))
		for i, def := range chain {
			schemas[i] = def.schema
			defaults[i] = def.defaults
		}
		d.effectiveSchema = MergeSchemas(schemas...)
		d.effectiveDefaults = MergeDefaults(defaults...)
	})
}

// linearize orders the extension graph for merging: every ancestor
// before its extenders, first occurrence kept when an ancestor is
// reachable through several bases, the receiver last.
func (d *Definition) linearize() []*Definition {
	var chain []*Definition
	appended := map[*Definition]bool{}
	walking := map[*Definition]bool{}
	var walk func(def *Definition)
	walk = func(def *Definition) {
		if appended[def] {
			return
		}
		if walking[def] {
			panic("settings: definition extension cycle")
		}
		walking[def] = true
		for i := len(def.bases) - 1; i >= 0; i-- {
			walk(def.bases[i])
		}
		delete(walking, def)
		appended[def] = true
		chain = append(chain, def)
	}
	walk(d)
	return chain
}

// UnknownDefaultKeys reports top-level default keys that the effective
// schema does not declare, sorted. Useful as a startup or test lint; a
// non-empty result means a default can never survive validation.
func (d *Definition) UnknownDefaultKeys() []string {
	d.resolve()
	var unknown []string
	for key := range d.effectiveDefaults {
		if _, ok := d.effectiveSchema[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// New validates data against the definition and returns the resulting
// settings. Defaults fill in anything data omits, data winning on
// conflict with maps merged recursively. On failure the error is an
// [*ImproperlyConfiguredError] carrying every violation.
func (d *Definition) New(data Data) (*Settings, error) {
	d.resolve()
	merged := MergeDefaults(d.effectiveDefaults, data)

	var errs []conformity.Error
	var unknown []string
	for key := range merged {
		if _, ok := d.effectiveSchema[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		errs = append(errs, conformity.Error{
			Code:    conformity.CodeUnknown,
			Message: "Unknown setting(s): " + strings.Join(unknown, ", "),
		})
	}

	keys := make([]string, 0, len(d.effectiveSchema))
	for key := range d.effectiveSchema {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, present := merged[key]
		if !present {
			errs = append(errs, conformity.Error{
				Code:    conformity.CodeMissing,
				Message: "Missing key: " + key,
				Pointer: key,
			})
			continue
		}
		errs = append(errs, conformity.PrefixPointer(d.effectiveSchema[key].Errors(value), key)...)
	}
	if len(errs) > 0 {
		return nil, &ImproperlyConfiguredError{Errors: errs}
	}
	return &Settings{values: map[string]any(merged)}, nil
}

// MustNew is New for settings known good at startup; it panics on error.
func (d *Definition) MustNew(data Data) *Settings {
	s, err := d.New(data)
	if err != nil {
		panic(err)
	}
	return s
}

// ImproperlyConfiguredError reports every validation failure of a
// settings mapping.
type ImproperlyConfiguredError struct {
	Errors []conformity.Error
}

func (e *ImproperlyConfiguredError) Error() string {
	var b strings.Builder
	b.WriteString("improperly configured settings:")
	for _, item := range e.Errors {
		b.WriteString("\n  - ")
		if item.Pointer != "" {
			b.WriteString(item.Pointer)
			b.WriteString(": ")
		}
		b.WriteString(item.Message)
	}
	return b.String()
}

// Settings is a validated, read-only settings mapping. Values handed out
// are deep copies, so callers cannot corrupt the shared view.
type Settings struct {
	values map[string]any
}

// Get returns the value for key, or nil when absent.
func (s *Settings) Get(key string) any {
	v, _ := s.Lookup(key)
	return v
}

// Lookup returns the value for key and whether it is present.
func (s *Settings) Lookup(key string) (any, bool) {
	v, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return deepCopyValue(v), true
}

// Has reports whether key is present.
func (s *Settings) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Len returns the number of top-level settings.
func (s *Settings) Len() int { return len(s.values) }

// Keys returns the top-level setting names, sorted.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Each calls fn for every setting in key order.
func (s *Settings) Each(fn func(key string, value any)) {
	for _, key := range s.Keys() {
		fn(key, deepCopyValue(s.values[key]))
	}
}

// Map returns a deep copy of the whole mapping.
func (s *Settings) Map() map[string]any {
	return deepCopyValue(s.values).(map[string]any)
}

// String renders the sorted key list, not the values, which may hold
// credentials.
func (s *Settings) String() string {
	return fmt.Sprintf("settings%v", s.Keys())
}
