package conformity

import (
	"cmp"
	"encoding/json"
	"math"
	"reflect"
)

// IntegerField validates integral values.
type IntegerField struct {
	bounds[int64]
	description string
}

// Integer returns a field that validates integers. Any Go integer kind is
// accepted, as are json.Number values and floats with no fractional part
// (encoding/json decodes every JSON number to float64). Booleans are not
// integers.
func Integer() *IntegerField {
	return &IntegerField{bounds: bounds[int64]{
		cmp:    cmp.Compare[int64],
		encode: func(v int64) any { return v },
	}}
}

// Gt requires the value to be strictly greater than v.
func (f *IntegerField) Gt(v int64) *IntegerField { f.gt = &v; return f }

// Gte requires the value to be greater than or equal to v.
func (f *IntegerField) Gte(v int64) *IntegerField { f.gte = &v; return f }

// Lt requires the value to be strictly less than v.
func (f *IntegerField) Lt(v int64) *IntegerField { f.lt = &v; return f }

// Lte requires the value to be less than or equal to v.
func (f *IntegerField) Lte(v int64) *IntegerField { f.lte = &v; return f }

// Description attaches a human-readable description.
func (f *IntegerField) Description(s string) *IntegerField { f.description = s; return f }

func (f *IntegerField) Errors(value any) []Error {
	n, ok := asInt64(value)
	if !ok {
		return invalid("Not an integer")
	}
	return f.check(n)
}

func (f *IntegerField) Introspect() Introspection {
	doc := Introspection{"type": "integer"}
	f.bounds.introspect(doc)
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// FloatField validates real numbers.
type FloatField struct {
	bounds[float64]
	description string
}

// Float returns a field that validates real numbers. Integer values are
// real numbers too and pass; use [Integer] to require integrality.
func Float() *FloatField {
	return &FloatField{bounds: bounds[float64]{
		cmp:    cmp.Compare[float64],
		encode: func(v float64) any { return v },
	}}
}

// Gt requires the value to be strictly greater than v.
func (f *FloatField) Gt(v float64) *FloatField { f.gt = &v; return f }

// Gte requires the value to be greater than or equal to v.
func (f *FloatField) Gte(v float64) *FloatField { f.gte = &v; return f }

// Lt requires the value to be strictly less than v.
func (f *FloatField) Lt(v float64) *FloatField { f.lt = &v; return f }

// Lte requires the value to be less than or equal to v.
func (f *FloatField) Lte(v float64) *FloatField { f.lte = &v; return f }

// Description attaches a human-readable description.
func (f *FloatField) Description(s string) *FloatField { f.description = s; return f }

func (f *FloatField) Errors(value any) []Error {
	n, ok := asFloat64(value)
	if !ok {
		return invalid("Not a float")
	}
	return f.check(n)
}

func (f *FloatField) Introspect() Introspection {
	doc := Introspection{"type": "float"}
	f.bounds.introspect(doc)
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// asInt64 reports value as an int64 when it is integral. Named integer
// types are handled through reflection; bools are rejected even though
// their kind is distinct, to keep the check explicit.
func asInt64(value any) (int64, bool) {
	if n, ok := value.(json.Number); ok {
		v, err := n.Int64()
		return v, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.Trunc(f) != f || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	default:
		return 0, false
	}
}

// asFloat64 reports value as a float64 when it is any numeric kind.
func asFloat64(value any) (float64, bool) {
	if n, ok := value.(json.Number); ok {
		v, err := n.Float64()
		return v, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
