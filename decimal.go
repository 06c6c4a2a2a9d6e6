package conformity

import "github.com/woodsbury/decimal128"

// DecimalField validates decimal128 values.
type DecimalField struct {
	bounds[decimal128.Decimal]
	description string
}

// Decimal returns a field that validates [decimal128.Decimal] values.
// Use [UnicodeDecimal] for decimals that arrive as strings.
func Decimal() *DecimalField {
	return &DecimalField{bounds: decimalBounds()}
}

// Gt requires the value to be strictly greater than v.
func (f *DecimalField) Gt(v decimal128.Decimal) *DecimalField { f.gt = &v; return f }

// Gte requires the value to be greater than or equal to v.
func (f *DecimalField) Gte(v decimal128.Decimal) *DecimalField { f.gte = &v; return f }

// Lt requires the value to be strictly less than v.
func (f *DecimalField) Lt(v decimal128.Decimal) *DecimalField { f.lt = &v; return f }

// Lte requires the value to be less than or equal to v.
func (f *DecimalField) Lte(v decimal128.Decimal) *DecimalField { f.lte = &v; return f }

// Description attaches a human-readable description.
func (f *DecimalField) Description(s string) *DecimalField { f.description = s; return f }

func (f *DecimalField) Errors(value any) []Error {
	d, ok := value.(decimal128.Decimal)
	if !ok {
		return invalid("Not a decimal")
	}
	return f.check(d)
}

func (f *DecimalField) Introspect() Introspection {
	doc := Introspection{"type": "decimal"}
	f.bounds.introspect(doc)
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// UnicodeDecimalField validates strings that parse as decimals.
type UnicodeDecimalField struct {
	bounds[decimal128.Decimal]
	description string
}

// UnicodeDecimal returns a field that validates strings carrying decimal
// values, for payloads where decimals travel as text to avoid float
// rounding.
func UnicodeDecimal() *UnicodeDecimalField {
	return &UnicodeDecimalField{bounds: decimalBounds()}
}

// Gt requires the parsed value to be strictly greater than v.
func (f *UnicodeDecimalField) Gt(v decimal128.Decimal) *UnicodeDecimalField { f.gt = &v; return f }

// Gte requires the parsed value to be greater than or equal to v.
func (f *UnicodeDecimalField) Gte(v decimal128.Decimal) *UnicodeDecimalField { f.gte = &v; return f }

// Lt requires the parsed value to be strictly less than v.
func (f *UnicodeDecimalField) Lt(v decimal128.Decimal) *UnicodeDecimalField { f.lt = &v; return f }

// Lte requires the parsed value to be less than or equal to v.
func (f *UnicodeDecimalField) Lte(v decimal128.Decimal) *UnicodeDecimalField { f.lte = &v; return f }

// Description attaches a human-readable description.
func (f *UnicodeDecimalField) Description(s string) *UnicodeDecimalField {
	f.description = s
	return f
}

func (f *UnicodeDecimalField) Errors(value any) []Error {
	s, ok := value.(string)
	if !ok {
		return invalid("Invalid decimal value (not a string)")
	}
	d, err := decimal128.Parse(s)
	if err != nil {
		return invalid("Invalid decimal value (parse error)")
	}
	return f.check(d)
}

func (f *UnicodeDecimalField) Introspect() Introspection {
	doc := Introspection{"type": "unicode_decimal"}
	f.bounds.introspect(doc)
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

func decimalBounds() bounds[decimal128.Decimal] {
	return bounds[decimal128.Decimal]{
		cmp:    cmpDecimal,
		encode: func(d decimal128.Decimal) any { return d.String() },
	}
}

func cmpDecimal(a, b decimal128.Decimal) int {
	switch r := a.Cmp(b); {
	case r.Less():
		return -1
	case r.Greater():
		return 1
	default:
		return 0
	}
}
