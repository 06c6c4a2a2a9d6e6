package conformity

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// OzzoField runs ozzo-validation rules as a field.
type OzzoField struct {
	rules       []validation.Rule
	description string
}

// Ozzo returns a field backed by ozzo-validation rules, so schemas can
// lean on that ecosystem for leaf checks this package has no field for:
//
//	conformity.Ozzo(validation.Required, is.Alphanumeric)
//
// Every rule runs; each failure becomes one INVALID error carrying the
// rule's own message. Fields built this way cannot be reconstructed from
// their introspection.
func Ozzo(rules ...validation.Rule) *OzzoField {
	if len(rules) == 0 {
		panic("conformity: Ozzo requires at least one rule")
	}
	return &OzzoField{rules: rules}
}

// Description attaches a human-readable description.
func (f *OzzoField) Description(s string) *OzzoField { f.description = s; return f }

func (f *OzzoField) Errors(value any) []Error {
	var errs []Error
	for _, r := range f.rules {
		if err := r.Validate(value); err != nil {
			errs = append(errs, Error{Code: CodeInvalid, Message: err.Error()})
		}
	}
	return errs
}

func (f *OzzoField) Introspect() Introspection {
	doc := Introspection{"type": "ozzo"}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}
