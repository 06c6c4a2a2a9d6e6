package conformity

// BooleanValidatorField adapts a plain predicate into a field.
type BooleanValidatorField struct {
	fn                   func(value any) bool
	validatorDescription string
	errorMessage         string
	description          string
}

// BooleanValidator returns a field backed by fn. validatorDescription
// documents what fn checks (it is all introspection can say about a
// closure); errorMessage is reported when fn returns false. A panic
// inside fn counts as a failed check, so predicates may type-assert
// freely.
func BooleanValidator(fn func(value any) bool, validatorDescription, errorMessage string) *BooleanValidatorField {
	if fn == nil {
		panic("conformity: BooleanValidator requires a predicate")
	}
	return &BooleanValidatorField{
		fn:                   fn,
		validatorDescription: validatorDescription,
		errorMessage:         errorMessage,
	}
}

// Description attaches a human-readable description.
func (f *BooleanValidatorField) Description(s string) *BooleanValidatorField {
	f.description = s
	return f
}

func (f *BooleanValidatorField) Errors(value any) []Error {
	if !f.run(value) {
		return invalid(f.errorMessage)
	}
	return nil
}

func (f *BooleanValidatorField) run(value any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return f.fn(value)
}

func (f *BooleanValidatorField) Introspect() Introspection {
	doc := Introspection{"type": "boolean_validator", "validator": f.validatorDescription}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}
