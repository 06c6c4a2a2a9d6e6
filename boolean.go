package conformity

// BooleanField validates bools.
type BooleanField struct {
	description string
}

// Boolean returns a field that validates bools.
func Boolean() *BooleanField {
	return &BooleanField{}
}

// Description attaches a human-readable description.
func (f *BooleanField) Description(s string) *BooleanField { f.description = s; return f }

func (f *BooleanField) Errors(value any) []Error {
	if _, ok := value.(bool); !ok {
		return invalid("Not a boolean")
	}
	return nil
}

func (f *BooleanField) Introspect() Introspection {
	doc := Introspection{"type": "boolean"}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}
