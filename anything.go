package conformity

// AnythingField accepts every value.
type AnythingField struct {
	description string
}

// Anything returns a field that accepts any value at all.
func Anything() *AnythingField {
	return &AnythingField{}
}

// Description attaches a human-readable description.
func (f *AnythingField) Description(s string) *AnythingField { f.description = s; return f }

func (f *AnythingField) Errors(any) []Error { return nil }

func (f *AnythingField) Introspect() Introspection {
	doc := Introspection{"type": "anything"}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// HashableField validates that a value is usable as a map key.
type HashableField struct {
	description string
}

// Hashable returns a field that accepts any value usable as a map key.
// It is the default key field of [SchemalessDictionary].
func Hashable() *HashableField {
	return &HashableField{}
}

// Description attaches a human-readable description.
func (f *HashableField) Description(s string) *HashableField { f.description = s; return f }

func (f *HashableField) Errors(value any) []Error {
	if !isHashable(value) {
		return invalid("Value is not hashable")
	}
	return nil
}

func (f *HashableField) Introspect() Introspection {
	doc := Introspection{"type": "hashable"}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}
