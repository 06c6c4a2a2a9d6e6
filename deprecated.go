package conformity

// DeprecatedField marks its wrapped field as deprecated.
type DeprecatedField struct {
	inner   Field
	message string
}

// Deprecated wraps a field so that values validate exactly as before but
// every use is reported as a FIELD_DEPRECATED warning. The introspection
// document is the wrapped field's with "deprecated" set.
func Deprecated(inner Field) *DeprecatedField {
	if inner == nil {
		panic("conformity: Deprecated requires a field")
	}
	return &DeprecatedField{inner: inner, message: "This field has been deprecated"}
}

// Message replaces the default deprecation message.
func (f *DeprecatedField) Message(s string) *DeprecatedField { f.message = s; return f }

func (f *DeprecatedField) Errors(value any) []Error {
	return f.inner.Errors(value)
}

func (f *DeprecatedField) Warnings(value any) []Warning {
	warnings := []Warning{{Code: WarningCodeFieldDeprecated, Message: f.message}}
	if w, ok := f.inner.(Warner); ok {
		warnings = append(warnings, w.Warnings(value)...)
	}
	return warnings
}

func (f *DeprecatedField) Introspect() Introspection {
	doc := f.inner.Introspect()
	doc["deprecated"] = true
	return doc
}
