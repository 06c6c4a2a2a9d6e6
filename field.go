package conformity

type (
	// Introspection is a JSON-serializable description of a field. Every
	// document carries a "type" key naming the field kind; the remaining
	// keys are kind-specific. Documents are self-describing and stable, so
	// external consumers (documentation generators, the openapi
	// subpackage, [Reconstruct]) can walk them without knowing the
	// concrete Go types involved.
	Introspection map[string]any

	// Field is the contract every schema node implements.
	//
	// Errors reports everything wrong with value. It never panics on bad
	// input: any candidate value is acceptable, and a nil or empty result
	// means the value is valid. Implementations are side-effect free with
	// one documented exception, [ClassConfigurationField].
	//
	// Introspect returns the field's description as an [Introspection]
	// document. New field kinds are added by implementing this interface;
	// nothing in the package needs to know about them.
	Field interface {
		Errors(value any) []Error
		Introspect() Introspection
	}

	// Warner is implemented by fields that can report non-fatal findings
	// alongside errors, such as [Deprecated]. Wrapping fields should
	// delegate to their contents when they implement Warner too.
	Warner interface {
		Warnings(value any) []Warning
	}
)

// Check runs field over value and collects both errors and warnings.
func Check(field Field, value any) Validation {
	v := Validation{Errors: field.Errors(value)}
	if w, ok := field.(Warner); ok {
		v.Warnings = w.Warnings(value)
	}
	return v
}

// Type returns the field kind recorded in an introspection document, or
// "" when the document has none.
func (i Introspection) Type() string {
	t, _ := i["type"].(string)
	return t
}
