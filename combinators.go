package conformity

// AnyField accepts values matching at least one option.
type AnyField struct {
	options     []Field
	description string
}

// Any returns a field that tries each option in order and accepts on the
// first success. When every option fails, the errors of all of them are
// returned together so the caller sees why each branch rejected the
// value.
func Any(options ...Field) *AnyField {
	for _, o := range options {
		if o == nil {
			panic("conformity: Any option has no field")
		}
	}
	return &AnyField{options: options}
}

// Description attaches a human-readable description.
func (f *AnyField) Description(s string) *AnyField { f.description = s; return f }

func (f *AnyField) Errors(value any) []Error {
	var errs []Error
	for _, o := range f.options {
		branch := o.Errors(value)
		if len(branch) == 0 {
			return nil
		}
		errs = append(errs, branch...)
	}
	return errs
}

func (f *AnyField) Introspect() Introspection {
	options := make([]any, len(f.options))
	for i, o := range f.options {
		options[i] = o.Introspect()
	}
	doc := Introspection{"type": "any", "options": options}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// AllField accepts values matching every requirement.
type AllField struct {
	requirements []Field
	description  string
}

// All returns a field that runs every requirement without short-
// circuiting, so a single pass reports the complete diagnosis.
func All(requirements ...Field) *AllField {
	for _, r := range requirements {
		if r == nil {
			panic("conformity: All requirement has no field")
		}
	}
	return &AllField{requirements: requirements}
}

// Description attaches a human-readable description.
func (f *AllField) Description(s string) *AllField { f.description = s; return f }

func (f *AllField) Errors(value any) []Error {
	var errs []Error
	for _, r := range f.requirements {
		errs = append(errs, r.Errors(value)...)
	}
	return errs
}

func (f *AllField) Introspect() Introspection {
	requirements := make([]any, len(f.requirements))
	for i, r := range f.requirements {
		requirements[i] = r.Introspect()
	}
	doc := Introspection{"type": "all", "requirements": requirements}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}
