package conformity

import "fmt"

// Error codes attached to validation errors.
//
// CodeUnresolvable is an INVALID-class code reserved for type and object
// path references that cannot be resolved, so callers can tell a broken
// reference apart from an ordinary schema mismatch.
const (
	CodeInvalid      = "INVALID"
	CodeMissing      = "MISSING"
	CodeUnknown      = "UNKNOWN"
	CodeUnresolvable = "UNRESOLVABLE"
)

// Warning codes attached to validation warnings.
const (
	WarningCodeFieldDeprecated = "FIELD_DEPRECATED"
	WarningCodeWarning         = "WARNING"
)

type (
	// Error describes a single validation failure. It is a plain value:
	// comparable, and never mutated once returned. Pointer locates the
	// failure inside the validated value as a dotted path ("bar.two",
	// "child_ids.2"); an empty Pointer means the error applies to the
	// value as a whole.
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Pointer string `json:"pointer,omitempty"`
	}

	// Warning describes a non-fatal finding, such as use of a deprecated
	// field. It has the same shape as Error.
	Warning struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Pointer string `json:"pointer,omitempty"`
	}

	// Validation is the combined result of running a field's errors and
	// warnings over a value. A value is valid when Errors is empty,
	// regardless of warnings.
	Validation struct {
		Errors   []Error   `json:"errors,omitempty"`
		Warnings []Warning `json:"warnings,omitempty"`
	}
)

// Valid reports whether the validation produced no errors.
func (v Validation) Valid() bool {
	return len(v.Errors) == 0
}

// PrefixPointer returns a copy of errs with each error's pointer prefixed
// by prefix. Errors with no pointer adopt the prefix itself. The input
// slice is left untouched so errors stay shareable between schemas.
func PrefixPointer(errs []Error, prefix string) []Error {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Error, len(errs))
	for i, e := range errs {
		if e.Pointer == "" {
			e.Pointer = prefix
		} else {
			e.Pointer = prefix + "." + e.Pointer
		}
		out[i] = e
	}
	return out
}

// PrefixWarningPointer is the warning counterpart of [PrefixPointer].
func PrefixWarningPointer(warnings []Warning, prefix string) []Warning {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]Warning, len(warnings))
	for i, w := range warnings {
		if w.Pointer == "" {
			w.Pointer = prefix
		} else {
			w.Pointer = prefix + "." + w.Pointer
		}
		out[i] = w
	}
	return out
}

func invalid(message string) []Error {
	return []Error{{Code: CodeInvalid, Message: message}}
}

func invalidf(format string, args ...any) []Error {
	return []Error{{Code: CodeInvalid, Message: fmt.Sprintf(format, args...)}}
}
