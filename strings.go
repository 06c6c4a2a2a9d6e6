package conformity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// StringField validates strings.
type StringField struct {
	minLength, maxLength *int
	allowBlank           bool
	description          string
}

// String returns a field that validates strings. Lengths are measured in
// runes, not bytes. Blank strings pass by default; chain [StringField.NotBlank]
// to reject empty and whitespace-only values.
func String() *StringField {
	return &StringField{allowBlank: true}
}

// MinLength requires at least n runes. Panics if n exceeds a configured
// maximum length.
func (f *StringField) MinLength(n int) *StringField {
	f.minLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// MaxLength allows at most n runes. Panics if n is below a configured
// minimum length.
func (f *StringField) MaxLength(n int) *StringField {
	f.maxLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// NotBlank rejects strings that are empty or contain only whitespace.
func (f *StringField) NotBlank() *StringField { f.allowBlank = false; return f }

// Description attaches a human-readable description.
func (f *StringField) Description(s string) *StringField { f.description = s; return f }

func (f *StringField) Errors(value any) []Error {
	s, ok := value.(string)
	if !ok {
		return invalid("Not a string")
	}
	var errs []Error
	n := utf8.RuneCountInString(s)
	if f.minLength != nil && n < *f.minLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("String must have a length of at least %d", *f.minLength),
		})
	}
	if f.maxLength != nil && n > *f.maxLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("String must have a length no more than %d", *f.maxLength),
		})
	}
	if !f.allowBlank && strings.TrimSpace(s) == "" {
		errs = append(errs, Error{Code: CodeInvalid, Message: "String cannot be blank"})
	}
	return errs
}

func (f *StringField) Introspect() Introspection {
	doc := Introspection{"type": "unicode"}
	if f.minLength != nil {
		doc["min_length"] = *f.minLength
	}
	if f.maxLength != nil {
		doc["max_length"] = *f.maxLength
	}
	if !f.allowBlank {
		doc["allow_blank"] = false
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// BytesField validates byte slices.
type BytesField struct {
	minLength, maxLength *int
	description          string
}

// Bytes returns a field that validates []byte values. Lengths are
// measured in bytes.
func Bytes() *BytesField {
	return &BytesField{}
}

// MinLength requires at least n bytes.
func (f *BytesField) MinLength(n int) *BytesField {
	f.minLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// MaxLength allows at most n bytes.
func (f *BytesField) MaxLength(n int) *BytesField {
	f.maxLength = &n
	checkLengthBounds(f.minLength, f.maxLength)
	return f
}

// Description attaches a human-readable description.
func (f *BytesField) Description(s string) *BytesField { f.description = s; return f }

func (f *BytesField) Errors(value any) []Error {
	b, ok := value.([]byte)
	if !ok {
		return invalid("Not a byte string")
	}
	var errs []Error
	if f.minLength != nil && len(b) < *f.minLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("String must have a length of at least %d", *f.minLength),
		})
	}
	if f.maxLength != nil && len(b) > *f.maxLength {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf("String must have a length no more than %d", *f.maxLength),
		})
	}
	return errs
}

func (f *BytesField) Introspect() Introspection {
	doc := Introspection{"type": "bytes"}
	if f.minLength != nil {
		doc["min_length"] = *f.minLength
	}
	if f.maxLength != nil {
		doc["max_length"] = *f.maxLength
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

func checkLengthBounds(minLength, maxLength *int) {
	if minLength != nil && *minLength < 0 {
		panic("conformity: negative minimum length")
	}
	if maxLength != nil && *maxLength < 0 {
		panic("conformity: negative maximum length")
	}
	if minLength != nil && maxLength != nil && *minLength > *maxLength {
		panic(fmt.Sprintf("conformity: minimum length %d exceeds maximum length %d", *minLength, *maxLength))
	}
}
