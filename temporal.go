package conformity

import (
	"cmp"
	"time"
)

// DateTimeField validates time.Time values.
type DateTimeField struct {
	bounds[time.Time]
	description string
}

// DateTime returns a field that validates [time.Time] values. Bounds are
// introspected as RFC 3339 strings.
func DateTime() *DateTimeField {
	return &DateTimeField{bounds: bounds[time.Time]{
		cmp:    time.Time.Compare,
		encode: func(t time.Time) any { return t.Format(time.RFC3339Nano) },
	}}
}

// Gt requires the value to be strictly after v.
func (f *DateTimeField) Gt(v time.Time) *DateTimeField { f.gt = &v; return f }

// Gte requires the value to be at or after v.
func (f *DateTimeField) Gte(v time.Time) *DateTimeField { f.gte = &v; return f }

// Lt requires the value to be strictly before v.
func (f *DateTimeField) Lt(v time.Time) *DateTimeField { f.lt = &v; return f }

// Lte requires the value to be at or before v.
func (f *DateTimeField) Lte(v time.Time) *DateTimeField { f.lte = &v; return f }

// Description attaches a human-readable description.
func (f *DateTimeField) Description(s string) *DateTimeField { f.description = s; return f }

func (f *DateTimeField) Errors(value any) []Error {
	t, ok := value.(time.Time)
	if !ok {
		return invalid("Not a time.Time")
	}
	return f.check(t)
}

func (f *DateTimeField) Introspect() Introspection {
	doc := Introspection{"type": "datetime"}
	f.bounds.introspect(doc)
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// DurationField validates time.Duration values.
type DurationField struct {
	bounds[time.Duration]
	description string
}

// Duration returns a field that validates [time.Duration] values. Bounds
// are introspected in Go duration notation ("1h30m").
func Duration() *DurationField {
	return &DurationField{bounds: bounds[time.Duration]{
		cmp:    cmp.Compare[time.Duration],
		encode: func(d time.Duration) any { return d.String() },
	}}
}

// Gt requires the value to be strictly longer than v.
func (f *DurationField) Gt(v time.Duration) *DurationField { f.gt = &v; return f }

// Gte requires the value to be at least v.
func (f *DurationField) Gte(v time.Duration) *DurationField { f.gte = &v; return f }

// Lt requires the value to be strictly shorter than v.
func (f *DurationField) Lt(v time.Duration) *DurationField { f.lt = &v; return f }

// Lte requires the value to be at most v.
func (f *DurationField) Lte(v time.Duration) *DurationField { f.lte = &v; return f }

// Description attaches a human-readable description.
func (f *DurationField) Description(s string) *DurationField { f.description = s; return f }

func (f *DurationField) Errors(value any) []Error {
	d, ok := value.(time.Duration)
	if !ok {
		return invalid("Not a time.Duration")
	}
	return f.check(d)
}

func (f *DurationField) Introspect() Introspection {
	doc := Introspection{"type": "timedelta"}
	f.bounds.introspect(doc)
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// LocationField validates *time.Location values.
type LocationField struct {
	description string
}

// Location returns a field that validates [*time.Location] values.
func Location() *LocationField {
	return &LocationField{}
}

// Description attaches a human-readable description.
func (f *LocationField) Description(s string) *LocationField { f.description = s; return f }

func (f *LocationField) Errors(value any) []Error {
	if l, ok := value.(*time.Location); !ok || l == nil {
		return invalid("Not a *time.Location")
	}
	return nil
}

func (f *LocationField) Introspect() Introspection {
	doc := Introspection{"type": "tzinfo"}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}
