package conformity

import "fmt"

// bounds carries the four optional ordering constraints shared by the
// numeric and temporal fields. cmp is the element type's own ordering;
// encode renders a bound for messages and introspection documents (it
// must produce something JSON-serializable).
type bounds[T any] struct {
	gt, gte, lt, lte *T
	cmp              func(a, b T) int
	encode           func(T) any
}

func (b *bounds[T]) check(value T) []Error {
	var errs []Error
	fail := func(format string, limit T) {
		errs = append(errs, Error{
			Code:    CodeInvalid,
			Message: fmt.Sprintf(format, b.encode(limit)),
		})
	}
	if b.gt != nil && b.cmp(value, *b.gt) <= 0 {
		fail("Value not > %v", *b.gt)
	}
	if b.gte != nil && b.cmp(value, *b.gte) < 0 {
		fail("Value not >= %v", *b.gte)
	}
	if b.lt != nil && b.cmp(value, *b.lt) >= 0 {
		fail("Value not < %v", *b.lt)
	}
	if b.lte != nil && b.cmp(value, *b.lte) > 0 {
		fail("Value not <= %v", *b.lte)
	}
	return errs
}

func (b *bounds[T]) introspect(doc Introspection) {
	if b.gt != nil {
		doc["gt"] = b.encode(*b.gt)
	}
	if b.gte != nil {
		doc["gte"] = b.encode(*b.gte)
	}
	if b.lt != nil {
		doc["lt"] = b.encode(*b.lt)
	}
	if b.lte != nil {
		doc["lte"] = b.encode(*b.lte)
	}
}
