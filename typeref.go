package conformity

import (
	"reflect"
	"strings"
)

// TypeOf returns the reflect.Type of T, including interface types, which
// plain reflect.TypeOf cannot name:
//
//	conformity.ObjectInstance(conformity.TypeOf[io.Reader]())
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ObjectInstanceField validates a value's dynamic type.
type ObjectInstanceField struct {
	types       []reflect.Type
	description string
}

// ObjectInstance returns a field that accepts values whose dynamic type
// is, implements, or is assignable to one of the given types.
func ObjectInstance(types ...reflect.Type) *ObjectInstanceField {
	if len(types) == 0 {
		panic("conformity: ObjectInstance requires at least one type")
	}
	for _, t := range types {
		if t == nil {
			panic("conformity: ObjectInstance type is nil")
		}
	}
	return &ObjectInstanceField{types: types}
}

// Description attaches a human-readable description.
func (f *ObjectInstanceField) Description(s string) *ObjectInstanceField {
	f.description = s
	return f
}

func (f *ObjectInstanceField) Errors(value any) []Error {
	if value != nil {
		t := reflect.TypeOf(value)
		for _, base := range f.types {
			if typeSatisfies(t, base) {
				return nil
			}
		}
	}
	return invalidf("Not an instance of %s", typeNames(f.types))
}

func (f *ObjectInstanceField) Introspect() Introspection {
	doc := Introspection{"type": "object_instance", "valid_type": typeNameList(f.types)}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// TypeReferenceField validates that a value is itself a type.
type TypeReferenceField struct {
	bases       []reflect.Type
	description string
}

// TypeReference returns a field that accepts reflect.Type values,
// optionally constrained to types that are, implement, or are
// assignable to one of the given bases.
func TypeReference(bases ...reflect.Type) *TypeReferenceField {
	for _, t := range bases {
		if t == nil {
			panic("conformity: TypeReference base type is nil")
		}
	}
	return &TypeReferenceField{bases: bases}
}

// Description attaches a human-readable description.
func (f *TypeReferenceField) Description(s string) *TypeReferenceField {
	f.description = s
	return f
}

func (f *TypeReferenceField) Errors(value any) []Error {
	t, ok := value.(reflect.Type)
	if !ok {
		return invalid("Not a type")
	}
	if len(f.bases) == 0 {
		return nil
	}
	for _, base := range f.bases {
		if typeSatisfies(t, base) {
			return nil
		}
	}
	return invalidf("Type %s is not one of or assignable to one of: %s", t, typeNames(f.bases))
}

func (f *TypeReferenceField) Introspect() Introspection {
	doc := Introspection{"type": "type_reference"}
	if len(f.bases) > 0 {
		doc["base_classes"] = typeNameList(f.bases)
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// typeSatisfies reports whether t counts as a base: identical,
// implementing it when base is an interface, or assignable to it.
func typeSatisfies(t, base reflect.Type) bool {
	if t == base {
		return true
	}
	if base.Kind() == reflect.Interface && t.Implements(base) {
		return true
	}
	return t.AssignableTo(base)
}

func typeNames(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

func typeNameList(types []reflect.Type) []any {
	names := make([]any, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
