package conformity

import (
	"reflect"
)

// ObjectPathField validates a dotted path string that resolves, through a
// [Resolver], to a registered value.
type ObjectPathField struct {
	resolver    *Resolver
	valueSchema Field
	description string
}

// ObjectPath returns a field that accepts strings naming a value
// registered with [Register] or [RegisterLazy], such as
// "myapp.handlers.Order".
func ObjectPath() *ObjectPathField {
	return &ObjectPathField{}
}

// UsingResolver resolves paths against r instead of the default resolver.
func (f *ObjectPathField) UsingResolver(r *Resolver) *ObjectPathField {
	if r == nil {
		panic("conformity: nil resolver")
	}
	f.resolver = r
	return f
}

// ValueSchema additionally validates the resolved value against schema.
func (f *ObjectPathField) ValueSchema(schema Field) *ObjectPathField {
	if schema == nil {
		panic("conformity: nil value schema")
	}
	f.valueSchema = schema
	return f
}

// Description attaches a human-readable description.
func (f *ObjectPathField) Description(s string) *ObjectPathField {
	f.description = s
	return f
}

// Resolve resolves a path the way this field would during validation.
func (f *ObjectPathField) Resolve(path string) (any, error) {
	r := f.resolver
	if r == nil {
		r = defaultResolver
	}
	return r.Resolve(path)
}

func (f *ObjectPathField) Errors(value any) []Error {
	path, ok := value.(string)
	if !ok {
		return invalid("Not a string")
	}
	resolved, err := f.Resolve(path)
	if err != nil {
		return []Error{{
			Code:    CodeUnresolvable,
			Message: "Could not resolve path " + displayValue(path),
		}}
	}
	if f.valueSchema != nil {
		return f.valueSchema.Errors(resolved)
	}
	return nil
}

func (f *ObjectPathField) Introspect() Introspection {
	doc := Introspection{"type": "object_path"}
	if f.valueSchema != nil {
		doc["value_schema"] = f.valueSchema.Introspect()
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

// TypePathField validates a dotted path string that resolves to a
// reflect.Type value.
type TypePathField struct {
	resolver    *Resolver
	bases       []reflect.Type
	description string
}

// TypePath returns a field that accepts strings naming a registered
// reflect.Type, optionally constrained to types that are, implement, or
// are assignable to one of the given bases.
func TypePath(bases ...reflect.Type) *TypePathField {
	for _, t := range bases {
		if t == nil {
			panic("conformity: TypePath base type is nil")
		}
	}
	return &TypePathField{bases: bases}
}

// UsingResolver resolves paths against r instead of the default resolver.
func (f *TypePathField) UsingResolver(r *Resolver) *TypePathField {
	if r == nil {
		panic("conformity: nil resolver")
	}
	f.resolver = r
	return f
}

// Description attaches a human-readable description.
func (f *TypePathField) Description(s string) *TypePathField {
	f.description = s
	return f
}

// Resolve resolves a path the way this field would during validation.
func (f *TypePathField) Resolve(path string) (reflect.Type, error) {
	r := f.resolver
	if r == nil {
		r = defaultResolver
	}
	v, err := r.Resolve(path)
	if err != nil {
		return nil, err
	}
	t, ok := v.(reflect.Type)
	if !ok {
		return nil, errNotType{path: path}
	}
	return t, nil
}

func (f *TypePathField) Errors(value any) []Error {
	path, ok := value.(string)
	if !ok {
		return invalid("Not a string")
	}
	t, err := f.Resolve(path)
	if err != nil {
		if _, ok := err.(errNotType); ok {
			return invalidf("Path %s does not resolve to a type", displayValue(path))
		}
		return []Error{{
			Code:    CodeUnresolvable,
			Message: "Could not resolve path " + displayValue(path),
		}}
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

func (f *TypePathField) Introspect() Introspection {
	doc := Introspection{"type": "type_path"}
	if len(f.bases) > 0 {
		doc["base_classes"] = typeNameList(f.bases)
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	return doc
}

type errNotType struct{ path string }

func (e errNotType) Error() string {
	return "path " + displayValue(e.path) + " does not resolve to a type"
}
