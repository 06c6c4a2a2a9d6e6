package conformity

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Provider describes a configurable type: the path it is registered
// under, the Go type it constructs, the schema its constructor arguments
// must satisfy, and the factory that builds an instance from validated
// arguments. Build providers with [NewProvider] or
// [RegisterClassConfiguration] so the schema kind is checked.
type Provider struct {
	Path   string
	Type   reflect.Type
	Schema Field
	New    func(kwargs map[string]any) (any, error)
}

// NewProvider returns a provider constructing values of type T. The
// schema must be a [DictionaryField] or [SchemalessDictionaryField]; it
// panics otherwise. Register the result on a resolver to make it
// available to [ClassConfigurationSchema] fields:
//
//	r.Register(path, conformity.NewProvider[*Widget](path, schema, newWidget))
func NewProvider[T any](path string, schema Field, factory func(kwargs map[string]any) (T, error)) *Provider {
	mustValidPath(path)
	switch schema.(type) {
	case *DictionaryField, *SchemalessDictionaryField:
	default:
		panic("conformity: provider schema must be a Dictionary or SchemalessDictionary")
	}
	if factory == nil {
		panic("conformity: nil factory for path " + path)
	}
	return &Provider{
		Path:   path,
		Type:   TypeOf[T](),
		Schema: schema,
		New: func(kwargs map[string]any) (any, error) {
			return factory(kwargs)
		},
	}
}

// RegisterClassConfiguration builds a provider and registers it on the
// default resolver. Call it at type-definition time, next to the type it
// configures.
func RegisterClassConfiguration[T any](path string, schema Field, factory func(kwargs map[string]any) (T, error)) *Provider {
	p := NewProvider[T](path, schema, factory)
	Register(path, p)
	return p
}

// ClassConfiguration is the outcome of a successful [ClassConfigurationField.Extract]:
// the resolved provider plus a copy of the validated constructor arguments.
type ClassConfiguration struct {
	Path     string
	Provider *Provider
	Kwargs   map[string]any
}

// Instantiate builds an instance through the provider's factory.
func (c *ClassConfiguration) Instantiate() (any, error) {
	return c.Provider.New(c.Kwargs)
}

// ClassConfigurationField validates mappings of the form
// {"path": ..., "kwargs": {...}} where path names a registered [Provider]
// and kwargs satisfies that provider's schema.
type ClassConfigurationField struct {
	base         reflect.Type
	resolver     *Resolver
	defaultPath  string
	attachObject bool
	objectKey    string
	description  string

	mu      sync.Mutex
	visited map[string]Introspection
}

// ClassConfigurationSchema returns a field for provider configurations.
// A non-nil base constrains the providers it accepts to those whose
// constructed type is, implements, or is assignable to base.
func ClassConfigurationSchema(base reflect.Type) *ClassConfigurationField {
	return &ClassConfigurationField{
		base:         base,
		attachObject: true,
		objectKey:    "object",
		visited:      map[string]Introspection{},
	}
}

// UsingResolver resolves provider paths against r instead of the default
// resolver. Chain it before [ClassConfigurationField.DefaultPath].
func (f *ClassConfigurationField) UsingResolver(r *Resolver) *ClassConfigurationField {
	if r == nil {
		panic("conformity: nil resolver")
	}
	f.resolver = r
	return f
}

// DefaultPath sets the provider used when the input omits "path". The
// path is resolved and checked immediately so a bad default fails at
// construction; it panics when the path does not name a conforming
// provider. Use [ClassConfigurationField.LazyDefaultPath] when the
// provider is registered later.
func (f *ClassConfigurationField) DefaultPath(path string) *ClassConfigurationField {
	mustValidPath(path)
	if _, err := f.provider(path); err != nil {
		panic(fmt.Sprintf("conformity: default path %q: %v", path, err))
	}
	f.defaultPath = path
	return f
}

// LazyDefaultPath sets the default provider path without resolving it.
func (f *ClassConfigurationField) LazyDefaultPath(path string) *ClassConfigurationField {
	mustValidPath(path)
	f.defaultPath = path
	return f
}

// AttachObject controls whether validation writes the resolved provider
// into the input mapping on success. It defaults to true.
func (f *ClassConfigurationField) AttachObject(b bool) *ClassConfigurationField {
	f.attachObject = b
	return f
}

// ObjectKey renames the key the provider is attached under, "object" by
// default. It panics on "" and on the reserved keys "path" and "kwargs".
func (f *ClassConfigurationField) ObjectKey(key string) *ClassConfigurationField {
	if key == "" || key == "path" || key == "kwargs" {
		panic(fmt.Sprintf("conformity: invalid object key %q", key))
	}
	f.objectKey = key
	return f
}

// Description attaches a human-readable description.
func (f *ClassConfigurationField) Description(s string) *ClassConfigurationField {
	f.description = s
	return f
}

// Preload resolves path and records its provider so later validations and
// introspections find it warm. It errors when the path does not name a
// conforming provider.
func (f *ClassConfigurationField) Preload(path string) error {
	_, err := f.provider(path)
	return err
}

// provider resolves path to a registered Provider meeting the base
// constraint, recording its schema for introspection.
func (f *ClassConfigurationField) provider(path string) (*Provider, error) {
	r := f.resolver
	if r == nil {
		r = defaultResolver
	}
	v, err := r.Resolve(path)
	if err != nil {
		return nil, err
	}
	p, ok := v.(*Provider)
	if !ok {
		return nil, configError{fmt.Sprintf("Path %s is not registered as a class configuration provider", displayValue(path))}
	}
	if f.base != nil && !typeSatisfies(p.Type, f.base) {
		return nil, configError{fmt.Sprintf("Type %s is not assignable to %s", p.Type, f.base)}
	}
	f.mu.Lock()
	if _, seen := f.visited[path]; !seen && p.Schema != nil {
		f.visited[path] = p.Schema.Introspect()
	}
	f.mu.Unlock()
	return p, nil
}

func (f *ClassConfigurationField) Errors(value any) []Error {
	config, errs := f.extract(value)
	if len(errs) > 0 {
		return errs
	}
	if f.attachObject {
		attachToMapping(value, f.objectKey, config.Provider)
	}
	return nil
}

// Extract validates value and returns the resolved configuration without
// modifying the input, regardless of the AttachObject setting.
func (f *ClassConfigurationField) Extract(value any) (*ClassConfiguration, []Error) {
	return f.extract(value)
}

// InstantiateFrom validates value and constructs an instance through the
// resolved provider's factory. Validation failures are reported as a
// [*ValidationError].
func (f *ClassConfigurationField) InstantiateFrom(value any) (any, error) {
	config, errs := f.extract(value)
	if len(errs) > 0 {
		return nil, &ValidationError{Noun: "class configuration", Errors: errs}
	}
	return config.Instantiate()
}

func (f *ClassConfigurationField) extract(value any) (*ClassConfiguration, []Error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, invalid("Not a dictionary")
	}

	var (
		errs      []Error
		path      string
		pathSeen  bool
		kwargs    any
		hasKwargs bool
		extras    []string
	)
	for _, k := range rv.MapKeys() {
		key, ok := stringKey(k)
		if !ok {
			extras = append(extras, fmt.Sprintf("%v", k.Interface()))
			continue
		}
		switch key {
		case "path":
			pathSeen = true
			if s, ok := rv.MapIndex(k).Interface().(string); ok {
				path = s
			} else {
				errs = append(errs, Error{Code: CodeInvalid, Message: "Not a string", Pointer: "path"})
			}
		case "kwargs":
			kwargs, hasKwargs = rv.MapIndex(k).Interface(), true
		default:
			if f.attachObject && key == f.objectKey {
				continue
			}
			extras = append(extras, key)
		}
	}
	if len(extras) > 0 {
		sort.Strings(extras)
		errs = append(errs, Error{
			Code:    CodeUnknown,
			Message: "Extra keys present: " + strings.Join(extras, ", "),
		})
	}

	if !pathSeen {
		if f.defaultPath == "" {
			errs = append(errs, Error{
				Code:    CodeMissing,
				Message: "Missing key (and no default specified): path",
				Pointer: "path",
			})
		} else {
			path = f.defaultPath
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	provider, err := f.provider(path)
	if err != nil {
		var shape configError
		if errors.As(err, &shape) {
			return nil, []Error{{Code: CodeInvalid, Message: shape.message, Pointer: "path"}}
		}
		return nil, []Error{{
			Code:    CodeUnresolvable,
			Message: "Could not resolve path " + displayValue(path),
			Pointer: "path",
		}}
	}

	kw := map[string]any{}
	if hasKwargs {
		m, ok := kwargs.(map[string]any)
		if !ok {
			return nil, []Error{{Code: CodeInvalid, Message: "Not a dictionary", Pointer: "kwargs"}}
		}
		kw = m
	}
	if provider.Schema != nil {
		if kwErrs := provider.Schema.Errors(kw); len(kwErrs) > 0 {
			return nil, PrefixPointer(kwErrs, "kwargs")
		}
	}

	return &ClassConfiguration{Path: path, Provider: provider, Kwargs: maps.Clone(kw)}, nil
}

// Warnings forwards warnings from the resolved provider's schema.
func (f *ClassConfigurationField) Warnings(value any) []Warning {
	config, errs := f.extract(value)
	if len(errs) > 0 || config.Provider.Schema == nil {
		return nil
	}
	if w, ok := config.Provider.Schema.(Warner); ok {
		return PrefixWarningPointer(w.Warnings(config.Kwargs), "kwargs")
	}
	return nil
}

func (f *ClassConfigurationField) Introspect() Introspection {
	doc := Introspection{"type": "class_config_dictionary"}
	if f.base != nil {
		doc["base_class"] = f.base.String()
	}
	if f.defaultPath != "" {
		doc["default_path"] = f.defaultPath
	}
	if f.description != "" {
		doc["description"] = f.description
	}
	f.mu.Lock()
	if len(f.visited) > 0 {
		doc["kwargs_contents_map"] = maps.Clone(f.visited)
	}
	f.mu.Unlock()
	return doc
}

// configError marks provider shape and base violations, as opposed to
// paths that failed to resolve at all.
type configError struct{ message string }

func (e configError) Error() string { return e.message }

// attachToMapping best-effort writes value under key. Mappings that
// cannot hold the value, such as map[string]int, are left untouched.
func attachToMapping(mapping any, key string, value any) {
	if m, ok := mapping.(map[string]any); ok {
		m[key] = value
		return
	}
	rv := reflect.ValueOf(mapping)
	if rv.Kind() != reflect.Map || rv.IsNil() {
		return
	}
	t := rv.Type()
	if !reflect.TypeOf(key).AssignableTo(t.Key()) || !reflect.TypeOf(value).AssignableTo(t.Elem()) {
		return
	}
	rv.SetMapIndex(reflect.ValueOf(key), reflect.ValueOf(value))
}
