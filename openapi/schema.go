package openapi

import (
	"errors"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/eventbrite/conformity"
)

// SchemaRef generates an OpenAPI schema for the given field from its
// introspection document.
func SchemaRef(field conformity.Field) (*openapi3.SchemaRef, error) {
	if field == nil {
		return nil, errors.New("no field given")
	}
	return SchemaRefForIntrospection(field.Introspect()), nil
}

// SchemaRefForIntrospection maps an introspection document onto an
// OpenAPI schema. Introspection types without an OpenAPI counterpart,
// including any custom types, degrade to an empty permissive schema.
func SchemaRefForIntrospection(doc conformity.Introspection) *openapi3.SchemaRef {
	s := schemaFor(doc)
	if desc, ok := doc["description"].(string); ok && desc != "" {
		s.Description = desc
	}
	if deprecated, _ := doc["deprecated"].(bool); deprecated {
		s.Deprecated = true
	}
	return &openapi3.SchemaRef{Value: s}
}

func schemaFor(doc conformity.Introspection) *openapi3.Schema {
	switch doc.Type() {
	case "boolean":
		return openapi3.NewBoolSchema()
	case "integer":
		s := openapi3.NewIntegerSchema()
		applyNumericBounds(s, doc)
		return s
	case "float":
		s := openapi3.NewFloat64Schema()
		applyNumericBounds(s, doc)
		return s
	case "decimal":
		s := openapi3.NewFloat64Schema()
		s.Format = "decimal"
		return s
	case "unicode_decimal":
		s := openapi3.NewStringSchema()
		s.Format = "decimal"
		return s
	case "unicode":
		s := openapi3.NewStringSchema()
		if n, ok := docUint(doc["min_length"]); ok {
			s.MinLength = n
		}
		if n, ok := docUint(doc["max_length"]); ok {
			s.MaxLength = &n
		}
		if blank, ok := doc["allow_blank"].(bool); ok && !blank && s.MinLength == 0 {
			s.MinLength = 1
		}
		return s
	case "bytes":
		s := openapi3.NewStringSchema()
		s.Format = "byte"
		if n, ok := docUint(doc["min_length"]); ok {
			s.MinLength = n
		}
		if n, ok := docUint(doc["max_length"]); ok {
			s.MaxLength = &n
		}
		return s
	case "datetime":
		s := openapi3.NewStringSchema()
		s.Format = "date-time"
		return s
	case "timedelta":
		s := openapi3.NewStringSchema()
		s.Format = "duration"
		return s
	case "constant":
		s := openapi3.NewSchema()
		values, _ := doc["values"].([]any)
		s.Enum = values
		if allStrings(values) {
			s.Type = &openapi3.Types{openapi3.TypeString}
		}
		return s
	case "null":
		s := openapi3.NewSchema()
		s.Nullable = true
		return s
	case "nullable":
		inner, err := asIntrospection(doc["nullable"])
		if err != nil {
			return openapi3.NewSchema()
		}
		s := schemaFor(inner)
		s.Nullable = true
		return s
	case "list", "set":
		s := openapi3.NewArraySchema()
		if inner, err := asIntrospection(doc["contents"]); err == nil {
			s.Items = SchemaRefForIntrospection(inner)
		}
		if n, ok := docUint(doc["min_length"]); ok {
			s.MinItems = n
		}
		if n, ok := docUint(doc["max_length"]); ok {
			s.MaxItems = &n
		}
		if doc.Type() == "set" {
			s.UniqueItems = true
		}
		return s
	case "tuple":
		s := openapi3.NewArraySchema()
		contents, _ := doc["contents"].([]any)
		n := uint64(len(contents))
		s.MinItems = n
		s.MaxItems = &n
		refs := childRefs(contents)
		if len(refs) == 1 {
			s.Items = refs[0]
		} else if len(refs) > 1 {
			s.Items = &openapi3.SchemaRef{Value: &openapi3.Schema{AnyOf: refs}}
		}
		return s
	case "dictionary":
		s := openapi3.NewObjectSchema()
		contents, err := asIntrospection(doc["contents"])
		if err != nil {
			return s
		}
		order := displayOrder(doc, contents)
		optional := stringSet(doc["optional_keys"])
		s.Properties = openapi3.Schemas{}
		for _, name := range order {
			child, err := asIntrospection(contents[name])
			if err != nil {
				continue
			}
			s.Properties[name] = SchemaRefForIntrospection(child)
			if !optional[name] {
				s.Required = append(s.Required, name)
			}
		}
		if allow, ok := doc["allow_extra_keys"].(bool); ok {
			has := allow
			s.AdditionalProperties = openapi3.AdditionalProperties{Has: &has}
		}
		return s
	case "schemaless_dictionary":
		s := openapi3.NewObjectSchema()
		if inner, err := asIntrospection(doc["value_type"]); err == nil {
			s.AdditionalProperties = openapi3.AdditionalProperties{
				Schema: SchemaRefForIntrospection(inner),
			}
		}
		return s
	case "polymorph":
		s := openapi3.NewSchema()
		contents, err := asIntrospection(doc["contents_map"])
		if err != nil {
			return s
		}
		keys := make([]string, 0, len(contents))
		for key := range contents {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			child, err := asIntrospection(contents[key])
			if err != nil {
				continue
			}
			s.OneOf = append(s.OneOf, SchemaRefForIntrospection(child))
		}
		if switchField, ok := doc["switch_field"].(string); ok {
			s.Discriminator = &openapi3.Discriminator{PropertyName: switchField}
		}
		return s
	case "any":
		s := openapi3.NewSchema()
		options, _ := doc["options"].([]any)
		s.AnyOf = childRefs(options)
		return s
	case "all":
		s := openapi3.NewSchema()
		requirements, _ := doc["requirements"].([]any)
		s.AllOf = childRefs(requirements)
		return s
	case "email_address":
		s := openapi3.NewStringSchema()
		s.Format = "email"
		return s
	case "ipv4_address":
		s := openapi3.NewStringSchema()
		s.Format = "ipv4"
		return s
	case "ipv6_address":
		s := openapi3.NewStringSchema()
		s.Format = "ipv6"
		return s
	case "ip_address":
		v4 := openapi3.NewStringSchema()
		v4.Format = "ipv4"
		v6 := openapi3.NewStringSchema()
		v6.Format = "ipv6"
		s := openapi3.NewSchema()
		s.AnyOf = openapi3.SchemaRefs{
			{Value: v4},
			{Value: v6},
		}
		return s
	case "object_path", "type_path":
		return openapi3.NewStringSchema()
	default:
		return openapi3.NewSchema()
	}
}

func applyNumericBounds(s *openapi3.Schema, doc conformity.Introspection) {
	if v, ok := docFloat(doc["gte"]); ok {
		s.Min = &v
	}
	if v, ok := docFloat(doc["gt"]); ok {
		s.Min = &v
		s.ExclusiveMin = true
	}
	if v, ok := docFloat(doc["lte"]); ok {
		s.Max = &v
	}
	if v, ok := docFloat(doc["lt"]); ok {
		s.Max = &v
		s.ExclusiveMax = true
	}
}

func childRefs(children []any) openapi3.SchemaRefs {
	var refs openapi3.SchemaRefs
	for _, child := range children {
		inner, err := asIntrospection(child)
		if err != nil {
			continue
		}
		refs = append(refs, SchemaRefForIntrospection(inner))
	}
	return refs
}

// displayOrder returns the declared key order, falling back to sorted
// keys for documents without one.
func displayOrder(doc, contents conformity.Introspection) []string {
	var order []string
	seen := map[string]bool{}
	if declared, ok := doc["display_order"].([]any); ok {
		for _, item := range declared {
			if name, ok := item.(string); ok {
				if _, known := contents[name]; known {
					order = append(order, name)
					seen[name] = true
				}
			}
		}
	} else if declared, ok := doc["display_order"].([]string); ok {
		for _, name := range declared {
			if _, known := contents[name]; known {
				order = append(order, name)
				seen[name] = true
			}
		}
	}
	rest := make([]string, 0, len(contents))
	for name := range contents {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func stringSet(v any) map[string]bool {
	set := map[string]bool{}
	switch items := v.(type) {
	case []any:
		for _, item := range items {
			if s, ok := item.(string); ok {
				set[s] = true
			}
		}
	case []string:
		for _, s := range items {
			set[s] = true
		}
	}
	return set
}

func asIntrospection(v any) (conformity.Introspection, error) {
	switch m := v.(type) {
	case conformity.Introspection:
		return m, nil
	case map[string]any:
		return conformity.Introspection(m), nil
	}
	return nil, errors.New("not an introspection mapping")
}

func docFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func docUint(v any) (uint64, bool) {
	switch v := v.(type) {
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		if v >= 0 {
			return uint64(v), true
		}
	}
	return 0, false
}

func allStrings(values []any) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}
