package conformity

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/woodsbury/decimal128"
)

// FieldBuilder rebuilds a field from its introspection document.
type FieldBuilder func(doc Introspection) (Field, error)

var fieldTypes = struct {
	mu       sync.RWMutex
	builders map[string]FieldBuilder
}{builders: map[string]FieldBuilder{}}

// RegisterFieldType binds an introspection "type" value to a builder,
// replacing any previous registration. Use it to make custom fields
// round-trip through [Reconstruct].
func RegisterFieldType(name string, builder FieldBuilder) {
	if name == "" {
		panic("conformity: empty field type name")
	}
	if builder == nil {
		panic("conformity: nil builder for field type " + name)
	}
	fieldTypes.mu.Lock()
	fieldTypes.builders[name] = builder
	fieldTypes.mu.Unlock()
}

// Reconstruct rebuilds a validator from an introspection document, the
// inverse of [Field.Introspect] for serializable field types. The
// document may be an [Introspection] or any map[string]any, such as the
// result of unmarshalling introspection JSON.
//
// Field types carrying Go functions or types (boolean_validator, ozzo,
// object_instance, type_reference, type_path, class_config_dictionary)
// cannot be rebuilt from data and return an error.
func Reconstruct(doc any) (Field, error) {
	m, err := asIntrospection(doc)
	if err != nil {
		return nil, err
	}
	name, ok := m["type"].(string)
	if !ok {
		return nil, fmt.Errorf("conformity: introspection has no %q key", "type")
	}
	fieldTypes.mu.RLock()
	builder, ok := fieldTypes.builders[name]
	fieldTypes.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("conformity: unknown field type %q", name)
	}
	field, err := builder(m)
	if err != nil {
		return nil, err
	}
	if deprecated, _ := m["deprecated"].(bool); deprecated {
		field = Deprecated(field)
	}
	return field, nil
}

func asIntrospection(v any) (Introspection, error) {
	switch m := v.(type) {
	case Introspection:
		return m, nil
	case map[string]any:
		return Introspection(m), nil
	}
	return nil, fmt.Errorf("conformity: introspection must be a mapping, got %T", v)
}

// decodeDoc fills out from doc, coercing JSON's float64 numbers and
// parsing RFC 3339 timestamps, Go durations, and decimal strings.
func decodeDoc(doc Introspection, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.StringToTimeDurationHookFunc(),
			stringToDecimalHook,
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(doc))
}

var decimalType = reflect.TypeOf(decimal128.Decimal{})

func stringToDecimalHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != decimalType {
		return data, nil
	}
	return decimal128.Parse(data.(string))
}

func reconstructChild(doc Introspection, key string) (Field, error) {
	child, ok := doc[key]
	if !ok {
		return nil, fmt.Errorf("conformity: %s introspection has no %q key", doc["type"], key)
	}
	return Reconstruct(child)
}

type lengthOpts struct {
	MinLength   *int   `mapstructure:"min_length"`
	MaxLength   *int   `mapstructure:"max_length"`
	Description string `mapstructure:"description"`
}

// check rejects bounds the length setters would panic on.
func (o lengthOpts) check() error {
	if o.MinLength != nil && *o.MinLength < 0 {
		return fmt.Errorf("conformity: negative min_length %d", *o.MinLength)
	}
	if o.MaxLength != nil && *o.MaxLength < 0 {
		return fmt.Errorf("conformity: negative max_length %d", *o.MaxLength)
	}
	if o.MinLength != nil && o.MaxLength != nil && *o.MinLength > *o.MaxLength {
		return fmt.Errorf("conformity: min_length %d exceeds max_length %d", *o.MinLength, *o.MaxLength)
	}
	return nil
}

type boundOpts[T any] struct {
	Gt          *T     `mapstructure:"gt"`
	Gte         *T     `mapstructure:"gte"`
	Lt          *T     `mapstructure:"lt"`
	Lte         *T     `mapstructure:"lte"`
	Description string `mapstructure:"description"`
}

func docDescription(doc Introspection) string {
	s, _ := doc["description"].(string)
	return s
}

func init() {
	RegisterFieldType("boolean", func(doc Introspection) (Field, error) {
		f := Boolean()
		if desc := docDescription(doc); desc != "" {
			f.Description(desc)
		}
		return f, nil
	})
	RegisterFieldType("anything", func(doc Introspection) (Field, error) {
		f := Anything()
		if desc := docDescription(doc); desc != "" {
			f.Description(desc)
		}
		return f, nil
	})
	RegisterFieldType("hashable", func(doc Introspection) (Field, error) {
		f := Hashable()
		if desc := docDescription(doc); desc != "" {
			f.Description(desc)
		}
		return f, nil
	})
	RegisterFieldType("null", func(doc Introspection) (Field, error) {
		f := Null()
		if desc := docDescription(doc); desc != "" {
			f.Description(desc)
		}
		return f, nil
	})
	RegisterFieldType("tzinfo", func(doc Introspection) (Field, error) {
		f := Location()
		if desc := docDescription(doc); desc != "" {
			f.Description(desc)
		}
		return f, nil
	})
	RegisterFieldType("integer", reconstructInteger)
	RegisterFieldType("float", reconstructFloat)
	RegisterFieldType("decimal", reconstructDecimal)
	RegisterFieldType("unicode_decimal", reconstructUnicodeDecimal)
	RegisterFieldType("unicode", reconstructString)
	RegisterFieldType("bytes", reconstructBytes)
	RegisterFieldType("datetime", reconstructDateTime)
	RegisterFieldType("timedelta", reconstructDuration)
	RegisterFieldType("constant", reconstructConstant)
	RegisterFieldType("nullable", reconstructNullable)
	RegisterFieldType("list", reconstructList)
	RegisterFieldType("set", reconstructSet)
	RegisterFieldType("tuple", reconstructTuple)
	RegisterFieldType("dictionary", reconstructDictionary)
	RegisterFieldType("schemaless_dictionary", reconstructSchemaless)
	RegisterFieldType("polymorph", reconstructPolymorph)
	RegisterFieldType("any", reconstructAny)
	RegisterFieldType("all", reconstructAll)
	RegisterFieldType("email_address", reconstructEmail)
	RegisterFieldType("ipv4_address", func(doc Introspection) (Field, error) {
		f := IPv4Address()
		if desc := docDescription(doc); desc != "" {
			f.Description(desc)
		}
		return f, nil
	})
	RegisterFieldType("ipv6_address", func(doc Introspection) (Field, error) {
		f := IPv6Address()
		if desc := docDescription(doc); desc != "" {
			f.Description(desc)
		}
		return f, nil
	})
	RegisterFieldType("ip_address", func(doc Introspection) (Field, error) {
		f := IPAddress()
		if desc := docDescription(doc); desc != "" {
			f.Description(desc)
		}
		return f, nil
	})
	RegisterFieldType("object_path", reconstructObjectPath)

	for _, name := range []string{
		"boolean_validator", "ozzo", "object_instance",
		"type_reference", "type_path", "class_config_dictionary",
	} {
		RegisterFieldType(name, func(Introspection) (Field, error) {
			return nil, fmt.Errorf("conformity: field type %q cannot be reconstructed from introspection", name)
		})
	}
}

func reconstructInteger(doc Introspection) (Field, error) {
	var opts boundOpts[int64]
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	f := Integer()
	if opts.Gt != nil {
		f.Gt(*opts.Gt)
	}
	if opts.Gte != nil {
		f.Gte(*opts.Gte)
	}
	if opts.Lt != nil {
		f.Lt(*opts.Lt)
	}
	if opts.Lte != nil {
		f.Lte(*opts.Lte)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructFloat(doc Introspection) (Field, error) {
	var opts boundOpts[float64]
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	f := Float()
	if opts.Gt != nil {
		f.Gt(*opts.Gt)
	}
	if opts.Gte != nil {
		f.Gte(*opts.Gte)
	}
	if opts.Lt != nil {
		f.Lt(*opts.Lt)
	}
	if opts.Lte != nil {
		f.Lte(*opts.Lte)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructDecimal(doc Introspection) (Field, error) {
	var opts boundOpts[decimal128.Decimal]
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	f := Decimal()
	if opts.Gt != nil {
		f.Gt(*opts.Gt)
	}
	if opts.Gte != nil {
		f.Gte(*opts.Gte)
	}
	if opts.Lt != nil {
		f.Lt(*opts.Lt)
	}
	if opts.Lte != nil {
		f.Lte(*opts.Lte)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructUnicodeDecimal(doc Introspection) (Field, error) {
	var opts boundOpts[decimal128.Decimal]
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	f := UnicodeDecimal()
	if opts.Gt != nil {
		f.Gt(*opts.Gt)
	}
	if opts.Gte != nil {
		f.Gte(*opts.Gte)
	}
	if opts.Lt != nil {
		f.Lt(*opts.Lt)
	}
	if opts.Lte != nil {
		f.Lte(*opts.Lte)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructDateTime(doc Introspection) (Field, error) {
	var opts boundOpts[time.Time]
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	f := DateTime()
	if opts.Gt != nil {
		f.Gt(*opts.Gt)
	}
	if opts.Gte != nil {
		f.Gte(*opts.Gte)
	}
	if opts.Lt != nil {
		f.Lt(*opts.Lt)
	}
	if opts.Lte != nil {
		f.Lte(*opts.Lte)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructDuration(doc Introspection) (Field, error) {
	var opts boundOpts[time.Duration]
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	f := Duration()
	if opts.Gt != nil {
		f.Gt(*opts.Gt)
	}
	if opts.Gte != nil {
		f.Gte(*opts.Gte)
	}
	if opts.Lt != nil {
		f.Lt(*opts.Lt)
	}
	if opts.Lte != nil {
		f.Lte(*opts.Lte)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructString(doc Introspection) (Field, error) {
	var opts struct {
		lengthOpts `mapstructure:",squash"`
		AllowBlank *bool `mapstructure:"allow_blank"`
	}
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	if err := opts.check(); err != nil {
		return nil, err
	}
	f := String()
	if opts.MinLength != nil {
		f.MinLength(*opts.MinLength)
	}
	if opts.MaxLength != nil {
		f.MaxLength(*opts.MaxLength)
	}
	if opts.AllowBlank != nil && !*opts.AllowBlank {
		f.NotBlank()
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructBytes(doc Introspection) (Field, error) {
	var opts lengthOpts
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	if err := opts.check(); err != nil {
		return nil, err
	}
	f := Bytes()
	if opts.MinLength != nil {
		f.MinLength(*opts.MinLength)
	}
	if opts.MaxLength != nil {
		f.MaxLength(*opts.MaxLength)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructConstant(doc Introspection) (Field, error) {
	values, ok := doc["values"].([]any)
	if !ok || len(values) == 0 {
		return nil, fmt.Errorf("conformity: constant introspection has no values")
	}
	for _, v := range values {
		if !isHashable(v) {
			return nil, fmt.Errorf("conformity: constant value %v is not hashable", v)
		}
	}
	f := Constant(values...)
	if desc := docDescription(doc); desc != "" {
		f.Description(desc)
	}
	return f, nil
}

func reconstructNullable(doc Introspection) (Field, error) {
	inner, err := reconstructChild(doc, "nullable")
	if err != nil {
		return nil, err
	}
	return Nullable(inner), nil
}

func reconstructList(doc Introspection) (Field, error) {
	contents, err := reconstructChild(doc, "contents")
	if err != nil {
		return nil, err
	}
	var opts lengthOpts
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	if err := opts.check(); err != nil {
		return nil, err
	}
	f := List(contents)
	if opts.MinLength != nil {
		f.MinLength(*opts.MinLength)
	}
	if opts.MaxLength != nil {
		f.MaxLength(*opts.MaxLength)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructSet(doc Introspection) (Field, error) {
	contents, err := reconstructChild(doc, "contents")
	if err != nil {
		return nil, err
	}
	var opts lengthOpts
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	if err := opts.check(); err != nil {
		return nil, err
	}
	f := Set(contents)
	if opts.MinLength != nil {
		f.MinLength(*opts.MinLength)
	}
	if opts.MaxLength != nil {
		f.MaxLength(*opts.MaxLength)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructTuple(doc Introspection) (Field, error) {
	raw, ok := doc["contents"].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("conformity: tuple introspection has no contents")
	}
	contents := make([]Field, len(raw))
	for i, child := range raw {
		f, err := Reconstruct(child)
		if err != nil {
			return nil, err
		}
		contents[i] = f
	}
	f := Tuple(contents...)
	if desc := docDescription(doc); desc != "" {
		f.Description(desc)
	}
	return f, nil
}

func reconstructDictionary(doc Introspection) (Field, error) {
	contents, err := asIntrospection(doc["contents"])
	if err != nil {
		return nil, fmt.Errorf("conformity: dictionary introspection contents: %w", err)
	}
	var opts struct {
		AllowExtraKeys bool     `mapstructure:"allow_extra_keys"`
		DisplayOrder   []string `mapstructure:"display_order"`
		OptionalKeys   []string `mapstructure:"optional_keys"`
		Description    string   `mapstructure:"description"`
	}
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(contents))
	seen := map[string]bool{}
	for _, name := range opts.DisplayOrder {
		child, ok := contents[name]
		if !ok {
			continue
		}
		f, err := Reconstruct(child)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Key(name, f))
		seen[name] = true
	}
	// Keys outside display_order still get rebuilt, in sorted order.
	for _, name := range sortedStringKeys(contents) {
		if seen[name] {
			continue
		}
		f, err := Reconstruct(contents[name])
		if err != nil {
			return nil, err
		}
		entries = append(entries, Key(name, f))
	}
	d := Dictionary(entries...)
	if opts.AllowExtraKeys {
		d.AllowExtra()
	}
	if len(opts.OptionalKeys) > 0 {
		d.Optional(opts.OptionalKeys...)
	}
	if opts.Description != "" {
		d.Description(opts.Description)
	}
	return d, nil
}

func reconstructSchemaless(doc Introspection) (Field, error) {
	f := SchemalessDictionary()
	if _, ok := doc["key_type"]; ok {
		key, err := reconstructChild(doc, "key_type")
		if err != nil {
			return nil, err
		}
		f.KeyField(key)
	}
	if _, ok := doc["value_type"]; ok {
		value, err := reconstructChild(doc, "value_type")
		if err != nil {
			return nil, err
		}
		f.ValueField(value)
	}
	var opts lengthOpts
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	if err := opts.check(); err != nil {
		return nil, err
	}
	if opts.MinLength != nil {
		f.MinLength(*opts.MinLength)
	}
	if opts.MaxLength != nil {
		f.MaxLength(*opts.MaxLength)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructPolymorph(doc Introspection) (Field, error) {
	switchField, ok := doc["switch_field"].(string)
	if !ok || switchField == "" {
		return nil, fmt.Errorf("conformity: polymorph introspection has no switch_field")
	}
	contents, err := asIntrospection(doc["contents_map"])
	if err != nil {
		return nil, fmt.Errorf("conformity: polymorph introspection contents_map: %w", err)
	}
	contentsMap := make(map[any]Field, len(contents))
	for key, child := range contents {
		f, err := Reconstruct(child)
		if err != nil {
			return nil, err
		}
		contentsMap[key] = f
	}
	f := Polymorph(switchField, contentsMap)
	if desc := docDescription(doc); desc != "" {
		f.Description(desc)
	}
	return f, nil
}

func reconstructAny(doc Introspection) (Field, error) {
	raw, ok := doc["options"].([]any)
	if !ok {
		return nil, fmt.Errorf("conformity: any introspection has no options")
	}
	options := make([]Field, len(raw))
	for i, child := range raw {
		f, err := Reconstruct(child)
		if err != nil {
			return nil, err
		}
		options[i] = f
	}
	f := Any(options...)
	if desc := docDescription(doc); desc != "" {
		f.Description(desc)
	}
	return f, nil
}

func reconstructAll(doc Introspection) (Field, error) {
	raw, ok := doc["requirements"].([]any)
	if !ok {
		return nil, fmt.Errorf("conformity: all introspection has no requirements")
	}
	requirements := make([]Field, len(raw))
	for i, child := range raw {
		f, err := Reconstruct(child)
		if err != nil {
			return nil, err
		}
		requirements[i] = f
	}
	f := All(requirements...)
	if desc := docDescription(doc); desc != "" {
		f.Description(desc)
	}
	return f, nil
}

func reconstructEmail(doc Introspection) (Field, error) {
	var opts struct {
		AllowedDomains []string `mapstructure:"allowed_domains"`
		Description    string   `mapstructure:"description"`
	}
	if err := decodeDoc(doc, &opts); err != nil {
		return nil, err
	}
	f := EmailAddress()
	if len(opts.AllowedDomains) > 0 {
		f.AllowDomains(opts.AllowedDomains...)
	}
	if opts.Description != "" {
		f.Description(opts.Description)
	}
	return f, nil
}

func reconstructObjectPath(doc Introspection) (Field, error) {
	f := ObjectPath()
	if _, ok := doc["value_schema"]; ok {
		schema, err := reconstructChild(doc, "value_schema")
		if err != nil {
			return nil, err
		}
		f.ValueSchema(schema)
	}
	if desc := docDescription(doc); desc != "" {
		f.Description(desc)
	}
	return f, nil
}

func sortedStringKeys(m Introspection) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
