package conformity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woodsbury/decimal128"

	c "github.com/eventbrite/conformity"
)

// ============ Test helpers ============

// reconstructed round-trips a field through introspection JSON, the way
// a schema crosses a service boundary.
func reconstructed(t *testing.T, f c.Field) c.Field {
	t.Helper()
	raw, err := json.Marshal(f.Introspect())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	rebuilt, err := c.Reconstruct(doc)
	require.NoError(t, err)
	return rebuilt
}

// assertSameVerdicts checks that original and rebuilt agree, error for
// error, on every probe value.
func assertSameVerdicts(t *testing.T, original, rebuilt c.Field, probes ...any) {
	t.Helper()
	for _, probe := range probes {
		assert.Equal(t, original.Errors(probe), rebuilt.Errors(probe), "probe %v", probe)
	}
}

// ============ Tests ============

// --- Scalars ---

func TestReconstruct_Integer(t *testing.T) {
	original := c.Integer().Gt(0).Lte(100).Description("a count")
	rebuilt := reconstructed(t, original)

	assertSameVerdicts(t, original, rebuilt, 50, 0, 101, "nope")
	assert.Equal(t, original.Introspect(), rebuilt.Introspect())
}

func TestReconstruct_Float(t *testing.T) {
	original := c.Float().Gte(0.5).Lt(2.5)
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt, 1.0, 0.25, 2.5, true)
}

func TestReconstruct_String(t *testing.T) {
	original := c.String().MinLength(2).MaxLength(5).NotBlank().Description("a code")
	rebuilt := reconstructed(t, original)

	assertSameVerdicts(t, original, rebuilt, "ok", "x", "toolong", "   ", 7)
	assert.Equal(t, original.Introspect(), rebuilt.Introspect())
}

func TestReconstruct_SimpleTypes(t *testing.T) {
	for _, f := range []c.Field{
		c.Boolean(),
		c.Anything(),
		c.Hashable(),
		c.Null(),
		c.Location(),
		c.Bytes().MinLength(1),
		c.IPv4Address(),
		c.IPv6Address(),
		c.IPAddress(),
	} {
		rebuilt := reconstructed(t, f)
		assert.Equal(t, f.Introspect(), rebuilt.Introspect())
	}
}

func TestReconstruct_Decimal(t *testing.T) {
	original := c.Decimal().Gte(decimal128.MustParse("0.01"))
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt,
		decimal128.MustParse("1.50"),
		decimal128.MustParse("0.001"),
		"not a decimal")
}

func TestReconstruct_UnicodeDecimal(t *testing.T) {
	original := c.UnicodeDecimal().Lt(decimal128.MustParse("10"))
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt, "9.99", "10.01", "junk", 5)
}

func TestReconstruct_DateTime(t *testing.T) {
	original := c.DateTime().Gte(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt,
		time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2019, 12, 31, 23, 59, 59, 0, time.UTC),
		"not a time")
}

func TestReconstruct_Duration(t *testing.T) {
	original := c.Duration().Gt(30 * time.Second).Lte(time.Hour)
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt,
		time.Minute, 30*time.Second, 2*time.Hour, "90s")
}

func TestReconstruct_Constant(t *testing.T) {
	original := c.Constant("red", "green", "blue")
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt, "red", "magenta", 3)
}

// --- Structures ---

func TestReconstruct_List(t *testing.T) {
	original := c.List(c.Integer().Gte(0)).MinLength(1).MaxLength(3)
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt,
		[]any{1, 2},
		[]any{},
		[]any{1, 2, 3, 4},
		[]any{-1},
		"nope")
}

func TestReconstruct_Set(t *testing.T) {
	original := c.Set(c.String()).MinLength(1)
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt,
		map[string]struct{}{"a": {}},
		map[string]struct{}{},
		[]string{"a"})
}

func TestReconstruct_Tuple(t *testing.T) {
	original := c.Tuple(c.String(), c.Integer())
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt,
		[]any{"a", 1},
		[]any{"a"},
		[]any{1, "a"},
		"nope")
}

func TestReconstruct_Nullable(t *testing.T) {
	original := c.Nullable(c.String())
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt, nil, "ok", 5)
}

func TestReconstruct_Dictionary(t *testing.T) {
	original := orderSchema().AllowExtra().Description("an order")
	rebuilt := reconstructed(t, original)

	assertSameVerdicts(t, original, rebuilt,
		validOrder(),
		map[string]any{"quantity": 0},
		map[string]any{"name": "x", "quantity": 1, "tags": []any{7}},
		"nope")

	// Declared key order survives the round trip.
	assert.Equal(t, original.Introspect(), rebuilt.Introspect())
}

func TestReconstruct_SchemalessDictionary(t *testing.T) {
	original := c.SchemalessDictionary().
		KeyField(c.String()).
		ValueField(c.Integer()).
		MaxLength(2)
	rebuilt := reconstructed(t, original)

	assertSameVerdicts(t, original, rebuilt,
		map[string]any{"a": 1},
		map[string]any{"a": "one"},
		map[string]any{"a": 1, "b": 2, "c": 3},
		"nope")
}

func TestReconstruct_Polymorph(t *testing.T) {
	original := polymorphSchema()
	rebuilt := reconstructed(t, original)

	assertSameVerdicts(t, original, rebuilt,
		map[string]any{"shape": "circle", "radius": 2.0},
		map[string]any{"shape": "circle", "radius": -1.0},
		map[string]any{"shape": "triangle"},
		map[string]any{})
}

func TestReconstruct_AnyAll(t *testing.T) {
	anyField := c.Any(c.Integer(), c.String())
	rebuiltAny := reconstructed(t, anyField)
	assertSameVerdicts(t, anyField, rebuiltAny, 5, "five", true)

	allField := c.All(c.String().MinLength(3), c.String().MaxLength(5))
	rebuiltAll := reconstructed(t, allField)
	assertSameVerdicts(t, allField, rebuiltAll, "abcd", "ab", "abcdef")
}

func TestReconstruct_EmailAddress(t *testing.T) {
	original := c.EmailAddress().AllowDomains("internal")
	rebuilt := reconstructed(t, original)
	assertSameVerdicts(t, original, rebuilt,
		"user@example.com", "svc@internal", "user@", 9)
}

func TestReconstruct_ObjectPath(t *testing.T) {
	original := c.ObjectPath().ValueSchema(c.Integer())
	rebuilt := reconstructed(t, original)
	assert.Equal(t, original.Introspect(), rebuilt.Introspect())
}

// --- Deprecation ---

func TestReconstruct_DeprecatedWrap(t *testing.T) {
	rebuilt := reconstructed(t, c.Deprecated(c.Integer()))

	assert.Empty(t, rebuilt.Errors(5))
	assert.NotEmpty(t, rebuilt.Errors("five"))

	warner, ok := rebuilt.(c.Warner)
	require.True(t, ok)
	warnings := warner.Warnings(5)
	require.Len(t, warnings, 1)
	assert.Equal(t, c.WarningCodeFieldDeprecated, warnings[0].Code)
}

// --- Failure modes ---

func TestReconstruct_RejectsNonMappings(t *testing.T) {
	_, err := c.Reconstruct("integer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a mapping")
}

func TestReconstruct_RejectsMissingType(t *testing.T) {
	_, err := c.Reconstruct(map[string]any{"description": "no type"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no "type" key`)
}

func TestReconstruct_RejectsUnknownType(t *testing.T) {
	_, err := c.Reconstruct(map[string]any{"type": "no_such_field"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field type "no_such_field"`)
}

func TestReconstruct_RejectsCodeBackedTypes(t *testing.T) {
	for _, name := range []string{
		"boolean_validator", "ozzo", "object_instance",
		"type_reference", "type_path", "class_config_dictionary",
	} {
		_, err := c.Reconstruct(map[string]any{"type": name})
		require.Error(t, err, "type %s", name)
		assert.Contains(t, err.Error(), "cannot be reconstructed")
	}
}

func TestReconstruct_RejectsMalformedChildren(t *testing.T) {
	_, err := c.Reconstruct(map[string]any{"type": "list"})
	assert.Error(t, err)

	_, err = c.Reconstruct(map[string]any{
		"type":     "list",
		"contents": map[string]any{"type": "no_such_field"},
	})
	assert.Error(t, err)

	_, err = c.Reconstruct(map[string]any{"type": "constant", "values": []any{}})
	assert.Error(t, err)

	_, err = c.Reconstruct(map[string]any{"type": "constant", "values": []any{[]any{1}}})
	assert.Error(t, err)

	_, err = c.Reconstruct(map[string]any{"type": "tuple", "contents": []any{}})
	assert.Error(t, err)

	_, err = c.Reconstruct(map[string]any{
		"type":         "polymorph",
		"switch_field": "",
		"contents_map": map[string]any{},
	})
	assert.Error(t, err)

	_, err = c.Reconstruct(map[string]any{"type": "unicode", "min_length": 5, "max_length": 3})
	assert.Error(t, err)
}

// --- Custom field types ---

type evenField struct{}

func (evenField) Errors(value any) []c.Error {
	if n, ok := value.(int); !ok || n%2 != 0 {
		return []c.Error{{Code: c.CodeInvalid, Message: "Not an even integer"}}
	}
	return nil
}

func (evenField) Introspect() c.Introspection {
	return c.Introspection{"type": "even"}
}

func TestRegisterFieldType_CustomRoundTrip(t *testing.T) {
	c.RegisterFieldType("even", func(doc c.Introspection) (c.Field, error) {
		return evenField{}, nil
	})

	rebuilt := reconstructed(t, evenField{})
	assert.Empty(t, rebuilt.Errors(4))
	assert.NotEmpty(t, rebuilt.Errors(3))
}

func TestRegisterFieldType_Panics(t *testing.T) {
	assert.Panics(t, func() { c.RegisterFieldType("", func(c.Introspection) (c.Field, error) { return nil, nil }) })
	assert.Panics(t, func() { c.RegisterFieldType("even", nil) })
}
