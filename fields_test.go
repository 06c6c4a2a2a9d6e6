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

// ============ Tests ============

// --- Boolean ---

func TestBoolean_Valid(t *testing.T) {
	assert.Empty(t, c.Boolean().Errors(true))
	assert.Empty(t, c.Boolean().Errors(false))
}

func TestBoolean_Invalid(t *testing.T) {
	errs := c.Boolean().Errors("true")
	require.Len(t, errs, 1)
	assert.Equal(t, c.CodeInvalid, errs[0].Code)
	assert.Equal(t, "Not a boolean", errs[0].Message)

	assert.NotEmpty(t, c.Boolean().Errors(1))
	assert.NotEmpty(t, c.Boolean().Errors(nil))
}

// --- Integer ---

func TestInteger_AcceptsIntegralKinds(t *testing.T) {
	f := c.Integer()
	assert.Empty(t, f.Errors(5))
	assert.Empty(t, f.Errors(int64(-3)))
	assert.Empty(t, f.Errors(uint8(200)))
	assert.Empty(t, f.Errors(5.0))
	assert.Empty(t, f.Errors(json.Number("42")))
}

func TestInteger_RejectsNonIntegral(t *testing.T) {
	f := c.Integer()
	for _, candidate := range []any{"5", 5.5, true, nil, []int{1}} {
		errs := f.Errors(candidate)
		require.Len(t, errs, 1, "candidate %v", candidate)
		assert.Equal(t, "Not an integer", errs[0].Message)
	}
}

func TestInteger_RejectsUint64Overflow(t *testing.T) {
	errs := c.Integer().Errors(uint64(1) << 63)
	require.Len(t, errs, 1)
	assert.Equal(t, "Not an integer", errs[0].Message)
}

func TestInteger_Bounds(t *testing.T) {
	f := c.Integer().Gt(0).Lt(10)
	assert.Empty(t, f.Errors(5))

	errs := f.Errors(0)
	require.Len(t, errs, 1)
	assert.Equal(t, c.CodeInvalid, errs[0].Code)
	assert.Equal(t, "Value not > 0", errs[0].Message)

	errs = f.Errors(10)
	require.Len(t, errs, 1)
	assert.Equal(t, "Value not < 10", errs[0].Message)
}

func TestInteger_InclusiveBounds(t *testing.T) {
	f := c.Integer().Gte(1).Lte(3)
	assert.Empty(t, f.Errors(1))
	assert.Empty(t, f.Errors(3))
	assert.Equal(t, "Value not >= 1", f.Errors(0)[0].Message)
	assert.Equal(t, "Value not <= 3", f.Errors(4)[0].Message)
}

func TestInteger_Introspect(t *testing.T) {
	doc := c.Integer().Gt(0).Lte(10).Description("an amount").Introspect()
	assert.Equal(t, "integer", doc.Type())
	assert.Equal(t, int64(0), doc["gt"])
	assert.Equal(t, int64(10), doc["lte"])
	assert.Equal(t, "an amount", doc["description"])
	assert.NotContains(t, doc, "gte")
	assert.NotContains(t, doc, "lt")
}

// --- Float ---

func TestFloat_Valid(t *testing.T) {
	f := c.Float()
	assert.Empty(t, f.Errors(3.14))
	assert.Empty(t, f.Errors(3))
	assert.Empty(t, f.Errors(json.Number("2.5")))
}

func TestFloat_Invalid(t *testing.T) {
	errs := c.Float().Errors("3.14")
	require.Len(t, errs, 1)
	assert.Equal(t, "Not a float", errs[0].Message)
}

func TestFloat_Bounds(t *testing.T) {
	f := c.Float().Gte(0.5).Lt(2.5)
	assert.Empty(t, f.Errors(0.5))
	assert.Equal(t, "Value not >= 0.5", f.Errors(0.25)[0].Message)
	assert.Equal(t, "Value not < 2.5", f.Errors(2.5)[0].Message)
}

// --- Decimal ---

func TestDecimal_Valid(t *testing.T) {
	f := c.Decimal()
	assert.Empty(t, f.Errors(decimal128.MustParse("12.50")))
}

func TestDecimal_Invalid(t *testing.T) {
	errs := c.Decimal().Errors(12.50)
	require.Len(t, errs, 1)
	assert.Equal(t, "Not a decimal", errs[0].Message)

	assert.NotEmpty(t, c.Decimal().Errors("12.50"))
}

func TestDecimal_Bounds(t *testing.T) {
	f := c.Decimal().Gt(decimal128.MustParse("0")).Lte(decimal128.MustParse("100"))
	assert.Empty(t, f.Errors(decimal128.MustParse("99.99")))
	assert.NotEmpty(t, f.Errors(decimal128.MustParse("0")))
	assert.NotEmpty(t, f.Errors(decimal128.MustParse("100.01")))
}

// --- UnicodeDecimal ---

func TestUnicodeDecimal_Valid(t *testing.T) {
	f := c.UnicodeDecimal()
	assert.Empty(t, f.Errors("12.50"))
	assert.Empty(t, f.Errors("-3"))
}

func TestUnicodeDecimal_NotAString(t *testing.T) {
	errs := c.UnicodeDecimal().Errors(12.50)
	require.Len(t, errs, 1)
	assert.Equal(t, "Invalid decimal value (not a string)", errs[0].Message)
}

func TestUnicodeDecimal_ParseError(t *testing.T) {
	errs := c.UnicodeDecimal().Errors("twelve and a half")
	require.Len(t, errs, 1)
	assert.Equal(t, "Invalid decimal value (parse error)", errs[0].Message)
}

func TestUnicodeDecimal_Bounds(t *testing.T) {
	f := c.UnicodeDecimal().Gte(decimal128.MustParse("0"))
	assert.Empty(t, f.Errors("0"))
	assert.NotEmpty(t, f.Errors("-0.01"))
}

// --- String ---

func TestString_Valid(t *testing.T) {
	assert.Empty(t, c.String().Errors("hello"))
	assert.Empty(t, c.String().Errors(""))
}

func TestString_Invalid(t *testing.T) {
	errs := c.String().Errors(5)
	require.Len(t, errs, 1)
	assert.Equal(t, "Not a string", errs[0].Message)

	assert.NotEmpty(t, c.String().Errors([]byte("hello")))
}

func TestString_LengthsCountRunes(t *testing.T) {
	f := c.String().MinLength(3).MaxLength(5)
	assert.Empty(t, f.Errors("héllo"))
	assert.Empty(t, f.Errors("日本語"))

	errs := f.Errors("hi")
	require.Len(t, errs, 1)
	assert.Equal(t, "String must have a length of at least 3", errs[0].Message)

	errs = f.Errors("toolong!")
	require.Len(t, errs, 1)
	assert.Equal(t, "String must have a length no more than 5", errs[0].Message)
}

func TestString_NotBlank(t *testing.T) {
	f := c.String().NotBlank()
	assert.Empty(t, f.Errors("x"))

	errs := f.Errors("   \t")
	require.Len(t, errs, 1)
	assert.Equal(t, "String cannot be blank", errs[0].Message)
}

func TestString_LengthPanicsOnBadBounds(t *testing.T) {
	assert.Panics(t, func() { c.String().MinLength(-1) })
	assert.Panics(t, func() { c.String().MinLength(5).MaxLength(3) })
}

func TestString_Introspect(t *testing.T) {
	doc := c.String().MinLength(1).MaxLength(8).NotBlank().Introspect()
	assert.Equal(t, "unicode", doc.Type())
	assert.Equal(t, 1, doc["min_length"])
	assert.Equal(t, 8, doc["max_length"])
	assert.Equal(t, false, doc["allow_blank"])

	assert.NotContains(t, c.String().Introspect(), "allow_blank")
}

// --- Bytes ---

func TestBytes_Valid(t *testing.T) {
	assert.Empty(t, c.Bytes().Errors([]byte("data")))
}

func TestBytes_Invalid(t *testing.T) {
	errs := c.Bytes().Errors("data")
	require.Len(t, errs, 1)
	assert.Equal(t, "Not a byte string", errs[0].Message)
}

func TestBytes_Lengths(t *testing.T) {
	f := c.Bytes().MinLength(2).MaxLength(4)
	assert.Empty(t, f.Errors([]byte("abc")))
	assert.Equal(t, "String must have a length of at least 2", f.Errors([]byte("a"))[0].Message)
	assert.Equal(t, "String must have a length no more than 4", f.Errors([]byte("abcde"))[0].Message)
}

// --- DateTime ---

func TestDateTime_Valid(t *testing.T) {
	assert.Empty(t, c.DateTime().Errors(time.Now()))
}

func TestDateTime_Invalid(t *testing.T) {
	errs := c.DateTime().Errors("2020-01-01T00:00:00Z")
	require.Len(t, errs, 1)
	assert.Equal(t, "Not a time.Time", errs[0].Message)
}

func TestDateTime_Bounds(t *testing.T) {
	epoch := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	f := c.DateTime().Gte(epoch)
	assert.Empty(t, f.Errors(epoch))
	assert.Empty(t, f.Errors(epoch.Add(time.Hour)))
	assert.NotEmpty(t, f.Errors(epoch.Add(-time.Second)))
}

func TestDateTime_IntrospectBoundsAreStrings(t *testing.T) {
	epoch := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := c.DateTime().Gte(epoch).Introspect()
	assert.Equal(t, "datetime", doc.Type())
	assert.Equal(t, "2020-01-01T00:00:00Z", doc["gte"])
}

// --- Duration ---

func TestDuration_Valid(t *testing.T) {
	assert.Empty(t, c.Duration().Errors(5*time.Second))
}

func TestDuration_Invalid(t *testing.T) {
	errs := c.Duration().Errors(5)
	require.Len(t, errs, 1)
	assert.Equal(t, "Not a time.Duration", errs[0].Message)
}

func TestDuration_Bounds(t *testing.T) {
	f := c.Duration().Gt(0).Lte(time.Minute)
	assert.Empty(t, f.Errors(30*time.Second))
	assert.NotEmpty(t, f.Errors(time.Duration(0)))
	assert.NotEmpty(t, f.Errors(2*time.Minute))
}

// --- Location ---

func TestLocation_Valid(t *testing.T) {
	assert.Empty(t, c.Location().Errors(time.UTC))
}

func TestLocation_Invalid(t *testing.T) {
	errs := c.Location().Errors("UTC")
	require.Len(t, errs, 1)
	assert.Equal(t, "Not a *time.Location", errs[0].Message)

	var nilLoc *time.Location
	assert.NotEmpty(t, c.Location().Errors(nilLoc))
}

// --- Constant ---

func TestConstant_SingleValue(t *testing.T) {
	f := c.Constant("on")
	assert.Empty(t, f.Errors("on"))

	errs := f.Errors("off")
	require.Len(t, errs, 1)
	assert.Equal(t, c.CodeUnknown, errs[0].Code)
	assert.Equal(t, `Value is not "on"`, errs[0].Message)
}

func TestConstant_MultipleValuesSortedInMessage(t *testing.T) {
	f := c.Constant("zebra", "apple", 3)
	assert.Empty(t, f.Errors("zebra"))
	assert.Empty(t, f.Errors(3))

	errs := f.Errors("mango")
	require.Len(t, errs, 1)
	assert.Equal(t, `Value is not one of: "apple", "zebra", 3`, errs[0].Message)
}

func TestConstant_UnhashableCandidateIsNotMember(t *testing.T) {
	f := c.Constant("a", "b")
	assert.NotEmpty(t, f.Errors([]string{"a"}))
}

func TestConstant_ConstructionPanics(t *testing.T) {
	assert.Panics(t, func() { c.Constant() })
	assert.Panics(t, func() { c.Constant([]int{1}) })
}

func TestConstant_Introspect(t *testing.T) {
	doc := c.Constant("b", "a").Introspect()
	assert.Equal(t, "constant", doc.Type())
	assert.Equal(t, []any{"a", "b"}, doc["values"])
}

// --- Anything / Hashable ---

func TestAnything_AcceptsEverything(t *testing.T) {
	f := c.Anything()
	for _, candidate := range []any{nil, 0, "", []int{1}, map[string]any{}, struct{}{}} {
		assert.Empty(t, f.Errors(candidate))
	}
}

func TestHashable_RejectsUnhashable(t *testing.T) {
	f := c.Hashable()
	assert.Empty(t, f.Errors("key"))
	assert.Empty(t, f.Errors(42))
	assert.Empty(t, f.Errors(nil))

	errs := f.Errors([]int{1})
	require.Len(t, errs, 1)
	assert.Equal(t, "Value is not hashable", errs[0].Message)

	assert.NotEmpty(t, f.Errors(map[string]int{}))
}

// --- Null / Nullable ---

func TestNull_Valid(t *testing.T) {
	f := c.Null()
	assert.Empty(t, f.Errors(nil))

	var p *int
	assert.Empty(t, f.Errors(p))

	var m map[string]int
	assert.Empty(t, f.Errors(m))
}

func TestNull_Invalid(t *testing.T) {
	errs := c.Null().Errors(0)
	require.Len(t, errs, 1)
	assert.Equal(t, "Value is not null", errs[0].Message)

	assert.NotEmpty(t, c.Null().Errors(""))
}

func TestNullable_PassesNilThrough(t *testing.T) {
	f := c.Nullable(c.Integer().Gt(0))
	assert.Empty(t, f.Errors(nil))
	assert.Empty(t, f.Errors(5))
	assert.NotEmpty(t, f.Errors(0))
	assert.NotEmpty(t, f.Errors("five"))
}

func TestNullable_Introspect(t *testing.T) {
	doc := c.Nullable(c.String()).Introspect()
	assert.Equal(t, "nullable", doc.Type())
	inner, ok := doc["nullable"].(c.Introspection)
	require.True(t, ok)
	assert.Equal(t, "unicode", inner.Type())
}

// --- Check and the Validation result ---

func TestCheck_CollectsErrorsAndWarnings(t *testing.T) {
	result := c.Check(c.Deprecated(c.Integer()), 5)
	assert.True(t, result.Valid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, c.WarningCodeFieldDeprecated, result.Warnings[0].Code)

	result = c.Check(c.Integer(), "no")
	assert.False(t, result.Valid())
	assert.Empty(t, result.Warnings)
}

// --- Pointer prefix helpers ---

func TestPrefixPointer_CopiesAndComposes(t *testing.T) {
	original := []c.Error{
		{Code: c.CodeInvalid, Message: "Not an integer"},
		{Code: c.CodeInvalid, Message: "Not a string", Pointer: "name"},
	}
	prefixed := c.PrefixPointer(original, "payload")

	assert.Equal(t, "payload", prefixed[0].Pointer)
	assert.Equal(t, "payload.name", prefixed[1].Pointer)

	// Originals are untouched.
	assert.Equal(t, "", original[0].Pointer)
	assert.Equal(t, "name", original[1].Pointer)
}

func TestPrefixPointer_EmptyInput(t *testing.T) {
	assert.Nil(t, c.PrefixPointer(nil, "x"))
	assert.Nil(t, c.PrefixPointer([]c.Error{}, "x"))
}
