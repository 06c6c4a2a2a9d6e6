package conformity_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	c "github.com/eventbrite/conformity"
)

// ============ Tests ============

// --- Validate ---

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, c.Validate(c.Integer(), 5))
}

func TestValidate_Error(t *testing.T) {
	err := c.Validate(orderSchema(), map[string]any{"quantity": 0})
	require.Error(t, err)

	var verr *c.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 3)

	assert.Equal(t,
		"Invalid value:"+
			"\n  - name: Missing key: name"+
			"\n  - quantity: Value not >= 1"+
			"\n  - tags: Missing key: tags",
		err.Error())
}

func TestValidationError_NounAndPointers(t *testing.T) {
	err := &c.ValidationError{
		Noun: "arguments",
		Errors: []c.Error{
			{Code: c.CodeInvalid, Message: "Not an integer", Pointer: "0"},
			{Code: c.CodeInvalid, Message: "Not a tuple"},
		},
	}
	assert.Equal(t, "Invalid arguments:\n  - 0: Not an integer\n  - Not a tuple", err.Error())
}

// --- ValidateCall: positional arguments ---

func TestValidateCall_ArgsValidated(t *testing.T) {
	divide := func(a, b float64) (float64, error) {
		return a / b, nil
	}
	checked := c.ValidateCall(divide, c.CallSchema{
		Args: c.Tuple(c.Float(), c.Float().Gt(0)),
	})

	q, err := checked(10, 4)
	require.NoError(t, err)
	assert.Equal(t, 2.5, q)

	q, err = checked(10, 0)
	require.Error(t, err)
	assert.Zero(t, q)

	var verr *c.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "1", verr.Errors[0].Pointer)
	assert.Contains(t, err.Error(), "Invalid arguments:")
}

func TestValidateCall_FnNotInvokedOnBadArgs(t *testing.T) {
	invoked := false
	record := func(name string) error {
		invoked = true
		return nil
	}
	checked := c.ValidateCall(record, c.CallSchema{
		Args: c.Tuple(c.String().NotBlank()),
	})

	err := checked("   ")
	require.Error(t, err)
	assert.False(t, invoked)

	require.NoError(t, checked("fine"))
	assert.True(t, invoked)
}

func TestValidateCall_FnErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	fails := func(n int) (int, error) { return 0, boom }
	checked := c.ValidateCall(fails, c.CallSchema{
		Args:    c.Tuple(c.Integer()),
		Returns: c.Integer().Gt(0),
	})

	// The function's own error comes back untouched; its results are not
	// validated in that case.
	_, err := checked(1)
	assert.ErrorIs(t, err, boom)
}

// --- ValidateCall: keyword arguments ---

func TestValidateCall_Kwargs(t *testing.T) {
	launch := func(name string, options map[string]any) (string, error) {
		return name, nil
	}
	checked := c.ValidateCall(launch, c.CallSchema{
		Args: c.Tuple(c.String().NotBlank()),
		Kwargs: c.Dictionary(
			c.Key("retries", c.Integer().Gte(0)),
		).Optional("retries"),
	})

	name, err := checked("job", map[string]any{"retries": 3})
	require.NoError(t, err)
	assert.Equal(t, "job", name)

	_, err = checked("job", map[string]any{"retries": -1})
	require.Error(t, err)
	var verr *c.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "kwargs.retries", verr.Errors[0].Pointer)

	// A nil kwargs map validates as empty.
	_, err = checked("job", nil)
	assert.NoError(t, err)

	_, err = checked("job", map[string]any{"unexpected": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Extra keys present: unexpected")
}

// --- ValidateCall: variadic functions ---

func TestValidateCall_Variadic(t *testing.T) {
	join := func(sep string, parts ...string) string {
		return strings.Join(parts, sep)
	}
	checked := c.ValidateCall(join, c.CallSchema{
		Args: c.List(c.String()).MinLength(2),
	})

	assert.Equal(t, "a-b-c", checked("-", "a", "b", "c"))

	// No variadic parts at all: just the separator fails the length rule,
	// and with no error result the wrapper panics.
	assert.PanicsWithError(t,
		"Invalid arguments:\n  - List is shorter than 2",
		func() { checked("-") })
}

func TestValidateCall_VariadicElementPointers(t *testing.T) {
	sum := func(ns ...int) (int, error) {
		total := 0
		for _, n := range ns {
			total += n
		}
		return total, nil
	}
	checked := c.ValidateCall(sum, c.CallSchema{
		Args: c.List(c.Integer().Gte(0)),
	})

	total, err := checked(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, total)

	_, err = checked(1, -2, 3)
	require.Error(t, err)
	var verr *c.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "1", verr.Errors[0].Pointer)
}

// --- ValidateCall: results ---

func TestValidateCall_SingleReturn(t *testing.T) {
	classify := func(n int) (string, error) {
		if n > 1000 {
			return "", nil
		}
		return "small", nil
	}
	checked := c.ValidateCall(classify, c.CallSchema{
		Args:    c.Tuple(c.Integer()),
		Returns: c.String().NotBlank(),
	})

	label, err := checked(5)
	require.NoError(t, err)
	assert.Equal(t, "small", label)

	_, err = checked(2000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid return value:")
	assert.Contains(t, err.Error(), "String cannot be blank")
}

func TestValidateCall_MultipleReturns(t *testing.T) {
	split := func(s string) (string, int, error) {
		return s, len(s), nil
	}
	checked := c.ValidateCall(split, c.CallSchema{
		Returns: c.Tuple(c.String(), c.Integer().Lte(3)),
	})

	s, n, err := checked("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
	assert.Equal(t, 3, n)

	_, _, err = checked("toolong")
	require.Error(t, err)
	var verr *c.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "1", verr.Errors[0].Pointer)
}

func TestValidateCall_NoErrorResultPanics(t *testing.T) {
	double := func(n int) int { return 2 * n }
	checked := c.ValidateCall(double, c.CallSchema{
		Args: c.Tuple(c.Integer().Gte(0)),
	})

	assert.Equal(t, 4, checked(2))
	assert.Panics(t, func() { checked(-1) })
}

// --- ValidateCall: wrap-time checks ---

func TestValidateCall_WrapPanics(t *testing.T) {
	fixed := func(a, b int) error { return nil }
	variadic := func(ns ...int) error { return nil }
	noResults := func(a int) {}

	// Not a function.
	assert.Panics(t, func() { c.ValidateCall(42, c.CallSchema{}) })

	// Tuple arity must match the fixed parameter count.
	assert.Panics(t, func() {
		c.ValidateCall(fixed, c.CallSchema{Args: c.Tuple(c.Integer())})
	})

	// Variadic functions take a List, fixed ones a Tuple.
	assert.Panics(t, func() {
		c.ValidateCall(variadic, c.CallSchema{Args: c.Tuple(c.Integer())})
	})
	assert.Panics(t, func() {
		c.ValidateCall(fixed, c.CallSchema{Args: c.List(c.Integer())})
	})

	// Kwargs demand a trailing map[string]any and no variadic tail.
	assert.Panics(t, func() {
		c.ValidateCall(fixed, c.CallSchema{Kwargs: c.SchemalessDictionary()})
	})
	assert.Panics(t, func() {
		c.ValidateCall(variadic, c.CallSchema{Kwargs: c.SchemalessDictionary()})
	})
	assert.Panics(t, func() {
		c.ValidateCall(fixed, c.CallSchema{Kwargs: c.Integer()})
	})

	// Returns need at least one non-error result of matching arity.
	assert.Panics(t, func() {
		c.ValidateCall(noResults, c.CallSchema{Returns: c.Integer()})
	})
	assert.Panics(t, func() {
		c.ValidateCall(
			func(int) (int, error) { return 0, nil },
			c.CallSchema{Returns: c.Tuple(c.Integer(), c.Integer())},
		)
	})
}
