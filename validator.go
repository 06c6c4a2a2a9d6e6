package conformity

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationError reports the failures of one validation pass as a Go
// error.
type ValidationError struct {
	// Noun names what was being validated, such as "value" or
	// "arguments". It defaults to "value" when empty.
	Noun   string
	Errors []Error
}

func (e *ValidationError) Error() string {
	noun := e.Noun
	if noun == "" {
		noun = "value"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Invalid %s:", noun)
	for _, item := range e.Errors {
		b.WriteString("\n  - ")
		if item.Pointer != "" {
			b.WriteString(item.Pointer)
			b.WriteString(": ")
		}
		b.WriteString(item.Message)
	}
	return b.String()
}

// Validate checks value against field and reports failures as a
// [*ValidationError], for callers that want an error instead of a slice:
//
//	if err := conformity.Validate(schema, payload); err != nil {
//		return err
//	}
func Validate(field Field, value any) error {
	if errs := field.Errors(value); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// CallSchema describes the contract of a function wrapped by
// [ValidateCall].
type CallSchema struct {
	// Args validates positional arguments: a [TupleField] whose arity
	// matches the fixed parameter count, or a [ListField] for variadic
	// functions, applied to the flattened argument list.
	Args Field
	// Kwargs validates a trailing map[string]any parameter, the keyword
	// argument carrier. A [DictionaryField] or
	// [SchemalessDictionaryField].
	Kwargs Field
	// Returns validates the non-error results of a successful call: one
	// field for a single result, a [TupleField] of matching arity for
	// several.
	Returns Field
}

// ValidateCall wraps fn so every call validates its arguments before fn
// runs and its results after. The wrapper has fn's exact signature.
//
// Contract violations surface as a [*ValidationError] through fn's
// trailing error result, without invoking fn; when the result is a
// violation the other returns are zero values. Wrapping a function with
// no trailing error result is allowed, but then violations panic with the
// [*ValidationError].
//
// The schema is checked against fn's signature at wrap time and panics on
// mismatch, so a bad contract fails where the wrapper is built.
func ValidateCall[F any](fn F, schema CallSchema) F {
	fnValue := reflect.ValueOf(fn)
	t := fnValue.Type()
	if t.Kind() != reflect.Func {
		panic("conformity: ValidateCall requires a function")
	}

	plan := buildCallPlan(t, schema)

	wrapped := reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
		if verr := plan.checkArgs(args); verr != nil {
			return plan.fail(verr)
		}
		// MakeFunc hands the variadic tail over as a slice.
		var results []reflect.Value
		if t.IsVariadic() {
			results = fnValue.CallSlice(args)
		} else {
			results = fnValue.Call(args)
		}
		if verr := plan.checkResults(results); verr != nil {
			return plan.fail(verr)
		}
		return results
	})
	return wrapped.Interface().(F)
}

// callPlan is the per-wrap decomposition of a function signature against
// its CallSchema, resolved once so each invocation only validates.
type callPlan struct {
	t        reflect.Type
	args     Field
	kwargs   Field
	kwargsAt int
	returns  Field
	resultN  int
	errorAt  int
}

var errType = TypeOf[error]()

func buildCallPlan(t reflect.Type, schema CallSchema) *callPlan {
	plan := &callPlan{t: t, kwargsAt: -1, errorAt: -1}

	numIn := t.NumIn()
	if schema.Kwargs != nil {
		switch schema.Kwargs.(type) {
		case *DictionaryField, *SchemalessDictionaryField:
		default:
			panic("conformity: CallSchema.Kwargs must be a Dictionary or SchemalessDictionary")
		}
		if t.IsVariadic() {
			panic("conformity: CallSchema.Kwargs is not supported on variadic functions")
		}
		at := numIn - 1
		if at < 0 || t.In(at) != reflect.TypeOf(map[string]any(nil)) {
			panic("conformity: CallSchema.Kwargs requires a trailing map[string]any parameter")
		}
		plan.kwargs = schema.Kwargs
		plan.kwargsAt = at
		numIn--
	}
	if schema.Args != nil {
		switch args := schema.Args.(type) {
		case *TupleField:
			if t.IsVariadic() {
				panic("conformity: CallSchema.Args for a variadic function must be a List")
			}
			if args.Arity() != numIn {
				panic(fmt.Sprintf("conformity: CallSchema.Args arity %d does not match %d parameter(s)", args.Arity(), numIn))
			}
		case *ListField:
			if !t.IsVariadic() {
				panic("conformity: CallSchema.Args for a fixed-arity function must be a Tuple")
			}
		default:
			panic("conformity: CallSchema.Args must be a Tuple or List")
		}
		plan.args = schema.Args
	}

	plan.resultN = t.NumOut()
	if plan.resultN > 0 && t.Out(plan.resultN-1) == errType {
		plan.errorAt = plan.resultN - 1
	}
	if schema.Returns != nil {
		plan.returns = schema.Returns
		valueOuts := plan.resultN
		if plan.errorAt >= 0 {
			valueOuts--
		}
		if tup, ok := schema.Returns.(*TupleField); ok && tup.Arity() != valueOuts {
			panic(fmt.Sprintf("conformity: CallSchema.Returns arity %d does not match %d result(s)", tup.Arity(), valueOuts))
		}
		if valueOuts == 0 {
			panic("conformity: CallSchema.Returns set but the function has no non-error results")
		}
	}
	return plan
}

func (p *callPlan) checkArgs(args []reflect.Value) *ValidationError {
	var errs []Error
	if p.args != nil {
		positional := args
		if p.kwargsAt >= 0 {
			positional = args[:p.kwargsAt]
		}
		var flat []any
		if p.t.IsVariadic() {
			flat = flattenVariadic(positional)
		} else {
			flat = make([]any, len(positional))
			for i, a := range positional {
				flat[i] = a.Interface()
			}
		}
		errs = append(errs, p.args.Errors(flat)...)
	}
	if p.kwargs != nil {
		kw, _ := args[p.kwargsAt].Interface().(map[string]any)
		if kw == nil {
			kw = map[string]any{}
		}
		errs = append(errs, PrefixPointer(p.kwargs.Errors(kw), "kwargs")...)
	}
	if len(errs) > 0 {
		return &ValidationError{Noun: "arguments", Errors: errs}
	}
	return nil
}

func (p *callPlan) checkResults(results []reflect.Value) *ValidationError {
	if p.returns == nil {
		return nil
	}
	if p.errorAt >= 0 {
		if err, _ := results[p.errorAt].Interface().(error); err != nil {
			return nil
		}
	}
	values := results
	if p.errorAt >= 0 {
		values = results[:p.errorAt]
	}
	var candidate any
	if len(values) == 1 {
		candidate = values[0].Interface()
	} else {
		flat := make([]any, len(values))
		for i, v := range values {
			flat[i] = v.Interface()
		}
		candidate = flat
	}
	if errs := p.returns.Errors(candidate); len(errs) > 0 {
		return &ValidationError{Noun: "return value", Errors: errs}
	}
	return nil
}

// fail produces the zero results with the validation error in the error
// slot, or panics when the signature offers none.
func (p *callPlan) fail(verr *ValidationError) []reflect.Value {
	if p.errorAt < 0 {
		panic(verr)
	}
	out := make([]reflect.Value, p.resultN)
	for i := 0; i < p.resultN; i++ {
		out[i] = reflect.Zero(p.t.Out(i))
	}
	ev := reflect.New(errType).Elem()
	ev.Set(reflect.ValueOf(verr))
	out[p.errorAt] = ev
	return out
}

func flattenVariadic(args []reflect.Value) []any {
	var flat []any
	for i, a := range args {
		if i == len(args)-1 && a.Kind() == reflect.Slice {
			n := a.Len()
			for j := 0; j < n; j++ {
				flat = append(flat, a.Index(j).Interface())
			}
			continue
		}
		flat = append(flat, a.Interface())
	}
	return flat
}
