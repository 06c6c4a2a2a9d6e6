// Package conformity provides declarative schema validation with
// introspection.
//
// Schemas are built from composable fields:
//
//	schema := conformity.Dictionary(
//	    conformity.Key("name", conformity.String().NotBlank()),
//	    conformity.Key("quantity", conformity.Integer().Gte(1).Lt(100)),
//	    conformity.Key("note", conformity.String()),
//	).Optional("note")
//
// Then validate any candidate value:
//
//	if err := conformity.Validate(schema, payload); err != nil {
//	    return err
//	}
//
// [Check] returns the raw errors and warnings instead of an error, and
// every field's [Field.Introspect] renders a JSON-serializable document
// describing the schema, which [Reconstruct] turns back into a
// validator. [ValidateCall] wraps ordinary functions so their arguments
// and results are validated on every call.
//
// Sub-packages:
//   - settings: merged, validated application settings definitions
//   - logging: zerolog configuration validated by a conformity schema
//   - openapi: OpenAPI 3 document generation from field introspection
package conformity
