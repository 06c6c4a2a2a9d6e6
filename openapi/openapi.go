package openapi

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/eventbrite/conformity"
)

// Response describes an HTTP response with a description and body
// schemas for schema generation.
type Response struct {
	Desc   string
	Bodies []conformity.Field
}

// Endpoint describes a single API operation for the convenience helpers
// [Get], [Post], [Put], [Patch], and [Delete].
type Endpoint struct {
	Summary     string
	Description string
	Request     conformity.Field    // single request body schema (convenience)
	Requests    []conformity.Field  // multiple request body schemas (oneOf)
	Response    conformity.Field    // single 200 response schema (convenience)
	Responses   map[string]Response // full response map (overrides Response if both set)
}

// NewRequestMust is like [NewRequest] but panics on error.
func NewRequestMust(fields ...conformity.Field) *openapi3.RequestBodyRef {
	o, err := NewRequest(fields...)
	if err != nil {
		panic(err)
	}
	return o
}

// NewRequest generates an OpenAPI request body from the given field
// schemas.
func NewRequest(fields ...conformity.Field) (*openapi3.RequestBodyRef, error) {
	if len(fields) == 0 {
		return nil, errors.New("no fields given")
	}

	base := &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Content: openapi3.Content{
				"application/json": &openapi3.MediaType{
					Schema: &openapi3.SchemaRef{
						Value: &openapi3.Schema{
							OneOf: openapi3.SchemaRefs{},
						},
					},
				},
			},
		},
	}

	wrapper := base.Value.Content["application/json"].Schema
	for i := range fields {
		schema, err := SchemaRef(fields[i])
		if err != nil {
			return nil, err
		}
		wrapper.Value.OneOf = append(wrapper.Value.OneOf, schema)
	}

	if len(wrapper.Value.OneOf) == 1 {
		base.Value.Content["application/json"].Schema = wrapper.Value.OneOf[0]
	}

	return base, nil
}

// NewResponseMust is like [NewResponse] but panics on error.
// Map key is status code (e.g. "200", "4xx").
func NewResponseMust(responses map[string]Response) *openapi3.Responses {
	o, err := NewResponse(responses)
	if err != nil {
		panic(err)
	}
	return o
}

// NewResponse creates an OpenAPI responses object.
// Map key is status code (e.g. "200", "4xx").
func NewResponse(responses map[string]Response) (*openapi3.Responses, error) {
	if len(responses) == 0 {
		return nil, errors.New("no responses given")
	}

	opts := make([]openapi3.NewResponsesOption, 0, len(responses))

	for statusCode := range responses {
		desc := responses[statusCode].Desc

		var refs openapi3.SchemaRefs

		for k := range responses[statusCode].Bodies {
			schema, err := SchemaRef(responses[statusCode].Bodies[k])
			if err != nil {
				return nil, err
			}
			refs = append(refs, schema)
		}

		content := openapi3.Content{
			"application/json": &openapi3.MediaType{
				Schema: &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						OneOf: refs,
					},
				},
			},
		}

		if len(refs) == 1 {
			content["application/json"].Schema = refs[0]
		}

		opt := openapi3.WithName(statusCode, &openapi3.Response{
			Description: &desc,
			Content:     content,
		})
		opts = append(opts, opt)
	}

	return openapi3.NewResponses(opts...), nil
}

// Document returns a basic OpenAPI 3.0.3 document structure.
func Document(serviceName, description, version string) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       serviceName,
			Description: description,
			Version:     version,
		},
		Paths: &openapi3.Paths{},
	}
}

// AddSchema registers a field's schema as a named component on the
// document.
func AddSchema(doc *openapi3.T, name string, field conformity.Field) error {
	schema, err := SchemaRef(field)
	if err != nil {
		return err
	}
	if doc.Components == nil {
		doc.Components = &openapi3.Components{}
	}
	if doc.Components.Schemas == nil {
		doc.Components.Schemas = openapi3.Schemas{}
	}
	doc.Components.Schemas[name] = schema
	return nil
}

// AddPath adds an operation to the OpenAPI spec at the given path and method.
func AddPath(path, method string, s *openapi3.T, op *openapi3.Operation) {
	p := s.Paths.Value(path)
	if p == nil {
		p = &openapi3.PathItem{}
	}

	switch method {
	case http.MethodGet:
		p.Get = op
	case http.MethodPost:
		p.Post = op
	case http.MethodPut:
		p.Put = op
	case http.MethodPatch:
		p.Patch = op
	case http.MethodDelete:
		p.Delete = op
	}

	s.Paths.Set(path, p)
}

// addEndpoint builds an [openapi3.Operation] from ep and registers it at path+method.
func addEndpoint(doc *openapi3.T, path, method, operationID string, ep Endpoint) {
	op := &openapi3.Operation{
		OperationID: operationID,
		Summary:     ep.Summary,
		Description: ep.Description,
	}

	// Request body
	switch {
	case len(ep.Requests) > 0:
		op.RequestBody = NewRequestMust(ep.Requests...)
	case ep.Request != nil:
		op.RequestBody = NewRequestMust(ep.Request)
	}

	// Responses
	responses := ep.Responses
	if responses == nil && ep.Response != nil {
		responses = map[string]Response{
			"200": {Desc: "OK", Bodies: []conformity.Field{ep.Response}},
		}
	}
	if responses != nil {
		op.Responses = NewResponseMust(responses)
	} else {
		op.Responses = openapi3.NewResponses()
	}

	AddPath(path, method, doc, op)
}

// Get registers a GET endpoint on doc.
func Get(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodGet, operationID, ep)
}

// Post registers a POST endpoint on doc.
func Post(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPost, operationID, ep)
}

// Put registers a PUT endpoint on doc.
func Put(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPut, operationID, ep)
}

// Patch registers a PATCH endpoint on doc.
func Patch(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodPatch, operationID, ep)
}

// Delete registers a DELETE endpoint on doc.
func Delete(doc *openapi3.T, path, operationID string, ep Endpoint) {
	addEndpoint(doc, path, http.MethodDelete, operationID, ep)
}
