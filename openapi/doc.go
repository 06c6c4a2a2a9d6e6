// Package openapi generates OpenAPI 3 specifications from conformity
// schema introspection. It consumes introspection documents only; nothing
// here feeds back into validation.
//
// Use [Document] to create a base document, register schema components
// with [AddSchema], and register endpoints with [Get], [Post], [Put],
// [Patch], or [Delete]:
//
//	doc := openapi.Document("my-api", "My API", "1.0")
//	openapi.Post(doc, "/orders", "createOrder", openapi.Endpoint{
//	    Request:  orderSchema,
//	    Response: orderSchema,
//	})
package openapi
