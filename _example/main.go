// Command example demonstrates conformity with a validated JSON endpoint,
// settings-driven configuration, and a generated OpenAPI document.
//
// Run:
//
//	go run ./_example
//
// Then:
//
//	curl -s localhost:8080/openapi.json
//	curl -s -X POST localhost:8080/orders \
//	    -d '{"customer_name":"Ada","item_count":2,"total":19.99}'
package main

import (
	"encoding/json"
	"net/http"

	c "github.com/eventbrite/conformity"
	"github.com/eventbrite/conformity/logging"
	"github.com/eventbrite/conformity/openapi"
	"github.com/eventbrite/conformity/settings"
)

// orderSchema validates the request body of POST /orders.
var orderSchema = c.Dictionary(
	c.Key("customer_name", c.String().MinLength(1).MaxLength(200)),
	c.Key("item_count", c.Integer().Gte(1)),
	c.Key("total", c.Float().Gte(0.01)),
).Description("An order to place")

var serviceSettings = settings.Define().
	Schema(settings.Schema{
		"listen":  c.String().NotBlank(),
		"logging": logging.Schema,
	}).
	Defaults(settings.Data{
		"listen":  ":8080",
		"logging": map[string]any{"level": "info", "format": "console"},
	})

// configYAML stands in for a config file on disk.
const configYAML = `
listen: ":8080"
logging:
  level: debug
  format: console
`

func main() {
	data, err := settings.FromYAML([]byte(configYAML))
	if err != nil {
		panic(err)
	}
	conf := serviceSettings.MustNew(data)

	logConfig, _ := conf.Get("logging").(map[string]any)
	log, err := logging.New(logConfig)
	if err != nil {
		panic(err)
	}

	doc := openapi.Document("Example API", "Demonstrates conformity", "0.1.0")
	openapi.Post(doc, "/orders", "createOrder", openapi.Endpoint{
		Summary: "Create an order",
		Request: orderSchema,
		Responses: map[string]openapi.Response{
			"200": {Desc: "Created order", Bodies: []c.Field{orderSchema}},
			"400": {Desc: "Validation error"},
		},
	})

	http.HandleFunc("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})

	http.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var order map[string]any
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		result := c.Check(orderSchema, order)
		for _, warn := range result.Warnings {
			log.Warn().Str("pointer", warn.Pointer).Msg(warn.Message)
		}
		if !result.Valid() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(result)
			return
		}

		log.Info().Str("customer", order["customer_name"].(string)).Msg("order accepted")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(order)
	})

	addr, _ := conf.Get("listen").(string)
	log.Info().Str("addr", addr).Msg("listening")
	log.Fatal().Err(http.ListenAndServe(addr, nil)).Msg("server stopped")
}
