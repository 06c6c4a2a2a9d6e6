// Package logging builds zerolog loggers from declarative, validated
// configuration, so logger settings can live next to the rest of an
// application's settings data.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventbrite/conformity"
)

// Schema validates logger configuration mappings. Every key is
// optional; see [New] for the defaults.
var Schema = conformity.Dictionary(
	conformity.Key("level", conformity.Constant(
		"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled",
	).Description("Minimum level a message needs to be emitted")),
	conformity.Key("output", conformity.Constant("stdout", "stderr", "discard")),
	conformity.Key("format", conformity.Constant("json", "console")),
	conformity.Key("with_timestamp", conformity.Boolean()),
	conformity.Key("with_caller", conformity.Boolean()),
	conformity.Key("sampling", conformity.Dictionary(
		conformity.Key("burst", conformity.Integer().Gte(0).
			Description("Messages allowed through per period before sampling drops the rest")),
		conformity.Key("period_ms", conformity.Integer().Gt(0)),
	).Description("Burst sampling; omit to log everything")),
).Optional(
	"level", "output", "format", "with_timestamp", "with_caller", "sampling",
).Description("Logger configuration")

// New validates config against [Schema] and builds a logger from it.
// Defaults: level "info", output "stderr", format "json", timestamps on,
// caller off, no sampling. Validation failures return the
// [*conformity.ValidationError] and a no-op logger.
func New(config map[string]any) (zerolog.Logger, error) {
	if err := conformity.Validate(Schema, config); err != nil {
		return zerolog.Nop(), err
	}

	level, err := zerolog.ParseLevel(configString(config, "level", "info"))
	if err != nil {
		return zerolog.Nop(), err
	}

	var out io.Writer
	switch configString(config, "output", "stderr") {
	case "stdout":
		out = os.Stdout
	case "discard":
		out = io.Discard
	default:
		out = os.Stderr
	}
	if configString(config, "format", "json") == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).Level(level)
	ctx := logger.With()
	if configBool(config, "with_timestamp", true) {
		ctx = ctx.Timestamp()
	}
	if configBool(config, "with_caller", false) {
		ctx = ctx.Caller()
	}
	logger = ctx.Logger()

	if sampling, ok := config["sampling"].(map[string]any); ok {
		logger = logger.Sample(&zerolog.BurstSampler{
			Burst:  uint32(configInt(sampling, "burst", 0)),
			Period: time.Duration(configInt(sampling, "period_ms", 1000)) * time.Millisecond,
		})
	}
	return logger, nil
}

func configString(config map[string]any, key, fallback string) string {
	if s, ok := config[key].(string); ok {
		return s
	}
	return fallback
}

func configBool(config map[string]any, key string, fallback bool) bool {
	if b, ok := config[key].(bool); ok {
		return b
	}
	return fallback
}

func configInt(config map[string]any, key string, fallback int64) int64 {
	switch v := config[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return fallback
}
