package gateway

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// updateSchema constrains the telemetry body shape: a nullable location
// object with numeric fields, a nullable frame string, and client meta.
// Unknown top-level keys are rejected rather than passed through.
const updateSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"location": {
			"type": ["object", "null"],
			"additionalProperties": false,
			"properties": {
				"lat":      {"type": ["number", "null"]},
				"lng":      {"type": ["number", "null"]},
				"accuracy": {"type": ["number", "null"]},
				"speed":    {"type": ["number", "null"]}
			}
		},
		"frame":           {"type": ["string", "null"]},
		"userAgent":       {"type": ["string", "null"]},
		"tzOffsetMinutes": {"type": ["integer", "null"]}
	}
}`

// updateValidator validates telemetry bodies against updateSchema
type updateValidator struct {
	schema *gojsonschema.Schema
}

func newUpdateValidator() (*updateValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(updateSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile update schema: %w", err)
	}
	return &updateValidator{schema: schema}, nil
}

// Validate checks one request body. Any error here maps to a client
// error, including bodies that are not JSON at all.
func (v *updateValidator) Validate(body []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if !result.Valid() {
		var errs []string
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return fmt.Errorf("body does not match update schema: %s", strings.Join(errs, "; "))
	}

	return nil
}
