// Package analytics prepares client-reported event metadata for storage.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

// MetadataSchema accepts a flat object of at most 50 scalar values.
const MetadataSchema = `{
	"type": "object",
	"maxProperties": 50,
	"additionalProperties": {"type": ["string", "number", "boolean", "null"]}
}`

// SchemaError lists every schema violation found in a metadata value.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "metadata does not match schema: " + strings.Join(e.Problems, "; ")
}

type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(MetadataSchema), rs); err != nil {
		return nil, fmt.Errorf("compile metadata schema: %w", err)
	}
	return &Validator{schema: rs}, nil
}

// Validate checks canonical metadata text. Absent metadata ("null") is valid.
func (v *Validator) Validate(ctx context.Context, metadata string) error {
	if metadata == "" || metadata == "null" {
		return nil
	}
	keyErrs, err := v.schema.ValidateBytes(ctx, []byte(metadata))
	if err != nil {
		return fmt.Errorf("validate metadata: %w", err)
	}
	if len(keyErrs) == 0 {
		return nil
	}
	problems := make([]string, 0, len(keyErrs))
	for _, ke := range keyErrs {
		problems = append(problems, ke.Error())
	}
	return &SchemaError{Problems: problems}
}

// Normalize re-encodes any JSON value as canonical text: object keys sorted,
// numbers kept digit for digit, no HTML escaping. Empty input becomes "null".
func Normalize(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null", nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("decode metadata: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
