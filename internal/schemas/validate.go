// Package schemas holds the JSON Schema for scoring results and validates
// documents against it before they leave the process.
package schemas

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/HERPESME/prompt-career-boost-sub000/internal/ats"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed ats_score.schema.json
var atsScoreSchema string

// FieldError is a single schema violation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a document
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:")
	for _, fe := range e.Errors {
		fmt.Fprintf(&sb, "\n  - %s: %s", fe.Field, fe.Message)
	}
	return sb.String()
}

// SchemaLoadError is returned when a schema or document cannot be loaded
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var compiledScoreSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(atsScoreSchema))
})

// ScoreSchema returns the raw ATS score schema document.
func ScoreSchema() string {
	return atsScoreSchema
}

// ValidateScore checks a computed score against the ATS score schema.
func ValidateScore(score ats.ATSScore) error {
	data, err := json.Marshal(score)
	if err != nil {
		return &SchemaLoadError{Path: "(score)", Message: "failed to encode score", Cause: err}
	}
	return ValidateScoreJSON(data)
}

// ValidateScoreJSON checks a JSON document against the ATS score schema.
func ValidateScoreJSON(data []byte) error {
	schema, err := compiledScoreSchema()
	if err != nil {
		return &SchemaLoadError{Path: "ats_score.schema.json", Message: "failed to compile schema", Cause: err}
	}
	return validate(schema, gojsonschema.NewBytesLoader(data), "(document)")
}

// ValidateScoreFile reads a JSON file and validates it against the ATS
// score schema.
func ValidateScoreFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &SchemaLoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	if err := ValidateScoreJSON(data); err != nil {
		var loadErr *SchemaLoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return err
	}
	return nil
}

// ValidateJSONString validates a JSON document against an arbitrary schema.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &SchemaLoadError{Path: "(inline)", Message: "failed to compile schema", Cause: err}
	}
	return validate(schema, gojsonschema.NewStringLoader(jsonContent), "(inline)")
}

func validate(schema *gojsonschema.Schema, document gojsonschema.JSONLoader, source string) error {
	result, err := schema.Validate(document)
	if err != nil {
		return &SchemaLoadError{Path: source, Message: "failed to parse document", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		violations = append(violations, FieldError{Field: field, Message: desc.Description()})
	}
	return &ValidationError{Errors: violations}
}
