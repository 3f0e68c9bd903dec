// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeInvalidType          = "INVALID_TYPE"
	CodeInvalidEnumValue     = "INVALID_ENUM_VALUE"
	CodeOutOfRange           = "OUT_OF_RANGE"
	CodeLengthViolation      = "LENGTH_VIOLATION"
	CodeExtraField           = "EXTRA_FIELD"
	CodeSchemaViolation      = "SCHEMA_VIOLATION"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins all errors into one line, e.g. for a BPMN error message.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Schema is a compiled JSON schema, safe for concurrent use.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile parses a JSON schema document.
func Compile(raw string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(raw string) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a decoded document (maps, slices, scalars or structs).
func (s *Schema) Validate(doc interface{}) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	return toValidationResult(result), nil
}

// ValidateDocument validates doc against a schema given as a Go value (typically
// map[string]interface{}).
func ValidateDocument(schema, doc interface{}) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}
	return toValidationResult(result), nil
}

func toValidationResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(re),
			Message: re.Description(),
			Code:    codeOf(re.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out
}

// fieldOf reports the offending property for required errors, which gojsonschema attaches
// to the parent object.
func fieldOf(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			if re.Field() == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
				return prop
			}
			return re.Field() + "." + prop
		}
	}
	return re.Field()
}

func codeOf(errorType string) string {
	switch errorType {
	case "required":
		return CodeRequiredFieldMissing
	case "invalid_type":
		return CodeInvalidType
	case "enum":
		return CodeInvalidEnumValue
	case "number_gte", "number_gt", "number_lte", "number_lt":
		return CodeOutOfRange
	case "string_gte", "string_lte", "array_min_items", "array_max_items":
		return CodeLengthViolation
	case "additional_property_not_allowed":
		return CodeExtraField
	default:
		return CodeSchemaViolation
	}
}
