// Package schema validates JSON-LD objects against Schema.org field tables
// and type-specific structural rules.
package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/dotcommander/geolint/internal/jsonld"
	"github.com/dotcommander/geolint/internal/types"
)

// structuralErrorPenalty is subtracted from completeness per structural error.
const structuralErrorPenalty = 5

// Error is a validation finding with a severity of error, warning or info.
type Error struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Warning is an improvement-oriented finding with a suggested fix.
type Warning struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// ValidationResult is the outcome of validating one JSON-LD object.
type ValidationResult struct {
	SchemaType         string    `json:"schema_type"`
	Valid              bool      `json:"valid"`
	Errors             []Error   `json:"errors"`
	Warnings           []Warning `json:"warnings"`
	CompletenessScore  int       `json:"completeness_score"`
	MissingRecommended []string  `json:"missing_recommended"`
}

// ErrorCount returns the number of error-severity findings.
func (r *ValidationResult) ErrorCount() int {
	n := 0
	for _, e := range r.Errors {
		if e.Severity == types.SeverityError {
			n++
		}
	}
	return n
}

// Report aggregates the results of validating several objects.
type Report struct {
	Results       []ValidationResult `json:"results"`
	Valid         bool               `json:"valid"`
	TotalErrors   int                `json:"total_errors"`
	TotalWarnings int                `json:"total_warnings"`
	ValidatedAt   string             `json:"validated_at,omitempty"`
}

// Validator handles Schema.org validation
type Validator struct {
	tables *FieldTables
	rules  map[string]rule
}

// NewValidator creates a Validator backed by the embedded field tables.
func NewValidator() (*Validator, error) {
	tables, err := LoadFieldTables()
	if err != nil {
		return nil, err
	}
	return NewValidatorWithTables(tables), nil
}

// NewValidatorWithTables creates a Validator over explicit field tables.
func NewValidatorWithTables(tables *FieldTables) *Validator {
	return &Validator{
		tables: tables,
		rules:  structuralRules(),
	}
}

// Tables returns the validator's field tables.
func (v *Validator) Tables() *FieldTables {
	return v.tables
}

// ValidateAll validates every candidate and aggregates the totals. An empty
// list is an input error.
func (v *Validator) ValidateAll(candidates []map[string]any) (*Report, error) {
	if len(candidates) == 0 {
		return nil, types.NewInputError("schemas", "at least one schema object is required")
	}
	for i, c := range candidates {
		if c == nil {
			return nil, types.NewInputError(fmt.Sprintf("schemas[%d]", i), "schema must be a JSON object")
		}
	}

	report := NewReport()
	for _, c := range candidates {
		report.Add(v.Validate(c))
	}
	return report, nil
}

// NewReport returns an empty, valid report.
func NewReport() *Report {
	return &Report{Results: []ValidationResult{}, Valid: true}
}

// Add appends res and updates the totals.
func (r *Report) Add(res ValidationResult) {
	r.Results = append(r.Results, res)
	r.Valid = r.Valid && res.Valid
	r.TotalErrors += res.ErrorCount()
	r.TotalWarnings += len(res.Warnings)
}

// Unparseable is the result for a JSON-LD block that could not be decoded.
func Unparseable(message string) ValidationResult {
	return ValidationResult{
		SchemaType: jsonld.UnknownType,
		Errors: []Error{{
			Field:    "ld+json",
			Message:  message,
			Severity: types.SeverityError,
		}},
		Warnings:           []Warning{},
		MissingRecommended: []string{},
	}
}

// Validate checks one JSON-LD object.
func (v *Validator) Validate(obj map[string]any) ValidationResult {
	typeName := jsonld.TypeOf(obj)
	res := ValidationResult{
		SchemaType:         typeName,
		Errors:             []Error{},
		Warnings:           []Warning{},
		MissingRecommended: []string{},
	}

	v.checkContext(obj, &res)

	required := v.tables.RequiredFor(typeName)
	for _, field := range required {
		if field == "@type" {
			continue
		}
		if !jsonld.FieldPresent(obj, field) {
			res.Errors = append(res.Errors, Error{
				Field:    field,
				Message:  fmt.Sprintf("Missing required field %q for %s", field, typeName),
				Severity: types.SeverityError,
			})
		}
	}

	recommended := v.tables.RecommendedFor(typeName)
	for _, field := range recommended {
		if !jsonld.FieldPresent(obj, field) {
			res.Warnings = append(res.Warnings, Warning{
				Field:      field,
				Message:    fmt.Sprintf("Recommended field %q is missing", field),
				Suggestion: fmt.Sprintf("Add %s to improve rich result eligibility and AI citation of this %s", field, typeName),
			})
			res.MissingRecommended = append(res.MissingRecommended, field)
		}
	}

	structuralErrors := 0
	if r, ok := v.rules[typeName]; ok {
		errs, warns := r(obj)
		structuralErrors = len(errs)
		res.Errors = append(res.Errors, errs...)
		res.Warnings = append(res.Warnings, warns...)
	}

	if !v.tables.Known(typeName) {
		res.Errors = append(res.Errors, Error{
			Field:    "@type",
			Message:  fmt.Sprintf("No validation rules for type %q; only @context was checked", typeName),
			Severity: types.SeverityInfo,
		})
	}

	res.CompletenessScore = completeness(obj, required, recommended, structuralErrors)
	res.Valid = res.ErrorCount() == 0
	return res
}

func (v *Validator) checkContext(obj map[string]any, res *ValidationResult) {
	raw, ok := obj["@context"]
	if !ok || !jsonld.ValuePresent(raw) {
		res.Errors = append(res.Errors, Error{
			Field:    "@context",
			Message:  `Missing @context; JSON-LD must declare "https://schema.org"`,
			Severity: types.SeverityError,
		})
		return
	}

	ctx, ok := contextString(raw)
	if !ok {
		res.Warnings = append(res.Warnings, Warning{
			Field:      "@context",
			Message:    "@context is not a Schema.org URL",
			Suggestion: `Set "@context" to "https://schema.org"`,
		})
		return
	}
	if !IsSchemaOrgContext(ctx) {
		res.Warnings = append(res.Warnings, Warning{
			Field:      "@context",
			Message:    fmt.Sprintf("Unexpected @context %q", ctx),
			Suggestion: `Set "@context" to "https://schema.org"`,
		})
	}
}

// contextString extracts the vocabulary URL from a string, the first string
// of an array, or an object's @vocab.
func contextString(raw any) (string, bool) {
	switch c := raw.(type) {
	case string:
		return c, true
	case []any:
		for _, e := range c {
			if s, ok := e.(string); ok {
				return s, true
			}
		}
	case map[string]any:
		if s, ok := c["@vocab"].(string); ok {
			return s, true
		}
	}
	return "", false
}

// IsSchemaOrgContext reports whether ctx is https://schema.org or
// http://schema.org, ignoring case and a trailing slash.
func IsSchemaOrgContext(ctx string) bool {
	norm := strings.TrimRight(strings.ToLower(strings.TrimSpace(ctx)), "/")
	return norm == "https://schema.org" || norm == "http://schema.org"
}

// completeness weighs required fields 2 and recommended fields 1, then
// subtracts a penalty per structural error.
func completeness(obj map[string]any, required, recommended []string, structuralErrors int) int {
	total := 2*len(required) + len(recommended)
	if total == 0 {
		return 100
	}
	got := 0
	for _, f := range required {
		if jsonld.FieldPresent(obj, f) {
			got += 2
		}
	}
	for _, f := range recommended {
		if jsonld.FieldPresent(obj, f) {
			got++
		}
	}
	pct := int(math.Round(float64(got) / float64(total) * 100))
	pct -= structuralErrorPenalty * structuralErrors
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
