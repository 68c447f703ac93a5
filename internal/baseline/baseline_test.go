package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/schema"
	"github.com/dotcommander/geolint/internal/types"
)

func missingHeadline(file string) Finding {
	return Finding{
		File:       file,
		SchemaType: "Article",
		Field:      "headline",
		Severity:   types.SeverityError,
		Message:    `Missing required field "headline" for Article`,
	}
}

func articlePage(source string) analysis.PageReport {
	return analysis.PageReport{
		Source: source,
		Schema: &schema.Report{
			Valid:         false,
			TotalErrors:   1,
			TotalWarnings: 1,
			Results: []schema.ValidationResult{{
				SchemaType: "Article",
				Valid:      false,
				Errors: []schema.Error{
					{Field: "headline", Message: `Missing required field "headline" for Article`, Severity: types.SeverityError},
				},
				Warnings: []schema.Warning{
					{Field: "image", Message: `Recommended field "image" is missing`},
				},
			}},
		},
	}
}

func TestCreateBaseline(t *testing.T) {
	findings := []Finding{
		missingHeadline("posts/a.md"),
		missingHeadline("posts/a.md"), // duplicate
		missingHeadline("posts/b.md"),
	}

	b := CreateBaseline(findings)

	if b.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", b.Version)
	}
	if b.CreatedAt == "" {
		t.Error("CreatedAt not set")
	}
	if len(b.Fingerprints) != 2 {
		t.Errorf("Expected 2 unique fingerprints, got %d", len(b.Fingerprints))
	}
	for i := 1; i < len(b.Fingerprints); i++ {
		if b.Fingerprints[i-1] > b.Fingerprints[i] {
			t.Error("Fingerprints not sorted")
		}
	}
}

func TestIsKnown(t *testing.T) {
	known := missingHeadline("posts/a.md")
	other := missingHeadline("posts/a.md")
	other.Field = "author"
	other.Message = `Missing required field "author" for Article`

	b := CreateBaseline([]Finding{known})

	if !b.IsKnown(known) {
		t.Error("Expected finding to be known in baseline")
	}
	if b.IsKnown(other) {
		t.Error("Expected finding on a different field to be unknown")
	}

	var nilBaseline *Baseline
	if nilBaseline.IsKnown(known) {
		t.Error("nil baseline should know nothing")
	}
}

func TestFindings(t *testing.T) {
	pages := []analysis.PageReport{
		articlePage("a.md"),
		{Source: "b.md"},
	}

	got := Findings(pages)
	if len(got) != 2 {
		t.Fatalf("Findings() returned %d, want 2", len(got))
	}
	if got[0].Severity != types.SeverityError || got[0].Field != "headline" {
		t.Errorf("first finding = %+v", got[0])
	}
	if got[1].Severity != types.SeverityWarning || got[1].Field != "image" || got[1].File != "a.md" {
		t.Errorf("second finding = %+v", got[1])
	}
}

func TestFilter(t *testing.T) {
	pages := []analysis.PageReport{articlePage("a.md"), articlePage("b.md")}
	b := CreateBaseline([]Finding{missingHeadline("a.md")})

	filtered, suppressed := b.Filter(pages)

	if suppressed != 1 {
		t.Errorf("suppressed = %d, want 1", suppressed)
	}

	a := filtered[0].Schema
	if !a.Valid || a.TotalErrors != 0 || a.TotalWarnings != 1 {
		t.Errorf("a.md report = valid %v, errors %d, warnings %d; want true, 0, 1", a.Valid, a.TotalErrors, a.TotalWarnings)
	}
	if !a.Results[0].Valid || len(a.Results[0].Errors) != 0 {
		t.Errorf("a.md result not cleared: %+v", a.Results[0])
	}

	other := filtered[1].Schema
	if other.Valid || other.TotalErrors != 1 {
		t.Errorf("b.md report changed: valid %v, errors %d", other.Valid, other.TotalErrors)
	}

	// Input is left untouched
	if pages[0].Schema.Valid || len(pages[0].Schema.Results[0].Errors) != 1 {
		t.Error("Filter modified its input")
	}
}

func TestFilterWarnings(t *testing.T) {
	pages := []analysis.PageReport{articlePage("a.md")}
	b := CreateBaseline(Findings(pages))

	filtered, suppressed := b.Filter(pages)

	if suppressed != 2 {
		t.Errorf("suppressed = %d, want 2", suppressed)
	}
	if filtered[0].Schema.TotalWarnings != 0 || len(filtered[0].Schema.Results[0].Warnings) != 0 {
		t.Error("Expected warnings to be filtered")
	}
}

func TestFilterSkipsPagesWithoutSchema(t *testing.T) {
	pages := []analysis.PageReport{{Source: "c.md", Error: "c.md: body is empty"}}

	filtered, suppressed := CreateBaseline(nil).Filter(pages)

	if suppressed != 0 || filtered[0].Schema != nil || filtered[0].Error != pages[0].Error {
		t.Errorf("Filter changed a page without schema: %+v", filtered[0])
	}
}

func TestSaveAndLoadBaseline(t *testing.T) {
	tmpDir := t.TempDir()
	baselinePath := filepath.Join(tmpDir, ".geolintbaseline.json")

	findings := []Finding{missingHeadline("posts/a.md")}

	original := CreateBaseline(findings)
	if err := original.SaveBaseline(baselinePath); err != nil {
		t.Fatalf("Failed to save baseline: %v", err)
	}

	if _, err := os.Stat(baselinePath); err != nil {
		t.Fatalf("Baseline file not created: %v", err)
	}

	loaded, err := LoadBaseline(baselinePath)
	if err != nil {
		t.Fatalf("Failed to load baseline: %v", err)
	}

	if loaded.Version != original.Version {
		t.Errorf("Version mismatch: expected %s, got %s", original.Version, loaded.Version)
	}
	if loaded.CreatedAt != original.CreatedAt {
		t.Errorf("CreatedAt mismatch: expected %s, got %s", original.CreatedAt, loaded.CreatedAt)
	}

	// Verify index is rebuilt
	if len(loaded.index) != len(original.Fingerprints) {
		t.Errorf("Index not rebuilt: expected %d entries, got %d",
			len(original.Fingerprints), len(loaded.index))
	}

	if !loaded.IsKnown(findings[0]) {
		t.Error("Expected loaded baseline to recognize original finding")
	}
}

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			input:    `Missing required field "headline" for Article`,
			expected: `Missing required field "*" for Article`,
		},
		{
			input:    "Rating value 7 exceeds bestRating 5",
			expected: "Rating value N exceeds bestRating N",
		},
		{
			input:    "Field 'step' isn't a list",
			expected: "Field '*' isn't a list",
		},
		{
			input:    "Extra   whitespace   here",
			expected: "Extra whitespace here",
		},
	}

	for _, tt := range tests {
		result := normalizeMessage(tt.input)
		if result != tt.expected {
			t.Errorf("normalizeMessage(%q)\nExpected: %q\nGot:      %q",
				tt.input, tt.expected, result)
		}
	}
}

func TestFingerprintStability(t *testing.T) {
	f := Finding{
		File:       "products/widget.html",
		SchemaType: "Product",
		Field:      "aggregateRating",
		Severity:   types.SeverityError,
		Message:    "Rating value 7 exceeds bestRating 5",
	}

	fp1 := fingerprint(f)

	// Change specific values in message
	f.Message = "Rating value 9 exceeds bestRating 5"
	if fp1 != fingerprint(f) {
		t.Error("Fingerprint changed when only specific values in message changed (should normalize)")
	}

	// Change message pattern
	f.Message = "Completely different error"
	if fp1 == fingerprint(f) {
		t.Error("Fingerprint didn't change when message pattern changed")
	}

	// Change file
	f.Message = "Rating value 7 exceeds bestRating 5"
	f.File = "products/other.html"
	if fp1 == fingerprint(f) {
		t.Error("Fingerprint didn't change when file changed")
	}
}

func TestLoadNonexistentBaseline(t *testing.T) {
	_, err := LoadBaseline("/nonexistent/path/.geolintbaseline.json")
	if err == nil {
		t.Error("Expected error when loading nonexistent baseline")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	baselinePath := filepath.Join(tmpDir, ".geolintbaseline.json")

	if err := os.WriteFile(baselinePath, []byte("invalid json"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	_, err := LoadBaseline(baselinePath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON")
	}
}
