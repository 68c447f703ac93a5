package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/entity"
	"github.com/dotcommander/geolint/internal/schema"
	"github.com/dotcommander/geolint/internal/scoring"
	"github.com/dotcommander/geolint/internal/types"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func scoredPage(source string, total int) analysis.PageReport {
	return analysis.PageReport{
		Source: source,
		URL:    "https://example.com/" + source,
		Score: &scoring.CompositeResult{
			TotalScore: total,
			Grade:      scoring.GradeFromScore(total),
			Percentile: 61,
			Dimensions: []scoring.DimensionScore{
				{Key: scoring.DimSchemaMarkup, Name: "Schema Markup", Score: 16, Max: 20, Details: "Article markup present"},
				{Key: scoring.DimEntityClarity, Name: "Entity Clarity", Score: 5, Max: 20},
			},
			Recommendations: []scoring.Recommendation{
				{Priority: 1, Category: "entity_clarity", Action: "Name the product early", Impact: types.ImpactHigh, Effort: types.EffortQuickWin, Details: "Mention it in the first paragraph."},
				{Priority: 2, Category: "authority", Action: "Add an author", Impact: types.ImpactMedium, Effort: types.EffortQuickWin},
				{Priority: 3, Category: "structure", Action: "Add headings", Impact: types.ImpactMedium, Effort: types.EffortModerate},
				{Priority: 4, Category: "structure", Action: "Add a list", Impact: types.ImpactLow, Effort: types.EffortModerate},
			},
		},
	}
}

func invalidSchemaPage() analysis.PageReport {
	p := scoredPage("faq.md", 40)
	p.Schema = &schema.Report{
		Results: []schema.ValidationResult{{
			SchemaType:        "FAQPage",
			Valid:             false,
			CompletenessScore: 45,
			Errors: []schema.Error{
				{Field: "mainEntity", Message: "FAQPage needs at least one Question", Severity: types.SeverityError},
				{Field: "@type", Message: "Thing is very generic", Severity: types.SeverityInfo},
			},
			Warnings:           []schema.Warning{{Field: "url", Message: "Missing recommended field", Suggestion: "Add the canonical URL"}},
			MissingRecommended: []string{"url"},
		}},
		TotalErrors:   1,
		TotalWarnings: 1,
	}
	return p
}

func testReport() *Report {
	return &Report{
		Command: "summary",
		Root:    "site",
		Pages: []analysis.PageReport{
			scoredPage("a.md", 85),
			invalidSchemaPage(),
			{Source: "empty.md", Error: "invalid input: content: must not be empty"},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testReport().Pages)

	assert.Equal(t, 3, s.TotalFiles)
	assert.Equal(t, 2, s.ScoredPages)
	assert.Equal(t, 2, s.FailedFiles)
	assert.Equal(t, 63, s.AverageScore)
	assert.Equal(t, "C", s.AverageGrade)
	assert.Equal(t, map[string]int{"A": 1, "D": 1}, s.Grades)
	assert.Equal(t, 1, s.SchemaObjects)
	assert.Equal(t, 1, s.InvalidSchemas)
	assert.Equal(t, 1, s.TotalErrors, "info findings are not errors")
	assert.Equal(t, 1, s.TotalWarnings)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s)
}

func TestSummaryFails(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		level   string
		want    bool
	}{
		{"clean error", Summary{TotalFiles: 2}, "error", false},
		{"failed error", Summary{FailedFiles: 1}, "error", true},
		{"warnings only error", Summary{TotalWarnings: 3}, "error", false},
		{"warnings only warning", Summary{TotalWarnings: 3}, "warning", true},
		{"failed none", Summary{FailedFiles: 5, TotalWarnings: 5}, "none", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.summary.Fails(tt.level))
		})
	}
}

func newTestConsole(verbose bool) (*ConsoleFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(false, verbose)
	f.colorize = false
	f.out = &buf
	return f, &buf
}

func TestConsoleFormatter_Format(t *testing.T) {
	tests := []struct {
		name            string
		report          *Report
		verbose         bool
		wantContains    []string
		wantNotContains []string
	}{
		{
			name:   "scored page",
			report: &Report{Pages: []analysis.PageReport{scoredPage("a.md", 85)}},
			wantContains: []string{
				"✓ a.md",
				"GEO score 85/100  grade A  percentile 61",
				"Schema Markup  ████████████████░░░░ 16/20",
				"Entity Clarity █████░░░░░░░░░░░░░░░ 5/20",
				"1. Name the product early [high/quick_win]",
				"… 1 more (use --verbose)",
				"1 file, average score 85 (A)",
				"✓ All passed",
			},
			wantNotContains: []string{"Add a list", "Mention it in the first paragraph."},
		},
		{
			name:    "verbose shows every recommendation",
			report:  &Report{Pages: []analysis.PageReport{scoredPage("a.md", 85)}},
			verbose: true,
			wantContains: []string{
				"4. Add a list [low/moderate]",
				"Mention it in the first paragraph.",
				"Article markup present",
			},
			wantNotContains: []string{"more (use --verbose)"},
		},
		{
			name:   "schema findings and input errors",
			report: testReport(),
			wantContains: []string{
				"✗ faq.md",
				"Schema FAQPage  invalid  completeness 45%",
				"✘ mainEntity: FAQPage needs at least one Question",
				"ℹ @type: Thing is very generic",
				"⚠ url: Missing recommended field",
				"✗ empty.md",
				"✘ invalid input: content: must not be empty",
				"3 files, average score 63 (C), 1 error, 1 warning",
			},
			wantNotContains: []string{"All passed", "Add the canonical URL"},
		},
		{
			name:         "empty report",
			report:       &Report{},
			wantContains: []string{"No files to analyze"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, buf := newTestConsole(tt.verbose)
			require.NoError(t, f.Format(tt.report))
			out := buf.String()
			for _, want := range tt.wantContains {
				assert.Contains(t, out, want)
			}
			for _, not := range tt.wantNotContains {
				assert.NotContains(t, out, not)
			}
		})
	}
}

func TestConsoleFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(true, false)
	f.out = &buf
	require.NoError(t, f.Format(testReport()))
	assert.Empty(t, buf.String())
}

func TestConsoleFormatter_Sections(t *testing.T) {
	page := analysis.PageReport{
		Source: "guide.md",
		Readability: &analysis.ReadabilityReport{
			Profile: scoring.ReadabilityProfile{
				OverallScore: 64,
				Grade:        "C",
				Dimensions:   []scoring.DimensionScore{{Name: "Quotability", Score: 70, Max: 100}},
				Metrics:      scoring.ReadabilityMetrics{WordCount: 420, SentenceCount: 30, ParagraphCount: 8, AvgSentenceLength: 14, FillerRatio: 0.02},
			},
			Qualitative: types.QualitativeAnalysis{Strengths: []string{"Clear definitions"}, Weaknesses: []string{"No statistics"}},
		},
		Entities: &entity.Result{
			OverallScore:    58,
			Entities:        []entity.Entity{{Name: "Acme", Type: "Organization", Status: types.EntityFound, SameAsLinks: []string{"https://en.wikipedia.org/wiki/Acme"}}},
			Recommendations: []string{entity.RecUnlinked},
		},
		Generated: &schema.Generated{
			ContentType: types.ContentTypeArticle,
			SchemaType:  "Article",
			Schema:      map[string]any{"@type": "Article", "headline": "Guide"},
			Validation:  schema.ValidationResult{SchemaType: "Article", Valid: true},
		},
	}

	f, buf := newTestConsole(true)
	require.NoError(t, f.Format(&Report{Pages: []analysis.PageReport{page}}))
	out := buf.String()

	assert.Contains(t, out, "Readability 64/100  grade C")
	assert.Contains(t, out, "420 words, 30 sentences, 8 paragraphs, 14.0 words/sentence, filler 2.0%")
	assert.Contains(t, out, "strength: Clear definitions")
	assert.Contains(t, out, "weakness: No statistics")
	assert.Contains(t, out, "Entities 58/100")
	assert.Contains(t, out, "• Acme (Organization) found")
	assert.Contains(t, out, "https://en.wikipedia.org/wiki/Acme")
	assert.Contains(t, out, "Generated Article for article content  valid")
	assert.Contains(t, out, `"headline": "Guide"`)
}

func TestBar(t *testing.T) {
	tests := []struct {
		score, limit, width int
		want                string
	}{
		{0, 20, 4, "░░░░"},
		{20, 20, 4, "████"},
		{10, 20, 4, "██░░"},
		{25, 20, 4, "████"},
		{5, 0, 4, "░░░░"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bar(tt.score, tt.limit, tt.width))
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(false, true, "")
	f.out = &buf
	f.now = func() time.Time { return fixedNow }

	report := testReport()
	report.StartTime = fixedNow.Add(-1500 * time.Millisecond)
	require.NoError(t, f.Format(report))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	header := decoded["header"].(map[string]any)
	assert.Equal(t, "geolint", header["tool"])
	assert.Equal(t, "summary", header["command"])
	assert.Equal(t, "2024-05-06T07:08:09Z", header["timestamp"])

	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, float64(3), summary["total_files"])
	assert.Equal(t, float64(2), summary["failed_files"])
	assert.Equal(t, "1.5s", summary["duration"])

	results := decoded["results"].([]any)
	require.Len(t, results, 3)
	assert.Equal(t, "a.md", results[0].(map[string]any)["source"])
	assert.Contains(t, results[2].(map[string]any)["error"], "content")
}

func TestJSONFormatter_EmptyResultsIsArray(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(false, false, "")
	f.out = &buf
	require.NoError(t, f.Format(&Report{}))
	assert.Contains(t, buf.String(), `"results":[]`)
}

func TestJSONFormatter_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	var buf bytes.Buffer
	f := NewJSONFormatter(true, true, path)
	f.out = &buf
	require.NoError(t, f.Format(testReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Empty(t, buf.String())
}

func TestMarkdownFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(false, false, "")
	f.out = &buf
	f.now = func() time.Time { return fixedNow }

	require.NoError(t, f.Format(testReport()))
	out := buf.String()

	for _, want := range []string{
		"# GEO Report",
		"**Generated:** 2024-05-06 07:08:09",
		"**Project:** site",
		"| Files Analyzed | 3 |",
		"| Average Score | 63 (C) |",
		"- [faq.md](#faqmd)",
		"### faq.md",
		"Status: ❌",
		"#### GEO Score: 85/100 (grade A, percentile 61)",
		"| Schema Markup | 16/20 |",
		"**FAQPage** - invalid, completeness 45%",
		"- **error** `mainEntity` - FAQPage needs at least one Question",
		"- **warning** `url` - Missing recommended field (Add the canonical URL)",
		"**Error:** invalid input: content: must not be empty",
		"✗ 2 files failed validation",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Missing recommended: url")
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(false, false, "")
	f.out = &buf
	require.NoError(t, f.Format(&Report{}))
	assert.Contains(t, buf.String(), "*No files found to analyze.*")
	assert.Contains(t, buf.String(), "✓ All files passed validation!")
}

func TestCompactFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewCompactFormatter(false, true)
	f.colorize = false
	f.out = &buf
	f.isTTY = func() bool { return false }

	require.NoError(t, f.Format(testReport()))
	out := buf.String()

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines, "  ✓ a.md      A  85  p61")
	assert.Contains(t, lines, "  ✗ faq.md    D  40  p61  schema 0/1 valid")
	assert.Contains(t, lines, "  ✗ empty.md  skipped")
	assert.Contains(t, out, "Errors:\n  faq.md\n    ✘ FAQPage.mainEntity: FAQPage needs at least one Question\n  empty.md\n    ✘ invalid input")
	assert.Contains(t, out, "Warnings:\n  faq.md\n    ⚠ FAQPage.url: Missing recommended field")
	assert.Contains(t, out, "1/3 passed, average 63 (C), 1 error")
}

func TestCreateAnchor(t *testing.T) {
	assert.Equal(t, "docs-guidemd", createAnchor("docs/guide.md"))
	assert.Equal(t, "my-page", createAnchor("My Page"))
}
