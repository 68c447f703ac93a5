package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/scoring"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	quiet      bool
	verbose    bool
	outputFile string
	out        io.Writer
	now        func() time.Time
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(quiet, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		quiet:      quiet,
		verbose:    verbose,
		outputFile: outputFile,
		out:        os.Stdout,
		now:        time.Now,
	}
}

// Format formats the report as Markdown
func (f *MarkdownFormatter) Format(report *Report) error {
	var builder strings.Builder
	summary := Summarize(report.Pages)

	// Header
	builder.WriteString("# GEO Report\n\n")
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", f.now().Format("2006-01-02 15:04:05")))
	if report.Root != "" {
		builder.WriteString(fmt.Sprintf("**Project:** %s\n\n", report.Root))
	}
	if !report.StartTime.IsZero() {
		builder.WriteString(fmt.Sprintf("**Duration:** %v\n\n", f.now().Sub(report.StartTime).Round(time.Millisecond)))
	}
	builder.WriteString(strings.Repeat("-", 50) + "\n\n")

	// Summary Table
	builder.WriteString("## Summary\n\n")
	builder.WriteString("| Metric | Value |\n")
	builder.WriteString("|--------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Files Analyzed | %d |\n", summary.TotalFiles))
	if summary.ScoredPages > 0 {
		builder.WriteString(fmt.Sprintf("| Average Score | %d (%s) |\n", summary.AverageScore, summary.AverageGrade))
	}
	builder.WriteString(fmt.Sprintf("| Failed | %d |\n", summary.FailedFiles))
	builder.WriteString(fmt.Sprintf("| Schema Errors | %d |\n", summary.TotalErrors))
	builder.WriteString(fmt.Sprintf("| Schema Warnings | %d |\n", summary.TotalWarnings))
	builder.WriteString("\n")

	// Detailed Results
	builder.WriteString("## Detailed Results\n\n")

	if summary.TotalFiles == 0 {
		builder.WriteString("*No files found to analyze.*\n\n")
	} else {
		// Table of contents for multiple files
		if summary.TotalFiles > 1 {
			builder.WriteString("### Files\n\n")
			for _, page := range report.Pages {
				name := strings.TrimPrefix(pageName(page), "./")
				builder.WriteString(fmt.Sprintf("- [%s](#%s)\n", name, createAnchor(name)))
			}
			builder.WriteString("\n")
		}

		for _, page := range report.Pages {
			f.writePage(&builder, page)
		}
	}

	// Conclusion
	builder.WriteString("## Conclusion\n\n")
	if summary.FailedFiles == 0 {
		builder.WriteString("✓ All files passed validation!\n")
	} else {
		builder.WriteString(fmt.Sprintf("✗ %d %s failed validation\n", summary.FailedFiles, pluralizeCount("file", summary.FailedFiles)))
	}

	// Write to file or stdout
	content := builder.String()
	if f.outputFile != "" {
		if err := os.WriteFile(f.outputFile, []byte(content), 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", f.outputFile, err)
		}
		return nil
	}
	if f.quiet {
		return nil
	}
	_, err := fmt.Fprint(f.out, content)
	return err
}

func (f *MarkdownFormatter) writePage(b *strings.Builder, page analysis.PageReport) {
	name := strings.TrimPrefix(pageName(page), "./")
	b.WriteString(fmt.Sprintf("### %s\n\n", name))
	b.WriteString(fmt.Sprintf("Status: %s\n\n", getStatusEmoji(!pageFailed(page))))
	if page.URL != "" && page.URL != name {
		b.WriteString(fmt.Sprintf("URL: %s\n\n", page.URL))
	}

	if page.Error != "" {
		b.WriteString(fmt.Sprintf("**Error:** %s\n\n", page.Error))
		return
	}

	if r := page.Score; r != nil {
		b.WriteString(fmt.Sprintf("#### GEO Score: %d/100 (grade %s, percentile %d)\n\n", r.TotalScore, r.Grade, r.Percentile))
		writeDimensions(b, r.Dimensions)
		f.writeRecommendations(b, r.Recommendations)
	}

	if r := page.Readability; r != nil {
		b.WriteString(fmt.Sprintf("#### Readability: %d/100 (grade %s)\n\n", r.Profile.OverallScore, r.Profile.Grade))
		writeDimensions(b, r.Profile.Dimensions)
		f.writeRecommendations(b, r.Profile.Recommendations)
		writeBullets(b, "Strengths", r.Qualitative.Strengths)
		writeBullets(b, "Weaknesses", r.Qualitative.Weaknesses)
		writeBullets(b, "Missing elements", r.Qualitative.MissingElements)
	}

	if r := page.Schema; r != nil {
		b.WriteString("#### Schema Validation\n\n")
		for _, res := range r.Results {
			state := "valid"
			if !res.Valid {
				state = "invalid"
			}
			b.WriteString(fmt.Sprintf("**%s** - %s, completeness %d%%\n\n", res.SchemaType, state, res.CompletenessScore))
			for _, e := range res.Errors {
				b.WriteString(fmt.Sprintf("- **%s** `%s` - %s\n", e.Severity, e.Field, e.Message))
			}
			for _, w := range res.Warnings {
				b.WriteString(fmt.Sprintf("- **warning** `%s` - %s", w.Field, w.Message))
				if w.Suggestion != "" {
					b.WriteString(fmt.Sprintf(" (%s)", w.Suggestion))
				}
				b.WriteString("\n")
			}
			if len(res.Errors)+len(res.Warnings) > 0 {
				b.WriteString("\n")
			}
			if f.verbose && len(res.MissingRecommended) > 0 {
				b.WriteString(fmt.Sprintf("Missing recommended: %s\n\n", strings.Join(res.MissingRecommended, ", ")))
			}
		}
	}

	if r := page.Entities; r != nil {
		b.WriteString(fmt.Sprintf("#### Entities: %d/100\n\n", r.OverallScore))
		if len(r.Entities) > 0 {
			b.WriteString("| Entity | Type | Status |\n")
			b.WriteString("|--------|------|--------|\n")
			for _, e := range r.Entities {
				b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", e.Name, e.Type, e.Status))
			}
			b.WriteString("\n")
		}
		writeBullets(b, "Recommendations", r.Recommendations)
	}

	if g := page.Generated; g != nil {
		b.WriteString(fmt.Sprintf("#### Generated %s\n\n", g.SchemaType))
		if data, err := json.MarshalIndent(g.Schema, "", "  "); err == nil {
			b.WriteString("```json\n")
			b.Write(data)
			b.WriteString("\n```\n\n")
		}
	}

	b.WriteString("---\n\n")
}

func writeDimensions(b *strings.Builder, dims []scoring.DimensionScore) {
	b.WriteString("| Dimension | Score |\n")
	b.WriteString("|-----------|-------|\n")
	for _, d := range dims {
		b.WriteString(fmt.Sprintf("| %s | %d/%d |\n", d.Name, d.Score, d.Max))
	}
	b.WriteString("\n")
}

func (f *MarkdownFormatter) writeRecommendations(b *strings.Builder, recs []scoring.Recommendation) {
	if len(recs) == 0 {
		return
	}
	b.WriteString("Recommendations:\n\n")
	for _, r := range recs {
		b.WriteString(fmt.Sprintf("%d. %s `[%s/%s]`\n", r.Priority, r.Action, r.Impact, r.Effort))
		if f.verbose && r.Details != "" {
			b.WriteString(fmt.Sprintf("   %s\n", r.Details))
		}
	}
	b.WriteString("\n")
}

func writeBullets(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("%s:\n\n", title))
	for _, item := range items {
		b.WriteString(fmt.Sprintf("- %s\n", item))
	}
	b.WriteString("\n")
}

// getStatusEmoji returns an emoji for the status
func getStatusEmoji(success bool) string {
	if success {
		return "✅"
	}
	return "❌"
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}
