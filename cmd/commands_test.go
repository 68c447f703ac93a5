package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/output"
	"github.com/dotcommander/geolint/internal/scoring"
)

const heatPumpPage = `---
title: How Heat Pumps Work
url: https://example.com/heat-pumps
author: Ada Lovelace
date: 2024-03-01
---

# How Heat Pumps Work

A heat pump is a device that moves heat from outside air into your home. According to the IEA, heat pumps cut emissions by 20% compared with gas boilers.

## How does a heat pump work in winter?

Modern units extract heat down to -15C. The compressor raises the refrigerant temperature.

## What does installation cost?

- Air-source units cost $8,000 to $12,000.
- Ground-source units cost more.
`

const articleMissingHeadline = `{
  "@context": "https://schema.org",
  "@type": "Article",
  "author": {"@type": "Person", "name": "Ada Lovelace"},
  "datePublished": "2024-03-01"
}`

const personSchema = `{"@context": "https://schema.org", "@type": "Person", "name": "Ada Lovelace"}`

// writeProject creates files under a temp root and returns it.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// readReport runs a command with JSON output and decodes the report.
func readReport(t *testing.T, root string, args ...string) (output.JSONReport, int) {
	t.Helper()
	reportPath := filepath.Join(t.TempDir(), "report.json")
	args = append(args, "--root", root, "--quiet", "--format", "json", "--output", reportPath)

	code := execute(t, args...)

	var report output.JSONReport
	data, err := os.ReadFile(reportPath)
	require.NoError(t, err, "report file not written")
	require.NoError(t, json.Unmarshal(data, &report))
	return report, code
}

func TestScoreCommand(t *testing.T) {
	root := writeProject(t, map[string]string{"docs/heat-pumps.md": heatPumpPage})

	report, code := readReport(t, root, "score")

	assert.Equal(t, 0, code)
	assert.Equal(t, "score", report.Header.Command)
	require.Len(t, report.Results, 1)

	page := report.Results[0]
	assert.Equal(t, "docs/heat-pumps.md", page.Source)
	require.NotNil(t, page.Score)
	assert.GreaterOrEqual(t, page.Score.TotalScore, 0)
	assert.LessOrEqual(t, page.Score.TotalScore, 100)
	assert.NotEmpty(t, page.Score.Grade)
	assert.Nil(t, page.Readability)
	assert.Equal(t, 1, report.Summary.ScoredPages)
}

func TestScoreCommand_MinGrade(t *testing.T) {
	root := writeProject(t, map[string]string{"thin.md": "---\ntitle: Thin\n---\n\nShort page.\n"})

	_, code := readReport(t, root, "score", "--min-grade", "A")
	assert.Equal(t, 1, code)

	_, code = readReport(t, root, "score", "--min-grade", "F")
	assert.Equal(t, 0, code)
}

func TestScoreCommand_InvalidMinGrade(t *testing.T) {
	root := writeProject(t, map[string]string{"a.md": heatPumpPage})

	assert.Equal(t, 1, execute(t, "score", "--root", root, "--quiet", "--min-grade", "Z"))
}

func TestScoreCommand_EmptyPageIsRecorded(t *testing.T) {
	root := writeProject(t, map[string]string{
		"good.md":  heatPumpPage,
		"empty.md": "---\ntitle: Empty\n---\n",
	})

	report, code := readReport(t, root, "score")

	assert.Equal(t, 1, code)
	require.Len(t, report.Results, 2)
	var failed []analysis.PageReport
	for _, p := range report.Results {
		if p.Error != "" {
			failed = append(failed, p)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, "empty.md", failed[0].Source)
	assert.Equal(t, 1, report.Summary.FailedFiles)
}

func TestReadabilityCommand(t *testing.T) {
	root := writeProject(t, map[string]string{"heat-pumps.md": heatPumpPage})

	report, code := readReport(t, root, "readability", "--faq")

	assert.Equal(t, 0, code)
	require.Len(t, report.Results, 1)
	page := report.Results[0]
	assert.Nil(t, page.Score)
	require.NotNil(t, page.Readability)
	assert.GreaterOrEqual(t, page.Readability.Profile.OverallScore, 0)
	assert.LessOrEqual(t, page.Readability.Profile.OverallScore, 100)
}

func TestEntitiesCommand(t *testing.T) {
	root := writeProject(t, map[string]string{"heat-pumps.md": heatPumpPage})

	report, code := readReport(t, root, "entities")

	assert.Equal(t, 0, code)
	require.Len(t, report.Results, 1)
	assert.NotNil(t, report.Results[0].Entities)
}

func TestGenerateCommand(t *testing.T) {
	root := writeProject(t, map[string]string{"heat-pumps.md": heatPumpPage})

	report, code := readReport(t, root, "generate")

	assert.Equal(t, 0, code)
	require.Len(t, report.Results, 1)
	gen := report.Results[0].Generated
	require.NotNil(t, gen)
	assert.Equal(t, "Article", gen.SchemaType)
	assert.Equal(t, "How Heat Pumps Work", gen.Schema["headline"])
}

func TestValidateCommand(t *testing.T) {
	root := writeProject(t, map[string]string{
		"schemas/article.jsonld": articleMissingHeadline,
		"schemas/person.jsonld":  personSchema,
		"plain.md":               heatPumpPage,
	})

	tests := []struct {
		name     string
		failOn   string
		wantCode int
	}{
		{"fails on error", "error", 1},
		{"none never fails", "none", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, code := readReport(t, root, "validate", "--fail-on", tt.failOn)
			assert.Equal(t, tt.wantCode, code)

			// the markdown page has no JSON-LD and is skipped
			require.Len(t, report.Results, 2)
			bySource := map[string]analysis.PageReport{}
			for _, p := range report.Results {
				bySource[p.Source] = p
			}

			article := bySource["schemas/article.jsonld"]
			require.NotNil(t, article.Schema)
			assert.False(t, article.Schema.Valid)
			assert.Positive(t, article.Schema.TotalErrors)

			person := bySource["schemas/person.jsonld"]
			require.NotNil(t, person.Schema)
			assert.True(t, person.Schema.Valid)
			assert.Positive(t, person.Schema.TotalWarnings)
		})
	}
}

func TestValidateCommand_FailOnWarning(t *testing.T) {
	root := writeProject(t, map[string]string{"person.jsonld": personSchema})

	_, code := readReport(t, root, "validate")
	assert.Equal(t, 0, code)

	_, code = readReport(t, root, "validate", "--fail-on", "warning")
	assert.Equal(t, 1, code)
}

func TestValidateCommand_EmbeddedSchema(t *testing.T) {
	page := `---
title: FAQ
schema:
  "@context": https://schema.org
  "@type": FAQPage
  mainEntity:
    - "@type": Question
      name: Do heat pumps work in winter?
      acceptedAnswer:
        "@type": Answer
        text: Yes, down to -15C.
---

Do heat pumps work in winter? Yes.
`
	root := writeProject(t, map[string]string{"faq.md": page})

	report, code := readReport(t, root, "validate")

	assert.Equal(t, 0, code)
	require.Len(t, report.Results, 1)
	require.NotNil(t, report.Results[0].Schema)
	assert.Equal(t, "FAQPage", report.Results[0].Schema.Results[0].SchemaType)
}

func TestValidateCommand_BrokenEmbeddedJSONLD(t *testing.T) {
	page := `<html><head><title>Heat pumps</title>
<script type="application/ld+json">{"@context": "https://schema.org", "@type": "Article",}</script>
</head><body><p>A heat pump moves heat from outside air into your home.</p></body></html>`
	root := writeProject(t, map[string]string{"heat-pumps.html": page})

	report, code := readReport(t, root, "validate")

	assert.Equal(t, 1, code)
	require.Len(t, report.Results, 1)
	result := report.Results[0].Schema
	require.NotNil(t, result)
	assert.False(t, result.Valid)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "ld+json", result.Results[0].Errors[0].Field)
}

func TestBaselineWorkflow(t *testing.T) {
	root := writeProject(t, map[string]string{"article.jsonld": articleMissingHeadline})
	baselineFile := filepath.Join(root, ".geolintbaseline.json")

	_, code := readReport(t, root, "validate")
	require.Equal(t, 1, code)

	// Creating the baseline accepts the current state
	_, code = readReport(t, root, "validate", "--create-baseline")
	assert.Equal(t, 0, code)
	_, err := os.Stat(baselineFile)
	require.NoError(t, err, "baseline file not created")

	report, code := readReport(t, root, "validate", "--baseline")
	assert.Equal(t, 0, code)
	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Schema.Valid)
	assert.Zero(t, report.Summary.TotalErrors)
}

func TestValidateCommand_Staged(t *testing.T) {
	root := writeProject(t, map[string]string{
		"committed.jsonld": articleMissingHeadline,
		"person.jsonld":    personSchema,
	})
	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		c := exec.Command("git", args...)
		c.Dir = root
		if err := c.Run(); err != nil {
			t.Skip("git not available")
		}
	}
	runGit := func(args ...string) {
		c := exec.Command("git", args...)
		c.Dir = root
		out, err := c.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	runGit("add", "committed.jsonld")
	runGit("commit", "-m", "initial")

	// Nothing staged: nothing to report
	report, code := readReport(t, root, "validate", "--staged")
	assert.Equal(t, 0, code)
	assert.Empty(t, report.Results)

	runGit("add", "person.jsonld")
	report, code = readReport(t, root, "validate", "--staged")
	assert.Equal(t, 0, code)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "person.jsonld", report.Results[0].Source)
}

func TestValidateCommand_StagedOutsideGit(t *testing.T) {
	root := writeProject(t, map[string]string{"person.jsonld": personSchema})

	assert.Equal(t, 1, execute(t, "validate", "--root", root, "--quiet", "--staged"))
}

func TestSummaryCommand(t *testing.T) {
	root := writeProject(t, map[string]string{
		"heat-pumps.md":  heatPumpPage,
		"article.jsonld": articleMissingHeadline,
	})

	report, code := readReport(t, root, "summary")

	assert.Equal(t, 1, code)
	assert.Equal(t, "summary", report.Header.Command)
	assert.Len(t, report.Results, 2)
	assert.Equal(t, 2, report.Summary.TotalFiles)
	assert.Equal(t, 1, report.Summary.ScoredPages)
	assert.Equal(t, 1, report.Summary.InvalidSchemas)
}

func TestSummaryCommand_CompactQuiet(t *testing.T) {
	root := writeProject(t, map[string]string{"heat-pumps.md": heatPumpPage})

	assert.Equal(t, 0, execute(t, "summary", "--root", root, "--quiet"))
}

func TestInitCommand(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".geolintrc.json")

	require.Equal(t, 0, execute(t, "init", "--root", root, "--quiet", "--concurrency", "8"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved map[string]any
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, ".", saved["root"])
	assert.Equal(t, float64(8), saved["concurrency"])
	assert.NotContains(t, string(data), "apiKey")

	// A second run needs --force
	assert.Equal(t, 1, execute(t, "init", "--root", root, "--quiet"))
	assert.Equal(t, 0, execute(t, "init", "--root", root, "--quiet", "--force"))
}

func TestInitCommand_HugoSite(t *testing.T) {
	root := writeProject(t, map[string]string{
		"hugo.toml":             "title = 'Heat'",
		"content/heat-pumps.md": heatPumpPage,
		"public/index.html":     "<title>Built</title>",
	})

	require.Equal(t, 0, execute(t, "init", "--root", root, "--quiet"))

	data, err := os.ReadFile(filepath.Join(root, ".geolintrc.json"))
	require.NoError(t, err)
	var saved struct {
		Include []string `json:"include"`
		Exclude []string `json:"exclude"`
	}
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Contains(t, saved.Include, "content/**/*.md")
	assert.NotContains(t, saved.Include, "**/*.md")
	assert.Contains(t, saved.Exclude, "public/**")

	// The written config scopes later runs to the content directory
	report, code := readReport(t, root, "score")
	assert.Equal(t, 0, code)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "content/heat-pumps.md", report.Results[0].Source)
}

func TestBelowGrade(t *testing.T) {
	pages := []analysis.PageReport{
		{Source: "a.md", Score: scoreWithGrade("A")},
		{Source: "c.md", Score: scoreWithGrade("C")},
		{Source: "f.md", Score: scoreWithGrade("F")},
		{Source: "broken.md", Error: "content must not be empty"},
	}

	tests := []struct {
		grade string
		want  []string
	}{
		{"", nil},
		{"F", nil},
		{"b", []string{"c.md", "f.md"}},
		{"A", []string{"c.md", "f.md"}},
		{"D", []string{"f.md"}},
	}

	for _, tt := range tests {
		t.Run("min "+tt.grade, func(t *testing.T) {
			assert.Equal(t, tt.want, belowGrade(pages, tt.grade))
		})
	}
}

func scoreWithGrade(grade string) *scoring.CompositeResult {
	return &scoring.CompositeResult{Grade: grade}
}
