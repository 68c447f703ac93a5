// Package output renders analysis reports for the console, as JSON and as
// markdown.
package output

import (
	"time"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/schema"
	"github.com/dotcommander/geolint/internal/scoring"
	"github.com/dotcommander/geolint/internal/types"
)

// Version is reported in JSON headers; the build overrides it.
var Version = "dev"

// Report is everything one command run produced.
type Report struct {
	Command   string
	Root      string
	StartTime time.Time
	Pages     []analysis.PageReport
}

// Summary holds totals over a report's pages.
type Summary struct {
	TotalFiles     int            `json:"total_files"`
	ScoredPages    int            `json:"scored_pages"`
	FailedFiles    int            `json:"failed_files"`
	AverageScore   int            `json:"average_score"`
	AverageGrade   string         `json:"average_grade,omitempty"`
	Grades         map[string]int `json:"grades,omitempty"`
	SchemaObjects  int            `json:"schema_objects"`
	InvalidSchemas int            `json:"invalid_schemas"`
	TotalErrors    int            `json:"total_errors"`
	TotalWarnings  int            `json:"total_warnings"`
}

// Summarize computes totals over pages. Failed files are pages with an input
// error or an invalid schema object.
func Summarize(pages []analysis.PageReport) Summary {
	s := Summary{TotalFiles: len(pages)}
	total := 0
	for _, p := range pages {
		failed := p.Error != ""
		if p.Score != nil {
			s.ScoredPages++
			total += p.Score.TotalScore
			if s.Grades == nil {
				s.Grades = make(map[string]int)
			}
			s.Grades[p.Score.Grade]++
		}
		for _, res := range schemaResults(p) {
			s.SchemaObjects++
			errs := res.ErrorCount()
			if errs > 0 {
				s.InvalidSchemas++
				failed = true
			}
			s.TotalErrors += errs
			s.TotalWarnings += len(res.Warnings)
		}
		if failed {
			s.FailedFiles++
		}
	}
	if s.ScoredPages > 0 {
		s.AverageScore = int(float64(total)/float64(s.ScoredPages) + 0.5)
		s.AverageGrade = scoring.GradeFromScore(s.AverageScore)
	}
	return s
}

// Fails reports whether the summary trips the given fail-on level: "error"
// fails on failed files, "warning" also on any warning, "none" never.
func (s Summary) Fails(level string) bool {
	switch level {
	case types.SeverityError:
		return s.FailedFiles > 0
	case types.SeverityWarning:
		return s.FailedFiles > 0 || s.TotalWarnings > 0
	default:
		return false
	}
}

func schemaResults(p analysis.PageReport) []schema.ValidationResult {
	if p.Schema == nil {
		return nil
	}
	return p.Schema.Results
}
