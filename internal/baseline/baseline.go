package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/schema"
	"github.com/dotcommander/geolint/internal/types"
)

var (
	doubleQuoted = regexp.MustCompile(`"[^"]+"`)
	singleQuoted = regexp.MustCompile(`(^|\s)'([^']+)'(\s|$)`)
	number       = regexp.MustCompile(`\b\d+\b`)
)

// Finding is one schema validation finding located in a source file.
type Finding struct {
	File       string
	SchemaType string
	Field      string
	Severity   string
	Message    string
}

// Baseline represents a snapshot of known findings that should be ignored
type Baseline struct {
	Version      string   `json:"version"`
	CreatedAt    string   `json:"created_at"`
	Fingerprints []string `json:"fingerprints"`
	index        map[string]bool // For fast lookup
}

// Findings collects the schema errors and warnings of pages.
func Findings(pages []analysis.PageReport) []Finding {
	var out []Finding
	for _, p := range pages {
		if p.Schema == nil {
			continue
		}
		for _, res := range p.Schema.Results {
			for _, e := range res.Errors {
				out = append(out, Finding{File: p.Source, SchemaType: res.SchemaType, Field: e.Field, Severity: e.Severity, Message: e.Message})
			}
			for _, w := range res.Warnings {
				out = append(out, warningFinding(p.Source, res.SchemaType, w))
			}
		}
	}
	return out
}

// CreateBaseline creates a new baseline from a list of findings
func CreateBaseline(findings []Finding) *Baseline {
	fingerprints := make([]string, 0, len(findings))
	index := make(map[string]bool)

	for _, f := range findings {
		fp := fingerprint(f)
		if !index[fp] {
			fingerprints = append(fingerprints, fp)
			index[fp] = true
		}
	}

	// Sort for deterministic output
	sort.Strings(fingerprints)

	return &Baseline{
		Version:      "1.0",
		CreatedAt:    types.Timestamp(time.Now()),
		Fingerprints: fingerprints,
		index:        index,
	}
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}

	// Build index for fast lookup
	b.index = make(map[string]bool, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.index[fp] = true
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// IsKnown checks if a finding is in the baseline
func (b *Baseline) IsKnown(f Finding) bool {
	if b == nil || b.index == nil {
		return false
	}
	return b.index[fingerprint(f)]
}

// Filter returns pages with known findings removed and the number removed.
// Validity and totals of each schema report are recomputed; pages are
// copied, never modified in place.
func (b *Baseline) Filter(pages []analysis.PageReport) ([]analysis.PageReport, int) {
	out := make([]analysis.PageReport, len(pages))
	suppressed := 0
	for i, p := range pages {
		out[i] = p
		if p.Schema == nil {
			continue
		}

		report := *p.Schema
		report.Results = make([]schema.ValidationResult, len(p.Schema.Results))
		report.Valid = true
		report.TotalErrors, report.TotalWarnings = 0, 0

		for j, res := range p.Schema.Results {
			kept := res
			kept.Errors = []schema.Error{}
			kept.Warnings = []schema.Warning{}
			for _, e := range res.Errors {
				if b.IsKnown(Finding{File: p.Source, SchemaType: res.SchemaType, Field: e.Field, Severity: e.Severity, Message: e.Message}) {
					suppressed++
					continue
				}
				kept.Errors = append(kept.Errors, e)
			}
			for _, w := range res.Warnings {
				if b.IsKnown(warningFinding(p.Source, res.SchemaType, w)) {
					suppressed++
					continue
				}
				kept.Warnings = append(kept.Warnings, w)
			}

			kept.Valid = kept.ErrorCount() == 0
			report.Valid = report.Valid && kept.Valid
			report.TotalErrors += kept.ErrorCount()
			report.TotalWarnings += len(kept.Warnings)
			report.Results[j] = kept
		}
		out[i].Schema = &report
	}
	return out, suppressed
}

func warningFinding(file, schemaType string, w schema.Warning) Finding {
	return Finding{File: file, SchemaType: schemaType, Field: w.Field, Severity: types.SeverityWarning, Message: w.Message}
}

// fingerprint creates a stable hash of a finding for comparison
// Uses: file path + schema type + field + severity + normalized message
func fingerprint(f Finding) string {
	msg := normalizeMessage(f.Message)
	data := fmt.Sprintf("%s|%s|%s|%s|%s", f.File, f.SchemaType, f.Field, f.Severity, msg)

	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// normalizeMessage normalizes messages to create stable patterns
// Replaces specific values with placeholders to match similar findings
func normalizeMessage(msg string) string {
	// Replace double-quoted strings with placeholder
	msg = doubleQuoted.ReplaceAllString(msg, `"*"`)

	// Replace single-quoted strings with placeholder
	// Match only when surrounded by whitespace/start/end to avoid contractions
	msg = singleQuoted.ReplaceAllString(msg, `$1'*'$3`)

	// Replace numbers with placeholder
	msg = number.ReplaceAllString(msg, `N`)

	// Normalize whitespace
	msg = strings.Join(strings.Fields(msg), " ")

	return msg
}
