// Package types provides shared types used across the geolint codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import "time"

// ContentUnit is a single page submitted for analysis.
type ContentUnit struct {
	URL      string            `json:"url" yaml:"url"`
	Title    string            `json:"title" yaml:"title"`
	Content  string            `json:"content" yaml:"-"`
	Headings []string          `json:"headings,omitempty" yaml:"headings"`
	Meta     map[string]string `json:"meta,omitempty" yaml:"meta"`
	Schemas  []map[string]any  `json:"schemas,omitempty" yaml:"schemas"`
	Source   string            `json:"source,omitempty" yaml:"-"`

	// SchemaErrors describes embedded JSON-LD blocks that could not be parsed.
	SchemaErrors []string `json:"schema_errors,omitempty" yaml:"-"`
}

// MetaValue returns the first non-blank metadata value among keys.
func (u *ContentUnit) MetaValue(keys ...string) string {
	if u == nil || u.Meta == nil {
		return ""
	}
	for _, k := range keys {
		if v, ok := u.Meta[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Severity level constants.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Impact levels for recommendations.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Effort levels for recommendations.
const (
	EffortQuickWin    = "quick_win"
	EffortModerate    = "moderate"
	EffortSignificant = "significant"
)

// Meta keys read by the scorers.
const (
	MetaAuthor = "author"
)

// PublishedDateKeys are the metadata keys accepted as a publication date.
var PublishedDateKeys = []string{"published_date", "date_published", "datePublished", "published_time"}

// TimestampLayout is the ISO-8601 UTC layout used for every timestamp in output.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Timestamp formats t in TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
