package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/entity"
	"github.com/dotcommander/geolint/internal/schema"
	"github.com/dotcommander/geolint/internal/scoring"
	"github.com/dotcommander/geolint/internal/types"
)

// topRecommendations is how many recommendations are shown without --verbose.
const topRecommendations = 3

const barWidth = 20

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	grayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	quiet    bool
	verbose  bool
	colorize bool
	out      io.Writer
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		quiet:    quiet,
		verbose:  verbose,
		colorize: true,
		out:      os.Stdout,
	}
}

// Format formats the report for console output
func (f *ConsoleFormatter) Format(report *Report) error {
	if f.quiet {
		// Only show exit code in quiet mode
		return nil
	}

	for i, page := range report.Pages {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.printPage(page)
	}

	summary := Summarize(report.Pages)
	f.printSummary(report, summary)
	f.printConclusion(summary)
	return nil
}

func (f *ConsoleFormatter) style(s lipgloss.Style, text string) string {
	if !f.colorize {
		return text
	}
	return s.Render(text)
}

// printPage prints every section present in one page report.
func (f *ConsoleFormatter) printPage(p analysis.PageReport) {
	status, style := "✓", greenStyle
	if pageFailed(p) {
		status, style = "✗", redStyle
	}
	fmt.Fprintf(f.out, "%s %s\n", f.style(style, status), pageName(p))

	if p.Error != "" {
		fmt.Fprintf(f.out, "    ✘ %s\n", f.style(redStyle, p.Error))
		return
	}
	if p.Score != nil {
		f.printScore(p.Score)
	}
	if p.Readability != nil {
		f.printReadability(p.Readability)
	}
	if p.Schema != nil {
		f.printSchema(p.Schema)
	}
	if p.Entities != nil {
		f.printEntities(p.Entities)
	}
	if p.Generated != nil {
		f.printGenerated(p.Generated)
	}
}

func (f *ConsoleFormatter) printScore(r *scoring.CompositeResult) {
	fmt.Fprintf(f.out, "  %s %d/100  grade %s  percentile %d\n",
		f.style(boldStyle, "GEO score"), r.TotalScore, f.style(gradeStyle(r.Grade), r.Grade), r.Percentile)
	f.printDimensions(r.Dimensions)
	f.printRecommendations(r.Recommendations)
}

func (f *ConsoleFormatter) printReadability(r *analysis.ReadabilityReport) {
	p := r.Profile
	fmt.Fprintf(f.out, "  %s %d/100  grade %s\n",
		f.style(boldStyle, "Readability"), p.OverallScore, f.style(gradeStyle(p.Grade), p.Grade))
	f.printDimensions(p.Dimensions)
	if f.verbose {
		m := p.Metrics
		fmt.Fprintf(f.out, "    %s\n", f.style(dimStyle, fmt.Sprintf(
			"%d words, %d sentences, %d paragraphs, %.1f words/sentence, filler %.1f%%",
			m.WordCount, m.SentenceCount, m.ParagraphCount, m.AvgSentenceLength, m.FillerRatio*100)))
	}
	f.printRecommendations(p.Recommendations)

	q := r.Qualitative
	f.printList("strength", q.Strengths, greenStyle)
	f.printList("weakness", q.Weaknesses, yellowStyle)
	f.printList("missing", q.MissingElements, yellowStyle)
	if f.verbose {
		for _, c := range q.AISnippetCandidates {
			fmt.Fprintf(f.out, "    ❝ %s %s\n", c.Text, f.style(dimStyle, "("+c.Reason+")"))
		}
	}
}

func (f *ConsoleFormatter) printSchema(r *schema.Report) {
	for _, res := range r.Results {
		state, style := "valid", greenStyle
		if !res.Valid {
			state, style = "invalid", redStyle
		}
		fmt.Fprintf(f.out, "  %s %s  %s  completeness %d%%\n",
			f.style(boldStyle, "Schema"), res.SchemaType, f.style(style, state), res.CompletenessScore)
		for _, e := range res.Errors {
			f.printFinding(e.Severity, e.Field, e.Message)
		}
		for _, w := range res.Warnings {
			f.printFinding(types.SeverityWarning, w.Field, w.Message)
			if f.verbose && w.Suggestion != "" {
				fmt.Fprintf(f.out, "        %s\n", f.style(dimStyle, w.Suggestion))
			}
		}
		if f.verbose && len(res.MissingRecommended) > 0 {
			fmt.Fprintf(f.out, "    %s %s\n", f.style(dimStyle, "missing recommended:"), strings.Join(res.MissingRecommended, ", "))
		}
	}
}

func (f *ConsoleFormatter) printEntities(r *entity.Result) {
	fmt.Fprintf(f.out, "  %s %d/100\n", f.style(boldStyle, "Entities"), r.OverallScore)
	for _, e := range r.Entities {
		fmt.Fprintf(f.out, "    • %s %s %s\n", e.Name, f.style(dimStyle, "("+e.Type+")"), f.style(statusStyle(e.Status), e.Status))
		if f.verbose {
			for _, link := range e.SameAsLinks {
				fmt.Fprintf(f.out, "        %s\n", f.style(dimStyle, link))
			}
		}
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(f.out, "    → %s\n", rec)
	}
}

func (f *ConsoleFormatter) printGenerated(g *schema.Generated) {
	state, style := "valid", greenStyle
	if !g.Validation.Valid {
		state, style = "invalid", redStyle
	}
	fmt.Fprintf(f.out, "  %s %s for %s content  %s\n",
		f.style(boldStyle, "Generated"), g.SchemaType, g.ContentType, f.style(style, state))
	for _, e := range g.Validation.Errors {
		f.printFinding(e.Severity, e.Field, e.Message)
	}

	data, err := json.MarshalIndent(g.Schema, "    ", "  ")
	if err != nil {
		fmt.Fprintf(f.out, "    ✘ %s\n", f.style(redStyle, err.Error()))
		return
	}
	fmt.Fprintf(f.out, "    %s\n", data)
}

func (f *ConsoleFormatter) printDimensions(dims []scoring.DimensionScore) {
	width := 0
	for _, d := range dims {
		if len(d.Name) > width {
			width = len(d.Name)
		}
	}
	for _, d := range dims {
		fmt.Fprintf(f.out, "    %-*s %s %d/%d\n", width, d.Name, f.style(barStyle(d), bar(d.Score, d.Max, barWidth)), d.Score, d.Max)
		if f.verbose && d.Details != "" {
			fmt.Fprintf(f.out, "    %s\n", f.style(dimStyle, d.Details))
		}
	}
}

func (f *ConsoleFormatter) printRecommendations(recs []scoring.Recommendation) {
	shown := recs
	if !f.verbose && len(shown) > topRecommendations {
		shown = shown[:topRecommendations]
	}
	for _, r := range shown {
		tag := f.style(dimStyle, fmt.Sprintf("[%s/%s]", r.Impact, r.Effort))
		fmt.Fprintf(f.out, "    %d. %s %s\n", r.Priority, r.Action, tag)
		if f.verbose && r.Details != "" {
			fmt.Fprintf(f.out, "       %s\n", f.style(dimStyle, r.Details))
		}
	}
	if hidden := len(recs) - len(shown); hidden > 0 {
		fmt.Fprintf(f.out, "    %s\n", f.style(dimStyle, fmt.Sprintf("… %d more (use --verbose)", hidden)))
	}
}

func (f *ConsoleFormatter) printList(label string, items []string, style lipgloss.Style) {
	for _, item := range items {
		fmt.Fprintf(f.out, "    %s %s\n", f.style(style, label+":"), item)
	}
}

// printFinding prints a validation finding with appropriate styling
func (f *ConsoleFormatter) printFinding(severity, field, message string) {
	var prefix string
	var style lipgloss.Style
	switch severity {
	case types.SeverityError:
		prefix, style = "    ✘ ", redStyle
	case types.SeverityWarning:
		prefix, style = "    ⚠ ", yellowStyle
	default:
		prefix, style = "    ℹ ", grayStyle
	}
	fmt.Fprintf(f.out, "%s%s: %s\n", prefix, f.style(style, field), message)
}

// printSummary prints the summary statistics
func (f *ConsoleFormatter) printSummary(report *Report, s Summary) {
	if s.TotalFiles == 0 {
		fmt.Fprintln(f.out, "No files to analyze")
		return
	}

	parts := []string{fmt.Sprintf("%d %s", s.TotalFiles, pluralizeCount("file", s.TotalFiles))}
	if s.ScoredPages > 0 {
		parts = append(parts, fmt.Sprintf("average score %d (%s)", s.AverageScore, s.AverageGrade))
	}
	if s.SchemaObjects > 0 {
		parts = append(parts, fmt.Sprintf("%d %s, %d %s",
			s.TotalErrors, pluralizeCount("error", s.TotalErrors),
			s.TotalWarnings, pluralizeCount("warning", s.TotalWarnings)))
	}
	line := strings.Join(parts, ", ")
	if !report.StartTime.IsZero() {
		line += fmt.Sprintf(" (%s)", formatDuration(time.Since(report.StartTime)))
	}
	fmt.Fprintf(f.out, "\n%s\n", line)
}

// printConclusion prints the conclusion message
func (f *ConsoleFormatter) printConclusion(s Summary) {
	if s.TotalFiles == 0 || s.FailedFiles > 0 || s.TotalWarnings > 0 {
		return
	}
	fmt.Fprintln(f.out, f.style(boldStyle.Foreground(lipgloss.Color("10")), "✓ All passed"))
}

// bar renders score/limit as a fixed-width block bar.
func bar(score, limit, width int) string {
	filled := 0
	if limit > 0 {
		filled = int(float64(score)/float64(limit)*float64(width) + 0.5)
	}
	filled = scoring.ClampInt(filled, 0, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func barStyle(d scoring.DimensionScore) lipgloss.Style {
	if d.Max == 0 {
		return grayStyle
	}
	switch ratio := float64(d.Score) / float64(d.Max); {
	case ratio >= 0.75:
		return greenStyle
	case ratio >= 0.5:
		return yellowStyle
	default:
		return redStyle
	}
}

// gradeStyle colors A and B green, C yellow and the rest red.
func gradeStyle(grade string) lipgloss.Style {
	switch grade {
	case "A", "B":
		return greenStyle.Bold(true)
	case "C":
		return yellowStyle.Bold(true)
	default:
		return redStyle.Bold(true)
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case types.EntityFound:
		return greenStyle
	case types.EntityWeak:
		return yellowStyle
	default:
		return redStyle
	}
}

func pageName(p analysis.PageReport) string {
	if p.Source != "" {
		return p.Source
	}
	if p.URL != "" {
		return p.URL
	}
	return "(input)"
}

func pageFailed(p analysis.PageReport) bool {
	if p.Error != "" {
		return true
	}
	for _, res := range schemaResults(p) {
		if res.ErrorCount() > 0 {
			return true
		}
	}
	return false
}

// pluralizeCount returns singular or plural form based on count.
func pluralizeCount(s string, count int) string {
	if count == 1 {
		return s
	}
	return s + "s"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
