package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/types"
)

// CompactFormatter formats output in a compact, summary-first style: one
// line per page, then errors grouped by file, then a summary line.
type CompactFormatter struct {
	quiet    bool
	verbose  bool
	colorize bool
	out      io.Writer
	isTTY    func() bool
}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter(quiet, verbose bool) *CompactFormatter {
	return &CompactFormatter{
		quiet:    quiet,
		verbose:  verbose,
		colorize: true,
		out:      os.Stdout,
		isTTY:    func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
}

// errorEntry groups a finding with its source file.
type errorEntry struct {
	file     string
	severity string
	field    string
	message  string
}

// Format formats the report in compact style.
func (f *CompactFormatter) Format(report *Report) error {
	if f.quiet {
		return nil
	}

	nameWidth := 0
	for _, p := range report.Pages {
		if n := len(pageName(p)); n > nameWidth {
			nameWidth = n
		}
	}

	// Print page status table
	fmt.Fprintln(f.out)
	var errs, warnings []errorEntry
	for _, p := range report.Pages {
		f.printStatusLine(p, nameWidth)
		e, w := collectFindings(p)
		errs = append(errs, e...)
		warnings = append(warnings, w...)
	}

	f.printEntries("Errors:", errs, redStyle)
	if f.verbose {
		f.printEntries("Warnings:", warnings, yellowStyle)
	}

	f.printSummaryLine(report, Summarize(report.Pages))
	return nil
}

// printStatusLine prints one page: status, grade, score, percentile, schema state.
func (f *CompactFormatter) printStatusLine(p analysis.PageReport, nameWidth int) {
	icon, style := "✓", greenStyle
	if pageFailed(p) {
		icon, style = "✗", redStyle
	}

	name := pageName(p)
	padding := strings.Repeat(" ", nameWidth-len(name))

	var cols []string
	if p.Score != nil {
		cols = append(cols, fmt.Sprintf("%s %3d  p%-2d", f.style(gradeStyle(p.Score.Grade), p.Score.Grade), p.Score.TotalScore, p.Score.Percentile))
	}
	if p.Schema != nil {
		valid := 0
		for _, res := range p.Schema.Results {
			if res.Valid {
				valid++
			}
		}
		cols = append(cols, fmt.Sprintf("schema %d/%d valid", valid, len(p.Schema.Results)))
	}
	if p.Error != "" {
		cols = append(cols, f.style(redStyle, "skipped"))
	}

	fmt.Fprintf(f.out, "  %s %s%s  %s\n", f.style(style, icon), f.style(dimStyle, name), padding, strings.Join(cols, "  "))
}

func (f *CompactFormatter) style(s lipgloss.Style, text string) string {
	if !f.colorize {
		return text
	}
	return s.Render(text)
}

// collectFindings gathers page errors and schema findings.
func collectFindings(p analysis.PageReport) (errs, warnings []errorEntry) {
	name := pageName(p)
	if p.Error != "" {
		errs = append(errs, errorEntry{file: name, severity: types.SeverityError, message: p.Error})
	}
	for _, res := range schemaResults(p) {
		for _, e := range res.Errors {
			if e.Severity != types.SeverityError {
				continue
			}
			errs = append(errs, errorEntry{file: name, severity: e.Severity, field: res.SchemaType + "." + e.Field, message: e.Message})
		}
		for _, w := range res.Warnings {
			warnings = append(warnings, errorEntry{file: name, severity: types.SeverityWarning, field: res.SchemaType + "." + w.Field, message: w.Message})
		}
	}
	return errs, warnings
}

// printEntries prints findings grouped by file.
func (f *CompactFormatter) printEntries(title string, entries []errorEntry, fileStyle lipgloss.Style) {
	if len(entries) == 0 {
		return
	}

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, f.style(boldStyle, title))

	currentFile := ""
	for _, e := range entries {
		if e.file != currentFile {
			currentFile = e.file
			fmt.Fprintf(f.out, "  %s\n", f.style(fileStyle, e.file))
		}
		prefix := "    ✘ "
		if e.severity == types.SeverityWarning {
			prefix = "    ⚠ "
		}
		if e.field != "" {
			fmt.Fprintf(f.out, "%s%s: %s\n", prefix, e.field, e.message)
		} else {
			fmt.Fprintf(f.out, "%s%s\n", prefix, e.message)
		}
	}
}

// printSummaryLine prints the final summary line with celebration for perfect success.
func (f *CompactFormatter) printSummaryLine(report *Report, s Summary) {
	fmt.Fprintln(f.out)

	summaryText := fmt.Sprintf("%d/%d passed", s.TotalFiles-s.FailedFiles, s.TotalFiles)
	if s.ScoredPages > 0 {
		summaryText += fmt.Sprintf(", average %d (%s)", s.AverageScore, s.AverageGrade)
	}
	if s.TotalErrors > 0 {
		summaryText += fmt.Sprintf(", %d %s", s.TotalErrors, pluralizeCount("error", s.TotalErrors))
	}
	if !report.StartTime.IsZero() {
		summaryText += fmt.Sprintf(" (%s)", formatDuration(time.Since(report.StartTime)))
	}

	// Perfect success: celebrate!
	perfectSuccess := s.TotalFiles > 0 && s.FailedFiles == 0 && s.TotalWarnings == 0
	switch {
	case f.colorize && perfectSuccess && f.isTTY():
		printCelebration(f.out, summaryText)
	case f.colorize && s.FailedFiles > 0:
		fmt.Fprintln(f.out, redStyle.Render(summaryText))
	case f.colorize:
		fmt.Fprintln(f.out, greenStyle.Render(summaryText))
	default:
		fmt.Fprintln(f.out, summaryText)
	}
}
