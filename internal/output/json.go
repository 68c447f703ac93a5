package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/types"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	quiet      bool
	indent     bool
	outputFile string
	out        io.Writer
	now        func() time.Time
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(quiet bool, indent bool, outputFile string) *JSONFormatter {
	return &JSONFormatter{
		quiet:      quiet,
		indent:     indent,
		outputFile: outputFile,
		out:        os.Stdout,
		now:        time.Now,
	}
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header  JSONHeader            `json:"header"`
	Summary JSONSummary           `json:"summary"`
	Results []analysis.PageReport `json:"results"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Command   string `json:"command,omitempty"`
	Root      string `json:"root,omitempty"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	Summary
	Duration string `json:"duration,omitempty"`
}

// Format formats the report as JSON. A report file is always written; stdout
// stays silent in quiet mode.
func (f *JSONFormatter) Format(report *Report) error {
	doc := JSONReport{
		Header: JSONHeader{
			Tool:      "geolint",
			Version:   Version,
			Command:   report.Command,
			Root:      report.Root,
			Timestamp: types.Timestamp(f.now()),
		},
		Summary: JSONSummary{Summary: Summarize(report.Pages)},
		Results: report.Pages,
	}
	if doc.Results == nil {
		doc.Results = []analysis.PageReport{}
	}
	if !report.StartTime.IsZero() {
		doc.Summary.Duration = f.now().Sub(report.StartTime).Round(time.Millisecond).String()
	}

	// Marshal JSON
	var jsonBytes []byte
	var err error

	if f.indent {
		jsonBytes, err = json.MarshalIndent(doc, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(doc)
	}

	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	// Write to file or stdout
	if f.outputFile != "" {
		if err := os.WriteFile(f.outputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", f.outputFile, err)
		}
		return nil
	}
	if f.quiet {
		return nil
	}
	_, err = fmt.Fprintln(f.out, string(jsonBytes))
	return err
}
