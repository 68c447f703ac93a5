package outputters

import (
	"fmt"
	"time"

	"github.com/dotcommander/geolint/internal/config"
	"github.com/dotcommander/geolint/internal/output"
)

// FormatCompact is the one-line-per-page console layout used by summary.
const FormatCompact = "compact"

// Formatter renders a report.
type Formatter interface {
	Format(report *output.Report) error
}

// FormatterFactory creates a Formatter for a format name.
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters in internal/output from config.
type DefaultFormatterFactory struct {
	cfg *config.Config
}

// NewDefaultFormatterFactory creates a DefaultFormatterFactory
func NewDefaultFormatterFactory(cfg *config.Config) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{cfg: cfg}
}

// CreateFormatter returns the formatter for format.
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(f.cfg.Quiet, f.cfg.Verbose), nil
	case FormatCompact:
		return output.NewCompactFormatter(f.cfg.Quiet, f.cfg.Verbose), nil
	case "json":
		return output.NewJSONFormatter(f.cfg.Quiet, true, f.cfg.Output), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.cfg.Quiet, f.cfg.Verbose, f.cfg.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates a new Outputter
func NewOutputter(config *config.Config) *Outputter {
	return NewOutputterWithFactory(config, NewDefaultFormatterFactory(config))
}

// NewOutputterWithFactory creates an Outputter with a custom factory.
func NewOutputterWithFactory(config *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  config,
		factory: factory,
	}
}

// Format formats the report using the given format
func (o *Outputter) Format(report *output.Report, format string) error {
	if report == nil {
		return fmt.Errorf("no report to format")
	}

	// Set start time if not set
	if report.StartTime.IsZero() {
		report.StartTime = time.Now()
	}

	// Set project root in report for display
	if report.Root == "" {
		report.Root = o.config.Root
	}

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(report)
}
