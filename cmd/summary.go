package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/outputters"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [paths...]",
	Short: "Show score and schema status across all pages",
	Long: `Scores every page and validates its JSON-LD, then prints one line per page
with grade, score, percentile and schema status, followed by the errors
grouped by file and the average grade.

With --format json or markdown the full report is written instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func() error { return runSummary(cmd.Context(), args) })
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(ctx context.Context, args []string) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	docs, err := s.load(args)
	if err != nil {
		return err
	}
	pages, err := s.analyzePages(ctx, docs, analysis.BatchOptions{})
	if err != nil {
		return err
	}

	pages = append(pages, s.validateSchemaFiles(docs)...)
	return s.finish("summary", pages, outputters.FormatCompact)
}
