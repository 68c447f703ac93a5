package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotcommander/geolint/internal/analysis"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities [paths...]",
	Short: "Score entity coverage and sameAs linking",
	Long: `The entities command extracts the named entities of each page and checks
whether they are linked through sameAs in the page's JSON-LD.

Entities without links get suggested profile URLs (Wikipedia, LinkedIn,
Crunchbase, ...) by entity type. Entity extraction needs an LLM provider;
without one the result is empty.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func() error { return runEntities(cmd.Context(), args) })
	},
}

func init() {
	rootCmd.AddCommand(entitiesCmd)
}

func runEntities(ctx context.Context, args []string) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	docs, err := s.load(args)
	if err != nil {
		return err
	}
	pages, err := s.analyzePages(ctx, docs, analysis.BatchOptions{SkipScore: true, Entities: true})
	if err != nil {
		return err
	}
	return s.finish("entities", pages, "")
}
