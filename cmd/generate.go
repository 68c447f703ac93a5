package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotcommander/geolint/internal/analysis"
)

var generateCmd = &cobra.Command{
	Use:   "generate [paths...]",
	Short: "Generate Schema.org JSON-LD for pages",
	Long: `The generate command builds a JSON-LD object for each page and validates it.

The content type (article, faq, howto, product, local_business) is detected
by the LLM provider; without one every page becomes an Article. FAQ and
HowTo pages get their questions or steps extracted from the text.

Use --format json to get the generated objects.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func() error { return runGenerate(cmd.Context(), args) })
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(ctx context.Context, args []string) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	docs, err := s.load(args)
	if err != nil {
		return err
	}
	pages, err := s.analyzePages(ctx, docs, analysis.BatchOptions{SkipScore: true, Generate: true})
	if err != nil {
		return err
	}
	return s.finish("generate", pages, "")
}
