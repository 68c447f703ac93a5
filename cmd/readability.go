package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotcommander/geolint/internal/analysis"
)

var hasFAQSection bool

var readabilityCmd = &cobra.Command{
	Use:   "readability [paths...]",
	Short: "Profile how easily AI systems can extract each page",
	Long: `The readability command profiles each page on five weighted dimensions,
each scored 0-100:
- Sentence structure (25%)
- Paragraph structure (20%)
- Answer-first (25%)
- Heading quality (15%)
- Vocabulary (15%)

When an LLM provider is configured, qualitative commentary (clarity,
engagement, snippet candidates) is added.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func() error { return runReadability(cmd.Context(), args) })
	},
}

func init() {
	readabilityCmd.Flags().BoolVar(&hasFAQSection, "faq", false, "Pages carry a dedicated FAQ section")
	rootCmd.AddCommand(readabilityCmd)
}

func runReadability(ctx context.Context, args []string) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	docs, err := s.load(args)
	if err != nil {
		return err
	}
	pages, err := s.analyzePages(ctx, docs, analysis.BatchOptions{
		SkipScore:     true,
		Readability:   true,
		HasFAQSection: hasFAQSection,
	})
	if err != nil {
		return err
	}
	return s.finish("readability", pages, "")
}
