package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/geolint/internal/analysis"
	"github.com/dotcommander/geolint/internal/scoring"
)

var minGrade string

var scoreCmd = &cobra.Command{
	Use:   "score [paths...]",
	Short: "Score pages for generative-engine optimization",
	Long: `The score command computes the composite GEO score of each page.

Five dimensions are scored 0-20 each:
- Schema markup (JSON-LD present, well-known types, completeness)
- Entity clarity (proper nouns, definitions, links)
- AI readability (sentence length, direct answers, questions)
- Content structure (headings, lists, paragraphs)
- Authority signals (statistics, citations, author, dates)

The total maps to a letter grade (A-F) and a percentile against the
configured benchmark. Recommendations are ranked by impact and effort.
Embedded JSON-LD is validated as well.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func() error { return runScore(cmd.Context(), args) })
	},
}

func init() {
	scoreCmd.Flags().StringVar(&minGrade, "min-grade", "", "Fail when any page grades below this (A|B|C|D|F)")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(ctx context.Context, args []string) error {
	if minGrade != "" && scoring.GradeRank(strings.ToUpper(minGrade)) == 0 {
		return fmt.Errorf("invalid --min-grade: %s. Must be one of A, B, C, D, F", minGrade)
	}

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

	if err := s.finish("score", pages, ""); err != nil {
		return err
	}

	if below := belowGrade(pages, minGrade); len(below) > 0 {
		if !s.cfg.Quiet {
			fmt.Fprintf(os.Stderr, "%d page(s) below grade %s: %s\n", len(below), strings.ToUpper(minGrade), strings.Join(below, ", "))
		}
		return errChecksFailed
	}
	return nil
}

// belowGrade lists the sources of scored pages graded below grade. An empty
// grade lists nothing.
func belowGrade(pages []analysis.PageReport, grade string) []string {
	if grade == "" {
		return nil
	}
	limit := scoring.GradeRank(strings.ToUpper(grade))

	var below []string
	for _, p := range pages {
		if p.Score != nil && scoring.GradeRank(p.Score.Grade) < limit {
			below = append(below, p.Source)
		}
	}
	return below
}
