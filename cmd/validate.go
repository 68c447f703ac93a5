package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotcommander/geolint/internal/analysis"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Validate Schema.org JSON-LD",
	Long: `The validate command checks JSON-LD in schema files (.jsonld, .json, .yaml)
and JSON-LD embedded in pages (frontmatter schemas, <script type="application/ld+json">).

Validation checks:
- @context points at schema.org
- Required fields per type (Article, FAQPage, HowTo, Product, Organization, ...)
- Recommended fields, reported as warnings
- Type-specific structure (FAQ questions, HowTo steps, Product offers,
  LocalBusiness address, Article author and publisher)
- Embedded ld+json blocks that are not valid JSON, reported as errors

Pages without JSON-LD are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAndExit(func() error { return runValidate(cmd.Context(), args) })
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, args []string) error {
	s, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	docs, err := s.load(args)
	if err != nil {
		return err
	}

	pages := s.validateSchemaFiles(docs)
	for _, unit := range docs.pages {
		page := analysis.PageReport{Source: unit.Source, URL: unit.URL}
		report, err := s.service.ValidateUnit(unit)
		switch {
		case err != nil:
			page.Error = err.Error()
		case report == nil:
			continue
		default:
			page.Schema = report
		}
		pages = append(pages, page)
	}
	return s.finish("validate", append(pages, docs.failed...), "")
}

// validateSchemaFiles validates every loaded schema file.
func (s *session) validateSchemaFiles(docs *documents) []analysis.PageReport {
	pages := make([]analysis.PageReport, 0, len(docs.schemas))
	for _, doc := range docs.schemas {
		pages = append(pages, s.validatePage(doc.Source, "", doc.Schemas))
	}
	return pages
}

// validatePage validates the JSON-LD of one file. Validation only fails on
// input errors, which are recorded on the page.
func (s *session) validatePage(source, url string, schemas []map[string]any) analysis.PageReport {
	page := analysis.PageReport{Source: source, URL: url}
	report, err := s.service.Validate(schemas)
	if err != nil {
		page.Error = err.Error()
		return page
	}
	page.Schema = report
	return page
}
