package analysis

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/geolint/internal/entity"
	"github.com/dotcommander/geolint/internal/schema"
	"github.com/dotcommander/geolint/internal/scoring"
	"github.com/dotcommander/geolint/internal/types"
)

// BatchOptions selects what AnalyzePages runs for each page.
type BatchOptions struct {
	// Concurrency caps pages analysed at once; <= 0 uses GOMAXPROCS.
	Concurrency int
	// SkipScore leaves the composite GEO result out of each report.
	SkipScore   bool
	Readability bool
	Entities    bool
	Generate    bool
	// HasFAQSection is passed to the readability profile of every page.
	HasFAQSection bool
}

// PageReport is the analysis of one page. Error holds an input error for
// the page; the other fields are then nil.
type PageReport struct {
	Source      string                   `json:"source,omitempty"`
	URL         string                   `json:"url,omitempty"`
	Score       *scoring.CompositeResult `json:"score,omitempty"`
	Readability *ReadabilityReport       `json:"readability,omitempty"`
	Schema      *schema.Report           `json:"schema,omitempty"`
	Entities    *entity.Result           `json:"entities,omitempty"`
	Generated   *schema.Generated        `json:"generated,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

// AnalyzePages analyses units in parallel. Reports keep the order of units.
// Input errors are recorded per page; any other error cancels the batch.
func (s *Service) AnalyzePages(ctx context.Context, units []*types.ContentUnit, opts BatchOptions) ([]PageReport, error) {
	reports := make([]PageReport, len(units))

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, unit := range units {
		g.Go(func() error {
			report, err := s.analyzePage(ctx, unit, opts)
			var inputErr *types.InputError
			if errors.As(err, &inputErr) {
				s.logger.Info("skipping page", zap.String("source", sourceOf(unit)), zap.Error(err))
				reports[i] = PageReport{Source: sourceOf(unit), Error: err.Error()}
				return nil
			}
			if err != nil {
				return err
			}
			reports[i] = *report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Service) analyzePage(ctx context.Context, unit *types.ContentUnit, opts BatchOptions) (*PageReport, error) {
	if err := checkUnit(unit); err != nil {
		return nil, err
	}
	report := &PageReport{Source: unit.Source, URL: unit.URL}

	var err error
	if !opts.SkipScore {
		if report.Score, err = s.Score(ctx, unit); err != nil {
			return nil, err
		}
	}
	if report.Schema, err = s.ValidateUnit(unit); err != nil {
		return nil, err
	}
	if opts.Readability {
		if report.Readability, err = s.Readability(ctx, unit, opts.HasFAQSection); err != nil {
			return nil, err
		}
	}
	if opts.Entities {
		if report.Entities, err = s.Entities(ctx, unit); err != nil {
			return nil, err
		}
	}
	if opts.Generate {
		if report.Generated, err = s.Generate(ctx, unit); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func sourceOf(unit *types.ContentUnit) string {
	if unit == nil {
		return ""
	}
	if unit.Source != "" {
		return unit.Source
	}
	return unit.URL
}
