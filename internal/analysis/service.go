// Package analysis is the entry point for scoring, profiling, validating and
// generating structured data for pages. It owns the boundary with the text
// analyzer and substitutes documented defaults when that collaborator fails.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dotcommander/geolint/internal/entity"
	"github.com/dotcommander/geolint/internal/schema"
	"github.com/dotcommander/geolint/internal/scoring"
	"github.com/dotcommander/geolint/internal/types"
)

// TextAnalyzer is the language-model collaborator.
type TextAnalyzer interface {
	DetectContentType(ctx context.Context, content, title string) (string, error)
	ExtractFAQs(ctx context.Context, content, title string) ([]types.FAQ, error)
	ExtractHowToSteps(ctx context.Context, content, title string) (types.HowTo, error)
	AnalyzeEntities(ctx context.Context, content, title string) (types.EntityAnalysis, error)
	AnalyzeReadability(ctx context.Context, content, title string, headings []string) (types.QualitativeAnalysis, error)
}

// ReadabilityReport pairs the deterministic profile with the analyzer's
// qualitative commentary.
type ReadabilityReport struct {
	URL         string                     `json:"url,omitempty"`
	Profile     scoring.ReadabilityProfile `json:"profile"`
	Qualitative types.QualitativeAnalysis  `json:"qualitative"`
	AnalyzedAt  string                     `json:"analyzed_at"`
}

// Service runs analyses. It holds no per-request state and is safe for
// concurrent use.
type Service struct {
	analyzer    TextAnalyzer
	validator   *schema.Validator
	geo         *scoring.GEOScorer
	readability *scoring.ReadabilityScorer
	logger      *zap.Logger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBenchmark overrides the percentile benchmark.
func WithBenchmark(b scoring.Benchmark) Option {
	return func(s *Service) {
		s.geo = scoring.NewGEOScorer(b)
	}
}

// WithClock sets the time source for output timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service.
func New(analyzer TextAnalyzer, validator *schema.Validator, opts ...Option) *Service {
	s := &Service{
		analyzer:    analyzer,
		validator:   validator,
		geo:         scoring.NewGEOScorer(scoring.DefaultBenchmark()),
		readability: scoring.NewReadabilityScorer(),
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the composite GEO result for unit.
func (s *Service) Score(ctx context.Context, unit *types.ContentUnit) (*scoring.CompositeResult, error) {
	if err := checkUnit(unit); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}

	res := s.geo.Score(unit)
	res.AnalyzedAt = s.timestamp()
	s.logger.Debug("scored page",
		zap.String("url", unit.URL),
		zap.Int("total", res.TotalScore),
		zap.String("grade", res.Grade))
	return &res, nil
}

// Readability profiles unit and adds qualitative commentary.
func (s *Service) Readability(ctx context.Context, unit *types.ContentUnit, hasFAQSection bool) (*ReadabilityReport, error) {
	if err := checkUnit(unit); err != nil {
		return nil, err
	}

	qa, err := s.analyzer.AnalyzeReadability(ctx, unit.Content, unit.Title, unit.Headings)
	if err != nil {
		if err := s.absorb(ctx, "analyze_readability", err); err != nil {
			return nil, err
		}
		qa = types.EmptyQualitativeAnalysis()
	}

	return &ReadabilityReport{
		URL:         unit.URL,
		Profile:     s.readability.Profile(unit.Content, unit.Headings, hasFAQSection),
		Qualitative: qa,
		AnalyzedAt:  s.timestamp(),
	}, nil
}

// Validate validates JSON-LD candidates.
func (s *Service) Validate(candidates []map[string]any) (*schema.Report, error) {
	report, err := s.validator.ValidateAll(candidates)
	if err != nil {
		return nil, err
	}
	report.ValidatedAt = s.timestamp()
	return report, nil
}

// ValidateUnit validates the JSON-LD found on unit. Blocks that could not be
// parsed are reported as errors. Returns nil when the unit carries no JSON-LD.
func (s *Service) ValidateUnit(unit *types.ContentUnit) (*schema.Report, error) {
	if len(unit.Schemas) == 0 && len(unit.SchemaErrors) == 0 {
		return nil, nil
	}
	report := schema.NewReport()
	if len(unit.Schemas) > 0 {
		var err error
		if report, err = s.validator.ValidateAll(unit.Schemas); err != nil {
			return nil, err
		}
	}
	for _, msg := range unit.SchemaErrors {
		report.Add(schema.Unparseable(msg))
	}
	report.ValidatedAt = s.timestamp()
	return report, nil
}

// Entities scores the named entities of unit.
func (s *Service) Entities(ctx context.Context, unit *types.ContentUnit) (*entity.Result, error) {
	if err := checkUnit(unit); err != nil {
		return nil, err
	}

	ea, err := s.analyzer.AnalyzeEntities(ctx, unit.Content, unit.Title)
	if err != nil {
		if err := s.absorb(ctx, "analyze_entities", err); err != nil {
			return nil, err
		}
		ea = types.EmptyEntityAnalysis()
	}

	res := entity.Score(ea, unit.Content, unit.Schemas)
	res.AnalyzedAt = s.timestamp()
	return &res, nil
}

// Generate builds and validates JSON-LD for unit.
func (s *Service) Generate(ctx context.Context, unit *types.ContentUnit) (*schema.Generated, error) {
	if err := checkUnit(unit); err != nil {
		return nil, err
	}

	ex := schema.Extraction{ContentType: types.ContentTypeArticle}
	ct, err := s.analyzer.DetectContentType(ctx, unit.Content, unit.Title)
	if err != nil {
		if err := s.absorb(ctx, "detect_content_type", err); err != nil {
			return nil, err
		}
	} else if types.IsContentType(ct) {
		ex.ContentType = ct
	}

	switch ex.ContentType {
	case types.ContentTypeFAQ:
		faqs, err := s.analyzer.ExtractFAQs(ctx, unit.Content, unit.Title)
		if err != nil {
			if err := s.absorb(ctx, "extract_faqs", err); err != nil {
				return nil, err
			}
			faqs = []types.FAQ{}
		}
		ex.FAQs = faqs
	case types.ContentTypeHowTo:
		howto, err := s.analyzer.ExtractHowToSteps(ctx, unit.Content, unit.Title)
		if err != nil {
			if err := s.absorb(ctx, "extract_howto_steps", err); err != nil {
				return nil, err
			}
			howto = types.EmptyHowTo()
		}
		ex.HowTo = howto
	}

	g := s.validator.Generate(unit, ex)
	g.GeneratedAt = s.timestamp()
	return g, nil
}

// absorb decides whether an analyzer failure is absorbed. Cancellation and
// deadline errors are returned; anything else is logged and absorbed.
func (s *Service) absorb(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", op, ctxErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Warn("text analyzer failed, using default",
		zap.String("operation", op),
		zap.Error(err))
	return nil
}

func (s *Service) timestamp() string {
	return types.Timestamp(s.now())
}

// checkUnit enforces the input contract shared by every per-page operation.
func checkUnit(unit *types.ContentUnit) error {
	if unit == nil {
		return types.NewInputError("unit", "content unit is required")
	}
	if strings.TrimSpace(unit.Content) == "" {
		return types.NewInputError("content", "content must not be empty")
	}
	if strings.TrimSpace(unit.Title) == "" {
		return types.NewInputError("title", "title must not be empty")
	}
	for i, obj := range unit.Schemas {
		if obj == nil {
			return types.NewInputError(fmt.Sprintf("schemas[%d]", i), "schema must be a JSON object")
		}
	}
	return nil
}
