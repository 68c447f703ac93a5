package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dotcommander/geolint/internal/entity"
	"github.com/dotcommander/geolint/internal/schema"
	"github.com/dotcommander/geolint/internal/scoring"
	"github.com/dotcommander/geolint/internal/types"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("CET", 3600))

// fakeAnalyzer returns canned results, or err from every call when set.
type fakeAnalyzer struct {
	err         error
	contentType string
	faqs        []types.FAQ
	howto       types.HowTo
	entities    types.EntityAnalysis
	qualitative types.QualitativeAnalysis
	calls       atomic.Int32
}

func (f *fakeAnalyzer) DetectContentType(context.Context, string, string) (string, error) {
	f.calls.Add(1)
	return f.contentType, f.err
}

func (f *fakeAnalyzer) ExtractFAQs(context.Context, string, string) ([]types.FAQ, error) {
	f.calls.Add(1)
	return f.faqs, f.err
}

func (f *fakeAnalyzer) ExtractHowToSteps(context.Context, string, string) (types.HowTo, error) {
	f.calls.Add(1)
	return f.howto, f.err
}

func (f *fakeAnalyzer) AnalyzeEntities(context.Context, string, string) (types.EntityAnalysis, error) {
	f.calls.Add(1)
	return f.entities, f.err
}

func (f *fakeAnalyzer) AnalyzeReadability(context.Context, string, string, []string) (types.QualitativeAnalysis, error) {
	f.calls.Add(1)
	return f.qualitative, f.err
}

func newTestService(t *testing.T, a TextAnalyzer, opts ...Option) *Service {
	t.Helper()
	v, err := schema.NewValidator()
	require.NoError(t, err)
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(a, v, opts...)
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func page() *types.ContentUnit {
	return &types.ContentUnit{
		URL:   "https://example.com/heat-pumps",
		Title: "How Heat Pumps Work",
		Content: `# How heat pumps work

A heat pump is a device that moves heat from one place to another. According to the IEA, heat pumps cut emissions by 20%.

## FAQ

Do heat pumps work in winter? Yes, modern units work down to -15C.`,
		Meta: map[string]string{"author": "Ada Lovelace", "published_date": "2024-03-01"},
	}
}

func TestCheckUnit(t *testing.T) {
	tests := []struct {
		name      string
		unit      *types.ContentUnit
		wantField string
	}{
		{"nil unit", nil, "unit"},
		{"blank content", &types.ContentUnit{Title: "t", Content: "  \n"}, "content"},
		{"blank title", &types.ContentUnit{Title: " ", Content: "text"}, "title"},
		{"nil schema", &types.ContentUnit{Title: "t", Content: "text", Schemas: []map[string]any{nil}}, "schemas[0]"},
	}

	svc := newTestService(t, &fakeAnalyzer{})
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := map[string]func() error{
				"score": func() error { _, err := svc.Score(ctx, tt.unit); return err },
				"readability": func() error {
					_, err := svc.Readability(ctx, tt.unit, false)
					return err
				},
				"entities": func() error { _, err := svc.Entities(ctx, tt.unit); return err },
				"generate": func() error { _, err := svc.Generate(ctx, tt.unit); return err },
			}
			for op, run := range checks {
				err := run()
				var inputErr *types.InputError
				require.True(t, errors.As(err, &inputErr), "%s: got %v", op, err)
				assert.Equal(t, tt.wantField, inputErr.Field, op)
			}
		})
	}
}

func TestScore(t *testing.T) {
	svc := newTestService(t, &fakeAnalyzer{})

	res, err := svc.Score(context.Background(), page())
	require.NoError(t, err)

	sum := 0
	for _, d := range res.Dimensions {
		assert.GreaterOrEqual(t, d.Score, 0)
		assert.LessOrEqual(t, d.Score, d.Max)
		sum += d.Score
	}
	assert.Equal(t, sum, res.TotalScore)
	assert.Equal(t, "2024-05-06T06:08:09Z", res.AnalyzedAt)
	assert.Equal(t, scoring.GradeFromScore(res.TotalScore), res.Grade)
}

func TestScore_Benchmark(t *testing.T) {
	ctx := context.Background()
	low := newTestService(t, &fakeAnalyzer{}, WithBenchmark(scoring.Benchmark{Mean: 10, StdDev: 5}))
	high := newTestService(t, &fakeAnalyzer{}, WithBenchmark(scoring.Benchmark{Mean: 90, StdDev: 5}))

	a, err := low.Score(ctx, page())
	require.NoError(t, err)
	b, err := high.Score(ctx, page())
	require.NoError(t, err)
	assert.Greater(t, a.Percentile, b.Percentile)
}

func TestScore_CancelledContext(t *testing.T) {
	svc := newTestService(t, &fakeAnalyzer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Score(ctx, page())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadability(t *testing.T) {
	fa := &fakeAnalyzer{qualitative: types.QualitativeAnalysis{Strengths: []string{"clear definitions"}}}
	svc := newTestService(t, fa)

	rep, err := svc.Readability(context.Background(), page(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"clear definitions"}, rep.Qualitative.Strengths)
	assert.Len(t, rep.Profile.Dimensions, 5)
	assert.Equal(t, "2024-05-06T06:08:09Z", rep.AnalyzedAt)
}

func TestCollaboratorFailureFallsBack(t *testing.T) {
	logger, logs := observedLogger()
	fa := &fakeAnalyzer{err: errors.New("model overloaded")}
	svc := newTestService(t, fa, WithLogger(logger))
	ctx := context.Background()

	rep, err := svc.Readability(ctx, page(), false)
	require.NoError(t, err)
	assert.Equal(t, types.EmptyQualitativeAnalysis(), rep.Qualitative)

	ents, err := svc.Entities(ctx, page())
	require.NoError(t, err)
	assert.Empty(t, ents.Entities)
	assert.Equal(t, []string{entity.RecLowDensity, entity.RecLowQuality}, ents.Recommendations)

	gen, err := svc.Generate(ctx, page())
	require.NoError(t, err)
	assert.Equal(t, types.ContentTypeArticle, gen.ContentType)
	assert.Equal(t, "Article", gen.SchemaType)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 3)
	ops := []string{}
	for _, w := range warnings {
		ops = append(ops, w.ContextMap()["operation"].(string))
	}
	assert.Equal(t, []string{"analyze_readability", "analyze_entities", "detect_content_type"}, ops)
}

func TestCollaboratorCancellationPropagates(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"canceled", context.Canceled},
		{"deadline wrapped", fmt.Errorf("gemini generate: %w", context.DeadlineExceeded)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &fakeAnalyzer{err: tt.err})
			_, err := svc.Entities(context.Background(), page())
			assert.ErrorIs(t, err, tt.err)
			_, err = svc.Generate(context.Background(), page())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("faq", func(t *testing.T) {
		fa := &fakeAnalyzer{
			contentType: types.ContentTypeFAQ,
			faqs:        []types.FAQ{{Question: "Do heat pumps work in winter?", Answer: "Yes."}},
		}
		gen, err := newTestService(t, fa).Generate(ctx, page())
		require.NoError(t, err)
		assert.Equal(t, "FAQPage", gen.SchemaType)
		assert.True(t, gen.Validation.Valid)
		assert.Equal(t, "2024-05-06T06:08:09Z", gen.GeneratedAt)
	})

	t.Run("howto", func(t *testing.T) {
		fa := &fakeAnalyzer{
			contentType: types.ContentTypeHowTo,
			howto:       types.HowTo{Steps: []types.HowToStep{{Text: "Open the valve."}}},
		}
		gen, err := newTestService(t, fa).Generate(ctx, page())
		require.NoError(t, err)
		assert.Equal(t, "HowTo", gen.SchemaType)
		assert.True(t, gen.Validation.Valid)
	})

	t.Run("unrecognised type becomes article", func(t *testing.T) {
		gen, err := newTestService(t, &fakeAnalyzer{contentType: "podcast"}).Generate(ctx, page())
		require.NoError(t, err)
		assert.Equal(t, types.ContentTypeArticle, gen.ContentType)
	})

	t.Run("article skips extraction", func(t *testing.T) {
		fa := &fakeAnalyzer{contentType: types.ContentTypeArticle}
		_, err := newTestService(t, fa).Generate(ctx, page())
		require.NoError(t, err)
		assert.Equal(t, int32(1), fa.calls.Load())
	})
}

func TestValidate(t *testing.T) {
	svc := newTestService(t, &fakeAnalyzer{})

	report, err := svc.Validate([]map[string]any{{"@context": "https://schema.org", "@type": "Person", "name": "Ada"}})
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, "2024-05-06T06:08:09Z", report.ValidatedAt)

	_, err = svc.Validate(nil)
	var inputErr *types.InputError
	assert.True(t, errors.As(err, &inputErr))
}

func TestValidateUnit(t *testing.T) {
	svc := newTestService(t, &fakeAnalyzer{})
	person := map[string]any{"@context": "https://schema.org", "@type": "Person", "name": "Ada"}

	t.Run("no json-ld", func(t *testing.T) {
		report, err := svc.ValidateUnit(page())
		require.NoError(t, err)
		assert.Nil(t, report)
	})

	t.Run("unparseable block is an error", func(t *testing.T) {
		u := page()
		u.Schemas = []map[string]any{person}
		u.SchemaErrors = []string{"ld+json block 2 is not valid JSON"}

		report, err := svc.ValidateUnit(u)
		require.NoError(t, err)
		assert.False(t, report.Valid)
		assert.Equal(t, 1, report.TotalErrors)
		require.Len(t, report.Results, 2)
		assert.Equal(t, "Person", report.Results[0].SchemaType)
		assert.Equal(t, "ld+json", report.Results[1].Errors[0].Field)
		assert.Equal(t, "2024-05-06T06:08:09Z", report.ValidatedAt)
	})

	t.Run("only unparseable blocks", func(t *testing.T) {
		u := page()
		u.SchemaErrors = []string{"ld+json block 1 is not valid JSON"}

		report, err := svc.ValidateUnit(u)
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		assert.False(t, report.Valid)
	})
}
