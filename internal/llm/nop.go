package llm

import (
	"context"

	"github.com/dotcommander/geolint/internal/types"
)

// NopAnalyzer returns empty results without calling a model.
type NopAnalyzer struct{}

func (NopAnalyzer) DetectContentType(ctx context.Context, content, title string) (string, error) {
	return types.ContentTypeArticle, ctx.Err()
}

func (NopAnalyzer) ExtractFAQs(ctx context.Context, content, title string) ([]types.FAQ, error) {
	return []types.FAQ{}, ctx.Err()
}

func (NopAnalyzer) ExtractHowToSteps(ctx context.Context, content, title string) (types.HowTo, error) {
	return types.EmptyHowTo(), ctx.Err()
}

func (NopAnalyzer) AnalyzeEntities(ctx context.Context, content, title string) (types.EntityAnalysis, error) {
	return types.EmptyEntityAnalysis(), ctx.Err()
}

func (NopAnalyzer) AnalyzeReadability(ctx context.Context, content, title string, headings []string) (types.QualitativeAnalysis, error) {
	return types.EmptyQualitativeAnalysis(), ctx.Err()
}
