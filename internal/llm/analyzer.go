package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/dotcommander/geolint/internal/types"
)

// maxPromptContent bounds the page text sent to the model, in runes.
const maxPromptContent = 12000

const systemPrompt = "You analyse web page content for generative-engine optimization. " +
	"Reply with a single JSON value and nothing else."

// Analyzer implements the text-analysis operations over a Completer.
type Analyzer struct {
	completer Completer
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(c Completer) *Analyzer {
	return &Analyzer{completer: c}
}

// DetectContentType classifies the page as one of types.ContentTypes.
func (a *Analyzer) DetectContentType(ctx context.Context, content, title string) (string, error) {
	prompt := fmt.Sprintf(`Classify this page as exactly one of: %s.
Reply as {"content_type": "<type>"}.

Title: %s

Content:
%s`, strings.Join(types.ContentTypes, ", "), title, clip(content))

	reply, err := a.completer.CompleteWithSystem(ctx, systemPrompt, prompt)
	if err != nil {
		return "", err
	}

	var out struct {
		ContentType string `json:"content_type"`
	}
	if err := decode(reply, &out); err != nil {
		// a bare word reply is accepted too
		out.ContentType = strings.Trim(strings.TrimSpace(reply), `"'.`)
	}
	ct := strings.ToLower(strings.TrimSpace(out.ContentType))
	if !types.IsContentType(ct) {
		return "", fmt.Errorf("%w: content type %q", ErrUnparseable, out.ContentType)
	}
	return ct, nil
}

// ExtractFAQs extracts question/answer pairs.
func (a *Analyzer) ExtractFAQs(ctx context.Context, content, title string) ([]types.FAQ, error) {
	prompt := fmt.Sprintf(`Extract the questions this page answers, with concise answers taken from the text.
Reply as {"faqs": [{"question": "...", "answer": "..."}]}. Use an empty list when there are none.

Title: %s

Content:
%s`, title, clip(content))

	var out struct {
		FAQs []types.FAQ `json:"faqs"`
	}
	if err := a.complete(ctx, prompt, &out); err != nil {
		return nil, err
	}
	faqs := make([]types.FAQ, 0, len(out.FAQs))
	for _, f := range out.FAQs {
		f.Question = strings.TrimSpace(f.Question)
		f.Answer = strings.TrimSpace(f.Answer)
		if f.Question != "" && f.Answer != "" {
			faqs = append(faqs, f)
		}
	}
	return faqs, nil
}

// ExtractHowToSteps extracts step-by-step instructions.
func (a *Analyzer) ExtractHowToSteps(ctx context.Context, content, title string) (types.HowTo, error) {
	prompt := fmt.Sprintf(`Extract the step-by-step instructions on this page.
Reply as {"name": "...", "description": "...", "steps": [{"name": "...", "text": "..."}]}.

Title: %s

Content:
%s`, title, clip(content))

	out := types.EmptyHowTo()
	if err := a.complete(ctx, prompt, &out); err != nil {
		return types.EmptyHowTo(), err
	}
	if out.Steps == nil {
		out.Steps = []types.HowToStep{}
	}
	return out, nil
}

// AnalyzeEntities extracts named entities and keyword coverage.
func (a *Analyzer) AnalyzeEntities(ctx context.Context, content, title string) (types.EntityAnalysis, error) {
	prompt := fmt.Sprintf(`List the named entities of this page with their Schema.org type and a status:
"found" (clearly named and described), "weak" (mentioned vaguely) or "missing" (expected for the topic but absent).
Bucket the topic keywords into primary, secondary and missing, and suggest subjects for Schema.org "about".
Reply as {"entities": [{"name": "...", "type": "...", "status": "...", "suggestions": ["..."]}],
"keywords": {"primary": [], "secondary": [], "missing": []}, "about_suggestions": []}.

Title: %s

Content:
%s`, title, clip(content))

	out := types.EmptyEntityAnalysis()
	if err := a.complete(ctx, prompt, &out); err != nil {
		return types.EmptyEntityAnalysis(), err
	}
	return out, nil
}

// AnalyzeReadability returns qualitative commentary on how quotable the page is.
func (a *Analyzer) AnalyzeReadability(ctx context.Context, content, title string, headings []string) (types.QualitativeAnalysis, error) {
	prompt := fmt.Sprintf(`Assess how easily an AI answer engine could quote this page.
Reply as {"strengths": [], "weaknesses": [], "ai_snippet_candidates": [{"text": "...", "reason": "..."}], "missing_elements": []}.

Title: %s
Headings: %s

Content:
%s`, title, strings.Join(headings, " | "), clip(content))

	out := types.EmptyQualitativeAnalysis()
	if err := a.complete(ctx, prompt, &out); err != nil {
		return types.EmptyQualitativeAnalysis(), err
	}
	return out, nil
}

func (a *Analyzer) complete(ctx context.Context, prompt string, v any) error {
	reply, err := a.completer.CompleteWithSystem(ctx, systemPrompt, prompt)
	if err != nil {
		return err
	}
	return decode(reply, v)
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxPromptContent {
		return s
	}
	return string(r[:maxPromptContent])
}
