package scoring

import (
	"fmt"
	"strings"

	"github.com/dotcommander/geolint/internal/jsonld"
	"github.com/dotcommander/geolint/internal/patterns"
	"github.com/dotcommander/geolint/internal/textutil"
	"github.com/dotcommander/geolint/internal/types"
)

// wellKnownTypes earn a bonus in schema markup scoring.
var wellKnownTypes = map[string]bool{
	"Organization":   true,
	"LocalBusiness":  true,
	"Person":         true,
	"Product":        true,
	"Article":        true,
	"NewsArticle":    true,
	"BlogPosting":    true,
	"FAQPage":        true,
	"HowTo":          true,
	"WebSite":        true,
	"WebPage":        true,
	"BreadcrumbList": true,
	"Event":          true,
	"Recipe":         true,
	"Review":         true,
}

// IsWellKnownType reports whether t is one of the schema types answer engines
// consume most often.
func IsWellKnownType(t string) bool {
	return wellKnownTypes[t]
}

// GEOScorer scores a page on the five composite GEO dimensions, 0-20 each
type GEOScorer struct {
	patterns  *patterns.GEOPatterns
	benchmark Benchmark
}

// NewGEOScorer creates a new GEOScorer
func NewGEOScorer(benchmark Benchmark) *GEOScorer {
	return &GEOScorer{
		patterns:  patterns.NewGEOPatterns(),
		benchmark: benchmark.normalized(),
	}
}

// Score evaluates a content unit and returns its composite result.
func (s *GEOScorer) Score(unit *types.ContentUnit) CompositeResult {
	headings := unit.Headings
	if len(headings) == 0 {
		headings = textutil.HeadingsFrom(unit.Content)
	}
	metrics := textutil.Analyze(unit.Content)

	dims := []DimensionScore{
		s.ScoreSchemaMarkup(unit.Schemas),
		s.ScoreEntityClarity(unit.Content, unit.Title),
		s.scoreAIReadability(unit.Content, headings, metrics),
		s.scoreContentStructure(headings, metrics),
		s.scoreAuthoritySignals(unit.Content, unit.Meta, metrics),
	}

	return s.Compose(unit.URL, dims)
}

// Compose totals the dimension scores and derives grade, percentile and
// recommendations.
func (s *GEOScorer) Compose(url string, dims []DimensionScore) CompositeResult {
	total := 0
	for _, d := range dims {
		total += d.Score
	}

	return CompositeResult{
		URL:             url,
		TotalScore:      total,
		Grade:           GradeFromScore(total),
		Percentile:      s.benchmark.Percentile(total),
		Dimensions:      dims,
		Recommendations: Recommend(dims, GEOTemplates),
	}
}

// ScoreSchemaMarkup scores the JSON-LD objects already present on the page.
func (s *GEOScorer) ScoreSchemaMarkup(schemas []map[string]any) DimensionScore {
	dim := DimensionScore{Key: DimSchemaMarkup, Name: "Schema Markup", Max: GEODimensionMax}
	if len(schemas) == 0 {
		dim.Details = fmt.Sprintf("%s: no JSON-LD structured data found", BandPoor)
		return dim
	}

	base := Capped(len(schemas), 4, 8)
	known := 0
	ratioSum := 0.0
	for _, sc := range schemas {
		if IsWellKnownType(jsonld.TypeOf(sc)) {
			known++
		}
		ratioSum += completenessRatio(sc)
	}
	typeBonus := float64(known * 2)
	avgRatio := ratioSum / float64(len(schemas))
	completeness := float64(RoundClamp(avgRatio*6, 6))

	dim.Score = RoundClamp(base+typeBonus+completeness, GEODimensionMax)
	dim.Details = describe(dim.Score, dim.Max, []factor{
		{"schema count", base, 8},
		{"well-known types", typeBonus, 12},
		{"field completeness", completeness, 6},
	}, fmt.Sprintf("%d schema(s), %d well-known, %.0f%% fields populated", len(schemas), known, avgRatio*100))
	return dim
}

// completenessRatio is populated non-@ fields over max(non-@ fields, 5).
func completenessRatio(obj map[string]any) float64 {
	present, denom := 0, 0
	for k := range obj {
		if strings.HasPrefix(k, "@") {
			continue
		}
		denom++
		if jsonld.FieldPresent(obj, k) {
			present++
		}
	}
	if denom < 5 {
		denom = 5
	}
	return float64(present) / float64(denom)
}

// ScoreEntityClarity scores how clearly the page names and defines its entities.
func (s *GEOScorer) ScoreEntityClarity(content, title string) DimensionScore {
	dim := DimensionScore{Key: DimEntityClarity, Name: "Entity Clarity", Max: GEODimensionMax}

	counts := s.ProperNouns(content)
	repeated := 0
	for _, c := range counts {
		if c >= 3 {
			repeated++
		}
	}
	definitions := s.patterns.Definition.Count(content)
	links := len(s.patterns.URL.FindAllStringIndex(content, -1))
	titleEntity := len(s.ProperNouns(title)) > 0

	factors := []factor{
		{"named entities", Capped(len(counts), 0.5, 6), 6},
		{"definitions", Capped(definitions, 1.5, 5), 5},
		{"reference links", Capped(links, 1, 3), 3},
		{"repeated entities", Capped(repeated, 1, 4), 4},
		{"entity in title", float64(boolToInt(titleEntity) * 2), 2},
	}
	total := 0.0
	for _, f := range factors {
		total += f.points
	}
	dim.Score = RoundClamp(total, GEODimensionMax)
	dim.Details = describe(dim.Score, dim.Max, factors,
		fmt.Sprintf("%d distinct entities, %d definitions, %d links", len(counts), definitions, links))
	return dim
}

// ProperNouns returns capitalized terms and their occurrence counts, with
// leading determiners and question words stripped.
func (s *GEOScorer) ProperNouns(text string) map[string]int {
	counts := make(map[string]int)
	for _, m := range s.patterns.ProperNoun.FindAllString(text, -1) {
		words := strings.Fields(m)
		for len(words) > 0 && s.patterns.IsStopWord(words[0]) {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		counts[strings.Join(words, " ")]++
	}
	return counts
}

// ScoreAIReadability scores how easily an answer engine can lift passages.
func (s *GEOScorer) ScoreAIReadability(content string, headings []string) DimensionScore {
	if len(headings) == 0 {
		headings = textutil.HeadingsFrom(content)
	}
	return s.scoreAIReadability(content, headings, textutil.Analyze(content))
}

func (s *GEOScorer) scoreAIReadability(content string, headings []string, m textutil.Metrics) DimensionScore {
	dim := DimensionScore{Key: DimAIReadability, Name: "AI Readability", Max: GEODimensionMax}

	sentencePoints := 1.0
	switch avg := m.AvgSentenceLength; {
	case avg >= 10 && avg <= 20:
		sentencePoints = 5
	case avg >= 8 && avg <= 25:
		sentencePoints = 3
	}

	directAnswers := s.patterns.DirectAnswer.Count(content)
	leadDefinition := s.patterns.Definition.Match(firstRunes(content, 200))
	questions := len(s.patterns.Question.FindAllStringIndex(content, -1))
	if extra := headingsOutside(content, headings); len(extra) > 0 {
		questions += len(s.patterns.Question.FindAllStringIndex(strings.Join(extra, "\n"), -1))
	}

	factors := []factor{
		{"sentence length", sentencePoints, 5},
		{"headings", Capped(len(headings), 1.5, 4), 4},
		{"lists", Capped(m.ListItemCount, 0.5, 3), 3},
		{"direct answers", Capped(directAnswers, 1.5, 4), 4},
		{"opening definition", float64(boolToInt(leadDefinition) * 2), 2},
		{"questions", Capped(questions, 0.5, 2), 2},
	}
	total := 0.0
	for _, f := range factors {
		total += f.points
	}
	dim.Score = RoundClamp(total, GEODimensionMax)
	dim.Details = describe(dim.Score, dim.Max, factors,
		fmt.Sprintf("avg %.1f words/sentence, %d headings, %d direct answers", m.AvgSentenceLength, len(headings), directAnswers))
	return dim
}

// headingsOutside returns the headings whose text does not appear in content,
// such as frontmatter headings or HTML headings dropped by text extraction.
func headingsOutside(content string, headings []string) []string {
	var out []string
	for _, h := range headings {
		if h = strings.TrimSpace(h); h != "" && !strings.Contains(content, h) {
			out = append(out, h)
		}
	}
	return out
}

// ScoreContentStructure scores headings, paragraphs, lists and length.
func (s *GEOScorer) ScoreContentStructure(content string, headings []string) DimensionScore {
	if len(headings) == 0 {
		headings = textutil.HeadingsFrom(content)
	}
	return s.scoreContentStructure(headings, textutil.Analyze(content))
}

var (
	headingBands   = []Band{{5, 5}, {3, 4}, {1, 2}}
	paragraphBands = []Band{{5, 4}, {3, 3}, {1, 1}}
	listBands      = []Band{{5, 4}, {2, 3}, {1, 1}}
)

func (s *GEOScorer) scoreContentStructure(headings []string, m textutil.Metrics) DimensionScore {
	dim := DimensionScore{Key: DimContentStructure, Name: "Content Structure", Max: GEODimensionMax}

	paragraphLength := 1
	switch avg := m.AvgParagraphWords; {
	case avg >= 30 && avg <= 150:
		paragraphLength = 3
	case avg >= 20 && avg <= 200:
		paragraphLength = 2
	}

	length := 0
	switch wc := m.WordCount; {
	case wc >= 300 && wc <= 3000:
		length = 4
	case wc >= 150 && wc <= 5000:
		length = 3
	case wc >= 50:
		length = 1
	}

	factors := []factor{
		{"headings", float64(ScoreBands(float64(len(headings)), headingBands)), 5},
		{"paragraphs", float64(ScoreBands(float64(m.ParagraphCount), paragraphBands)), 4},
		{"paragraph length", float64(paragraphLength), 3},
		{"lists", float64(ScoreBands(float64(m.ListItemCount), listBands)), 4},
		{"word count", float64(length), 4},
	}
	total := 0.0
	for _, f := range factors {
		total += f.points
	}
	dim.Score = RoundClamp(total, GEODimensionMax)
	dim.Details = describe(dim.Score, dim.Max, factors,
		fmt.Sprintf("%d headings, %d paragraphs, %d list items, %d words", len(headings), m.ParagraphCount, m.ListItemCount, m.WordCount))
	return dim
}

// ScoreAuthoritySignals scores statistics, citations, quotes and provenance.
func (s *GEOScorer) ScoreAuthoritySignals(content string, meta map[string]string) DimensionScore {
	return s.scoreAuthoritySignals(content, meta, textutil.Analyze(content))
}

func (s *GEOScorer) scoreAuthoritySignals(content string, meta map[string]string, m textutil.Metrics) DimensionScore {
	dim := DimensionScore{Key: DimAuthoritySignals, Name: "Authority Signals", Max: GEODimensionMax}

	stats := s.patterns.Statistic.Count(content)
	citations := s.patterns.Citation.Count(content)
	quotes := s.patterns.QuotedAttribution.Count(content)
	research := s.patterns.ResearchMention.Count(content)

	unit := types.ContentUnit{Meta: meta}
	hasAuthor := unit.MetaValue(types.MetaAuthor) != ""
	hasDate := unit.MetaValue(types.PublishedDateKeys...) != ""

	factors := []factor{
		{"statistics", Capped(stats, 1.5, 5), 5},
		{"citations", Capped(citations, 2, 5), 5},
		{"attributed quotes", Capped(quotes, 2, 4), 4},
		{"research mentions", Capped(research, 0.5, 3), 3},
		{"author", float64(boolToInt(hasAuthor)), 1},
		{"publish date", float64(boolToInt(hasDate)), 1},
		{"depth", float64(boolToInt(m.WordCount >= 500)), 1},
	}
	total := 0.0
	for _, f := range factors {
		total += f.points
	}
	dim.Score = RoundClamp(total, GEODimensionMax)
	dim.Details = describe(dim.Score, dim.Max, factors,
		fmt.Sprintf("%d statistics, %d citations, %d quotes", stats, citations, quotes))
	return dim
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
