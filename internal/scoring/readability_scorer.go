package scoring

import (
	"fmt"
	"math"

	"github.com/dotcommander/geolint/internal/patterns"
	"github.com/dotcommander/geolint/internal/textutil"
)

// ProfileWeights are the fixed weights of the readability profile.
var ProfileWeights = map[string]float64{
	DimQuotability:      0.25,
	DimAnswerReadiness:  0.20,
	DimStructure:        0.20,
	DimConciseness:      0.15,
	DimAuthoritySignals: 0.20,
}

// ReadabilityScorer profiles how quotable and answer-ready a page is, 0-100
// per dimension.
type ReadabilityScorer struct {
	patterns *patterns.ReadabilityPatterns
}

// NewReadabilityScorer creates a new ReadabilityScorer
func NewReadabilityScorer() *ReadabilityScorer {
	return &ReadabilityScorer{patterns: patterns.NewReadabilityPatterns()}
}

// Profile scores content on the five readability dimensions and combines them
// with ProfileWeights.
func (s *ReadabilityScorer) Profile(content string, headings []string, hasFAQSection bool) ReadabilityProfile {
	if len(headings) == 0 {
		headings = textutil.HeadingsFrom(content)
	}
	m := textutil.Analyze(content)
	fillers := s.patterns.FillerCount(content)

	dims := []DimensionScore{
		s.quotability(m),
		s.answerReadiness(content, headings, hasFAQSection),
		s.structure(headings, m),
		s.conciseness(m, fillers),
		s.authority(content),
	}

	weighted := 0.0
	for _, d := range dims {
		weighted += float64(d.Score) * ProfileWeights[d.Key]
	}
	overall := RoundClamp(ClampFloat(weighted, 0, 100), 100)

	fillerRatio := 0.0
	if m.WordCount > 0 {
		fillerRatio = float64(fillers) / float64(m.WordCount)
	}

	return ReadabilityProfile{
		OverallScore: overall,
		Grade:        GradeFromScore(overall),
		Dimensions:   dims,
		Metrics: ReadabilityMetrics{
			WordCount:         m.WordCount,
			SentenceCount:     m.SentenceCount,
			ParagraphCount:    m.ParagraphCount,
			AvgSentenceLength: math.Round(m.AvgSentenceLength*10) / 10,
			FillerRatio:       math.Round(fillerRatio*1000) / 1000,
		},
		Recommendations: Recommend(dims, ReadabilityTemplates),
	}
}

func (s *ReadabilityScorer) quotability(m textutil.Metrics) DimensionScore {
	dim := DimensionScore{Key: DimQuotability, Name: "Quotability", Max: ProfileDimensionMax}
	if m.SentenceCount == 0 {
		dim.Details = fmt.Sprintf("%s: no sentences to quote", BandPoor)
		return dim
	}

	quotable, withStats := 0, 0
	for _, sentence := range m.Sentences {
		n := len(textutil.Words(sentence))
		if n >= 8 && n <= 25 && s.patterns.Definitive.MatchString(sentence) && !s.patterns.Hedge.MatchString(sentence) {
			quotable++
		}
		if s.patterns.Statistic.Match(sentence) {
			withStats++
		}
	}

	ratio := float64(quotable) / float64(m.SentenceCount)
	factors := []factor{
		{"quotable statements", ratio * 160, 160},
		{"statistic-bearing sentences", Capped(withStats, 5, 20), 20},
	}
	dim.Score = RoundClamp(factors[0].points+factors[1].points, ProfileDimensionMax)
	dim.Details = describe(dim.Score, dim.Max, factors,
		fmt.Sprintf("%d of %d sentences are quotable", quotable, m.SentenceCount))
	return dim
}

func (s *ReadabilityScorer) answerReadiness(content string, headings []string, hasFAQSection bool) DimensionScore {
	dim := DimensionScore{Key: DimAnswerReadiness, Name: "Answer Readiness", Max: ProfileDimensionMax}

	questions := 0
	for _, h := range headings {
		if s.patterns.QuestionHeading.MatchString(h) {
			questions++
		}
	}
	answers := s.patterns.DirectAnswer.Count(content)

	lead := textutil.FirstParagraph(content)
	leadWords := len(textutil.Words(lead))
	conciseLead := leadWords > 0 && leadWords <= 60 && s.patterns.Definitive.MatchString(lead)

	factors := []factor{
		{"question headings", Capped(questions, 10, 40), 40},
		{"direct answers", Capped(answers, 8, 30), 30},
		{"FAQ section", float64(boolToInt(hasFAQSection) * 20), 20},
		{"concise opening", float64(boolToInt(conciseLead) * 10), 10},
	}
	total := 0.0
	for _, f := range factors {
		total += f.points
	}
	dim.Score = RoundClamp(total, ProfileDimensionMax)
	dim.Details = describe(dim.Score, dim.Max, factors,
		fmt.Sprintf("%d question headings, %d direct answers", questions, answers))
	return dim
}

var (
	profileHeadingBands   = []Band{{4, 35}, {2, 25}, {1, 15}}
	profileListBands      = []Band{{5, 25}, {2, 15}, {1, 8}}
	profileParagraphBands = []Band{{3, 15}, {1, 8}}
)

func (s *ReadabilityScorer) structure(headings []string, m textutil.Metrics) DimensionScore {
	dim := DimensionScore{Key: DimStructure, Name: "Structure", Max: ProfileDimensionMax}

	paragraphLength := 0
	if m.ParagraphCount > 0 {
		switch {
		case m.AvgParagraphWords <= 80:
			paragraphLength = 25
		case m.AvgParagraphWords <= 120:
			paragraphLength = 15
		default:
			paragraphLength = 5
		}
	}

	factors := []factor{
		{"headings", float64(ScoreBands(float64(len(headings)), profileHeadingBands)), 35},
		{"lists", float64(ScoreBands(float64(m.ListItemCount), profileListBands)), 25},
		{"paragraph length", float64(paragraphLength), 25},
		{"paragraphs", float64(ScoreBands(float64(m.ParagraphCount), profileParagraphBands)), 15},
	}
	total := 0.0
	for _, f := range factors {
		total += f.points
	}
	dim.Score = RoundClamp(total, ProfileDimensionMax)
	dim.Details = describe(dim.Score, dim.Max, factors,
		fmt.Sprintf("%d headings, %d list items, %d paragraphs", len(headings), m.ListItemCount, m.ParagraphCount))
	return dim
}

func (s *ReadabilityScorer) conciseness(m textutil.Metrics, fillers int) DimensionScore {
	dim := DimensionScore{Key: DimConciseness, Name: "Conciseness", Max: ProfileDimensionMax}
	if m.SentenceCount == 0 || m.WordCount == 0 {
		dim.Details = fmt.Sprintf("%s: no sentences to measure", BandPoor)
		return dim
	}

	ratio := float64(fillers) / float64(m.WordCount)
	penalty := 0.0
	switch {
	case m.AvgSentenceLength > 25:
		penalty = 20
	case m.AvgSentenceLength > 20:
		penalty = 10
	}
	dim.Score = RoundClamp(100-ratio*1000-penalty, ProfileDimensionMax)

	summary := fmt.Sprintf("%.1f%% filler words, avg %.1f words/sentence", ratio*100, m.AvgSentenceLength)
	switch BandFor(dim.Score, dim.Max) {
	case BandStrong:
		dim.Details = fmt.Sprintf("%s: %s", BandStrong, summary)
	case BandAdequate:
		dim.Details = fmt.Sprintf("%s: %s; trim a few fillers", BandAdequate, summary)
	case BandWeak:
		dim.Details = fmt.Sprintf("%s: %s; filler density is the main drag", BandWeak, summary)
	default:
		dim.Details = fmt.Sprintf("%s: %s; filler-heavy or run-on prose", BandPoor, summary)
	}
	return dim
}

func (s *ReadabilityScorer) authority(content string) DimensionScore {
	dim := DimensionScore{Key: DimAuthoritySignals, Name: "Authority Signals", Max: ProfileDimensionMax}

	stats := s.patterns.Statistic.Count(content)
	citations := s.patterns.Citation.Count(content)
	expertise := s.patterns.ExpertiseMarker.Count(content)

	factors := []factor{
		{"statistics", Capped(stats, 10, 40), 40},
		{"citations", Capped(citations, 10, 30), 30},
		{"expertise markers", Capped(expertise, 10, 30), 30},
	}
	total := 0.0
	for _, f := range factors {
		total += f.points
	}
	dim.Score = RoundClamp(total, ProfileDimensionMax)
	dim.Details = describe(dim.Score, dim.Max, factors,
		fmt.Sprintf("%d statistics, %d citations, %d expertise markers", stats, citations, expertise))
	return dim
}
