package scoring

// Dimension keys for the composite GEO profile.
const (
	DimSchemaMarkup     = "schema_markup"
	DimEntityClarity    = "entity_clarity"
	DimAIReadability    = "ai_readability"
	DimContentStructure = "content_structure"
	DimAuthoritySignals = "authority_signals"
)

// Dimension keys for the readability profile. Authority signals share the
// composite key but are scored on a different scale.
const (
	DimQuotability     = "quotability"
	DimAnswerReadiness = "answer_readiness"
	DimStructure       = "structure"
	DimConciseness     = "conciseness"
)

// GEODimensionMax is the ceiling of every composite dimension.
const GEODimensionMax = 20

// ProfileDimensionMax is the ceiling of every readability-profile dimension.
const ProfileDimensionMax = 100

// DimensionScore is one named axis of a score
type DimensionScore struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Max     int    `json:"max"`
	Details string `json:"details"`
}

// Gap returns Max minus Score.
func (d DimensionScore) Gap() int {
	return d.Max - d.Score
}

// Recommendation is a single prioritized improvement action
type Recommendation struct {
	Priority int    `json:"priority"` // 1-based, strictly increasing in emission order
	Category string `json:"category"`
	Action   string `json:"action"`
	Impact   string `json:"impact"` // high, medium, low
	Effort   string `json:"effort"` // quick_win, moderate, significant
	Details  string `json:"details"`
}

// CompositeResult is the outcome of the composite GEO scorer
type CompositeResult struct {
	URL             string           `json:"url,omitempty"`
	TotalScore      int              `json:"total_score"` // 0-100
	Grade           string           `json:"grade"`       // A, B, C, D, F
	Percentile      int              `json:"percentile"`  // 1-99
	Dimensions      []DimensionScore `json:"dimensions"`
	Recommendations []Recommendation `json:"recommendations"`
	AnalyzedAt      string           `json:"analyzed_at,omitempty"`
}

// Dimension returns the dimension with key, if present.
func (r *CompositeResult) Dimension(key string) (DimensionScore, bool) {
	for _, d := range r.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionScore{}, false
}

// ReadabilityMetrics are the raw counts behind a readability profile
type ReadabilityMetrics struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	ParagraphCount    int     `json:"paragraph_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	FillerRatio       float64 `json:"filler_ratio"`
}

// ReadabilityProfile is the outcome of the readability profiler
type ReadabilityProfile struct {
	OverallScore    int                `json:"overall_score"` // 0-100 weighted
	Grade           string             `json:"grade"`
	Dimensions      []DimensionScore   `json:"dimensions"`
	Metrics         ReadabilityMetrics `json:"metrics"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// Dimension returns the dimension with key, if present.
func (p *ReadabilityProfile) Dimension(key string) (DimensionScore, bool) {
	for _, d := range p.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionScore{}, false
}
