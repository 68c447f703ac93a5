package types

// Content types returned by content-type detection.
const (
	ContentTypeArticle       = "article"
	ContentTypeProduct       = "product"
	ContentTypeFAQ           = "faq"
	ContentTypeHowTo         = "howto"
	ContentTypeLocalBusiness = "local_business"
)

// ContentTypes lists every recognised content type.
var ContentTypes = []string{
	ContentTypeArticle,
	ContentTypeProduct,
	ContentTypeFAQ,
	ContentTypeHowTo,
	ContentTypeLocalBusiness,
}

// IsContentType reports whether s is a recognised content type.
func IsContentType(s string) bool {
	for _, ct := range ContentTypes {
		if ct == s {
			return true
		}
	}
	return false
}

// Entity statuses.
const (
	EntityFound   = "found"
	EntityWeak    = "weak"
	EntityMissing = "missing"
)

// FAQ is one question/answer pair extracted from content.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// HowToStep is one instruction step.
type HowToStep struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// HowTo is a set of instructions extracted from content.
type HowTo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Steps       []HowToStep `json:"steps"`
}

// ExtractedEntity is a named entity as reported by the text analyzer.
type ExtractedEntity struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Suggestions []string `json:"suggestions"`
}

// Keywords buckets topic keywords by coverage.
type Keywords struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
	Missing   []string `json:"missing"`
}

// EntityAnalysis is the text analyzer's entity extraction result.
type EntityAnalysis struct {
	Entities         []ExtractedEntity `json:"entities"`
	Keywords         Keywords          `json:"keywords"`
	AboutSuggestions []string          `json:"about_suggestions"`
}

// SnippetCandidate is a passage likely to be quoted by an answer engine.
type SnippetCandidate struct {
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// QualitativeAnalysis is the text analyzer's commentary on readability.
type QualitativeAnalysis struct {
	Strengths           []string           `json:"strengths"`
	Weaknesses          []string           `json:"weaknesses"`
	AISnippetCandidates []SnippetCandidate `json:"ai_snippet_candidates"`
	MissingElements     []string           `json:"missing_elements"`
}

// EmptyEntityAnalysis returns the all-empty entity analysis.
func EmptyEntityAnalysis() EntityAnalysis {
	return EntityAnalysis{
		Entities:         []ExtractedEntity{},
		Keywords:         Keywords{Primary: []string{}, Secondary: []string{}, Missing: []string{}},
		AboutSuggestions: []string{},
	}
}

// EmptyQualitativeAnalysis returns the all-empty qualitative analysis.
func EmptyQualitativeAnalysis() QualitativeAnalysis {
	return QualitativeAnalysis{
		Strengths:           []string{},
		Weaknesses:          []string{},
		AISnippetCandidates: []SnippetCandidate{},
		MissingElements:     []string{},
	}
}

// EmptyHowTo returns a HowTo with no steps.
func EmptyHowTo() HowTo {
	return HowTo{Steps: []HowToStep{}}
}
