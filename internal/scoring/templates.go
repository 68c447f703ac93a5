package scoring

import "github.com/dotcommander/geolint/internal/types"

// Recommendation categories.
const (
	CategorySchema          = "schema"
	CategoryEntities        = "entities"
	CategoryReadability     = "readability"
	CategoryStructure       = "structure"
	CategoryAuthority       = "authority"
	CategoryQuotability     = "quotability"
	CategoryAnswerReadiness = "answer_readiness"
	CategoryConciseness     = "conciseness"
)

// GEOTemplates is the recommendation catalog for the composite profile.
// Every list ends with a MinGap 1 template so any shortfall is addressed.
var GEOTemplates = Catalog{
	DimSchemaMarkup: {
		{MinGap: 15, Category: CategorySchema, Action: "Add JSON-LD structured data for the page's primary entity",
			Impact: types.ImpactHigh, Effort: types.EffortModerate,
			Details: "Pages without Schema.org markup give answer engines nothing to anchor citations on. Start with Article, Product or Organization."},
		{MinGap: 8, Category: CategorySchema, Action: "Add FAQPage or HowTo schema for question and step content",
			Impact: types.ImpactHigh, Effort: types.EffortModerate,
			Details: "Question/answer and step-by-step markup maps directly onto the formats AI answers quote."},
		{MinGap: 4, Category: CategorySchema, Action: "Complete recommended fields on existing schema objects",
			Impact: types.ImpactMedium, Effort: types.EffortQuickWin,
			Details: "Fill in description, image, author, publisher and sameAs where they apply."},
		{MinGap: 1, Category: CategorySchema, Action: "Validate structured data and fix remaining warnings",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "Run the schema validator and resolve every warning it reports."},
	},
	DimEntityClarity: {
		{MinGap: 12, Category: CategoryEntities, Action: "Name the people, products and organizations the page is about",
			Impact: types.ImpactHigh, Effort: types.EffortModerate,
			Details: "Use full proper names instead of pronouns or generic terms so entities can be resolved."},
		{MinGap: 7, Category: CategoryEntities, Action: "Open with a one-sentence definition of the main topic",
			Impact: types.ImpactHigh, Effort: types.EffortQuickWin,
			Details: "A sentence of the form \"X is a ...\" near the top is the passage most often lifted verbatim."},
		{MinGap: 4, Category: CategoryEntities, Action: "Link key entities to authoritative sources",
			Impact: types.ImpactMedium, Effort: types.EffortQuickWin,
			Details: "Reference Wikipedia, official sites or standards bodies for the entities you mention."},
		{MinGap: 1, Category: CategoryEntities, Action: "Mention the primary entity consistently throughout the page",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "Repeat the canonical name at least three times, including in the title."},
	},
	DimAIReadability: {
		{MinGap: 12, Category: CategoryReadability, Action: "Rewrite long sentences to 10-20 words",
			Impact: types.ImpactHigh, Effort: types.EffortSignificant,
			Details: "Short declarative sentences are easier to extract as standalone answers."},
		{MinGap: 7, Category: CategoryReadability, Action: "Add direct answers immediately after question headings",
			Impact: types.ImpactHigh, Effort: types.EffortModerate,
			Details: "Lead each section with the answer in one or two sentences, then elaborate."},
		{MinGap: 4, Category: CategoryReadability, Action: "Break dense passages into bulleted lists",
			Impact: types.ImpactMedium, Effort: types.EffortQuickWin,
			Details: "Lists of features, steps or criteria are quoted more often than prose."},
		{MinGap: 1, Category: CategoryReadability, Action: "Phrase section headings as the questions readers ask",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "Question headings match conversational queries word for word."},
	},
	DimContentStructure: {
		{MinGap: 12, Category: CategoryStructure, Action: "Expand the page to at least 300 words of substantive content",
			Impact: types.ImpactHigh, Effort: types.EffortSignificant,
			Details: "Thin pages rarely carry enough context to be cited."},
		{MinGap: 7, Category: CategoryStructure, Action: "Organize content under descriptive H2/H3 headings",
			Impact: types.ImpactHigh, Effort: types.EffortModerate,
			Details: "Aim for at least five headings that each cover one subtopic."},
		{MinGap: 4, Category: CategoryStructure, Action: "Keep paragraphs between 30 and 150 words",
			Impact: types.ImpactMedium, Effort: types.EffortQuickWin,
			Details: "Split walls of text and merge one-line fragments."},
		{MinGap: 1, Category: CategoryStructure, Action: "Add a summary list or table of key points",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "A scannable recap gives extractors a ready-made answer block."},
	},
	DimAuthoritySignals: {
		{MinGap: 12, Category: CategoryAuthority, Action: "Support claims with specific statistics and data",
			Impact: types.ImpactHigh, Effort: types.EffortModerate,
			Details: "Percentages, amounts and multipliers make passages verifiable and quotable."},
		{MinGap: 7, Category: CategoryAuthority, Action: "Cite sources with \"according to\" attributions",
			Impact: types.ImpactHigh, Effort: types.EffortQuickWin,
			Details: "Name the study, report or organization behind each key figure."},
		{MinGap: 4, Category: CategoryAuthority, Action: "Include quotes from named experts",
			Impact: types.ImpactMedium, Effort: types.EffortModerate,
			Details: "Attributed quotations signal first-hand expertise."},
		{MinGap: 1, Category: CategoryAuthority, Action: "Add author and publication date metadata",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "Visible bylines and dates help engines judge freshness and provenance."},
	},
}

// ReadabilityTemplates is the recommendation catalog for the readability profile.
var ReadabilityTemplates = Catalog{
	DimQuotability: {
		{MinGap: 60, Category: CategoryQuotability, Action: "Rewrite key points as standalone declarative statements",
			Impact: types.ImpactHigh, Effort: types.EffortSignificant,
			Details: "Each important claim should make sense when lifted out of the page."},
		{MinGap: 30, Category: CategoryQuotability, Action: "Remove hedging language from factual claims",
			Impact: types.ImpactMedium, Effort: types.EffortQuickWin,
			Details: "Replace \"might\", \"could\" and \"perhaps\" with precise statements where the facts allow."},
		{MinGap: 1, Category: CategoryQuotability, Action: "Attach a number to your strongest claims",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "Sentences carrying a statistic are preferred as citations."},
	},
	DimAnswerReadiness: {
		{MinGap: 60, Category: CategoryAnswerReadiness, Action: "Add an FAQ section answering the top user questions",
			Impact: types.ImpactHigh, Effort: types.EffortModerate,
			Details: "Use the question as the heading and answer it in the first sentence below."},
		{MinGap: 30, Category: CategoryAnswerReadiness, Action: "Start the page with a concise answer paragraph",
			Impact: types.ImpactMedium, Effort: types.EffortQuickWin,
			Details: "Keep the opening paragraph under 60 words and make it definitive."},
		{MinGap: 1, Category: CategoryAnswerReadiness, Action: "Turn topical headings into questions",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "Question headings align sections with conversational queries."},
	},
	DimStructure: {
		{MinGap: 60, Category: CategoryStructure, Action: "Introduce headings and lists to structure the page",
			Impact: types.ImpactHigh, Effort: types.EffortModerate,
			Details: "Unstructured text is hard to segment into answer-sized passages."},
		{MinGap: 30, Category: CategoryStructure, Action: "Shorten paragraphs to under 80 words",
			Impact: types.ImpactMedium, Effort: types.EffortQuickWin,
			Details: "Shorter paragraphs map cleanly onto single answers."},
		{MinGap: 1, Category: CategoryStructure, Action: "Add a bulleted summary of key takeaways",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "A takeaway list is a ready-made snippet."},
	},
	DimConciseness: {
		{MinGap: 60, Category: CategoryConciseness, Action: "Cut filler words and tighten every sentence",
			Impact: types.ImpactHigh, Effort: types.EffortSignificant,
			Details: "Words like \"very\", \"really\" and \"basically\" dilute the signal of each passage."},
		{MinGap: 30, Category: CategoryConciseness, Action: "Split sentences longer than 25 words",
			Impact: types.ImpactMedium, Effort: types.EffortModerate,
			Details: "Long sentences are truncated or paraphrased instead of quoted."},
		{MinGap: 1, Category: CategoryConciseness, Action: "Replace vague phrases with specific terms",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "Prefer concrete nouns over \"things\" and \"stuff\"."},
	},
	DimAuthoritySignals: {
		{MinGap: 60, Category: CategoryAuthority, Action: "Back the content with statistics and cited sources",
			Impact: types.ImpactHigh, Effort: types.EffortModerate,
			Details: "Data points and citations are the strongest trust signals for answer engines."},
		{MinGap: 30, Category: CategoryAuthority, Action: "Highlight author credentials and expertise",
			Impact: types.ImpactMedium, Effort: types.EffortQuickWin,
			Details: "Mention certifications, research background or years of experience."},
		{MinGap: 1, Category: CategoryAuthority, Action: "Reference peer-reviewed or official sources",
			Impact: types.ImpactLow, Effort: types.EffortQuickWin,
			Details: "Link primary sources instead of secondary summaries."},
	},
}
