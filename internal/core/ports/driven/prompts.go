package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the built-in default
	// or an error when no default exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// Templates use fmt verbs; the expected placeholders are listed per name.
const (
	// PromptRerank scores candidate excerpts against a query.
	// Placeholders: %s (query), %s (numbered candidates).
	PromptRerank = "rerank"

	// PromptReasoning explains the scenario in light of the retrieved treaties.
	// Placeholders: %s (scenario summary), %s (treaty context).
	PromptReasoning = "reasoning"

	// PromptLegalAnalysis analyses the legal obligations of each party.
	// Placeholders: %s (scenario summary), %s (treaty context).
	PromptLegalAnalysis = "legal_analysis"

	// PromptStrategicOptions lists response options for the selected country.
	// Placeholders: %s (scenario summary), %s (treaty context).
	PromptStrategicOptions = "strategic_options"

	// PromptBriefingDocument assembles the final JSON briefing.
	// Placeholders: %s (scenario summary), %s (reasoning), %s (legal analysis), %s (strategic options).
	PromptBriefingDocument = "briefing_document"

	// PromptEvaluationAnswer answers a test question from retrieved context.
	// Placeholders: %s (question), %s (context).
	PromptEvaluationAnswer = "evaluation_answer"

	// PromptFaithfulness judges whether an answer is grounded in context.
	// Placeholders: %s (context), %s (answer).
	PromptFaithfulness = "faithfulness"

	// PromptAnswerRelevancy judges whether an answer addresses the question.
	// Placeholders: %s (question), %s (answer).
	PromptAnswerRelevancy = "answer_relevancy"

	// PromptSyntheticQuestions generates test questions from treaty excerpts.
	// Placeholders: %d (count), %s (excerpts).
	PromptSyntheticQuestions = "synthetic_questions"
)

// AllPromptNames returns every well-known prompt name.
func AllPromptNames() []string {
	return []string{
		PromptRerank,
		PromptReasoning,
		PromptLegalAnalysis,
		PromptStrategicOptions,
		PromptBriefingDocument,
		PromptEvaluationAnswer,
		PromptFaithfulness,
		PromptAnswerRelevancy,
		PromptSyntheticQuestions,
	}
}

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
