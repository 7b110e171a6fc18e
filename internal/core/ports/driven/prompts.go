package driven

// Prompt names understood by the PromptStore.
const (
	// PromptAnswer is the answer composition prompt. Takes two
	// substitutions: the numbered context block and the question.
	PromptAnswer = "answer"

	// PromptQueryExpand is the query expansion prompt. Takes one
	// substitution: the question.
	PromptQueryExpand = "query_expand"
)

// PromptStore loads prompt templates by name. Implementations may
// allow user customisation with embedded defaults as fallback.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
