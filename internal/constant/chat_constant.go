package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	QueryModeFullBook  = "full_book"
	QueryModeSelection = "selection"

	// Limits enforced at the boundary before any provider call.
	MaxMessageLength      = 10000
	MaxSelectedTextLength = 5000
	MaxThreadIDLength     = 255

	// Top-k per query mode: a selected passage needs fewer, more targeted hits.
	TopKSelection = 3
	TopKFullBook  = 5

	// History turns included in the generation prompt.
	PromptHistoryTurns = 5

	// AssistantInstructions is the fixed system prompt for the book agent.
	AssistantInstructions = `You are a knowledgeable assistant for a textbook. ` +
		`Provide clear, concise answers based on the book content. ` +
		`Cite sources when relevant.`

	// EmptyContextNotice replaces the source list when retrieval finds nothing.
	EmptyContextNotice = "No relevant context found in the book."
)
