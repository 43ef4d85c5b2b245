package response

import (
	"context"
	"log"

	"book-chatbot-be/internal/constant"
	"book-chatbot-be/internal/entity"
	"book-chatbot-be/pkg/llm"
	"book-chatbot-be/pkg/rag/prompt"
	"book-chatbot-be/pkg/retry"
)

// Generator produces the assistant's answer from retrieved context, with
// retry on transient provider failures.
type Generator struct {
	llmProvider llm.LLMProvider
	builder     *prompt.Builder
	policy      retry.Policy
	logger      *log.Logger
}

// NewGenerator creates a new response generator
func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		builder:     prompt.NewBuilder(),
		policy:      retry.DefaultPolicy(classifyLLMError),
		logger:      logger,
	}
}

// Generate builds the grounded prompt and asks the LLM for an answer.
// Only rate limits and timeouts are retried; other provider errors
// surface immediately.
func (g *Generator) Generate(
	ctx context.Context,
	question, queryMode, selectedText string,
	chunks []*entity.RetrievedChunk,
	history []llm.Message,
) (string, error) {

	promptText := g.builder.Build(question, queryMode, selectedText, chunks)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: constant.AssistantInstructions})

	// Only the most recent turns matter for continuity.
	if len(history) > constant.PromptHistoryTurns {
		history = history[len(history)-constant.PromptHistoryTurns:]
	}
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: promptText})

	var answer string
	err := retry.Do(ctx, g.policy, func(ctx context.Context) error {
		var callErr error
		answer, callErr = g.llmProvider.Chat(ctx, messages)
		if callErr != nil {
			g.logger.Printf("[WARN] LLM call failed: %v", callErr)
		}
		return callErr
	})
	if err != nil {
		return "", err
	}

	return answer, nil
}

// Model reports which model the underlying provider answers with.
func (g *Generator) Model() string {
	return g.llmProvider.Model()
}

func classifyLLMError(err error) retry.Decision {
	if llm.IsRateLimit(err) {
		return retry.Decision{Retry: true, DelayHint: llm.RetryAfterHint(err)}
	}
	if llm.IsTimeout(err) {
		return retry.Decision{Retry: true}
	}
	return retry.Decision{}
}
