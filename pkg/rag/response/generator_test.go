package response

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"book-chatbot-be/internal/constant"
	"book-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	calls    int
	failures []error // consumed one per call; nil entry means success
	answer   string
	messages [][]llm.Message
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	p.calls++
	p.messages = append(p.messages, history)
	if len(p.failures) > 0 {
		err := p.failures[0]
		p.failures = p.failures[1:]
		if err != nil {
			return "", err
		}
	}
	return p.answer, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (p *scriptedProvider) Model() string { return "test-model" }

func newTestGenerator(p llm.LLMProvider) *Generator {
	g := NewGenerator(p, log.New(io.Discard, "", 0))
	g.policy.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return g
}

func TestGenerateRetriesRateLimitThenSucceeds(t *testing.T) {
	provider := &scriptedProvider{
		failures: []error{&llm.RateLimitError{}, &llm.RateLimitError{}, nil},
		answer:   "the answer",
	}
	g := newTestGenerator(provider)

	answer, err := g.Generate(context.Background(), "question", constant.QueryModeFullBook, "", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
	assert.Equal(t, 3, provider.calls)
}

func TestGenerateGivesUpAfterThreeRateLimits(t *testing.T) {
	provider := &scriptedProvider{
		failures: []error{&llm.RateLimitError{}, &llm.RateLimitError{}, &llm.RateLimitError{}},
	}
	g := newTestGenerator(provider)

	_, err := g.Generate(context.Background(), "question", constant.QueryModeFullBook, "", nil, nil)

	require.Error(t, err)
	assert.True(t, llm.IsRateLimit(err))
	assert.Equal(t, 3, provider.calls)
}

func TestGenerateDoesNotRetryProviderErrors(t *testing.T) {
	provider := &scriptedProvider{
		failures: []error{&llm.ProviderError{StatusCode: 400, Body: "bad request"}},
	}
	g := newTestGenerator(provider)

	_, err := g.Generate(context.Background(), "question", constant.QueryModeFullBook, "", nil, nil)

	require.Error(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestGenerateRetriesTimeouts(t *testing.T) {
	provider := &scriptedProvider{
		failures: []error{&llm.TimeoutError{}, nil},
		answer:   "eventually",
	}
	g := newTestGenerator(provider)

	answer, err := g.Generate(context.Background(), "question", constant.QueryModeFullBook, "", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "eventually", answer)
	assert.Equal(t, 2, provider.calls)
}

func TestGenerateMessageLayout(t *testing.T) {
	provider := &scriptedProvider{answer: "ok"}
	g := newTestGenerator(provider)

	history := []llm.Message{
		{Role: "user", Content: "turn 1"},
		{Role: "assistant", Content: "answer 1"},
		{Role: "user", Content: "turn 2"},
		{Role: "assistant", Content: "answer 2"},
		{Role: "user", Content: "turn 3"},
		{Role: "assistant", Content: "answer 3"},
	}

	_, err := g.Generate(context.Background(), "question", constant.QueryModeFullBook, "", nil, history)
	require.NoError(t, err)
	require.Len(t, provider.messages, 1)

	sent := provider.messages[0]
	// System instruction, then the 5 most recent history turns in
	// chronological order, then the grounded prompt.
	require.Len(t, sent, 7)
	assert.Equal(t, "system", sent[0].Role)
	assert.Equal(t, constant.AssistantInstructions, sent[0].Content)
	assert.Equal(t, "answer 1", sent[1].Content)
	assert.Equal(t, "answer 3", sent[5].Content)
	assert.Equal(t, "user", sent[6].Role)
	assert.Contains(t, sent[6].Content, "Question: question")
}
