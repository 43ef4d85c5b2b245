package prompt

import (
	"strings"
	"testing"

	"book-chatbot-be/internal/constant"
	"book-chatbot-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func sampleChunks() []*entity.RetrievedChunk {
	return []*entity.RetrievedChunk{
		{Content: "A degree of freedom is an independent parameter.", Chapter: "3", Section: "3.1", Score: 0.92},
		{Content: "Constraints reduce the count of free parameters.", Chapter: "3", Section: "3.2", Score: 0.88},
	}
}

func TestBuildNumbersSourcesInOrder(t *testing.T) {
	b := NewBuilder()

	out := b.Build("What is a degree of freedom?", constant.QueryModeFullBook, "", sampleChunks())

	assert.Contains(t, out, "[Source 1] 3 - 3.1:\nA degree of freedom is an independent parameter.")
	assert.Contains(t, out, "[Source 2] 3 - 3.2:\nConstraints reduce the count of free parameters.")
	assert.Less(t, strings.Index(out, "[Source 1]"), strings.Index(out, "[Source 2]"))
	assert.True(t, strings.HasSuffix(out, "Question: What is a degree of freedom?"))
}

func TestBuildSelectionModeQuotesPassage(t *testing.T) {
	b := NewBuilder()

	out := b.Build("What does this mean?", constant.QueryModeSelection, "the pendulum has two degrees of freedom", sampleChunks())

	assert.Contains(t, out, `"the pendulum has two degrees of freedom"`)
	assert.Contains(t, out, "selected this passage")
}

func TestBuildFullBookModeOmitsSelectionFraming(t *testing.T) {
	b := NewBuilder()

	out := b.Build("What does this mean?", constant.QueryModeFullBook, "leftover text", sampleChunks())

	assert.NotContains(t, out, "selected this passage")
}

func TestBuildEmptyContext(t *testing.T) {
	b := NewBuilder()

	out := b.Build("Anything?", constant.QueryModeFullBook, "", nil)

	assert.Contains(t, out, constant.EmptyContextNotice)
	assert.NotContains(t, out, "[Source")
}
