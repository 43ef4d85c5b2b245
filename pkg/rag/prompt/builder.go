package prompt

import (
	"fmt"
	"strings"

	"book-chatbot-be/internal/constant"
	"book-chatbot-be/internal/entity"
)

// Builder assembles the grounded user prompt sent to the LLM.
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders the question, the retrieved sources and the optional
// selected passage into a single prompt. Sources are numbered so the
// model can refer back to them.
func (b *Builder) Build(question, queryMode, selectedText string, chunks []*entity.RetrievedChunk) string {
	var prompt strings.Builder

	prompt.WriteString("Context from the book:\n")
	if len(chunks) == 0 {
		prompt.WriteString(constant.EmptyContextNotice)
		prompt.WriteString("\n")
	} else {
		for i, chunk := range chunks {
			prompt.WriteString(fmt.Sprintf("[Source %d] %s - %s:\n%s\n\n", i+1, chunk.Chapter, chunk.Section, chunk.Content))
		}
	}

	if queryMode == constant.QueryModeSelection && selectedText != "" {
		prompt.WriteString(fmt.Sprintf("\nThe reader has selected this passage from the book:\n\"%s\"\n\nAnswer the question with respect to the selected passage, using the context above for support.\n", selectedText))
	}

	prompt.WriteString(fmt.Sprintf("\nQuestion: %s", question))
	return prompt.String()
}
