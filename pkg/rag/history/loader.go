package history

import (
	"context"

	"book-chatbot-be/internal/constant"
	"book-chatbot-be/internal/repository/specification"
	"book-chatbot-be/internal/repository/unitofwork"
	"book-chatbot-be/pkg/llm"

	"github.com/google/uuid"
)

// Loader fetches recent thread history for LLM context.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

// NewLoader creates a new history loader
func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{
		uowFactory: uowFactory,
	}
}

// LoadThreadHistory returns the most recent turns of a thread in
// chronological order, ready to prepend to an LLM conversation. Offset
// lets the caller skip messages saved earlier in the same turn.
func (l *Loader) LoadThreadHistory(ctx context.Context, userId uuid.UUID, threadId string, limit, offset int) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.ByThreadID{ThreadID: threadId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	// Query is newest-first for the LIMIT; the prompt wants oldest-first.
	messages := make([]llm.Message, 0, len(chats))
	for i := len(chats) - 1; i >= 0; i-- {
		chat := chats[i]

		role := "user"
		if chat.Role == constant.ChatMessageRoleAssistant {
			role = "assistant"
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: chat.Content,
		})
	}

	return messages, nil
}
