package contract

import (
	"context"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// ListThreads aggregates a user's messages by thread, newest activity first.
	ListThreads(ctx context.Context, userId uuid.UUID) ([]*entity.ThreadSummary, error)
}
