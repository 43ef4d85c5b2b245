package contract

import (
	"context"
	"time"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Daily usage counters, maintained by the chat turn consumer.
	IncrementDailyUsage(ctx context.Context, userId uuid.UUID) error
	ResetDailyUsage(ctx context.Context, userId uuid.UUID, at time.Time) error

	// Session Management
	CreateSession(ctx context.Context, session *entity.Session) error
	FindSession(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteSessionsByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}
