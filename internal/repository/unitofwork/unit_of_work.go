package unitofwork

import (
	"context"

	"book-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatMessageRepository() contract.ChatMessageRepository
	BookChunkRepository() contract.BookChunkRepository
}
