package memory

import (
	"context"

	"book-chatbot-be/internal/repository/contract"
	"book-chatbot-be/internal/repository/unitofwork"
)

// Factory hands out units of work that all share the same in-memory
// repositories, so state written in one request is visible in the next.
type Factory struct {
	Users  *UserRepository
	Chats  *ChatMessageRepository
	Chunks *BookChunkRepository
}

func NewFactory() *Factory {
	return &Factory{
		Users:  NewUserRepository(),
		Chats:  NewChatMessageRepository(),
		Chunks: NewBookChunkRepository(),
	}
}

func (f *Factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{factory: f}
}

// UnitOfWork is transactionless; Begin, Commit and Rollback are no-ops
// because the in-memory repositories apply writes immediately.
type UnitOfWork struct {
	factory *Factory
}

func (u *UnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *UnitOfWork) Commit() error                   { return nil }
func (u *UnitOfWork) Rollback() error                 { return nil }

func (u *UnitOfWork) UserRepository() contract.UserRepository {
	return u.factory.Users
}

func (u *UnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return u.factory.Chats
}

func (u *UnitOfWork) BookChunkRepository() contract.BookChunkRepository {
	return u.factory.Chunks
}

var _ unitofwork.RepositoryFactory = (*Factory)(nil)
