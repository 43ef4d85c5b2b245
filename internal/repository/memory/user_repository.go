package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/contract"
	"book-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

// UserRepository is an in-memory implementation used by unit tests. It
// understands the same specifications the gorm implementation does.
type UserRepository struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[uuid.UUID]*entity.Session),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	copied := *user
	r.users[user.Id] = &copied
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.Id] = &copied
	return nil
}

func (r *UserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if matchUser(u, specs) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, u := range r.users {
		if matchUser(u, specs) {
			count++
		}
	}
	return count, nil
}

func (r *UserRepository) IncrementDailyUsage(ctx context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userId]; ok {
		u.ChatDailyUsage++
	}
	return nil
}

func (r *UserRepository) ResetDailyUsage(ctx context.Context, userId uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userId]; ok {
		u.ChatDailyUsage = 0
		u.ChatDailyUsageLastReset = at
	}
	return nil
}

func (r *UserRepository) CreateSession(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	copied := *session
	r.sessions[session.Id] = &copied
	return nil
}

func (r *UserRepository) FindSession(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		if matchSession(s, specs) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *UserRepository) DeleteSessionsByTokenHash(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.TokenHash == tokenHash {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(before) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if !strings.EqualFold(u.Email, s.Email) {
				return false
			}
		}
	}
	return true
}

func matchSession(s *entity.Session, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.ByTokenHash:
			if s.TokenHash != sp.TokenHash {
				return false
			}
		case specification.ExpiredBefore:
			if s.ExpiresAt.After(sp.Now) {
				return false
			}
		}
	}
	return true
}

var _ contract.UserRepository = (*UserRepository)(nil)
