package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/contract"
	"book-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChatMessageRepository is an in-memory implementation used by unit tests.
type ChatMessageRepository struct {
	mu       sync.RWMutex
	messages []*entity.ChatMessage
}

func NewChatMessageRepository() *ChatMessageRepository {
	return &ChatMessageRepository{}
}

func (r *ChatMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	copied := *message
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *ChatMessageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

func (r *ChatMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*entity.ChatMessage
	for _, m := range r.messages {
		if matchMessage(m, specs) {
			copied := *m
			matches = append(matches, &copied)
		}
	}

	applyOrdering(matches, specs)
	return applyPagination(matches, specs), nil
}

func (r *ChatMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, m := range r.messages {
		if matchMessage(m, specs) {
			count++
		}
	}
	return count, nil
}

func (r *ChatMessageRepository) ListThreads(ctx context.Context, userId uuid.UUID) ([]*entity.ThreadSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byThread := make(map[string]*entity.ThreadSummary)
	for _, m := range r.messages {
		if m.UserId != userId {
			continue
		}
		summary, ok := byThread[m.ThreadId]
		if !ok {
			summary = &entity.ThreadSummary{ThreadId: m.ThreadId}
			byThread[m.ThreadId] = summary
		}
		summary.MessageCount++
		if m.CreatedAt.After(summary.LastMessageAt) {
			summary.LastMessageAt = m.CreatedAt
		}
	}

	summaries := make([]*entity.ThreadSummary, 0, len(byThread))
	for _, s := range byThread {
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
	})
	return summaries, nil
}

func matchMessage(m *entity.ChatMessage, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if m.Id != s.ID {
				return false
			}
		case specification.OwnedBy:
			if m.UserId != s.UserID {
				return false
			}
		case specification.ByThreadID:
			if m.ThreadId != s.ThreadID {
				return false
			}
		case specification.ByRole:
			if m.Role != s.Role {
				return false
			}
		}
	}
	return true
}

func applyOrdering(matches []*entity.ChatMessage, specs []specification.Specification) {
	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && s.Field == "created_at" {
			sort.SliceStable(matches, func(i, j int) bool {
				if s.Desc {
					return matches[i].CreatedAt.After(matches[j].CreatedAt)
				}
				return matches[i].CreatedAt.Before(matches[j].CreatedAt)
			})
		}
	}
}

func applyPagination(matches []*entity.ChatMessage, specs []specification.Specification) []*entity.ChatMessage {
	for _, spec := range specs {
		if s, ok := spec.(specification.Pagination); ok {
			if s.Offset >= len(matches) {
				return nil
			}
			matches = matches[s.Offset:]
			if s.Limit > 0 && s.Limit < len(matches) {
				matches = matches[:s.Limit]
			}
		}
	}
	return matches
}

var _ contract.ChatMessageRepository = (*ChatMessageRepository)(nil)
