package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn of a conversation. Records are immutable once
// written; a successful chat turn creates exactly two of them.
type ChatMessage struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ThreadId  string
	Role      string
	Content   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// ThreadSummary is one row of the per-user thread listing. Threads are not
// stored entities; they exist only as a grouping key on messages.
type ThreadSummary struct {
	ThreadId      string
	LastMessageAt time.Time
	MessageCount  int64
}
