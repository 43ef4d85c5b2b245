package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Rolling usage counter maintained by the turn consumer.
	ChatDailyUsage          int
	ChatDailyUsageLastReset time.Time
}

// Session is an authentication grant bound to one user. Only a one-way hash
// of the bearer token is stored; the raw token never touches the database.
type Session struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
