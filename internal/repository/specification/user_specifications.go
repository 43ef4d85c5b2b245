package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByEmail filters users by email address. Emails are stored lowercased,
// callers normalize before building the specification.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByTokenHash filters sessions by the SHA-256 hash of the bearer token.
type ByTokenHash struct {
	TokenHash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.TokenHash)
}

// ExpiredBefore matches sessions whose expiry is at or before the given
// instant. Used by the periodic session sweep.
type ExpiredBefore struct {
	Now time.Time
}

func (s ExpiredBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at <= ?", s.Now)
}
