package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id                      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email                   string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash            string    `gorm:"type:varchar(255);not null"`
	ChatDailyUsage          int       `gorm:"default:0"`
	ChatDailyUsageLastReset time.Time
	CreatedAt               time.Time `gorm:"autoCreateTime"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type Session struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Session) TableName() string {
	return "sessions"
}
