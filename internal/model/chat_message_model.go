package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMessage struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID         `gorm:"type:uuid;not null;index:idx_chat_messages_user_thread"`
	ThreadId  string            `gorm:"type:varchar(255);not null;index:idx_chat_messages_user_thread"`
	Role      string            `gorm:"type:varchar(50);not null"`
	Content   string            `gorm:"type:text;not null"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index"`

	// Relationships
	User User `gorm:"foreignKey:UserId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
