package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type BookChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content    string          `gorm:"type:text;not null"`
	Chapter    string          `gorm:"type:varchar(255);index"`
	Section    string          `gorm:"type:varchar(255);index"`
	Heading    string          `gorm:"type:varchar(255)"`
	ChunkIndex int             `gorm:"default:0"`
	WordCount  int             `gorm:"default:0"`
	DocVersion string          `gorm:"type:varchar(64);index"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small uses 1536 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (BookChunk) TableName() string {
	return "book_chunks"
}
