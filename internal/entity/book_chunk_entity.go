package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookChunk is one embedded passage of the book held in the vector index.
// Rows are written by the offline ingestion job and read-only at runtime.
type BookChunk struct {
	Id         uuid.UUID
	Content    string
	Chapter    string
	Section    string
	Heading    string
	ChunkIndex int
	WordCount  int
	DocVersion string
	Embedding  []float32
	CreatedAt  time.Time
}

// RetrievedChunk is a search hit: a chunk payload plus its relevance-ranked
// position. It lives only for the duration of one orchestration call.
type RetrievedChunk struct {
	Id         uuid.UUID
	Content    string
	Chapter    string
	Section    string
	Heading    string
	ChunkIndex int
	Score      float64
}
