package contract

import (
	"context"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/specification"
)

// SearchParams tunes a similarity search: how many neighbors, how hard
// the HNSW index works for them, and optional metadata filters.
type SearchParams struct {
	Limit    int
	EfSearch int               // 0 = server default
	Filters  map[string]string // column -> exact value, e.g. "chapter" -> "3"
}

type BookChunkRepository interface {
	Create(ctx context.Context, chunk *entity.BookChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.BookChunk) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BookChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteByDocVersion(ctx context.Context, docVersion string) error

	// SearchSimilar returns the nearest chunks by cosine distance, scored
	// with cosine similarity (1.0 = identical).
	SearchSimilar(ctx context.Context, embedding []float32, params SearchParams) ([]*entity.RetrievedChunk, error)
}
