package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/contract"
	"book-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

// BookChunkRepository is an in-memory implementation used by unit tests.
// SearchSimilar computes real cosine similarity so ranking tests exercise
// the same ordering the pgvector query produces.
type BookChunkRepository struct {
	mu     sync.RWMutex
	chunks []*entity.BookChunk
}

func NewBookChunkRepository() *BookChunkRepository {
	return &BookChunkRepository{}
}

func (r *BookChunkRepository) Create(ctx context.Context, chunk *entity.BookChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chunk.Id == uuid.Nil {
		chunk.Id = uuid.New()
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}
	copied := *chunk
	r.chunks = append(r.chunks, &copied)
	return nil
}

func (r *BookChunkRepository) CreateBulk(ctx context.Context, chunks []*entity.BookChunk) error {
	for _, c := range chunks {
		if err := r.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *BookChunkRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BookChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.chunks {
		if matchChunk(c, specs) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *BookChunkRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BookChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []*entity.BookChunk
	for _, c := range r.chunks {
		if matchChunk(c, specs) {
			copied := *c
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

func (r *BookChunkRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, c := range r.chunks {
		if matchChunk(c, specs) {
			count++
		}
	}
	return count, nil
}

func (r *BookChunkRepository) DeleteByDocVersion(ctx context.Context, docVersion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.chunks[:0]
	for _, c := range r.chunks {
		if c.DocVersion != docVersion {
			kept = append(kept, c)
		}
	}
	r.chunks = kept
	return nil
}

func (r *BookChunkRepository) SearchSimilar(ctx context.Context, embedding []float32, params contract.SearchParams) ([]*entity.RetrievedChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = 5
	}

	var retrieved []*entity.RetrievedChunk
	for _, c := range r.chunks {
		if !matchFilters(c, params.Filters) {
			continue
		}
		retrieved = append(retrieved, &entity.RetrievedChunk{
			Id:         c.Id,
			Content:    c.Content,
			Chapter:    c.Chapter,
			Section:    c.Section,
			Heading:    c.Heading,
			ChunkIndex: c.ChunkIndex,
			Score:      cosineSimilarity(embedding, c.Embedding),
		})
	}

	sort.Slice(retrieved, func(i, j int) bool {
		return retrieved[i].Score > retrieved[j].Score
	})
	if len(retrieved) > limit {
		retrieved = retrieved[:limit]
	}
	return retrieved, nil
}

func matchChunk(c *entity.BookChunk, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if c.Id != s.ID {
				return false
			}
		case specification.FilterBy:
			if !matchFilters(c, map[string]string{s.Field: s.Value.(string)}) {
				return false
			}
		}
	}
	return true
}

func matchFilters(c *entity.BookChunk, filters map[string]string) bool {
	for column, value := range filters {
		switch column {
		case "chapter":
			if c.Chapter != value {
				return false
			}
		case "section":
			if c.Section != value {
				return false
			}
		case "doc_version":
			if c.DocVersion != value {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ contract.BookChunkRepository = (*BookChunkRepository)(nil)
