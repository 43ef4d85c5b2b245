package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"book-chatbot-be/internal/entity"
	"book-chatbot-be/internal/repository/contract"
	"book-chatbot-be/internal/repository/unitofwork"
	"book-chatbot-be/pkg/embedding"

	"github.com/patrickmn/go-cache"
)

// Searcher embeds the user's question and runs the vector search against
// the book index. Query embeddings are cached so repeated questions skip
// the embedding round trip.
type Searcher struct {
	embeddingProvider embedding.EmbeddingProvider
	embeddingCache    *cache.Cache
	logger            *log.Logger
}

// NewSearcher creates a new searcher
func NewSearcher(embeddingProvider embedding.EmbeddingProvider, logger *log.Logger) *Searcher {
	return &Searcher{
		embeddingProvider: embeddingProvider,
		embeddingCache:    cache.New(15*time.Minute, 5*time.Minute),
		logger:            logger,
	}
}

// Config encapsulates search parameters
type Config struct {
	TopK     int
	EfSearch int
	Filters  map[string]string
}

// Execute embeds the query and returns the nearest chunks, best first.
func (s *Searcher) Execute(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	query string,
	config Config,
) ([]*entity.RetrievedChunk, error) {

	queryEmbedding, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	chunks, err := uow.BookChunkRepository().SearchSimilar(ctx, queryEmbedding, contract.SearchParams{
		Limit:    config.TopK,
		EfSearch: config.EfSearch,
		Filters:  config.Filters,
	})
	if err != nil {
		s.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	s.logger.Printf("[DEBUG] Retrieved %d chunks for query (top_k=%d)", len(chunks), config.TopK)
	return chunks, nil
}

func (s *Searcher) embedQuery(ctx context.Context, query string) ([]float32, error) {
	key := cacheKey(query)
	if cached, found := s.embeddingCache.Get(key); found {
		return cached.([]float32), nil
	}

	vector, err := s.embeddingProvider.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	s.embeddingCache.Set(key, vector, cache.DefaultExpiration)
	return vector, nil
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}
