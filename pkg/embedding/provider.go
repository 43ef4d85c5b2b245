package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	// Embed converts text into a dense vector of the provider's fixed dimension
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the width of vectors produced by Embed
	Dimension() int
}
