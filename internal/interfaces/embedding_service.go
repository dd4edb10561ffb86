package interfaces

import "context"

// EmbeddingService generates embedding vectors for free text. One
// implementation backs both collections: course titles for resolution and
// chunk content for semantic search.
type EmbeddingService interface {
	// GenerateEmbedding returns the embedding vector for a single text.
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GenerateEmbeddings embeds a batch of texts, preserving input order.
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the configured output dimensionality.
	Dimension() int

	// IsAvailable reports whether the service is configured with credentials.
	IsAvailable() bool
}
