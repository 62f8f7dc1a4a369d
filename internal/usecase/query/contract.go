package query

import (
	"context"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// Searcher runs k-NN retrieval against the vector collection.
type Searcher interface {
	SearchKNN(ctx context.Context, vector []float32, k int) ([]domain.Match, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Generator produces the final answer from the system instruction and the
// raw user query.
type Generator interface {
	Complete(ctx context.Context, system, user string) (domain.GenerationResult, error)
}
