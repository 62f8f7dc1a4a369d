package ingest

import (
	"context"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// Writer persists documents with their vectors into the collection.
type Writer interface {
	EnsureCollection(ctx context.Context, dim int) error
	UpsertBatch(ctx context.Context, docs []domain.Document, vectors [][]float32) error
}

// Embedder vectorizes a batch of document contents in one API call.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
