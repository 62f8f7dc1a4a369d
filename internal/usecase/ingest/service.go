// Package ingest implements the offline indexing pipeline: partition
// documents into batches, embed each batch in one provider call, and upsert
// documents with their vectors into the collection.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// DefaultBatchSize is the number of documents embedded per provider call.
const DefaultBatchSize = 128

// Service runs the ingestion pipeline. A single sequential pass; ingestion
// is an offline job with exclusive access to the collection.
type Service struct {
	store     Writer
	embed     Embedder
	dim       int
	batchSize int
	logger    *zap.Logger
}

// Result summarizes one ingestion run.
type Result struct {
	Documents int
	Batches   int
	Tokens    int
	Duration  time.Duration
}

// New creates an ingest service. dim is the collection dimensionality; every
// embedded vector must match it.
func New(store Writer, embed Embedder, dim int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		embed:     embed,
		dim:       dim,
		batchSize: DefaultBatchSize,
		logger:    logger,
	}
}

// WithBatchSize overrides the embedding batch size.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// Run ingests all documents. The first error aborts the whole run: there is
// no partial-collection guarantee, the caller re-runs after fixing the cause
// (deterministic point IDs make re-runs idempotent).
func (s *Service) Run(ctx context.Context, docs []domain.Document) (Result, error) {
	start := time.Now()

	if err := s.store.EnsureCollection(ctx, s.dim); err != nil {
		return Result{}, fmt.Errorf("ensure collection: %w", err)
	}

	var res Result
	for offset := 0; offset < len(docs); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[offset:end]

		tokens, err := s.ingestBatch(ctx, batch)
		if err != nil {
			return res, fmt.Errorf("batch at offset %d: %w", offset, err)
		}

		res.Documents += len(batch)
		res.Batches++
		res.Tokens += tokens

		s.logger.Info("batch ingested",
			zap.Int("offset", offset),
			zap.Int("size", len(batch)),
			zap.Int("total", len(docs)),
		)
	}

	res.Duration = time.Since(start)
	return res, nil
}

func (s *Service) ingestBatch(ctx context.Context, batch []domain.Document) (int, error) {
	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = doc.Content
	}

	embRes, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(embRes.Embeddings) != len(batch) {
		return 0, fmt.Errorf("got %d embeddings for %d documents: %w",
			len(embRes.Embeddings), len(batch), domain.ErrEmbeddingProviderError)
	}
	for i, vec := range embRes.Embeddings {
		if s.dim > 0 && len(vec) != s.dim {
			return 0, fmt.Errorf("document %s: vector has %d dimensions, collection wants %d: %w",
				batch[i].Source, len(vec), s.dim, domain.ErrVectorDimMismatch)
		}
	}

	if err := s.store.UpsertBatch(ctx, batch, embRes.Embeddings); err != nil {
		return 0, fmt.Errorf("upsert batch: %w", err)
	}

	return embRes.TotalTokens, nil
}
