// Package qdrant implements the vector collection store over the Qdrant
// gRPC API.
package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// Repo is a Qdrant-backed document store scoped to one collection.
type Repo struct {
	client     *qdrant.Client
	collection string
	logger     *zap.Logger
}

// Config holds Qdrant connection settings.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Logger     *zap.Logger
}

// New connects to Qdrant and returns a repository bound to cfg.Collection.
func New(cfg Config) (*Repo, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Repo{client: client, collection: cfg.Collection, logger: logger}, nil
}

// Close shuts down the underlying gRPC connection.
func (r *Repo) Close() {
	_ = r.client.Close()
}

// EnsureCollection creates the collection with cosine distance if it does not
// exist yet. An existing collection is reused as-is: dimensionality and
// distance metric are fixed at creation time.
func (r *Repo) EnsureCollection(ctx context.Context, dim int) error {
	exists, err := r.client.CollectionExists(ctx, r.collection)
	if err != nil {
		return fmt.Errorf("check collection %s: %w", r.collection, err)
	}
	if exists {
		return nil
	}

	err = r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dim),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", r.collection, err)
	}

	r.logger.Info("Created collection",
		zap.String("collection", r.collection),
		zap.Int("dimensions", dim),
	)
	return nil
}

// UpsertBatch writes documents and their vectors in one call. Point IDs are
// derived deterministically from the source identifier, so re-ingesting the
// same record overwrites it instead of duplicating it.
func (r *Repo) UpsertBatch(ctx context.Context, docs []domain.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("got %d documents and %d vectors: %w",
			len(docs), len(vectors), domain.ErrVectorDimMismatch)
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(PointID(doc.Source)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: payloadFromDocument(doc),
		}
	}

	_, err := r.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), mapStoreError(err))
	}
	return nil
}

// SearchKNN returns the top-k nearest documents, best match first. Scores are
// cosine similarities as reported by Qdrant.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, k int) ([]domain.Match, error) {
	points, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.collection, mapStoreError(err))
	}

	matches := make([]domain.Match, len(points))
	for i, p := range points {
		matches[i] = domain.Match{
			Document: documentFromPayload(p.Payload),
			Score:    p.Score,
		}
	}
	return matches, nil
}

// HealthCheck verifies Qdrant availability.
func (r *Repo) HealthCheck(ctx context.Context) error {
	if _, err := r.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check: %w", err)
	}
	return nil
}

// mapStoreError classifies gRPC failures into domain sentinels.
func mapStoreError(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", domain.ErrCollectionNotFound, err)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %v", domain.ErrVectorDimMismatch, err)
	default:
		return err
	}
}
