package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// --- Mocks ---

type mockWriter struct {
	ensureCalled bool
	ensureDim    int
	ensureErr    error
	upsertErr    error
	batches      [][]domain.Document
	vectors      [][][]float32
}

func (m *mockWriter) EnsureCollection(_ context.Context, dim int) error {
	m.ensureCalled = true
	m.ensureDim = dim
	return m.ensureErr
}

func (m *mockWriter) UpsertBatch(_ context.Context, docs []domain.Document, vectors [][]float32) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.batches = append(m.batches, docs)
	m.vectors = append(m.vectors, vectors)
	return nil
}

type mockEmbedder struct {
	dim   int
	err   error
	calls int
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = make([]float32, m.dim)
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings, TotalTokens: len(texts) * 10}, nil
}

func testDocs(n int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = domain.Document{
			Source:  fmt.Sprintf("arxiv_data.csv:%d", i+1),
			Title:   fmt.Sprintf("Paper %d", i+1),
			Content: fmt.Sprintf("Title: Paper %d\n\nAbstract: A.", i+1),
		}
	}
	return docs
}

// --- Tests ---

func TestRun_BatchPartitioning(t *testing.T) {
	store := &mockWriter{}
	embed := &mockEmbedder{dim: 4}
	svc := New(store, embed, 4, zap.NewNop()).WithBatchSize(2)

	res, err := svc.Run(context.Background(), testDocs(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !store.ensureCalled || store.ensureDim != 4 {
		t.Error("expected EnsureCollection(4) before any upsert")
	}
	if embed.calls != 3 {
		t.Errorf("expected 3 embed calls for 5 docs at batch size 2, got %d", embed.calls)
	}
	if len(store.batches) != 3 {
		t.Fatalf("expected 3 upserted batches, got %d", len(store.batches))
	}
	if len(store.batches[0]) != 2 || len(store.batches[2]) != 1 {
		t.Errorf("unexpected batch sizes: %d, %d, %d",
			len(store.batches[0]), len(store.batches[1]), len(store.batches[2]))
	}
	if res.Documents != 5 || res.Batches != 3 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Tokens != 50 {
		t.Errorf("expected 50 tokens, got %d", res.Tokens)
	}
}

func TestRun_EmbedErrorAborts(t *testing.T) {
	embErr := errors.New("provider down")
	store := &mockWriter{}
	embed := &mockEmbedder{err: embErr}
	svc := New(store, embed, 4, zap.NewNop())

	_, err := svc.Run(context.Background(), testDocs(3))
	if !errors.Is(err, embErr) {
		t.Fatalf("expected wrapped embed error, got %v", err)
	}
	if len(store.batches) != 0 {
		t.Error("no batch may be upserted after an embedding failure")
	}
}

func TestRun_UpsertErrorAborts(t *testing.T) {
	upErr := errors.New("store down")
	store := &mockWriter{upsertErr: upErr}
	embed := &mockEmbedder{dim: 4}
	svc := New(store, embed, 4, zap.NewNop())

	if _, err := svc.Run(context.Background(), testDocs(3)); !errors.Is(err, upErr) {
		t.Fatalf("expected wrapped upsert error, got %v", err)
	}
}

func TestRun_DimensionMismatch(t *testing.T) {
	store := &mockWriter{}
	embed := &mockEmbedder{dim: 3}
	svc := New(store, embed, 4, zap.NewNop())

	_, err := svc.Run(context.Background(), testDocs(1))
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
	if len(store.batches) != 0 {
		t.Error("mismatching batch must not reach the store")
	}
}

func TestRun_EnsureCollectionError(t *testing.T) {
	ensErr := errors.New("qdrant unreachable")
	store := &mockWriter{ensureErr: ensErr}
	embed := &mockEmbedder{dim: 4}
	svc := New(store, embed, 4, zap.NewNop())

	if _, err := svc.Run(context.Background(), testDocs(1)); !errors.Is(err, ensErr) {
		t.Fatalf("expected wrapped ensure error, got %v", err)
	}
	if embed.calls != 0 {
		t.Error("no embedding call before the collection exists")
	}
}

func TestRun_NoDocuments(t *testing.T) {
	store := &mockWriter{}
	embed := &mockEmbedder{dim: 4}
	svc := New(store, embed, 4, zap.NewNop())

	res, err := svc.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Documents != 0 || res.Batches != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if !store.ensureCalled {
		t.Error("collection is still ensured for an empty run")
	}
}
