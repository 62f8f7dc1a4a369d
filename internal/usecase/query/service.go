// Package query implements the online retrieval-and-answer pipeline: embed
// the query, fetch the nearest documents, assemble the grounding context,
// and run one chat completion over it.
package query

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/arxivrag/internal/domain"
	"github.com/kailas-cloud/arxivrag/internal/metrics"
)

// DefaultK is the result count used when the caller passes k <= 0.
const DefaultK = 3

// Service runs the query pipeline. Stateless per call: the only shared state
// is the read-only collection behind the Searcher. No internal retries.
type Service struct {
	embed    Embedder
	search   Searcher
	generate Generator
	logger   *zap.Logger
}

// New creates a query service.
func New(embed Embedder, search Searcher, generate Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{embed: embed, search: search, generate: generate, logger: logger}
}

// Answer executes the pipeline for one query.
//
// The query is trimmed first; an empty result returns ErrEmptyQuery without
// touching any dependency. k <= 0 is coerced to DefaultK. Zero matches still
// run the generation step — the prompt's fallback rule produces the "not in
// context" reply. All dependency failures surface as wrapped errors; this is
// the pipeline's error boundary.
func (s *Service) Answer(ctx context.Context, query string, k int) (domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		metrics.QueriesTotal.WithLabelValues("empty_query").Inc()
		return domain.Answer{}, domain.ErrEmptyQuery
	}
	if k <= 0 {
		k = DefaultK
	}

	embRes, err := s.embed.Embed(ctx, query)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return domain.Answer{}, fmt.Errorf("vectorize query: %w", err)
	}

	matches, err := s.search.SearchKNN(ctx, embRes.Embedding, k)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return domain.Answer{}, fmt.Errorf("search knn: %w", err)
	}
	metrics.RetrievedMatches.Observe(float64(len(matches)))

	contextBlock := BuildContext(matches)

	genRes, err := s.generate.Complete(ctx, BuildPrompt(contextBlock), query)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]domain.SourceRef, len(matches))
	for i, m := range matches {
		sources[i] = domain.SourceRef{Source: m.Source, Title: m.Title, Score: m.Score}
	}

	s.logger.Debug("query answered",
		zap.Int("k", k),
		zap.Int("matches", len(matches)),
		zap.Int("embed_tokens", embRes.TotalTokens),
		zap.Int("generation_tokens", genRes.TotalTokens),
	)

	metrics.QueriesTotal.WithLabelValues("ok").Inc()
	return domain.Answer{
		Answer:  genRes.Text,
		Context: contextBlock,
		Sources: sources,
	}, nil
}
