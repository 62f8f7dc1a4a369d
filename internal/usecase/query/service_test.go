package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
	lastQ  string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.called = true
	m.lastQ = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 7}, nil
}

type mockSearcher struct {
	matches []domain.Match
	err     error
	called  bool
	lastK   int
}

func (m *mockSearcher) SearchKNN(_ context.Context, _ []float32, k int) ([]domain.Match, error) {
	m.called = true
	m.lastK = k
	return m.matches, m.err
}

type mockGenerator struct {
	text       string
	err        error
	called     bool
	lastSystem string
	lastUser   string
}

func (m *mockGenerator) Complete(_ context.Context, system, user string) (domain.GenerationResult, error) {
	m.called = true
	m.lastSystem = system
	m.lastUser = user
	if m.err != nil {
		return domain.GenerationResult{}, m.err
	}
	return domain.GenerationResult{Text: m.text, TotalTokens: 20}, nil
}

func testMatch(source, title, content string, score float32) domain.Match {
	return domain.Match{
		Document: domain.Document{Source: source, Title: title, Terms: "cs.LG", Content: content},
		Score:    score,
	}
}

func newTestService(embed *mockEmbedder, search *mockSearcher, gen *mockGenerator) *Service {
	return New(embed, search, gen, zap.NewNop())
}

// --- Tests ---

func TestAnswer_EmptyQuery_NoExternalCalls(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n  "} {
		embed := &mockEmbedder{}
		search := &mockSearcher{}
		gen := &mockGenerator{}
		svc := newTestService(embed, search, gen)

		_, err := svc.Answer(context.Background(), q, 3)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Fatalf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
		if embed.called || search.called || gen.called {
			t.Errorf("query %q: no dependency may be called for an empty query", q)
		}
	}
}

func TestAnswer_TrimsQueryBeforeEmbedding(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	search := &mockSearcher{}
	gen := &mockGenerator{text: "ok"}
	svc := newTestService(embed, search, gen)

	if _, err := svc.Answer(context.Background(), "  what is X?  ", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embed.lastQ != "what is X?" {
		t.Errorf("expected trimmed query, got %q", embed.lastQ)
	}
	if gen.lastUser != "what is X?" {
		t.Errorf("expected trimmed user message, got %q", gen.lastUser)
	}
}

func TestAnswer_NonPositiveKCoercedToDefault(t *testing.T) {
	for _, k := range []int{0, -5} {
		embed := &mockEmbedder{vec: []float32{0.1}}
		search := &mockSearcher{}
		gen := &mockGenerator{text: "ok"}
		svc := newTestService(embed, search, gen)

		if _, err := svc.Answer(context.Background(), "q", k); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if search.lastK != DefaultK {
			t.Errorf("k=%d: expected coercion to %d, got %d", k, DefaultK, search.lastK)
		}
	}
}

func TestAnswer_Success(t *testing.T) {
	matches := []domain.Match{
		testMatch("arxiv_data.csv:1", "Deep Learning", "Title: Deep Learning\n\nAbstract: This paper studies X.", 0.92),
		testMatch("arxiv_data.csv:2", "Graph Networks", "Title: Graph Networks\n\nAbstract: Message passing.", 0.81),
	}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	search := &mockSearcher{matches: matches}
	gen := &mockGenerator{text: "It studies X."}
	svc := newTestService(embed, search, gen)

	ans, err := svc.Answer(context.Background(), "What does the Deep Learning paper study?", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ans.Answer != "It studies X." {
		t.Errorf("unexpected answer %q", ans.Answer)
	}
	if len(ans.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(ans.Sources))
	}
	if ans.Sources[0].Title != "Deep Learning" || ans.Sources[0].Score != 0.92 {
		t.Errorf("unexpected first source %+v", ans.Sources[0])
	}
	if ans.Sources[1].Source != "arxiv_data.csv:2" {
		t.Errorf("unexpected second source %+v", ans.Sources[1])
	}
	if !strings.Contains(ans.Context, "Abstract: This paper studies X.") {
		t.Errorf("context missing abstract: %q", ans.Context)
	}
	if !strings.Contains(gen.lastSystem, ans.Context) {
		t.Error("system prompt must embed the context verbatim")
	}
}

func TestAnswer_ZeroMatches_StillGenerates(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	search := &mockSearcher{}
	gen := &mockGenerator{text: "I could not find this in the provided context."}
	svc := newTestService(embed, search, gen)

	ans, err := svc.Answer(context.Background(), "unrelated question", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Context != "" {
		t.Errorf("expected empty context, got %q", ans.Context)
	}
	if len(ans.Sources) != 0 {
		t.Errorf("expected no sources, got %v", ans.Sources)
	}
	if !gen.called {
		t.Error("generator must still be called with zero matches")
	}
}

func TestAnswer_EmbedErrorWrapped(t *testing.T) {
	embErr := errors.New("embed boom")
	embed := &mockEmbedder{err: embErr}
	search := &mockSearcher{}
	gen := &mockGenerator{}
	svc := newTestService(embed, search, gen)

	_, err := svc.Answer(context.Background(), "q", 3)
	if !errors.Is(err, embErr) {
		t.Fatalf("expected wrapped embed error, got %v", err)
	}
	if search.called || gen.called {
		t.Error("no downstream call after embedding failure")
	}
}

func TestAnswer_SearchErrorWrapped(t *testing.T) {
	searchErr := errors.New("search boom")
	embed := &mockEmbedder{vec: []float32{0.1}}
	search := &mockSearcher{err: searchErr}
	gen := &mockGenerator{}
	svc := newTestService(embed, search, gen)

	_, err := svc.Answer(context.Background(), "q", 3)
	if !errors.Is(err, searchErr) {
		t.Fatalf("expected wrapped search error, got %v", err)
	}
	if gen.called {
		t.Error("generator must not be called after search failure")
	}
}

func TestAnswer_GenerateErrorWrapped(t *testing.T) {
	genErr := errors.New("generate boom")
	embed := &mockEmbedder{vec: []float32{0.1}}
	search := &mockSearcher{matches: []domain.Match{testMatch("s", "t", "c", 0.5)}}
	gen := &mockGenerator{err: genErr}
	svc := newTestService(embed, search, gen)

	if _, err := svc.Answer(context.Background(), "q", 3); !errors.Is(err, genErr) {
		t.Fatalf("expected wrapped generation error, got %v", err)
	}
}
