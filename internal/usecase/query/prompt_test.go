package query

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

func promptMatches() []domain.Match {
	return []domain.Match{
		{
			Document: domain.Document{
				Source:  "arxiv_data.csv:1",
				Title:   "Deep Learning",
				Content: "Title: Deep Learning\n\nAbstract: This paper studies X.",
			},
			Score: 0.9,
		},
		{
			Document: domain.Document{
				Source:  "arxiv_data.csv:2",
				Title:   "Graph Networks",
				Content: "Title: Graph Networks\n\nAbstract: Message passing.",
			},
			Score: 0.8,
		},
	}
}

func TestBuildContext(t *testing.T) {
	got := BuildContext(promptMatches())

	want := "Title and Abstract:\n" +
		"Title: Deep Learning\n\nAbstract: This paper studies X.\n" +
		"Source: arxiv_data.csv:1" +
		"\n\n" +
		"Title and Abstract:\n" +
		"Title: Graph Networks\n\nAbstract: Message passing.\n" +
		"Source: arxiv_data.csv:2"

	if got != want {
		t.Errorf("unexpected context:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestBuildContext_ByteIdenticalAcrossRuns(t *testing.T) {
	matches := promptMatches()
	first := BuildContext(matches)
	for i := 0; i < 5; i++ {
		if BuildContext(matches) != first {
			t.Fatal("context assembly must be deterministic for a fixed match list")
		}
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}

func TestBuildPrompt_EmbedsContextVerbatim(t *testing.T) {
	contextBlock := BuildContext(promptMatches())
	prompt := BuildPrompt(contextBlock)

	if !strings.Contains(prompt, contextBlock) {
		t.Error("prompt must contain the context verbatim")
	}
	if !strings.Contains(prompt, `"I could not find this in the provided context."`) {
		t.Error("prompt must contain the literal fallback sentence")
	}
	if !strings.Contains(prompt, "Do not merge unrelated entries.") {
		t.Error("prompt must contain the no-merging rule")
	}
}
