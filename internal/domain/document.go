// Package domain holds the shared types and contracts of the retrieval
// pipeline: documents, matches, answers, and the embedding/generation
// provider interfaces.
package domain

// Document is one indexed arXiv abstract. Built once during ingestion and
// never mutated after it is persisted.
type Document struct {
	// Source identifies the originating record, e.g. "arxiv_data.csv:17".
	Source string
	// Title is the raw paper title.
	Title string
	// Terms holds the category labels, e.g. "cs.LG".
	Terms string
	// Content is the embedded text: "Title: ...\n\nAbstract: ...".
	Content string
}

// Match is one retrieved document with its similarity score.
// Score semantics follow the store (cosine similarity, higher is better);
// matches arrive best first.
type Match struct {
	Document
	Score float32
}

// SourceRef is the per-match source summary returned to callers.
type SourceRef struct {
	Source string  `json:"source"`
	Title  string  `json:"title"`
	Score  float32 `json:"score"`
}

// Answer is the result of one query pipeline run.
type Answer struct {
	Answer  string      `json:"answer"`
	Context string      `json:"context"`
	Sources []SourceRef `json:"sources"`
}
