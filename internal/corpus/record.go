// Package corpus loads the arXiv CSV and derives the documents that get
// indexed: one document per row, content built from the title and the
// normalized abstract.
package corpus

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// abstractMarker is the literal label preceding the abstract text in the raw
// CSV field. Rows without it are rejected rather than indexed malformed.
const abstractMarker = "abstracts:"

// Record is one raw CSV row.
type Record struct {
	Title    string
	Abstract string
	Terms    string
}

// NormalizeWhitespace collapses all whitespace runs to single spaces and trims.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractAbstract returns the text after the first occurrence of the
// "abstracts:" marker, trimmed. Returns ErrAbstractMarkerMissing when the
// marker is absent.
func ExtractAbstract(raw string) (string, error) {
	_, after, found := strings.Cut(raw, abstractMarker)
	if !found {
		return "", domain.ErrAbstractMarkerMissing
	}
	return strings.TrimSpace(after), nil
}

// BuildDocument derives the indexed document from a record. Source is the
// originating record identifier, e.g. "arxiv_data.csv:17".
func BuildDocument(rec Record, source string) (domain.Document, error) {
	abstract, err := ExtractAbstract(NormalizeWhitespace(rec.Abstract))
	if err != nil {
		return domain.Document{}, fmt.Errorf("record %s: %w", source, err)
	}

	return domain.Document{
		Source:  source,
		Title:   rec.Title,
		Terms:   rec.Terms,
		Content: fmt.Sprintf("Title: %s\n\nAbstract: %s", rec.Title, abstract),
	}, nil
}
