package qdrant

import (
	"hash/fnv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// Payload field names for stored documents.
const (
	fieldSource  = "source"
	fieldTitle   = "titles"
	fieldTerms   = "terms"
	fieldContent = "content"
)

// PointID derives a stable numeric point ID from the source identifier.
// Re-ingesting a record therefore overwrites its previous point.
func PointID(source string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(source))
	return h.Sum64()
}

func payloadFromDocument(doc domain.Document) map[string]*qdrant.Value {
	return qdrant.NewValueMap(map[string]any{
		fieldSource:  doc.Source,
		fieldTitle:   doc.Title,
		fieldTerms:   doc.Terms,
		fieldContent: doc.Content,
	})
}

func documentFromPayload(payload map[string]*qdrant.Value) domain.Document {
	return domain.Document{
		Source:  payload[fieldSource].GetStringValue(),
		Title:   payload[fieldTitle].GetStringValue(),
		Terms:   payload[fieldTerms].GetStringValue(),
		Content: payload[fieldContent].GetStringValue(),
	}
}
