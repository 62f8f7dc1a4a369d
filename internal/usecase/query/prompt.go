package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// BuildContext renders the retrieved matches into the grounding context block.
// Output is byte-stable for a fixed match list; zero matches yield "".
func BuildContext(matches []domain.Match) string {
	if len(matches) == 0 {
		return ""
	}

	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = fmt.Sprintf("Title and Abstract:\n%s\nSource: %s", m.Content, m.Source)
	}
	return strings.Join(parts, "\n\n")
}

// promptTemplate is the fixed system instruction. %s receives the context
// block verbatim.
const promptTemplate = `You are a helpful AI assistant. Use only the most relevant part of the context to answer the query. If the user query is not related to the context below, say "I could not find this in the provided context."

Rules:
- Use the information in the context.
- The retrieved context may contain multiple entries.
- Select the one that best matches the query and ignore unrelated ones.
- Do not merge unrelated entries.
- If no entry answers the query, reply: "I could not find this in the provided context."
- Also include the Problem, Consequence, Contribution, Findings if you find it through context, must include full abstract along with your answer.
- If possible include more resources from the web about the title/abstract, if and only if the query are relevant to the context below.

Context:
%s

When answering:
- Use a friendly, conversational tone (add emoji like 👍, 🚀, ✅ where natural) & organize explanations with headers, bullet points.
`

// BuildPrompt produces the system instruction with the context embedded
// verbatim. Pure function, no I/O.
func BuildPrompt(contextBlock string) string {
	return fmt.Sprintf(promptTemplate, contextBlock)
}
