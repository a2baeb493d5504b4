package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/abhisek/studybuddy/internal/topic"
)

// Passage is one retrieved knowledge chunk. Passages live for a single
// turn; nothing downstream holds on to them.
type Passage struct {
	ChunkID string
	Text    string
	Score   float64
}

// Retriever finds passages relevant to a query. A zero-value topic means
// no topic filter. Implementations return an empty slice when nothing
// relevant is indexed; errors are reserved for infrastructure failures.
type Retriever interface {
	Retrieve(ctx context.Context, query string, tp topic.Topic, k int) ([]Passage, error)
}

// Embedder turns text into a vector in the index's embedding space.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// normalizeQuery lowercases and collapses whitespace so equivalent
// phrasings embed identically.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// rank deduplicates passages by chunk id (keeping the best score), orders
// them by descending score, and truncates to k.
func rank(passages []Passage, k int) []Passage {
	best := make(map[string]Passage, len(passages))
	var order []string
	for _, p := range passages {
		seen, ok := best[p.ChunkID]
		if !ok {
			best[p.ChunkID] = p
			order = append(order, p.ChunkID)
			continue
		}
		if p.Score > seen.Score {
			best[p.ChunkID] = p
		}
	}

	out := make([]Passage, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}
