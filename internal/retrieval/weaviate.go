package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/abhisek/studybuddy/internal/topic"
)

// Config holds Weaviate retrieval configuration.
type Config struct {
	// Host is the Weaviate host, e.g. "localhost:8080".
	Host string

	// Scheme is "http" or "https".
	Scheme string

	// Class is the Weaviate class holding passages. Default: "Passage".
	Class string

	// TopK is the number of passages returned per query. Default: 3.
	TopK int

	// Timeout bounds one retrieval round trip, embedding included.
	// Default: 5s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:    "localhost:8080",
		Scheme:  "http",
		Class:   "Passage",
		TopK:    3,
		Timeout: 5 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset or unparsable values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("STUDYBUDDY_WEAVIATE_URL"); u != "" {
		cfg.Scheme, cfg.Host = splitURL(u)
	}
	if c := os.Getenv("STUDYBUDDY_WEAVIATE_CLASS"); c != "" {
		cfg.Class = c
	}
	if k := os.Getenv("STUDYBUDDY_RETRIEVAL_TOPK"); k != "" {
		if n, err := strconv.Atoi(k); err == nil && n > 0 {
			cfg.TopK = n
		}
	}
	if t := os.Getenv("STUDYBUDDY_RETRIEVAL_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// splitURL separates a Weaviate URL into scheme and host. URLs without a
// scheme are assumed to be http.
func splitURL(u string) (scheme, host string) {
	switch {
	case strings.HasPrefix(u, "https://"):
		return "https", strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "http", strings.TrimPrefix(u, "http://")
	default:
		return "http", u
	}
}

// WeaviateRetriever implements Retriever against a Weaviate vector index.
// Queries are embedded with the configured Embedder and matched with
// NearVector search.
type WeaviateRetriever struct {
	client   *weaviate.Client
	embedder Embedder
	cfg      Config
}

// NewWeaviateRetriever connects a retriever to the index described by cfg.
func NewWeaviateRetriever(cfg Config, embedder Embedder) (*WeaviateRetriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if cfg.Class == "" {
		cfg.Class = "Passage"
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   cfg.Host,
		Scheme: cfg.Scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	return &WeaviateRetriever{
		client:   client,
		embedder: embedder,
		cfg:      cfg,
	}, nil
}

func (r *WeaviateRetriever) Retrieve(ctx context.Context, query string, tp topic.Topic, k int) ([]Passage, error) {
	if k <= 0 {
		k = r.cfg.TopK
	}

	normalized := normalizeQuery(query)
	if normalized == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	vector, err := r.embedder.Embed(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	nearVector := r.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "chunk_id"},
		{Name: "topic"},
		{Name: "_additional", Fields: []graphql.Field{
			{Name: "certainty"},
		}},
	}

	// Over-fetch so deduplication still fills k results.
	q := r.client.GraphQL().Get().
		WithClassName(r.cfg.Class).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(2 * k)

	if tp != "" {
		q = q.WithWhere(filters.Where().
			WithPath([]string{"topic"}).
			WithOperator(filters.Equal).
			WithValueString(string(tp)))
	}

	result, err := q.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate search: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("weaviate search: %s", result.Errors[0].Message)
	}

	passages, err := parsePassages(result, r.cfg.Class)
	if err != nil {
		return nil, err
	}

	return rank(passages, k), nil
}

// passageResult mirrors one object of the passage class in a GraphQL
// response.
type passageResult struct {
	Content    string `json:"content"`
	ChunkID    string `json:"chunk_id"`
	Topic      string `json:"topic"`
	Additional struct {
		Certainty float64 `json:"certainty"`
	} `json:"_additional"`
}

// parsePassages converts Weaviate's dynamic response into passages. The
// class name keys the Get payload, so it cannot be baked into a type.
func parsePassages(resp *models.GraphQLResponse, class string) ([]Passage, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil GraphQL response")
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal GraphQL response data: %w", err)
	}

	var envelope struct {
		Get map[string][]passageResult `json:"Get"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal GraphQL response data: %w", err)
	}

	results := envelope.Get[class]
	passages := make([]Passage, 0, len(results))
	for _, res := range results {
		if res.Content == "" {
			continue
		}
		passages = append(passages, Passage{
			ChunkID: res.ChunkID,
			Text:    res.Content,
			Score:   res.Additional.Certainty,
		})
	}
	return passages, nil
}
