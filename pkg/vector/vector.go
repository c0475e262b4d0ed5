package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrUnreachable = errors.New("vector index unreachable")

const maxResponseSizeBytes = 2 << 20

type Config struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Index queries an Upstash Vector index via REST. The corpus (job-description
// passages with embeddings) is built and owned externally; this client only
// runs top-k similarity queries against it.
type Index struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Match is one scored passage from a similarity query.
type Match struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Result []Match `json:"result"`
	Error  string  `json:"error,omitempty"`
}

type IndexOption func(*Index)

func WithHTTPClient(client *http.Client) IndexOption {
	return func(i *Index) {
		if client != nil {
			i.httpClient = client
		}
	}
}

func NewIndex(cfg Config, opts ...IndexOption) (*Index, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash vector url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid vector rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash vector token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	idx := &Index{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(idx)
		}
	}
	return idx, nil
}

// Query returns the topK nearest matches for the given embedding, ranked by
// similarity score.
func (i *Index) Query(ctx context.Context, embedding []float32, topK int) ([]Match, error) {
	if i == nil {
		return nil, errors.New("nil vector index")
	}
	if len(embedding) == 0 {
		return nil, errors.New("empty query embedding")
	}
	if topK <= 0 {
		topK = 3
	}

	body, err := json.Marshal(queryRequest{
		Vector:          embedding,
		TopK:            topK,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal vector query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build vector request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+i.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: http status=%d body=%s", ErrUnreachable, resp.StatusCode, string(raw))
	}

	var parsed queryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode vector response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, parsed.Error)
	}
	return parsed.Result, nil
}
