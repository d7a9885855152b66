package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RerankClient is a client for a text-embeddings-inference style /rerank
// endpoint backed by a cross-encoder model. It scores (query, passage)
// pairs for relevance.
type RerankClient struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewRerankClient creates a new reranker client.
func NewRerankClient(baseURL, apiKey, model string) *RerankClient {
	return &RerankClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: encodeTimeout},
	}
}

// rerankRequest represents the request payload for /rerank.
type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
}

// rerankResult is one scored passage in the response. The server returns
// results sorted by score, so Index is needed to map back to input order.
type rerankResult struct {
	Index int     `json:"index"`
	Score float32 `json:"score"`
}

// Score computes a relevance score for each (query, passage) pair.
// Returns one score per passage, in the order the passages were given.
func (c *RerankClient) Score(ctx context.Context, query string, passages []string) ([]float32, error) {
	if len(passages) == 0 {
		return nil, fmt.Errorf("empty passage list")
	}

	url := fmt.Sprintf("%s/rerank", c.BaseURL)

	body, err := json.Marshal(rerankRequest{Query: query, Texts: passages})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var results []rerankResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(results) != len(passages) {
		return nil, fmt.Errorf("expected %d scores, got %d", len(passages), len(results))
	}

	scores := make([]float32, len(passages))
	for _, result := range results {
		if result.Index < 0 || result.Index >= len(passages) {
			return nil, fmt.Errorf("score index %d out of range", result.Index)
		}
		scores[result.Index] = result.Score
	}

	return scores, nil
}
