package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// SparseVector is a lexical embedding: only the non-zero term weights are
// stored, as parallel index/value slices.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// SparseEmbeddingsClient is a client for a text-embeddings-inference style
// /embed_sparse endpoint (e.g. serving a SPLADE model). It produces the
// sparse keyword vectors for lexical search.
type SparseEmbeddingsClient struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewSparseEmbeddingsClient creates a new sparse embeddings client.
// The model must match the one used at ingestion time.
func NewSparseEmbeddingsClient(baseURL, apiKey, model string) *SparseEmbeddingsClient {
	return &SparseEmbeddingsClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: encodeTimeout},
	}
}

// sparseEmbedRequest represents the request payload for /embed_sparse.
type sparseEmbedRequest struct {
	Inputs []string `json:"inputs"`
}

// sparseEntry is one non-zero term weight in the response.
type sparseEntry struct {
	Index uint32  `json:"index"`
	Value float32 `json:"value"`
}

// EmbedSparse generates sparse embeddings for the given texts.
// Returns one SparseVector per input text, in input order. Entries with
// non-positive weights are dropped so the stored vectors stay non-negative.
func (c *SparseEmbeddingsClient) EmbedSparse(ctx context.Context, texts []string) ([]SparseVector, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	url := fmt.Sprintf("%s/embed_sparse", c.BaseURL)

	body, err := json.Marshal(sparseEmbedRequest{Inputs: texts})
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

	var raw [][]sparseEntry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(raw) != len(texts) {
		return nil, fmt.Errorf("expected %d sparse embeddings, got %d", len(texts), len(raw))
	}

	result := make([]SparseVector, len(raw))
	for i, entries := range raw {
		vec := SparseVector{
			Indices: make([]uint32, 0, len(entries)),
			Values:  make([]float32, 0, len(entries)),
		}
		for _, entry := range entries {
			if entry.Value <= 0 {
				continue
			}
			vec.Indices = append(vec.Indices, entry.Index)
			vec.Values = append(vec.Values, entry.Value)
		}
		result[i] = vec
	}

	return result, nil
}
