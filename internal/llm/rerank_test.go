package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRerankClient_Score(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rerank" {
			t.Errorf("expected /rerank, got %s", r.URL.Path)
		}

		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Query != "what is helios" {
			t.Errorf("unexpected query %q", req.Query)
		}
		if len(req.Texts) != 3 {
			t.Errorf("expected 3 texts, got %d", len(req.Texts))
		}

		// The server returns results sorted by score, not input order.
		resp := []rerankResult{
			{Index: 2, Score: 0.95},
			{Index: 0, Score: 0.40},
			{Index: 1, Score: 0.10},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRerankClient(server.URL, "key", "model")
	scores, err := client.Score(context.Background(), "what is helios", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Score() unexpected error: %v", err)
	}

	want := []float32{0.40, 0.10, 0.95}
	for i, s := range want {
		if scores[i] != s {
			t.Errorf("scores[%d] = %f, want %f (scores must follow input order)", i, scores[i], s)
		}
	}
}

func TestRerankClient_Score_IndexOutOfRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]rerankResult{{Index: 5, Score: 0.9}})
	}))
	defer server.Close()

	client := NewRerankClient(server.URL, "key", "model")
	if _, err := client.Score(context.Background(), "q", []string{"a"}); err == nil {
		t.Fatal("Score() expected error for out-of-range index")
	}
}

func TestRerankClient_Score_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]rerankResult{{Index: 0, Score: 0.9}})
	}))
	defer server.Close()

	client := NewRerankClient(server.URL, "key", "model")
	if _, err := client.Score(context.Background(), "q", []string{"a", "b"}); err == nil {
		t.Fatal("Score() expected error on count mismatch")
	}
}

func TestRerankClient_Score_EmptyPassages(t *testing.T) {
	client := NewRerankClient("http://localhost:1", "key", "model")
	if _, err := client.Score(context.Background(), "q", nil); err == nil {
		t.Fatal("Score() expected error for empty passage list")
	}
}
