package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbeddingsClient_EmbedTexts(t *testing.T) {
	tests := []struct {
		name         string
		texts        []string
		expectedSize int
		serverResp   func(w http.ResponseWriter, r *http.Request)
		wantErr      bool
		wantVectors  int
	}{
		{
			name:         "successful embedding",
			texts:        []string{"hello", "world"},
			expectedSize: 3,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				resp := EmbeddingsResponse{
					Data: []EmbeddingData{
						{Embedding: []float64{0.1, 0.2, 0.3}},
						{Embedding: []float64{0.4, 0.5, 0.6}},
					},
				}
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantVectors: 2,
		},
		{
			name:         "size mismatch rejected",
			texts:        []string{"hello"},
			expectedSize: 4,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				resp := EmbeddingsResponse{
					Data: []EmbeddingData{
						{Embedding: []float64{0.1, 0.2, 0.3}},
					},
				}
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:         "count mismatch rejected",
			texts:        []string{"a", "b"},
			expectedSize: 2,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				resp := EmbeddingsResponse{
					Data: []EmbeddingData{
						{Embedding: []float64{0.1, 0.2}},
					},
				}
				_ = json.NewEncoder(w).Encode(resp)
			},
			wantErr: true,
		},
		{
			name:         "server error",
			texts:        []string{"a"},
			expectedSize: 2,
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewEmbeddingsClient(server.URL, "key", "model", tt.expectedSize)
			vectors, err := client.EmbedTexts(context.Background(), tt.texts)

			if tt.wantErr {
				if err == nil {
					t.Fatal("EmbedTexts() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("EmbedTexts() unexpected error: %v", err)
			}
			if len(vectors) != tt.wantVectors {
				t.Errorf("EmbedTexts() returned %d vectors, want %d", len(vectors), tt.wantVectors)
			}
			for i, vec := range vectors {
				if len(vec) != tt.expectedSize {
					t.Errorf("vector %d has size %d, want %d", i, len(vec), tt.expectedSize)
				}
			}
		})
	}
}

func TestEmbeddingsClient_EmbedTexts_EmptyInput(t *testing.T) {
	client := NewEmbeddingsClient("http://localhost:1", "key", "model", 2)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Fatal("EmbedTexts() expected error for empty input")
	}
}
