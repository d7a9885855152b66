package rag_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"docuchat/internal/rag"
	"docuchat/internal/rag/mocks"
)

func candidates(texts ...string) []rag.Candidate {
	out := make([]rag.Candidate, len(texts))
	for i, text := range texts {
		out[i] = rag.Candidate{ID: text, Text: text}
	}
	return out
}

func ids(cands []rag.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.ID
	}
	return out
}

func TestReranker_OrdersByScoreDescending(t *testing.T) {
	ctrl := gomock.NewController(t)
	encoder := mocks.NewMockCrossEncoder(ctrl)

	pool := candidates("a", "b", "c", "d")
	encoder.EXPECT().
		Score(gomock.Any(), "query", []string{"a", "b", "c", "d"}).
		Return([]float32{0.1, 0.9, 0.5, 0.7}, nil)

	got := rag.NewReranker(encoder).Rerank(context.Background(), "query", pool, 3)

	want := []string{"b", "d", "c"}
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Errorf("position %d = %s, want %s", i, id, want[i])
		}
	}
	if got[0].Score != 0.9 {
		t.Errorf("top score = %v, want cross-encoder score 0.9", got[0].Score)
	}
}

func TestReranker_TiesKeepRetrievalOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	encoder := mocks.NewMockCrossEncoder(ctrl)

	pool := candidates("a", "b", "c")
	encoder.EXPECT().
		Score(gomock.Any(), "query", gomock.Any()).
		Return([]float32{0.5, 0.5, 0.5}, nil)

	got := rag.NewReranker(encoder).Rerank(context.Background(), "query", pool, 5)

	for i, id := range ids(got) {
		if id != pool[i].ID {
			t.Errorf("tied candidates reordered: position %d = %s, want %s", i, id, pool[i].ID)
		}
	}
}

func TestReranker_ReturnsAllWhenFewerThanTopK(t *testing.T) {
	ctrl := gomock.NewController(t)
	encoder := mocks.NewMockCrossEncoder(ctrl)

	pool := candidates("a", "b")
	encoder.EXPECT().
		Score(gomock.Any(), "query", gomock.Any()).
		Return([]float32{0.2, 0.8}, nil)

	got := rag.NewReranker(encoder).Rerank(context.Background(), "query", pool, 5)
	if len(got) != 2 {
		t.Errorf("got %d candidates, want 2", len(got))
	}
}

func TestReranker_EmptyPool(t *testing.T) {
	ctrl := gomock.NewController(t)
	encoder := mocks.NewMockCrossEncoder(ctrl)

	got := rag.NewReranker(encoder).Rerank(context.Background(), "query", nil, 5)
	if len(got) != 0 {
		t.Errorf("got %d candidates, want 0", len(got))
	}
}

func TestReranker_EncoderFailureKeepsRetrievalOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	encoder := mocks.NewMockCrossEncoder(ctrl)

	pool := candidates("a", "b", "c", "d")
	encoder.EXPECT().
		Score(gomock.Any(), "query", gomock.Any()).
		Return(nil, errors.New("reranker down"))

	got := rag.NewReranker(encoder).Rerank(context.Background(), "query", pool, 2)

	want := []string{"a", "b"}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Errorf("position %d = %s, want %s", i, id, want[i])
		}
	}
}

func TestReranker_ScoreCountMismatchKeepsRetrievalOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	encoder := mocks.NewMockCrossEncoder(ctrl)

	pool := candidates("a", "b", "c")
	encoder.EXPECT().
		Score(gomock.Any(), "query", gomock.Any()).
		Return([]float32{0.4}, nil)

	got := rag.NewReranker(encoder).Rerank(context.Background(), "query", pool, 3)
	for i, id := range ids(got) {
		if id != pool[i].ID {
			t.Errorf("position %d = %s, want %s", i, id, pool[i].ID)
		}
	}
}
