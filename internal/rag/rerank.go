package rag

import (
	"context"
	"sort"

	"docuchat/internal/contextutil"
)

// defaultTopK is the number of chunks kept after reranking when the caller
// does not ask for a specific count.
const defaultTopK = 5

// Reranker rescores retrieval candidates with a cross-encoder and keeps the
// most relevant ones.
type Reranker struct {
	encoder CrossEncoder
}

// NewReranker creates a reranker backed by the given cross-encoder.
func NewReranker(encoder CrossEncoder) *Reranker {
	return &Reranker{encoder: encoder}
}

// Rerank returns the topK most relevant candidates for the query, highest
// score first. Ties keep retrieval order. If the cross-encoder fails the
// candidates are truncated in retrieval order instead of being dropped.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []Candidate, topK int) []Candidate {
	if topK <= 0 {
		topK = defaultTopK
	}
	if len(candidates) == 0 {
		return nil
	}

	passages := make([]string, len(candidates))
	for i, c := range candidates {
		passages[i] = c.Text
	}

	scores, err := r.encoder.Score(ctx, query, passages)
	if err != nil || len(scores) != len(candidates) {
		contextutil.LoggerFromContext(ctx).Warn("reranking failed, keeping retrieval order", "error", err)
		return truncate(candidates, topK)
	}

	reranked := make([]Candidate, len(candidates))
	copy(reranked, candidates)
	for i := range reranked {
		reranked[i].Score = scores[i]
	}
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})

	return truncate(reranked, topK)
}

func truncate(candidates []Candidate, n int) []Candidate {
	if len(candidates) > n {
		return candidates[:n]
	}
	return candidates
}
