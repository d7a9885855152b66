package rag

import (
	"context"

	"golang.org/x/sync/errgroup"

	"docuchat/internal/contextutil"
	"docuchat/internal/vectorstore"
)

// oversampleFactor widens each vector sub-search so the cross-encoder has a
// deep candidate pool to rerank.
const oversampleFactor = 5

// HybridRetriever runs dense and sparse searches over the chunk index and
// merges the results. Every search carries the caller's access filter.
type HybridRetriever struct {
	dense         DenseEncoder
	sparse        SparseEncoder
	store         vectorstore.VectorStore
	collection    string
	systemOwnerID int64
}

// NewHybridRetriever creates a retriever over the given collection.
// systemOwnerID is the account whose documents every caller may read.
func NewHybridRetriever(dense DenseEncoder, sparse SparseEncoder, store vectorstore.VectorStore, collection string, systemOwnerID int64) *HybridRetriever {
	return &HybridRetriever{
		dense:         dense,
		sparse:        sparse,
		store:         store,
		collection:    collection,
		systemOwnerID: systemOwnerID,
	}
}

// Retrieve returns up to limit*oversampleFactor deduplicated candidates for
// the query, restricted to chunks the scope may access. Retrieval failures
// degrade to an empty result rather than an error.
func (r *HybridRetriever) Retrieve(ctx context.Context, query string, scope AccessScope, limit int) []Candidate {
	if limit <= 0 {
		limit = defaultTopK
	}
	logger := contextutil.LoggerFromContext(ctx)

	denseVectors, err := r.dense.EmbedTexts(ctx, []string{query})
	if err != nil || len(denseVectors) != 1 {
		logger.Warn("dense query embedding failed", "error", err)
		return nil
	}
	sparseVectors, err := r.sparse.EmbedSparse(ctx, []string{query})
	if err != nil || len(sparseVectors) != 1 {
		logger.Warn("sparse query embedding failed", "error", err)
		return nil
	}

	filter := r.accessFilter(scope)
	fetch := limit * oversampleFactor

	var denseHits, sparseHits []vectorstore.SearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		denseHits, err = r.store.SearchDense(gctx, r.collection, denseVectors[0], fetch, filter)
		return err
	})
	g.Go(func() error {
		var err error
		sparseHits, err = r.store.SearchSparse(gctx, r.collection, sparseVectors[0].Indices, sparseVectors[0].Values, fetch, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warn("vector search failed", "error", err)
		return nil
	}

	return mergeCandidates(denseHits, sparseHits)
}

// accessFilter builds the retrieval filter for the scope. Authenticated
// callers see their own chunks plus the system account's; anonymous callers
// see the system account's only. A requested document narrows the filter
// further but never widens it.
func (r *HybridRetriever) accessFilter(scope AccessScope) vectorstore.SearchFilter {
	owners := []int64{r.systemOwnerID}
	if scope.UserID != nil && *scope.UserID != r.systemOwnerID {
		owners = []int64{*scope.UserID, r.systemOwnerID}
	}
	return vectorstore.SearchFilter{
		DocumentID: scope.DocumentID,
		OwnerIDs:   owners,
	}
}

// mergeCandidates deduplicates hits by point ID. A point found by both
// searches keeps the later (sparse) score; identity, not score, is what
// matters before reranking.
func mergeCandidates(hitLists ...[]vectorstore.SearchResult) []Candidate {
	merged := make(map[string]Candidate)
	order := make([]string, 0)
	for _, hits := range hitLists {
		for _, hit := range hits {
			if _, seen := merged[hit.PointID]; !seen {
				order = append(order, hit.PointID)
			}
			merged[hit.PointID] = candidateFromResult(hit)
		}
	}

	candidates := make([]Candidate, 0, len(merged))
	for _, id := range order {
		candidates = append(candidates, merged[id])
	}
	return candidates
}

// candidateFromResult extracts the chunk payload fields from a search hit.
// Missing or mistyped fields are left at their zero values.
func candidateFromResult(hit vectorstore.SearchResult) Candidate {
	c := Candidate{ID: hit.PointID, Score: hit.Score}
	if v, ok := hit.Payload["document_id"].(int64); ok {
		c.DocumentID = v
	}
	if v, ok := hit.Payload["owner_id"].(int64); ok {
		c.OwnerID = v
	}
	if v, ok := hit.Payload["filename"].(string); ok {
		c.Filename = v
	}
	if v, ok := hit.Payload["text"].(string); ok {
		c.Text = v
	}
	return c
}
