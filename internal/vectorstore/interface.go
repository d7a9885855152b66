package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docuchat/internal/vectorstore VectorStore

import "context"

// Named vectors stored on every point. The sparse vector keeps the name
// "text" for compatibility with collections created by earlier ingestions.
const (
	DenseVectorName  = "dense"
	SparseVectorName = "text"
)

// Point represents a chunk point with named dense/sparse vectors and a
// metadata payload.
type Point struct {
	ID            string
	Dense         []float32
	SparseIndices []uint32
	SparseValues  []float32
	Payload       map[string]any
}

// SearchResult represents a single scored point from a search.
type SearchResult struct {
	PointID string
	Score   float32
	Payload map[string]any
}

// SearchFilter is the access predicate applied to a search. All set fields
// must match. OwnerIDs is a match-any set: a point passes if its owner_id
// equals any listed ID. An empty filter matches everything.
type SearchFilter struct {
	DocumentID *int64
	OwnerIDs   []int64
}

// VectorStore defines the interface for vector index operations.
type VectorStore interface {
	// EnsureCollection creates the collection with named dense and sparse
	// vectors if it does not exist, and validates the dense size if it does.
	EnsureCollection(ctx context.Context, collection string, denseSize int) error

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// SearchDense runs a cosine-similarity search over the dense vector.
	SearchDense(ctx context.Context, collection string, vector []float32, limit int, filter SearchFilter) ([]SearchResult, error)

	// SearchSparse runs a term-overlap search over the sparse vector.
	SearchSparse(ctx context.Context, collection string, indices []uint32, values []float32, limit int, filter SearchFilter) ([]SearchResult, error)

	// DeleteByDocument removes every point whose payload document_id matches.
	DeleteByDocument(ctx context.Context, collection string, documentID int64) error
}
