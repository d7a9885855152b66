package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"docuchat/internal/contextutil"
)

// QdrantStore implements VectorStore using Qdrant.
type QdrantStore struct {
	client *qdrant.Client
}

// NewQdrantStore creates a new Qdrant vector store client.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantStore(urlStr string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	// Extract port from URL, default to 6333 for HTTP
	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{
		client: client,
	}, nil
}

// EnsureCollection ensures the collection exists with a named dense vector
// (cosine distance) and a named sparse vector. If the collection exists, the
// dense vector size is validated against denseSize.
func (s *QdrantStore) EnsureCollection(ctx context.Context, collection string, denseSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		logger.InfoContext(ctx, "creating collection", "collection", collection, "dense_size", denseSize)
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
				DenseVectorName: {
					Size:     uint64(denseSize),
					Distance: qdrant.Distance_Cosine,
				},
			}),
			SparseVectorsConfig: qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
				SparseVectorName: {},
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		logger.InfoContext(ctx, "collection created", "collection", collection, "dense_size", denseSize)
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}

	config := info.GetConfig()
	if config == nil || config.GetParams() == nil {
		return fmt.Errorf("collection config is invalid")
	}

	vectorsConfig := config.GetParams().GetVectorsConfig()
	if vectorsConfig == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}

	paramsMap := vectorsConfig.GetParamsMap()
	if paramsMap == nil {
		return fmt.Errorf("collection has no named vectors; expected %q", DenseVectorName)
	}

	denseParams, ok := paramsMap.GetMap()[DenseVectorName]
	if !ok || denseParams == nil {
		return fmt.Errorf("collection is missing the %q vector", DenseVectorName)
	}

	if int(denseParams.GetSize()) != denseSize {
		return fmt.Errorf("collection dense vector size mismatch: expected %d, got %d", denseSize, denseParams.GetSize())
	}

	logger.InfoContext(ctx, "collection validated", "collection", collection, "dense_size", denseSize)
	return nil
}

// Upsert inserts or updates points in the collection.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	wait := true
	qdrantPoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, point := range points {
		qdrantPoint := &qdrant.PointStruct{
			Id: qdrant.NewID(point.ID),
			Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
				DenseVectorName:  qdrant.NewVector(point.Dense...),
				SparseVectorName: qdrant.NewVectorSparse(point.SparseIndices, point.SparseValues),
			}),
		}

		if len(point.Payload) > 0 {
			qdrantPoint.Payload = qdrant.NewValueMap(point.Payload)
		}

		qdrantPoints = append(qdrantPoints, qdrantPoint)
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         qdrantPoints,
		Wait:           &wait,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(points), "error", err)
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.InfoContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// SearchDense runs a cosine-similarity search over the named dense vector.
func (s *QdrantStore) SearchDense(ctx context.Context, collection string, vector []float32, limit int, filter SearchFilter) ([]SearchResult, error) {
	return s.query(ctx, collection, qdrant.NewQuery(vector...), DenseVectorName, limit, filter)
}

// SearchSparse runs a term-overlap search over the named sparse vector.
func (s *QdrantStore) SearchSparse(ctx context.Context, collection string, indices []uint32, values []float32, limit int, filter SearchFilter) ([]SearchResult, error) {
	return s.query(ctx, collection, qdrant.NewQuerySparse(indices, values), SparseVectorName, limit, filter)
}

// query issues a single sub-search against one named vector.
func (s *QdrantStore) query(ctx context.Context, collection string, query *qdrant.Query, using string, limit int, filter SearchFilter) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	limitU := uint64(limit)
	queryReq := &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          query,
		Using:          &using,
		Limit:          &limitU,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if qdrantFilter := buildFilter(filter); qdrantFilter != nil {
		queryReq.Filter = qdrantFilter
	}

	scoredPoints, err := s.client.Query(ctx, queryReq)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", collection, "using", using, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	results := make([]SearchResult, 0, len(scoredPoints))
	for _, result := range scoredPoints {
		pointID := ""
		if result.Id != nil {
			pointID = result.Id.GetUuid()
		}

		payload := make(map[string]any)
		if result.Payload != nil {
			payload = convertPayloadToMap(result.Payload)
		}

		results = append(results, SearchResult{
			PointID: pointID,
			Score:   result.Score,
			Payload: payload,
		})
	}

	logger.DebugContext(ctx, "search completed", "collection", collection, "using", using, "limit", limit, "results", len(results))
	return results, nil
}

// DeleteByDocument removes every point whose payload document_id matches.
func (s *QdrantStore) DeleteByDocument(ctx context.Context, collection string, documentID int64) error {
	logger := contextutil.LoggerFromContext(ctx)

	wait := true
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatchInt("document_id", documentID),
					},
				},
			},
		},
		Wait: &wait,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete points", "collection", collection, "document_id", documentID, "error", err)
		return fmt.Errorf("failed to delete points for document %d: %w", documentID, err)
	}

	logger.InfoContext(ctx, "deleted points", "collection", collection, "document_id", documentID)
	return nil
}

// buildFilter translates a SearchFilter into qdrant must-conditions.
// Returns nil when the filter is empty.
func buildFilter(filter SearchFilter) *qdrant.Filter {
	mustConditions := make([]*qdrant.Condition, 0, 2)

	if filter.DocumentID != nil {
		mustConditions = append(mustConditions, qdrant.NewMatchInt("document_id", *filter.DocumentID))
	}

	switch len(filter.OwnerIDs) {
	case 0:
	case 1:
		mustConditions = append(mustConditions, qdrant.NewMatchInt("owner_id", filter.OwnerIDs[0]))
	default:
		mustConditions = append(mustConditions, qdrant.NewMatchInts("owner_id", filter.OwnerIDs...))
	}

	if len(mustConditions) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: mustConditions}
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}
