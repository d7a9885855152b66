package ingest

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_encoders.go -package=mocks docuchat/internal/ingest DenseEncoder,SparseEncoder

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"docuchat/internal/contextutil"
	"docuchat/internal/llm"
	"docuchat/internal/storage"
	"docuchat/internal/vectorstore"
)

// DenseEncoder embeds chunk texts into dense vectors.
type DenseEncoder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SparseEncoder embeds chunk texts into sparse term-weight vectors.
type SparseEncoder interface {
	EmbedSparse(ctx context.Context, texts []string) ([]llm.SparseVector, error)
}

// Pipeline turns an uploaded document into indexed chunks: extract text,
// split, embed both vector kinds and upsert into the collection.
type Pipeline struct {
	docs       storage.DocumentStore
	store      vectorstore.VectorStore
	dense      DenseEncoder
	sparse     SparseEncoder
	collection string
	splitter   *Splitter
}

// NewPipeline creates an ingestion pipeline over the given collection.
func NewPipeline(docs storage.DocumentStore, store vectorstore.VectorStore, dense DenseEncoder, sparse SparseEncoder, collection string) *Pipeline {
	return &Pipeline{
		docs:       docs,
		store:      store,
		dense:      dense,
		sparse:     sparse,
		collection: collection,
		splitter:   NewSplitter(DefaultChunkSize, DefaultChunkOverlap),
	}
}

// Process ingests one document and tracks its status through the lifecycle:
// PROCESSING while running, COMPLETED on success, FAILED with a reason on
// any error.
func (p *Pipeline) Process(ctx context.Context, doc *storage.Document) error {
	logger := contextutil.LoggerFromContext(ctx).With("document_id", doc.ID, "filename", doc.Filename)

	if err := p.docs.UpdateStatus(ctx, doc.ID, storage.StatusProcessing, ""); err != nil {
		return fmt.Errorf("failed to mark document as processing: %w", err)
	}

	if err := p.index(ctx, doc); err != nil {
		logger.Error("document ingestion failed", "error", err)
		if statusErr := p.docs.UpdateStatus(ctx, doc.ID, storage.StatusFailed, err.Error()); statusErr != nil {
			logger.Error("failed to mark document as failed", "error", statusErr)
		}
		return err
	}

	if err := p.docs.UpdateStatus(ctx, doc.ID, storage.StatusCompleted, ""); err != nil {
		return fmt.Errorf("failed to mark document as completed: %w", err)
	}
	logger.Info("document ingested")
	return nil
}

func (p *Pipeline) index(ctx context.Context, doc *storage.Document) error {
	raw, err := os.ReadFile(doc.Filepath)
	if err != nil {
		return fmt.Errorf("failed to read document file: %w", err)
	}

	content, err := ExtractText(doc.Filename, raw)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}

	chunks := p.splitter.Split(content)
	if len(chunks) == 0 {
		return errors.New("document has no extractable text")
	}

	denseVectors, err := p.dense.EmbedTexts(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	sparseVectors, err := p.sparse.EmbedSparse(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to sparse-embed chunks: %w", err)
	}
	if len(denseVectors) != len(chunks) || len(sparseVectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d chunks, %d dense, %d sparse",
			len(chunks), len(denseVectors), len(sparseVectors))
	}

	// Reprocessing must replace earlier chunks, not accumulate alongside them.
	if err := p.store.DeleteByDocument(ctx, p.collection, doc.ID); err != nil {
		return fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:            uuid.NewString(),
			Dense:         denseVectors[i],
			SparseIndices: sparseVectors[i].Indices,
			SparseValues:  sparseVectors[i].Values,
			Payload: map[string]any{
				"document_id": doc.ID,
				"owner_id":    doc.OwnerID,
				"filename":    doc.Filename,
				"text":        chunk,
			},
		}
	}

	if err := p.store.Upsert(ctx, p.collection, points); err != nil {
		return fmt.Errorf("failed to upsert chunks: %w", err)
	}
	return nil
}
