package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"docuchat/internal/ingest"
	ingestmocks "docuchat/internal/ingest/mocks"
	"docuchat/internal/llm"
	"docuchat/internal/storage"
	storagemocks "docuchat/internal/storage/mocks"
	"docuchat/internal/vectorstore"
	vsmocks "docuchat/internal/vectorstore/mocks"
)

const testCollection = "chunks"

type pipelineMocks struct {
	docs   *storagemocks.MockDocumentStore
	store  *vsmocks.MockVectorStore
	dense  *ingestmocks.MockDenseEncoder
	sparse *ingestmocks.MockSparseEncoder
}

func newTestPipeline(t *testing.T) (*ingest.Pipeline, *pipelineMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &pipelineMocks{
		docs:   storagemocks.NewMockDocumentStore(ctrl),
		store:  vsmocks.NewMockVectorStore(ctrl),
		dense:  ingestmocks.NewMockDenseEncoder(ctrl),
		sparse: ingestmocks.NewMockSparseEncoder(ctrl),
	}
	pipeline := ingest.NewPipeline(m.docs, m.store, m.dense, m.sparse, testCollection)
	return pipeline, m
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestPipeline_ProcessIndexesDocument(t *testing.T) {
	pipeline, m := newTestPipeline(t)

	path := writeTestFile(t, "helios.md", "# Helios-V\n\nA heavy-lift launch vehicle.")
	doc := &storage.Document{ID: 3, Filename: "helios.md", Filepath: path, OwnerID: 7}

	m.docs.EXPECT().UpdateStatus(gomock.Any(), int64(3), storage.StatusProcessing, "")

	m.dense.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i := range vectors {
				vectors[i] = []float32{0.1, 0.2}
			}
			return vectors, nil
		})
	m.sparse.EXPECT().
		EmbedSparse(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([]llm.SparseVector, error) {
			vectors := make([]llm.SparseVector, len(texts))
			for i := range vectors {
				vectors[i] = llm.SparseVector{Indices: []uint32{2}, Values: []float32{0.9}}
			}
			return vectors, nil
		})

	// Old chunks go before new ones arrive.
	gomock.InOrder(
		m.store.EXPECT().DeleteByDocument(gomock.Any(), testCollection, int64(3)),
		m.store.EXPECT().
			Upsert(gomock.Any(), testCollection, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
				if len(points) == 0 {
					t.Fatal("Upsert() got no points")
				}
				for _, p := range points {
					if p.ID == "" {
						t.Error("point missing ID")
					}
					if p.Payload["document_id"] != int64(3) || p.Payload["owner_id"] != int64(7) {
						t.Errorf("point payload = %v", p.Payload)
					}
					if p.Payload["filename"] != "helios.md" {
						t.Errorf("point filename = %v", p.Payload["filename"])
					}
					if text, _ := p.Payload["text"].(string); text == "" {
						t.Error("point missing chunk text")
					}
					if len(p.Dense) == 0 || len(p.SparseIndices) == 0 {
						t.Error("point missing vectors")
					}
				}
				return nil
			}),
	)

	m.docs.EXPECT().UpdateStatus(gomock.Any(), int64(3), storage.StatusCompleted, "")

	if err := pipeline.Process(context.Background(), doc); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
}

func TestPipeline_ProcessMissingFileFails(t *testing.T) {
	pipeline, m := newTestPipeline(t)

	doc := &storage.Document{ID: 4, Filename: "gone.md", Filepath: "/nonexistent/gone.md", OwnerID: 7}

	m.docs.EXPECT().UpdateStatus(gomock.Any(), int64(4), storage.StatusProcessing, "")
	m.docs.EXPECT().
		UpdateStatus(gomock.Any(), int64(4), storage.StatusFailed, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ storage.DocumentStatus, reason string) error {
			if reason == "" {
				t.Error("failure reason not recorded")
			}
			return nil
		})

	if err := pipeline.Process(context.Background(), doc); err == nil {
		t.Error("Process() expected error for missing file")
	}
}

func TestPipeline_ProcessEmptyDocumentFails(t *testing.T) {
	pipeline, m := newTestPipeline(t)

	path := writeTestFile(t, "empty.md", "   \n")
	doc := &storage.Document{ID: 5, Filename: "empty.md", Filepath: path, OwnerID: 7}

	m.docs.EXPECT().UpdateStatus(gomock.Any(), int64(5), storage.StatusProcessing, "")
	m.docs.EXPECT().UpdateStatus(gomock.Any(), int64(5), storage.StatusFailed, gomock.Any())

	if err := pipeline.Process(context.Background(), doc); err == nil {
		t.Error("Process() expected error for empty document")
	}
}

func TestPipeline_ProcessEmbeddingFailure(t *testing.T) {
	pipeline, m := newTestPipeline(t)

	path := writeTestFile(t, "doc.txt", "some document content")
	doc := &storage.Document{ID: 6, Filename: "doc.txt", Filepath: path, OwnerID: 7}

	m.docs.EXPECT().UpdateStatus(gomock.Any(), int64(6), storage.StatusProcessing, "")
	m.dense.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("embedding service down"))
	m.docs.EXPECT().UpdateStatus(gomock.Any(), int64(6), storage.StatusFailed, gomock.Any())

	if err := pipeline.Process(context.Background(), doc); err == nil {
		t.Error("Process() expected error when embedding fails")
	}
}
