package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"docuchat/internal/contextutil"
	"docuchat/internal/storage"
	"docuchat/internal/vectorstore"
)

// maxUploadBytes caps document uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// allowedExtensions lists the file types the ingestion pipeline understands.
var allowedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// Ingestor processes an uploaded document into the vector index.
type Ingestor interface {
	Process(ctx context.Context, doc *storage.Document) error
}

// DocumentsHandler handles document upload, listing and deletion.
type DocumentsHandler struct {
	docs          storage.DocumentStore
	vectors       vectorstore.VectorStore
	ingestor      Ingestor
	storagePath   string
	collection    string
	systemOwnerID int64
}

// NewDocumentsHandler creates a new DocumentsHandler. storagePath is the
// directory uploaded files are written to.
func NewDocumentsHandler(docs storage.DocumentStore, vectors vectorstore.VectorStore, ingestor Ingestor, storagePath, collection string, systemOwnerID int64) *DocumentsHandler {
	return &DocumentsHandler{
		docs:          docs,
		vectors:       vectors,
		ingestor:      ingestor,
		storagePath:   storagePath,
		collection:    collection,
		systemOwnerID: systemOwnerID,
	}
}

// DocumentResponse represents a document record in API responses.
type DocumentResponse struct {
	ID            int64     `json:"id"`
	Filename      string    `json:"filename"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	OwnerID       int64     `json:"owner_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func documentResponse(doc *storage.Document) DocumentResponse {
	return DocumentResponse{
		ID:            doc.ID,
		Filename:      doc.Filename,
		Status:        string(doc.Status),
		FailureReason: doc.FailureReason,
		OwnerID:       doc.OwnerID,
		CreatedAt:     doc.CreatedAt,
	}
}

// Upload accepts a multipart file upload, records it and kicks off
// ingestion in the background. Anonymous uploads are rejected.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	userID := contextutil.UserIDFromContext(ctx)
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "invalid upload", "error", err)
		writeError(w, http.StatusBadRequest, "Expected a multipart upload with a 'file' field")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	filename := filepath.Base(header.Filename)
	if !allowedExtensions[strings.ToLower(filepath.Ext(filename))] {
		writeError(w, http.StatusBadRequest, "Unsupported file type: only .md, .markdown and .txt are accepted")
		return
	}

	path := filepath.Join(h.storagePath, fmt.Sprintf("%s_%s", uuid.NewString(), filename))
	if err := saveUpload(path, file); err != nil {
		logger.ErrorContext(ctx, "failed to store upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	doc, err := h.docs.Create(ctx, filename, path, *userID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to create document record", "error", err)
		_ = os.Remove(path)
		writeError(w, http.StatusInternalServerError, "Failed to create document record")
		return
	}

	// Ingestion continues after this response is sent, so it gets a fresh
	// context that keeps the request logger.
	bgCtx := contextutil.WithLogger(context.Background(), logger)
	go func() {
		if err := h.ingestor.Process(bgCtx, doc); err != nil {
			logger.Error("background ingestion failed", "document_id", doc.ID, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, documentResponse(doc))
}

// List returns the documents visible to the caller: their own plus the
// system account's for authenticated users, system documents only for
// anonymous callers.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := h.docs.ListVisible(ctx, contextutil.UserIDFromContext(ctx), h.systemOwnerID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, documentResponse(&docs[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

// Delete removes a document: its vectors first, then the stored file, then
// the record. Vector deletion failing aborts the rest so no orphaned chunks
// stay searchable behind a missing record.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	userID := contextutil.UserIDFromContext(ctx)
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	doc, err := h.docs.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to load document", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load document")
		return
	}
	if doc.OwnerID != *userID {
		writeError(w, http.StatusForbidden, "You do not own this document")
		return
	}

	if err := h.vectors.DeleteByDocument(ctx, h.collection, doc.ID); err != nil {
		logger.ErrorContext(ctx, "failed to delete document vectors", "document_id", doc.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete document from the index")
		return
	}
	if err := os.Remove(doc.Filepath); err != nil && !os.IsNotExist(err) {
		logger.WarnContext(ctx, "failed to remove stored file", "path", doc.Filepath, "error", err)
	}
	if err := h.docs.Delete(ctx, doc.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.ErrorContext(ctx, "failed to delete document record", "document_id", doc.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete document record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// saveUpload writes the uploaded file to path.
func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return err
	}
	return dst.Close()
}
