package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docuchat/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document record operations.
type DocumentStore interface {
	// Create inserts a new document record with status UPLOADING.
	Create(ctx context.Context, filename, filepath string, ownerID int64) (*Document, error)
	// GetByID gets a document by ID. Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id int64) (*Document, error)
	// ListVisible lists documents owned by ownerID or by the system account,
	// newest first. A nil ownerID lists system documents only.
	ListVisible(ctx context.Context, ownerID *int64, systemOwnerID int64) ([]Document, error)
	// UpdateStatus sets a document's status. reason is stored only for FAILED.
	UpdateStatus(ctx context.Context, id int64, status DocumentStatus, reason string) error
	// Delete removes a document record.
	Delete(ctx context.Context, id int64) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Create inserts a new document record with status UPLOADING.
func (r *DocumentRepo) Create(ctx context.Context, filename, filepath string, ownerID int64) (*Document, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (filename, filepath, status, owner_id) VALUES (?, ?, ?, ?)",
		filename, filepath, StatusUploading, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted document ID: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID gets a document by ID. Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*Document, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, filename, filepath, status, failure_reason, owner_id, created_at, updated_at FROM documents WHERE id = ?",
		id,
	)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// ListVisible lists documents owned by ownerID or by the system account,
// newest first. A nil ownerID lists system documents only.
func (r *DocumentRepo) ListVisible(ctx context.Context, ownerID *int64, systemOwnerID int64) ([]Document, error) {
	var rows *sql.Rows
	var err error
	if ownerID != nil {
		rows, err = r.db.QueryContext(ctx,
			"SELECT id, filename, filepath, status, failure_reason, owner_id, created_at, updated_at FROM documents WHERE owner_id IN (?, ?) ORDER BY created_at DESC, id DESC",
			*ownerID, systemOwnerID,
		)
	} else {
		rows, err = r.db.QueryContext(ctx,
			"SELECT id, filename, filepath, status, failure_reason, owner_id, created_at, updated_at FROM documents WHERE owner_id = ? ORDER BY created_at DESC, id DESC",
			systemOwnerID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var documents []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return documents, nil
}

// UpdateStatus sets a document's status. reason is stored only for FAILED;
// any other status clears it.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id int64, status DocumentStatus, reason string) error {
	if status != StatusFailed {
		reason = ""
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = ?, failure_reason = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, nullableString(reason), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document record.
func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument reads one document row, handling nullable columns and
// SQLite's DATETIME string formats.
func scanDocument(row rowScanner) (*Document, error) {
	var doc Document
	var failureReason sql.NullString
	var createdAtStr sql.NullString
	var updatedAtStr sql.NullString

	err := row.Scan(&doc.ID, &doc.Filename, &doc.Filepath, &doc.Status, &failureReason, &doc.OwnerID, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}

	doc.FailureReason = failureReason.String
	if createdAtStr.Valid {
		doc.CreatedAt = parseSQLiteTime(createdAtStr.String)
	}
	if updatedAtStr.Valid {
		doc.UpdatedAt = parseSQLiteTime(updatedAtStr.String)
	}

	return &doc, nil
}

// parseSQLiteTime parses the timestamp formats SQLite emits for DATETIME
// columns. Returns the zero time for unparseable values.
func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02T15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// nullableString converts an empty string to a SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
