package storage

import "time"

// DocumentStatus tracks a document's ingestion lifecycle.
type DocumentStatus string

const (
	StatusUploading  DocumentStatus = "UPLOADING"
	StatusProcessing DocumentStatus = "PROCESSING"
	StatusCompleted  DocumentStatus = "COMPLETED"
	StatusFailed     DocumentStatus = "FAILED"
)

// Document represents an uploaded document record.
type Document struct {
	ID            int64
	Filename      string
	Filepath      string
	Status        DocumentStatus
	FailureReason string
	OwnerID       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
