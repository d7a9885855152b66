package storage

import (
	"context"
	"errors"
	"testing"
)

func newTestRepo(t *testing.T) *DocumentRepo {
	t.Helper()

	dbPath := t.TempDir() + "/test.db"
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return NewDocumentRepo(db)
}

func TestDocumentRepo_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc, err := repo.Create(ctx, "report.md", "/storage/report.md", 3)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if doc.ID == 0 {
		t.Error("Create() returned zero ID")
	}
	if doc.Status != StatusUploading {
		t.Errorf("Create() status = %s, want %s", doc.Status, StatusUploading)
	}
	if doc.OwnerID != 3 {
		t.Errorf("Create() owner = %d, want 3", doc.OwnerID)
	}

	got, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Filename != "report.md" || got.Filepath != "/storage/report.md" {
		t.Errorf("GetByID() = %+v", got)
	}
}

func TestDocumentRepo_GetByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestDocumentRepo_UpdateStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc, err := repo.Create(ctx, "a.md", "/storage/a.md", 1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.UpdateStatus(ctx, doc.ID, StatusFailed, "no content"); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != StatusFailed {
		t.Errorf("status = %s, want %s", got.Status, StatusFailed)
	}
	if got.FailureReason != "no content" {
		t.Errorf("failure reason = %q, want %q", got.FailureReason, "no content")
	}

	// Recovering to a non-failed status clears the reason.
	if err := repo.UpdateStatus(ctx, doc.ID, StatusCompleted, "stale"); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	got, err = repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != StatusCompleted || got.FailureReason != "" {
		t.Errorf("after recovery got status=%s reason=%q", got.Status, got.FailureReason)
	}
}

func TestDocumentRepo_UpdateStatus_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.UpdateStatus(context.Background(), 404, StatusProcessing, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus() error = %v, want ErrNotFound", err)
	}
}

func TestDocumentRepo_ListVisible(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const systemOwner = int64(1)

	mustCreate := func(filename string, owner int64) {
		t.Helper()
		if _, err := repo.Create(ctx, filename, "/storage/"+filename, owner); err != nil {
			t.Fatalf("Create(%s) error = %v", filename, err)
		}
	}

	mustCreate("system.md", systemOwner)
	mustCreate("alice.md", 2)
	mustCreate("bob.md", 3)

	t.Run("authenticated user sees own and system docs", func(t *testing.T) {
		alice := int64(2)
		docs, err := repo.ListVisible(ctx, &alice, systemOwner)
		if err != nil {
			t.Fatalf("ListVisible() error = %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("expected 2 documents, got %d", len(docs))
		}
		for _, doc := range docs {
			if doc.OwnerID != alice && doc.OwnerID != systemOwner {
				t.Errorf("leaked document owned by %d", doc.OwnerID)
			}
		}
	})

	t.Run("anonymous sees system docs only", func(t *testing.T) {
		docs, err := repo.ListVisible(ctx, nil, systemOwner)
		if err != nil {
			t.Fatalf("ListVisible() error = %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("expected 1 document, got %d", len(docs))
		}
		if docs[0].Filename != "system.md" {
			t.Errorf("expected system.md, got %s", docs[0].Filename)
		}
	})
}

func TestDocumentRepo_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	doc, err := repo.Create(ctx, "temp.md", "/storage/temp.md", 1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}
