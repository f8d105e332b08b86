package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docstore/internal/model"
	"docstore/internal/repository"
	"docstore/internal/storage"
)

// ReturnResult reports the outcome of a document return.
type ReturnResult struct {
	History *model.BorrowHistory `json:"history"`
	OnTime  bool                 `json:"on_time"`
}

// DocumentService covers document-level operations outside the request
// lifecycle: placement confirmation, checkout return, relocation, and the
// scanned-copy attachment stored in the object store.
type DocumentService interface {
	Get(ctx context.Context, actor model.Actor, id string) (*model.Document, error)
	ListByFolder(ctx context.Context, folderID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error)

	// Confirm flips a PENDING document to AVAILABLE once a manager has checked
	// its physical placement in the expected folder.
	Confirm(ctx context.Context, actor model.Actor, documentID, folderID string) error

	// CheckReturn previews whether returning the document now would be on time.
	CheckReturn(ctx context.Context, documentID string) (*ReturnResult, error)

	// Return closes the open checkout and makes the document available again.
	Return(ctx context.Context, actor model.Actor, documentID, note string) (*ReturnResult, error)

	// Move relocates an AVAILABLE document into another folder of the same
	// department, subject to the target folder's page capacity.
	Move(ctx context.Context, actor model.Actor, documentID, targetFolderID string) error

	// AttachScan uploads the scanned copy and records its storage key.
	AttachScan(ctx context.Context, actor model.Actor, documentID string, r io.Reader, filename, contentType string, size int64) (*model.Document, error)

	// ScanURL returns a presigned download URL for the document's scan.
	ScanURL(ctx context.Context, actor model.Actor, documentID string, expiry time.Duration) (string, error)

	// PossibleLocations lists folders in the actor's department with enough
	// remaining capacity for the given page count.
	PossibleLocations(ctx context.Context, actor model.Actor, pages int) ([]repository.FolderSpace, error)

	// BorrowHistory lists the actor's checkouts, newest first, together with
	// how many of them are currently overdue.
	BorrowHistory(ctx context.Context, actor model.Actor, pq repository.PageQuery) (*repository.PageResult[model.BorrowHistory], int, error)
}

type documentService struct {
	documents repository.DocumentRepository
	histories repository.BorrowHistoryRepository
	folders   repository.FolderRepository
	ledger    *CapacityLedger
	store     storage.Storage
	now       func() time.Time
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(
	documents repository.DocumentRepository,
	histories repository.BorrowHistoryRepository,
	folders repository.FolderRepository,
	ledger *CapacityLedger,
	store storage.Storage,
	now func() time.Time,
) DocumentService {
	if now == nil {
		now = time.Now
	}
	return &documentService{
		documents: documents,
		histories: histories,
		folders:   folders,
		ledger:    ledger,
		store:     store,
		now:       now,
	}
}

func (s *documentService) Get(ctx context.Context, actor model.Actor, id string) (*model.Document, error) {
	doc, err := s.documents.FindInDepartment(ctx, id, actor.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &StateConflictError{Entity: "Document"}
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListByFolder(ctx context.Context, folderID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	if pq.Limit <= 0 {
		pq.Limit = 10
	}
	if pq.Offset < 0 {
		pq.Offset = 0
	}
	return s.documents.ListByFolder(ctx, folderID, pq)
}

func (s *documentService) Confirm(ctx context.Context, actor model.Actor, documentID, folderID string) error {
	ok, err := s.documents.ConfirmPlacement(ctx, documentID, folderID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return &StateConflictError{Entity: "Document"}
	}
	return nil
}

func (s *documentService) CheckReturn(ctx context.Context, documentID string) (*ReturnResult, error) {
	hist, err := s.histories.FindOpenByDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &StateConflictError{Entity: "Borrow History"}
		}
		return nil, err
	}
	return &ReturnResult{History: hist, OnTime: !hist.Overdue(s.now().UTC())}, nil
}

func (s *documentService) Return(ctx context.Context, actor model.Actor, documentID, note string) (*ReturnResult, error) {
	hist, err := s.histories.FindOpenByDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &StateConflictError{Entity: "Borrow History"}
		}
		return nil, err
	}

	now := s.now().UTC()
	ok, err := s.documents.Return(ctx, documentID, hist.ID, now, note, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &StateConflictError{Entity: "Document"}
	}

	hist.ReturnDate = &now
	hist.Note = note
	return &ReturnResult{History: hist, OnTime: !now.After(hist.DueDate)}, nil
}

func (s *documentService) Move(ctx context.Context, actor model.Actor, documentID, targetFolderID string) error {
	doc, err := s.documents.FindInDepartment(ctx, documentID, actor.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &StateConflictError{Entity: "Document"}
		}
		return err
	}
	if _, err := s.folders.FindFolderInDepartment(ctx, targetFolderID, actor.DepartmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &ContainmentViolationError{Entity: "Folder"}
		}
		return err
	}
	// A move into the document's current folder is a no-op; running the
	// capacity check would count the document against its own folder.
	if doc.FolderID == targetFolderID {
		return nil
	}

	report, err := s.ledger.CheckFolder(ctx, targetFolderID, doc.NumOfPages)
	if err != nil {
		return err
	}
	if !report.OK {
		return &CapacityExceededError{
			Resource:  "folder",
			Current:   report.CurrentUsage,
			Capacity:  report.Capacity,
			Requested: doc.NumOfPages,
		}
	}

	ok, err := s.documents.MoveToFolder(ctx, documentID, targetFolderID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		// The guarded update failed: either the document left AVAILABLE or a
		// concurrent write took the target folder's remaining space.
		fresh, rerr := s.documents.FindByID(ctx, documentID)
		if rerr != nil || fresh.Status != model.DocumentAvailable {
			return &StateConflictError{Entity: "Document"}
		}
		report, rerr := s.ledger.CheckFolder(ctx, targetFolderID, doc.NumOfPages)
		if rerr != nil {
			return rerr
		}
		return &CapacityExceededError{
			Resource:  "folder",
			Current:   report.CurrentUsage,
			Capacity:  report.Capacity,
			Requested: doc.NumOfPages,
		}
	}
	return nil
}

func (s *documentService) AttachScan(ctx context.Context, actor model.Actor, documentID string, r io.Reader, filename, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, &ValidationError{Field: "file", Reason: "reader is nil"}
	}
	doc, err := s.documents.FindInDepartment(ctx, documentID, actor.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &StateConflictError{Entity: "Document"}
		}
		return nil, err
	}

	key := filepath.ToSlash(filepath.Join("scans", uuid.NewString()+filepath.Ext(filename)))
	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": filename},
	}); err != nil {
		return nil, fmt.Errorf("upload scan: %w", err)
	}

	ok, err := s.documents.SetStorageKey(ctx, documentID, key, actor.ID)
	if err != nil || !ok {
		// Roll back the orphan object when the DB write did not land.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("record scan failed: %v; rollback delete failed: %v", err, delErr)
		}
		if err != nil {
			return nil, fmt.Errorf("record scan: %w", err)
		}
		return nil, &StateConflictError{Entity: "Document"}
	}

	doc.StorageKey = key
	return doc, nil
}

func (s *documentService) ScanURL(ctx context.Context, actor model.Actor, documentID string, expiry time.Duration) (string, error) {
	doc, err := s.documents.FindInDepartment(ctx, documentID, actor.DepartmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &StateConflictError{Entity: "Document"}
		}
		return "", err
	}
	if doc.StorageKey == "" {
		return "", &StateConflictError{Entity: "Scan"}
	}
	return s.store.PresignGet(ctx, doc.StorageKey, expiry)
}

func (s *documentService) PossibleLocations(ctx context.Context, actor model.Actor, pages int) ([]repository.FolderSpace, error) {
	if pages <= 0 {
		return nil, &ValidationError{Field: "pages", Reason: "must be greater than zero"}
	}
	return s.folders.FoldersWithSpace(ctx, actor.DepartmentID, pages)
}

func (s *documentService) BorrowHistory(ctx context.Context, actor model.Actor, pq repository.PageQuery) (*repository.PageResult[model.BorrowHistory], int, error) {
	if pq.Limit <= 0 {
		pq.Limit = 10
	}
	if pq.Offset < 0 {
		pq.Offset = 0
	}
	res, err := s.histories.ListByUser(ctx, actor.ID, pq)
	if err != nil {
		return nil, 0, err
	}
	overdue, err := s.histories.CountOverdue(ctx, actor.ID, s.now().UTC())
	if err != nil {
		return nil, 0, err
	}
	return res, overdue, nil
}
