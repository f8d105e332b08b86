package repository

import (
	"context"
	"time"

	"docstore/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations. Every status
// mutation is a guarded conditional update whose boolean result distinguishes
// "row advanced" from "row not found or state already changed".
type DocumentRepository interface {
	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindInDepartment returns the document only when its folder's room belongs
	// to the given department (joined containment lookup).
	FindInDepartment(ctx context.Context, id, departmentID string) (*model.Document, error)

	// ListByFolder returns a paginated list of documents in a folder.
	ListByFolder(ctx context.Context, folderID string, pq PageQuery) (*PageResult[model.Document], error)

	// SumActivePages returns the page total of AVAILABLE, BORROWED and PENDING
	// documents in the folder, i.e. the folder's current capacity usage.
	SumActivePages(ctx context.Context, folderID string) (int, error)

	// UpdateStatus advances a document from one expected status to another.
	// A false result means the row vanished or the status no longer matched.
	UpdateStatus(ctx context.Context, id string, from, to model.DocumentStatus, updatedBy string) (bool, error)

	// ConfirmPlacement flips PENDING to AVAILABLE, scoped to the folder the
	// caller expects the document to sit in.
	ConfirmPlacement(ctx context.Context, id, folderID, updatedBy string) (bool, error)

	// MoveToFolder relocates an AVAILABLE document into the target folder,
	// guarded by the target folder's remaining page capacity inside the same
	// statement so two concurrent moves cannot jointly overflow it.
	MoveToFolder(ctx context.Context, id, targetFolderID, updatedBy string) (bool, error)

	// SetStorageKey records the object-storage key of the document's scan.
	SetStorageKey(ctx context.Context, id, key, updatedBy string) (bool, error)

	// Return closes a checkout: flips the document from BORROWED back to
	// AVAILABLE and stamps the open borrow history row, in one transaction.
	Return(ctx context.Context, documentID, historyID string, returnDate time.Time, note, updatedBy string) (bool, error)
}
