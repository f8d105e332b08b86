package repository

import (
	"context"
	"time"

	"docstore/internal/model"
)

// RequestFilter narrows request listings. Zero values mean "no filter".
type RequestFilter struct {
	Status    model.RequestStatus
	CreatedBy string
	Page      PageQuery
}

// ImportRequestRepository persists import requests and the documents they own.
type ImportRequestRepository interface {
	// Create inserts the owned document and the request in one transaction.
	// The document insert is guarded by the target folder's page capacity in
	// the same statement; a capacity race therefore surfaces as ErrNotInserted
	// even when a prior read said the folder had room.
	Create(ctx context.Context, req *model.ImportRequest, doc *model.Document) (*model.ImportRequest, error)

	FindByID(ctx context.Context, id string) (*model.ImportRequest, error)

	// List returns requests ordered by updated_at descending with a total count.
	List(ctx context.Context, f RequestFilter) (*PageResult[model.ImportRequest], error)

	// Accept advances PENDING to APPROVED, additionally guarded on the owned
	// document still being REQUESTING.
	Accept(ctx context.Context, id, updatedBy string) (bool, error)

	// Verify advances APPROVED to DONE and the owned document from REQUESTING
	// to PENDING, both guarded, in one transaction.
	Verify(ctx context.Context, id, updatedBy string) (bool, error)

	// Reject advances PENDING to REJECTED and records the reason.
	Reject(ctx context.Context, id, reason, updatedBy string) (bool, error)

	// Cancel advances PENDING to CANCELED, additionally guarded on the row
	// having been created by the given requester.
	Cancel(ctx context.Context, id, requester string) (bool, error)

	// ExpirePending moves PENDING rows whose expired_at has passed to EXPIRED.
	ExpirePending(ctx context.Context, now time.Time) (int64, error)

	// ExpireStaleApproved moves APPROVED rows not updated since the cutoff to
	// EXPIRED (approved-but-never-verified grace window).
	ExpireStaleApproved(ctx context.Context, cutoff time.Time) (int64, error)
}

// BorrowRequestRepository persists borrow requests.
type BorrowRequestRepository interface {
	// Create inserts a PENDING request. The insert is guarded by a NOT EXISTS
	// predicate over approved unexpired windows of the same document, so a
	// creation racing an approval cannot slip in an overlapping window.
	Create(ctx context.Context, req *model.BorrowRequest) (*model.BorrowRequest, error)

	FindByID(ctx context.Context, id string) (*model.BorrowRequest, error)

	// FindInDepartment returns the request only when its document sits in the
	// given department.
	FindInDepartment(ctx context.Context, id, departmentID string) (*model.BorrowRequest, error)

	List(ctx context.Context, f RequestFilter) (*PageResult[model.BorrowRequest], error)

	// FindApprovedUnexpired returns all APPROVED requests for the document
	// whose window has not fully elapsed at the given instant, excluding the
	// request with the given id (pass "" to exclude nothing).
	FindApprovedUnexpired(ctx context.Context, documentID, excludeID string, now time.Time) ([]model.BorrowRequest, error)

	// Accept advances PENDING to APPROVED with the overlap NOT EXISTS guard in
	// the same statement. Exactly one of two racing accepts can win.
	Accept(ctx context.Context, id, updatedBy string, now time.Time) (bool, error)

	// Verify advances APPROVED to DONE, flips the document from AVAILABLE to
	// BORROWED and inserts the borrow history row, all in one transaction.
	Verify(ctx context.Context, id, updatedBy string, hist *model.BorrowHistory) (bool, error)

	Reject(ctx context.Context, id, reason, updatedBy string) (bool, error)

	Cancel(ctx context.Context, id, requester string) (bool, error)

	ExpirePending(ctx context.Context, now time.Time) (int64, error)

	ExpireStaleApproved(ctx context.Context, cutoff time.Time) (int64, error)
}

// BorrowHistoryRepository persists checkout records.
type BorrowHistoryRepository interface {
	// FindOpenByDocument returns the open (return_date IS NULL) history row for
	// the document, or sql.ErrNoRows when none is open.
	FindOpenByDocument(ctx context.Context, documentID string) (*model.BorrowHistory, error)

	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.BorrowHistory], error)

	// CountOverdue counts open rows past due at the given instant for a user.
	CountOverdue(ctx context.Context, userID string, now time.Time) (int, error)
}
