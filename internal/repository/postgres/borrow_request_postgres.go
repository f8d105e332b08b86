package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// BorrowRequestPostgres is a PostgreSQL implementation of
// repository.BorrowRequestRepository.
//
// Borrow windows are closed intervals [start_date, start_date + duration days].
// The overlap predicate lives inside the INSERT/UPDATE statements themselves so
// no two writers can jointly approve intersecting windows for one document.
type BorrowRequestPostgres struct {
	db *sql.DB
}

// NewBorrowRequestPostgres creates a new BorrowRequestPostgres repository.
func NewBorrowRequestPostgres(db *sql.DB) *BorrowRequestPostgres {
	return &BorrowRequestPostgres{db: db}
}

var _ repository.BorrowRequestRepository = (*BorrowRequestPostgres)(nil)

const borrowRequestCols = `id, description, status, expired_at, rejected_reason, document_id, start_date, borrow_duration, created_by, updated_by, created_at, updated_at`

func scanBorrowRequest(row interface{ Scan(...any) error }) (*model.BorrowRequest, error) {
	var req model.BorrowRequest
	if err := row.Scan(
		&req.ID,
		&req.Description,
		&req.Status,
		&req.ExpiredAt,
		&req.RejectedReason,
		&req.DocumentID,
		&req.StartDate,
		&req.BorrowDuration,
		&req.CreatedBy,
		&req.UpdatedBy,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a PENDING request guarded by the overlap predicate over
// approved unexpired windows of the same document. A zero-row insert reports
// repository.ErrNotInserted: another request won an approval between the
// caller's read and this write.
func (r *BorrowRequestPostgres) Create(ctx context.Context, req *model.BorrowRequest) (*model.BorrowRequest, error) {
	const q = `
		INSERT INTO borrow_requests (id, description, status, expired_at, document_id, start_date, borrow_duration, created_by, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $9
		WHERE NOT EXISTS (
			SELECT 1 FROM borrow_requests o
			WHERE o.document_id = $5 AND o.status = 'APPROVED'
			  AND o.start_date + make_interval(days => o.borrow_duration) >= $9
			  AND o.start_date <= $6 + make_interval(days => $7)
			  AND o.start_date + make_interval(days => o.borrow_duration) >= $6
		)
		RETURNING ` + borrowRequestCols + `
	`
	out, err := scanBorrowRequest(r.db.QueryRowContext(ctx, q,
		req.ID,
		req.Description,
		req.Status,
		req.ExpiredAt,
		req.DocumentID,
		req.StartDate,
		req.BorrowDuration,
		req.CreatedBy,
		req.CreatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotInserted
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single request by its ID.
func (r *BorrowRequestPostgres) FindByID(ctx context.Context, id string) (*model.BorrowRequest, error) {
	const q = `
		SELECT ` + borrowRequestCols + `
		FROM borrow_requests
		WHERE id = $1
	`
	return scanBorrowRequest(r.db.QueryRowContext(ctx, q, id))
}

// FindInDepartment fetches a request only when its document's containment
// chain reaches the given department.
func (r *BorrowRequestPostgres) FindInDepartment(ctx context.Context, id, departmentID string) (*model.BorrowRequest, error) {
	const q = `
		SELECT b.id, b.description, b.status, b.expired_at, b.rejected_reason, b.document_id, b.start_date, b.borrow_duration, b.created_by, b.updated_by, b.created_at, b.updated_at
		FROM borrow_requests b
		JOIN documents d ON d.id = b.document_id
		JOIN folders f ON f.id = d.folder_id
		JOIN lockers l ON l.id = f.locker_id
		JOIN rooms r ON r.id = l.room_id
		WHERE b.id = $1 AND r.department_id = $2
	`
	return scanBorrowRequest(r.db.QueryRowContext(ctx, q, id, departmentID))
}

// List returns requests ordered by last update, newest first.
func (r *BorrowRequestPostgres) List(ctx context.Context, f repository.RequestFilter) (*repository.PageResult[model.BorrowRequest], error) {
	const qCount = `
		SELECT COUNT(*)
		FROM borrow_requests
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR created_by = $2)
	`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, string(f.Status), f.CreatedBy).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + borrowRequestCols + `
		FROM borrow_requests
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR created_by = $2)
		ORDER BY updated_at DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, qList, string(f.Status), f.CreatedBy, f.Page.Limit, f.Page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.BorrowRequest, 0)
	for rows.Next() {
		req, err := scanBorrowRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.BorrowRequest]{Items: items, Total: total}, nil
}

// FindApprovedUnexpired returns APPROVED requests for the document whose
// window end has not passed, most recent start first.
func (r *BorrowRequestPostgres) FindApprovedUnexpired(ctx context.Context, documentID, excludeID string, now time.Time) ([]model.BorrowRequest, error) {
	const q = `
		SELECT ` + borrowRequestCols + `
		FROM borrow_requests
		WHERE document_id = $1 AND id <> $2 AND status = 'APPROVED'
		  AND start_date + make_interval(days => borrow_duration) >= $3
		ORDER BY start_date DESC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID, excludeID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.BorrowRequest, 0)
	for rows.Next() {
		req, err := scanBorrowRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *req)
	}
	return items, rows.Err()
}

// Accept advances PENDING to APPROVED with the overlap guard in the same
// statement. Two racing accepts on conflicting windows cannot both win.
func (r *BorrowRequestPostgres) Accept(ctx context.Context, id, updatedBy string, now time.Time) (bool, error) {
	const q = `
		UPDATE borrow_requests br
		SET status = 'APPROVED', updated_by = $1, updated_at = now()
		WHERE br.id = $2 AND br.status = 'PENDING'
		  AND NOT EXISTS (
			SELECT 1 FROM borrow_requests o
			WHERE o.document_id = br.document_id AND o.id <> br.id AND o.status = 'APPROVED'
			  AND o.start_date + make_interval(days => o.borrow_duration) >= $3
			  AND o.start_date <= br.start_date + make_interval(days => br.borrow_duration)
			  AND o.start_date + make_interval(days => o.borrow_duration) >= br.start_date
		  )
	`
	res, err := r.db.ExecContext(ctx, q, updatedBy, id, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Verify advances APPROVED to DONE, flips the document to BORROWED and inserts
// the history row, all guarded, in one transaction.
func (r *BorrowRequestPostgres) Verify(ctx context.Context, id, updatedBy string, hist *model.BorrowHistory) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	const qReq = `
		UPDATE borrow_requests
		SET status = 'DONE', updated_by = $1, updated_at = now()
		WHERE id = $2 AND status = 'APPROVED'
	`
	res, err := tx.ExecContext(ctx, qReq, updatedBy, id)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n != 1 {
		return false, nil
	}

	const qDoc = `
		UPDATE documents
		SET status = 'BORROWED', updated_by = $1, updated_at = now()
		WHERE id = $2 AND status = 'AVAILABLE'
	`
	res, err = tx.ExecContext(ctx, qDoc, updatedBy, hist.DocumentID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n != 1 {
		return false, nil
	}

	const qHist = `
		INSERT INTO borrow_histories (id, document_id, borrow_request_id, user_id, start_date, due_date, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := tx.ExecContext(ctx, qHist,
		hist.ID,
		hist.DocumentID,
		hist.BorrowRequestID,
		hist.UserID,
		hist.StartDate,
		hist.DueDate,
		hist.Note,
	); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Reject advances PENDING to REJECTED and records the reason.
func (r *BorrowRequestPostgres) Reject(ctx context.Context, id, reason, updatedBy string) (bool, error) {
	const q = `
		UPDATE borrow_requests
		SET status = 'REJECTED', rejected_reason = $1, updated_by = $2, updated_at = now()
		WHERE id = $3 AND status = 'PENDING'
	`
	res, err := r.db.ExecContext(ctx, q, reason, updatedBy, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Cancel advances PENDING to CANCELED, guarded on the original requester.
func (r *BorrowRequestPostgres) Cancel(ctx context.Context, id, requester string) (bool, error) {
	const q = `
		UPDATE borrow_requests
		SET status = 'CANCELED', updated_by = $1, updated_at = now()
		WHERE id = $2 AND status = 'PENDING' AND created_by = $1
	`
	res, err := r.db.ExecContext(ctx, q, requester, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ExpirePending sweeps timed-out PENDING rows to EXPIRED.
func (r *BorrowRequestPostgres) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE borrow_requests
		SET status = 'EXPIRED', updated_at = now()
		WHERE status = 'PENDING' AND expired_at < $1
	`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ExpireStaleApproved sweeps APPROVED rows not verified within the grace
// window to EXPIRED.
func (r *BorrowRequestPostgres) ExpireStaleApproved(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
		UPDATE borrow_requests
		SET status = 'EXPIRED', updated_at = now()
		WHERE status = 'APPROVED' AND updated_at < $1
	`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
