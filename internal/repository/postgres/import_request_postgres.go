package postgres

import (
	"context"
	"database/sql"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// ImportRequestPostgres is a PostgreSQL implementation of
// repository.ImportRequestRepository.
type ImportRequestPostgres struct {
	db *sql.DB
}

// NewImportRequestPostgres creates a new ImportRequestPostgres repository.
func NewImportRequestPostgres(db *sql.DB) *ImportRequestPostgres {
	return &ImportRequestPostgres{db: db}
}

var _ repository.ImportRequestRepository = (*ImportRequestPostgres)(nil)

const importRequestCols = `id, description, status, expired_at, rejected_reason, document_id, created_by, updated_by, created_at, updated_at`

func scanImportRequest(row interface{ Scan(...any) error }) (*model.ImportRequest, error) {
	var req model.ImportRequest
	if err := row.Scan(
		&req.ID,
		&req.Description,
		&req.Status,
		&req.ExpiredAt,
		&req.RejectedReason,
		&req.DocumentID,
		&req.CreatedBy,
		&req.UpdatedBy,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts the owned REQUESTING document and the PENDING request in one
// transaction. The document insert carries the folder page-capacity predicate,
// so a concurrent import that would jointly overflow the folder loses the race
// at the statement level and surfaces repository.ErrNotInserted.
func (r *ImportRequestPostgres) Create(ctx context.Context, req *model.ImportRequest, doc *model.Document) (*model.ImportRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qDoc = `
		INSERT INTO documents (id, name, status, num_of_pages, storage_key, folder_id, category_id, created_by, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $9
		WHERE (
			SELECT COALESCE(SUM(num_of_pages), 0)
			FROM documents
			WHERE folder_id = $6 AND status IN ('AVAILABLE', 'BORROWED', 'PENDING')
		) + $4 <= (SELECT capacity FROM folders WHERE id = $6)
	`
	res, err := tx.ExecContext(ctx, qDoc,
		doc.ID,
		doc.Name,
		doc.Status,
		doc.NumOfPages,
		doc.StorageKey,
		doc.FolderID,
		doc.CategoryID,
		doc.CreatedBy,
		doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n != 1 {
		return nil, repository.ErrNotInserted
	}

	const qReq = `
		INSERT INTO import_requests (id, description, status, expired_at, document_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING ` + importRequestCols + `
	`
	out, err := scanImportRequest(tx.QueryRowContext(ctx, qReq,
		req.ID,
		req.Description,
		req.Status,
		req.ExpiredAt,
		doc.ID,
		req.CreatedBy,
		req.CreatedAt,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a request together with its owned document.
func (r *ImportRequestPostgres) FindByID(ctx context.Context, id string) (*model.ImportRequest, error) {
	const q = `
		SELECT r.id, r.description, r.status, r.expired_at, r.rejected_reason, r.document_id, r.created_by, r.updated_by, r.created_at, r.updated_at,
		       d.id, d.name, d.status, d.num_of_pages, d.storage_key, d.folder_id, d.category_id, d.created_by, d.updated_by, d.created_at, d.updated_at
		FROM import_requests r
		JOIN documents d ON d.id = r.document_id
		WHERE r.id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var req model.ImportRequest
	var d model.Document
	if err := row.Scan(
		&req.ID, &req.Description, &req.Status, &req.ExpiredAt, &req.RejectedReason,
		&req.DocumentID, &req.CreatedBy, &req.UpdatedBy, &req.CreatedAt, &req.UpdatedAt,
		&d.ID, &d.Name, &d.Status, &d.NumOfPages, &d.StorageKey, &d.FolderID,
		&d.CategoryID, &d.CreatedBy, &d.UpdatedBy, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	req.Document = &d
	return &req, nil
}

// List returns requests ordered by last update, newest first.
func (r *ImportRequestPostgres) List(ctx context.Context, f repository.RequestFilter) (*repository.PageResult[model.ImportRequest], error) {
	const qCount = `
		SELECT COUNT(*)
		FROM import_requests
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR created_by = $2)
	`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, string(f.Status), f.CreatedBy).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + importRequestCols + `
		FROM import_requests
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR created_by = $2)
		ORDER BY updated_at DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, qList, string(f.Status), f.CreatedBy, f.Page.Limit, f.Page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ImportRequest, 0)
	for rows.Next() {
		req, err := scanImportRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ImportRequest]{Items: items, Total: total}, nil
}

// Accept advances PENDING to APPROVED, guarded on the owned document still
// being REQUESTING. Exactly one of two racing accepts can win.
func (r *ImportRequestPostgres) Accept(ctx context.Context, id, updatedBy string) (bool, error) {
	const q = `
		UPDATE import_requests r
		SET status = 'APPROVED', updated_by = $1, updated_at = now()
		WHERE r.id = $2 AND r.status = 'PENDING'
		  AND EXISTS (SELECT 1 FROM documents d WHERE d.id = r.document_id AND d.status = 'REQUESTING')
	`
	res, err := r.db.ExecContext(ctx, q, updatedBy, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Verify advances APPROVED to DONE and the owned document from REQUESTING to
// PENDING, both guarded, in one transaction.
func (r *ImportRequestPostgres) Verify(ctx context.Context, id, updatedBy string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	const qReq = `
		UPDATE import_requests
		SET status = 'DONE', updated_by = $1, updated_at = now()
		WHERE id = $2 AND status = 'APPROVED'
		RETURNING document_id
	`
	var documentID string
	if err := tx.QueryRowContext(ctx, qReq, updatedBy, id).Scan(&documentID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	const qDoc = `
		UPDATE documents
		SET status = 'PENDING', updated_by = $1, updated_at = now()
		WHERE id = $2 AND status = 'REQUESTING'
	`
	res, err := tx.ExecContext(ctx, qDoc, updatedBy, documentID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n != 1 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Reject advances PENDING to REJECTED and records the reason.
func (r *ImportRequestPostgres) Reject(ctx context.Context, id, reason, updatedBy string) (bool, error) {
	const q = `
		UPDATE import_requests
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
func (r *ImportRequestPostgres) Cancel(ctx context.Context, id, requester string) (bool, error) {
	const q = `
		UPDATE import_requests
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
func (r *ImportRequestPostgres) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE import_requests
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
func (r *ImportRequestPostgres) ExpireStaleApproved(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
		UPDATE import_requests
		SET status = 'EXPIRED', updated_at = now()
		WHERE status = 'APPROVED' AND updated_at < $1
	`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
