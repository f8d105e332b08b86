package postgres

import (
	"context"
	"database/sql"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Every mutation is a guarded statement; the WHERE predicate on expected prior
// state is the only concurrency-control primitive.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentCols = `id, name, status, num_of_pages, storage_key, folder_id, category_id, created_by, updated_by, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Status,
		&d.NumOfPages,
		&d.StorageKey,
		&d.FolderID,
		&d.CategoryID,
		&d.CreatedBy,
		&d.UpdatedBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentCols + `
		FROM documents
		WHERE id = $1
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// FindInDepartment fetches a document only when its containment chain reaches
// the given department.
func (r *DocumentPostgres) FindInDepartment(ctx context.Context, id, departmentID string) (*model.Document, error) {
	const q = `
		SELECT d.id, d.name, d.status, d.num_of_pages, d.storage_key, d.folder_id, d.category_id, d.created_by, d.updated_by, d.created_at, d.updated_at
		FROM documents d
		JOIN folders f ON f.id = d.folder_id
		JOIN lockers l ON l.id = f.locker_id
		JOIN rooms r ON r.id = l.room_id
		WHERE d.id = $1 AND r.department_id = $2
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id, departmentID))
}

// ListByFolder returns documents in a folder using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) ListByFolder(ctx context.Context, folderID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE folder_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, folderID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentCols + `
		FROM documents
		WHERE folder_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, folderID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// SumActivePages totals the pages of documents that occupy physical space in
// the folder. REQUESTING and DELETED rows are excluded from the sum.
func (r *DocumentPostgres) SumActivePages(ctx context.Context, folderID string) (int, error) {
	const q = `
		SELECT COALESCE(SUM(num_of_pages), 0)
		FROM documents
		WHERE folder_id = $1 AND status IN ('AVAILABLE', 'BORROWED', 'PENDING')
	`
	var sum int
	if err := r.db.QueryRowContext(ctx, q, folderID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// UpdateStatus performs the conditional status transition. Zero affected rows
// means the document vanished or another writer changed its status first.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, id string, from, to model.DocumentStatus, updatedBy string) (bool, error) {
	const q = `
		UPDATE documents
		SET status = $1, updated_by = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, q, to, updatedBy, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ConfirmPlacement flips PENDING to AVAILABLE, scoped to the expected folder.
func (r *DocumentPostgres) ConfirmPlacement(ctx context.Context, id, folderID, updatedBy string) (bool, error) {
	const q = `
		UPDATE documents
		SET status = 'AVAILABLE', updated_by = $1, updated_at = now()
		WHERE id = $2 AND status = 'PENDING' AND folder_id = $3
	`
	res, err := r.db.ExecContext(ctx, q, updatedBy, id, folderID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MoveToFolder relocates an AVAILABLE document. The target folder's remaining
// page capacity is re-checked inside the UPDATE predicate so two concurrent
// moves cannot jointly overflow it. The moving row is excluded from the sum so
// a move into the document's current folder does not count it twice.
func (r *DocumentPostgres) MoveToFolder(ctx context.Context, id, targetFolderID, updatedBy string) (bool, error) {
	const q = `
		UPDATE documents
		SET folder_id = $1, updated_by = $2, updated_at = now()
		WHERE id = $3 AND status = 'AVAILABLE'
		  AND (
			SELECT COALESCE(SUM(o.num_of_pages), 0)
			FROM documents o
			WHERE o.folder_id = $1 AND o.id <> $3 AND o.status IN ('AVAILABLE', 'BORROWED', 'PENDING')
		  ) + num_of_pages <= (SELECT capacity FROM folders WHERE id = $1)
	`
	res, err := r.db.ExecContext(ctx, q, targetFolderID, updatedBy, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SetStorageKey records the object-storage key of the document's scan.
func (r *DocumentPostgres) SetStorageKey(ctx context.Context, id, key, updatedBy string) (bool, error) {
	const q = `
		UPDATE documents
		SET storage_key = $1, updated_by = $2, updated_at = now()
		WHERE id = $3 AND status <> 'DELETED'
	`
	res, err := r.db.ExecContext(ctx, q, key, updatedBy, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Return flips BORROWED back to AVAILABLE and closes the open history row in
// one transaction. Either both statements advance a row or the whole
// transaction rolls back.
func (r *DocumentPostgres) Return(ctx context.Context, documentID, historyID string, returnDate time.Time, note, updatedBy string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	const qDoc = `
		UPDATE documents
		SET status = 'AVAILABLE', updated_by = $1, updated_at = now()
		WHERE id = $2 AND status = 'BORROWED'
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

	const qHist = `
		UPDATE borrow_histories
		SET return_date = $1, note = $2
		WHERE id = $3 AND return_date IS NULL
	`
	res, err = tx.ExecContext(ctx, qHist, returnDate, note, historyID)
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
