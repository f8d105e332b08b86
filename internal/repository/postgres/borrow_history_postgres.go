package postgres

import (
	"context"
	"database/sql"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// BorrowHistoryPostgres is a PostgreSQL implementation of
// repository.BorrowHistoryRepository.
type BorrowHistoryPostgres struct {
	db *sql.DB
}

// NewBorrowHistoryPostgres creates a new BorrowHistoryPostgres repository.
func NewBorrowHistoryPostgres(db *sql.DB) *BorrowHistoryPostgres {
	return &BorrowHistoryPostgres{db: db}
}

var _ repository.BorrowHistoryRepository = (*BorrowHistoryPostgres)(nil)

const borrowHistoryCols = `id, document_id, borrow_request_id, user_id, start_date, due_date, return_date, note`

func scanBorrowHistory(row interface{ Scan(...any) error }) (*model.BorrowHistory, error) {
	var h model.BorrowHistory
	if err := row.Scan(
		&h.ID,
		&h.DocumentID,
		&h.BorrowRequestID,
		&h.UserID,
		&h.StartDate,
		&h.DueDate,
		&h.ReturnDate,
		&h.Note,
	); err != nil {
		return nil, err
	}
	return &h, nil
}

// FindOpenByDocument returns the open checkout for a document. At most one row
// can be open at a time because the document flips to BORROWED on verify.
func (r *BorrowHistoryPostgres) FindOpenByDocument(ctx context.Context, documentID string) (*model.BorrowHistory, error) {
	const q = `
		SELECT ` + borrowHistoryCols + `
		FROM borrow_histories
		WHERE document_id = $1 AND return_date IS NULL
		ORDER BY start_date DESC
		LIMIT 1
	`
	return scanBorrowHistory(r.db.QueryRowContext(ctx, q, documentID))
}

// ListByUser returns a user's checkouts, newest first.
func (r *BorrowHistoryPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.BorrowHistory], error) {
	const qCount = `SELECT COUNT(*) FROM borrow_histories WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + borrowHistoryCols + `
		FROM borrow_histories
		WHERE user_id = $1
		ORDER BY start_date DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.BorrowHistory, 0)
	for rows.Next() {
		h, err := scanBorrowHistory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.BorrowHistory]{Items: items, Total: total}, nil
}

// CountOverdue counts the user's open checkouts past their due date.
func (r *BorrowHistoryPostgres) CountOverdue(ctx context.Context, userID string, now time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM borrow_histories
		WHERE user_id = $1 AND return_date IS NULL AND due_date < $2
	`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID, now).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
