package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// LockerPostgres is a PostgreSQL implementation of repository.LockerRepository.
type LockerPostgres struct {
	db *sql.DB
}

// NewLockerPostgres creates a new LockerPostgres repository.
func NewLockerPostgres(db *sql.DB) *LockerPostgres {
	return &LockerPostgres{db: db}
}

var _ repository.LockerRepository = (*LockerPostgres)(nil)

// CreateLocker inserts a locker guarded by the room's slot capacity inside the
// same statement. Two concurrent creations cannot jointly overfill the room.
func (r *LockerPostgres) CreateLocker(ctx context.Context, l *model.Locker) (*model.Locker, error) {
	const q = `
		INSERT INTO lockers (id, name, capacity, room_id, created_at)
		SELECT $1, $2, $3, $4, $5
		WHERE (SELECT COUNT(*) FROM lockers WHERE room_id = $4)
		    < (SELECT capacity FROM rooms WHERE id = $4)
		RETURNING id, name, capacity, room_id, created_at
	`
	var out model.Locker
	if err := r.db.QueryRowContext(ctx, q, l.ID, l.Name, l.Capacity, l.RoomID, l.CreatedAt).
		Scan(&out.ID, &out.Name, &out.Capacity, &out.RoomID, &out.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotInserted
		}
		return nil, err
	}
	return &out, nil
}

// FindLockerByID fetches a locker by its ID.
func (r *LockerPostgres) FindLockerByID(ctx context.Context, id string) (*model.Locker, error) {
	const q = `SELECT id, name, capacity, room_id, created_at FROM lockers WHERE id = $1`
	var l model.Locker
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&l.ID, &l.Name, &l.Capacity, &l.RoomID, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLockers returns a room's lockers ordered by name.
func (r *LockerPostgres) ListLockers(ctx context.Context, roomID string) ([]model.Locker, error) {
	const q = `SELECT id, name, capacity, room_id, created_at FROM lockers WHERE room_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Locker, 0)
	for rows.Next() {
		var l model.Locker
		if err := rows.Scan(&l.ID, &l.Name, &l.Capacity, &l.RoomID, &l.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// CountFolders counts the locker's folders for capacity reporting.
func (r *LockerPostgres) CountFolders(ctx context.Context, lockerID string) (int, error) {
	const q = `SELECT COUNT(*) FROM folders WHERE locker_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, lockerID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UpdateLockerCapacity changes the capacity, guarded so it can never drop
// below the current folder count.
func (r *LockerPostgres) UpdateLockerCapacity(ctx context.Context, id string, capacity int) (bool, error) {
	const q = `
		UPDATE lockers
		SET capacity = $1
		WHERE id = $2
		  AND $1 >= (SELECT COUNT(*) FROM folders WHERE locker_id = $2)
	`
	res, err := r.db.ExecContext(ctx, q, capacity, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
