package postgres

import (
	"context"
	"database/sql"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// RoomPostgres is a PostgreSQL implementation of repository.RoomRepository.
type RoomPostgres struct {
	db *sql.DB
}

// NewRoomPostgres creates a new RoomPostgres repository.
func NewRoomPostgres(db *sql.DB) *RoomPostgres {
	return &RoomPostgres{db: db}
}

var _ repository.RoomRepository = (*RoomPostgres)(nil)

// CreateRoom inserts a room row.
func (r *RoomPostgres) CreateRoom(ctx context.Context, rm *model.Room) (*model.Room, error) {
	const q = `
		INSERT INTO rooms (id, name, capacity, department_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, capacity, department_id, created_at
	`
	var out model.Room
	if err := r.db.QueryRowContext(ctx, q, rm.ID, rm.Name, rm.Capacity, rm.DepartmentID, rm.CreatedAt).
		Scan(&out.ID, &out.Name, &out.Capacity, &out.DepartmentID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindRoomByID fetches a room by its ID.
func (r *RoomPostgres) FindRoomByID(ctx context.Context, id string) (*model.Room, error) {
	const q = `SELECT id, name, capacity, department_id, created_at FROM rooms WHERE id = $1`
	var rm model.Room
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.DepartmentID, &rm.CreatedAt); err != nil {
		return nil, err
	}
	return &rm, nil
}

// ListRooms returns a department's rooms ordered by name.
func (r *RoomPostgres) ListRooms(ctx context.Context, departmentID string) ([]model.Room, error) {
	const q = `SELECT id, name, capacity, department_id, created_at FROM rooms WHERE department_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.DepartmentID, &rm.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, rm)
	}
	return items, rows.Err()
}

// CountLockers counts the room's lockers for capacity reporting.
func (r *RoomPostgres) CountLockers(ctx context.Context, roomID string) (int, error) {
	const q = `SELECT COUNT(*) FROM lockers WHERE room_id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, roomID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UpdateRoomCapacity changes the capacity, guarded so it can never drop below
// the current locker count.
func (r *RoomPostgres) UpdateRoomCapacity(ctx context.Context, id string, capacity int) (bool, error) {
	const q = `
		UPDATE rooms
		SET capacity = $1
		WHERE id = $2
		  AND $1 >= (SELECT COUNT(*) FROM lockers WHERE room_id = $2)
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
