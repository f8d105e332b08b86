package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
type FolderPostgres struct {
	db *sql.DB
}

// NewFolderPostgres creates a new FolderPostgres repository.
func NewFolderPostgres(db *sql.DB) *FolderPostgres {
	return &FolderPostgres{db: db}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

const folderCols = `id, name, capacity, locker_id, created_at`

// CreateFolder inserts a folder guarded by the locker's slot capacity.
func (r *FolderPostgres) CreateFolder(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	const q = `
		INSERT INTO folders (id, name, capacity, locker_id, created_at)
		SELECT $1, $2, $3, $4, $5
		WHERE (SELECT COUNT(*) FROM folders WHERE locker_id = $4)
		    < (SELECT capacity FROM lockers WHERE id = $4)
		RETURNING ` + folderCols + `
	`
	var out model.Folder
	if err := r.db.QueryRowContext(ctx, q, f.ID, f.Name, f.Capacity, f.LockerID, f.CreatedAt).
		Scan(&out.ID, &out.Name, &out.Capacity, &out.LockerID, &out.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotInserted
		}
		return nil, err
	}
	return &out, nil
}

// FindFolderByID fetches a folder by its ID.
func (r *FolderPostgres) FindFolderByID(ctx context.Context, id string) (*model.Folder, error) {
	const q = `SELECT ` + folderCols + ` FROM folders WHERE id = $1`
	var f model.Folder
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&f.ID, &f.Name, &f.Capacity, &f.LockerID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindFolderInDepartment fetches a folder only when its locker's room belongs
// to the given department.
func (r *FolderPostgres) FindFolderInDepartment(ctx context.Context, id, departmentID string) (*model.Folder, error) {
	const q = `
		SELECT f.id, f.name, f.capacity, f.locker_id, f.created_at
		FROM folders f
		JOIN lockers l ON l.id = f.locker_id
		JOIN rooms r ON r.id = l.room_id
		WHERE f.id = $1 AND r.department_id = $2
	`
	var f model.Folder
	if err := r.db.QueryRowContext(ctx, q, id, departmentID).
		Scan(&f.ID, &f.Name, &f.Capacity, &f.LockerID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFolders returns a locker's folders ordered by name.
func (r *FolderPostgres) ListFolders(ctx context.Context, lockerID string) ([]model.Folder, error) {
	const q = `SELECT ` + folderCols + ` FROM folders WHERE locker_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, lockerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Folder, 0)
	for rows.Next() {
		var f model.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.Capacity, &f.LockerID, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// UpdateFolderCapacity changes the page capacity, guarded so it can never drop
// below the current active page sum.
func (r *FolderPostgres) UpdateFolderCapacity(ctx context.Context, id string, capacity int) (bool, error) {
	const q = `
		UPDATE folders
		SET capacity = $1
		WHERE id = $2
		  AND $1 >= (
			SELECT COALESCE(SUM(num_of_pages), 0)
			FROM documents
			WHERE folder_id = $2 AND status IN ('AVAILABLE', 'BORROWED', 'PENDING')
		  )
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

// FoldersWithSpace lists folders in a department whose remaining page capacity
// fits the given page count, largest remainder first.
func (r *FolderPostgres) FoldersWithSpace(ctx context.Context, departmentID string, pages int) ([]repository.FolderSpace, error) {
	const q = `
		SELECT f.id, f.name, f.capacity, f.locker_id, f.created_at,
		       f.capacity - COALESCE(u.used, 0) AS remaining
		FROM folders f
		JOIN lockers l ON l.id = f.locker_id
		JOIN rooms r ON r.id = l.room_id
		LEFT JOIN (
			SELECT folder_id, SUM(num_of_pages) AS used
			FROM documents
			WHERE status IN ('AVAILABLE', 'BORROWED', 'PENDING')
			GROUP BY folder_id
		) u ON u.folder_id = f.id
		WHERE r.department_id = $1 AND f.capacity - COALESCE(u.used, 0) >= $2
		ORDER BY remaining DESC, f.name
	`
	rows, err := r.db.QueryContext(ctx, q, departmentID, pages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.FolderSpace, 0)
	for rows.Next() {
		var fs repository.FolderSpace
		if err := rows.Scan(&fs.Folder.ID, &fs.Folder.Name, &fs.Folder.Capacity, &fs.Folder.LockerID, &fs.Folder.CreatedAt, &fs.Remaining); err != nil {
			return nil, err
		}
		items = append(items, fs)
	}
	return items, rows.Err()
}
