package postgres

import (
	"context"
	"database/sql"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// DepartmentPostgres is a PostgreSQL implementation of
// repository.DepartmentRepository. Departments carry no slot capacity, so the
// inserts here are unguarded beyond unique constraints.
type DepartmentPostgres struct {
	db *sql.DB
}

// NewDepartmentPostgres creates a new DepartmentPostgres repository.
func NewDepartmentPostgres(db *sql.DB) *DepartmentPostgres {
	return &DepartmentPostgres{db: db}
}

var _ repository.DepartmentRepository = (*DepartmentPostgres)(nil)

// CreateDepartment inserts a department row.
func (r *DepartmentPostgres) CreateDepartment(ctx context.Context, d *model.Department) (*model.Department, error) {
	const q = `
		INSERT INTO departments (id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, name, created_at
	`
	var out model.Department
	if err := r.db.QueryRowContext(ctx, q, d.ID, d.Name, d.CreatedAt).
		Scan(&out.ID, &out.Name, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindDepartmentByID fetches a department by its ID.
func (r *DepartmentPostgres) FindDepartmentByID(ctx context.Context, id string) (*model.Department, error) {
	const q = `SELECT id, name, created_at FROM departments WHERE id = $1`
	var d model.Department
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDepartments returns all departments ordered by name.
func (r *DepartmentPostgres) ListDepartments(ctx context.Context) ([]model.Department, error) {
	const q = `SELECT id, name, created_at FROM departments ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Department, 0)
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// CreateCategory inserts a category row.
func (r *DepartmentPostgres) CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	const q = `
		INSERT INTO categories (id, name, department_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, department_id, created_at
	`
	var out model.Category
	if err := r.db.QueryRowContext(ctx, q, c.ID, c.Name, c.DepartmentID, c.CreatedAt).
		Scan(&out.ID, &out.Name, &out.DepartmentID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCategories returns a department's categories ordered by name.
func (r *DepartmentPostgres) ListCategories(ctx context.Context, departmentID string) ([]model.Category, error) {
	const q = `SELECT id, name, department_id, created_at FROM categories WHERE department_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.DepartmentID, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CategoryServesFolder checks that the category's department also owns the
// folder through the room/locker chain.
func (r *DepartmentPostgres) CategoryServesFolder(ctx context.Context, categoryID, folderID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM categories c
			JOIN rooms rm ON rm.department_id = c.department_id
			JOIN lockers l ON l.room_id = rm.id
			JOIN folders f ON f.locker_id = l.id
			WHERE c.id = $1 AND f.id = $2
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, categoryID, folderID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
