package repository

import (
	"context"

	"docstore/internal/model"
)

// FolderSpace pairs a folder with its remaining page capacity, for the
// "possible locations" query.
type FolderSpace struct {
	Folder    model.Folder `json:"folder"`
	Remaining int          `json:"remaining"`
}

// DepartmentRepository persists departments and their categories.
type DepartmentRepository interface {
	CreateDepartment(ctx context.Context, d *model.Department) (*model.Department, error)
	FindDepartmentByID(ctx context.Context, id string) (*model.Department, error)
	ListDepartments(ctx context.Context) ([]model.Department, error)

	CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error)
	ListCategories(ctx context.Context, departmentID string) ([]model.Category, error)

	// CategoryServesFolder reports whether the category and the folder belong
	// to the same department (containment check across the hierarchy join).
	CategoryServesFolder(ctx context.Context, categoryID, folderID string) (bool, error)
}

// RoomRepository persists rooms.
type RoomRepository interface {
	// CreateRoom inserts a room; departments carry no slot capacity, so the
	// insert is unguarded beyond name uniqueness.
	CreateRoom(ctx context.Context, r *model.Room) (*model.Room, error)
	FindRoomByID(ctx context.Context, id string) (*model.Room, error)
	ListRooms(ctx context.Context, departmentID string) ([]model.Room, error)
	CountLockers(ctx context.Context, roomID string) (int, error)
	// UpdateRoomCapacity shrinks or grows the capacity, guarded so it can never
	// drop below the current locker count.
	UpdateRoomCapacity(ctx context.Context, id string, capacity int) (bool, error)
}

// LockerRepository persists lockers.
type LockerRepository interface {
	// CreateLocker inserts a locker guarded by the room's slot capacity inside
	// the same statement. ErrNotInserted means the room filled up first.
	CreateLocker(ctx context.Context, l *model.Locker) (*model.Locker, error)
	FindLockerByID(ctx context.Context, id string) (*model.Locker, error)
	ListLockers(ctx context.Context, roomID string) ([]model.Locker, error)
	CountFolders(ctx context.Context, lockerID string) (int, error)
	UpdateLockerCapacity(ctx context.Context, id string, capacity int) (bool, error)
}

// FolderRepository persists folders.
type FolderRepository interface {
	// CreateFolder inserts a folder guarded by the locker's slot capacity.
	CreateFolder(ctx context.Context, f *model.Folder) (*model.Folder, error)
	FindFolderByID(ctx context.Context, id string) (*model.Folder, error)
	// FindFolderInDepartment returns the folder only when its locker's room
	// belongs to the given department.
	FindFolderInDepartment(ctx context.Context, id, departmentID string) (*model.Folder, error)
	ListFolders(ctx context.Context, lockerID string) ([]model.Folder, error)
	// UpdateFolderCapacity is guarded so capacity can never drop below the
	// current active page sum.
	UpdateFolderCapacity(ctx context.Context, id string, capacity int) (bool, error)
	// FoldersWithSpace lists folders in a department whose remaining page
	// capacity fits the given page count.
	FoldersWithSpace(ctx context.Context, departmentID string, pages int) ([]FolderSpace, error)
}
