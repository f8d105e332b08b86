package mocks

import (
	"context"

	"docstore/internal/model"
	"docstore/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDepartmentRepository struct {
	mock.Mock
}

func (m *MockDepartmentRepository) CreateDepartment(ctx context.Context, d *model.Department) (*model.Department, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Department), args.Error(1)
}

func (m *MockDepartmentRepository) FindDepartmentByID(ctx context.Context, id string) (*model.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Department), args.Error(1)
}

func (m *MockDepartmentRepository) ListDepartments(ctx context.Context) ([]model.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Department), args.Error(1)
}

func (m *MockDepartmentRepository) CreateCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockDepartmentRepository) ListCategories(ctx context.Context, departmentID string) ([]model.Category, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockDepartmentRepository) CategoryServesFolder(ctx context.Context, categoryID, folderID string) (bool, error) {
	args := m.Called(ctx, categoryID, folderID)
	return args.Bool(0), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) CreateRoom(ctx context.Context, r *model.Room) (*model.Room, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomRepository) FindRoomByID(ctx context.Context, id string) (*model.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomRepository) ListRooms(ctx context.Context, departmentID string) ([]model.Room, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Room), args.Error(1)
}

func (m *MockRoomRepository) CountLockers(ctx context.Context, roomID string) (int, error) {
	args := m.Called(ctx, roomID)
	return args.Int(0), args.Error(1)
}

func (m *MockRoomRepository) UpdateRoomCapacity(ctx context.Context, id string, capacity int) (bool, error) {
	args := m.Called(ctx, id, capacity)
	return args.Bool(0), args.Error(1)
}

type MockLockerRepository struct {
	mock.Mock
}

func (m *MockLockerRepository) CreateLocker(ctx context.Context, l *model.Locker) (*model.Locker, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Locker), args.Error(1)
}

func (m *MockLockerRepository) FindLockerByID(ctx context.Context, id string) (*model.Locker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Locker), args.Error(1)
}

func (m *MockLockerRepository) ListLockers(ctx context.Context, roomID string) ([]model.Locker, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Locker), args.Error(1)
}

func (m *MockLockerRepository) CountFolders(ctx context.Context, lockerID string) (int, error) {
	args := m.Called(ctx, lockerID)
	return args.Int(0), args.Error(1)
}

func (m *MockLockerRepository) UpdateLockerCapacity(ctx context.Context, id string, capacity int) (bool, error) {
	args := m.Called(ctx, id, capacity)
	return args.Bool(0), args.Error(1)
}

type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) CreateFolder(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) FindFolderByID(ctx context.Context, id string) (*model.Folder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) FindFolderInDepartment(ctx context.Context, id, departmentID string) (*model.Folder, error) {
	args := m.Called(ctx, id, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) ListFolders(ctx context.Context, lockerID string) ([]model.Folder, error) {
	args := m.Called(ctx, lockerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) UpdateFolderCapacity(ctx context.Context, id string, capacity int) (bool, error) {
	args := m.Called(ctx, id, capacity)
	return args.Bool(0), args.Error(1)
}

func (m *MockFolderRepository) FoldersWithSpace(ctx context.Context, departmentID string, pages int) ([]repository.FolderSpace, error) {
	args := m.Called(ctx, departmentID, pages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.FolderSpace), args.Error(1)
}
