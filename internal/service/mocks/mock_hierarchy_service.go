package mocks

import (
	"context"

	"docstore/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockHierarchyService struct {
	mock.Mock
}

func (m *MockHierarchyService) CreateDepartment(ctx context.Context, name string) (*model.Department, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Department), args.Error(1)
}

func (m *MockHierarchyService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Department), args.Error(1)
}

func (m *MockHierarchyService) CreateRoom(ctx context.Context, departmentID, name string, capacity int) (*model.Room, error) {
	args := m.Called(ctx, departmentID, name, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockHierarchyService) ListRooms(ctx context.Context, departmentID string) ([]model.Room, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Room), args.Error(1)
}

func (m *MockHierarchyService) UpdateRoomCapacity(ctx context.Context, id string, capacity int) error {
	args := m.Called(ctx, id, capacity)
	return args.Error(0)
}

func (m *MockHierarchyService) CreateLocker(ctx context.Context, roomID, name string, capacity int) (*model.Locker, error) {
	args := m.Called(ctx, roomID, name, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Locker), args.Error(1)
}

func (m *MockHierarchyService) ListLockers(ctx context.Context, roomID string) ([]model.Locker, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Locker), args.Error(1)
}

func (m *MockHierarchyService) UpdateLockerCapacity(ctx context.Context, id string, capacity int) error {
	args := m.Called(ctx, id, capacity)
	return args.Error(0)
}

func (m *MockHierarchyService) CreateFolder(ctx context.Context, lockerID, name string, capacity int) (*model.Folder, error) {
	args := m.Called(ctx, lockerID, name, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockHierarchyService) ListFolders(ctx context.Context, lockerID string) ([]model.Folder, error) {
	args := m.Called(ctx, lockerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockHierarchyService) UpdateFolderCapacity(ctx context.Context, id string, capacity int) error {
	args := m.Called(ctx, id, capacity)
	return args.Error(0)
}

func (m *MockHierarchyService) CreateCategory(ctx context.Context, departmentID, name string) (*model.Category, error) {
	args := m.Called(ctx, departmentID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockHierarchyService) ListCategories(ctx context.Context, departmentID string) ([]model.Category, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}
