package mocks

import (
	"context"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindInDepartment(ctx context.Context, id, departmentID string) (*model.Document, error) {
	args := m.Called(ctx, id, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByFolder(ctx context.Context, folderID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, folderID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) SumActivePages(ctx context.Context, folderID string) (int, error) {
	args := m.Called(ctx, folderID)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, id string, from, to model.DocumentStatus, updatedBy string) (bool, error) {
	args := m.Called(ctx, id, from, to, updatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) ConfirmPlacement(ctx context.Context, id, folderID, updatedBy string) (bool, error) {
	args := m.Called(ctx, id, folderID, updatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) MoveToFolder(ctx context.Context, id, targetFolderID, updatedBy string) (bool, error) {
	args := m.Called(ctx, id, targetFolderID, updatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) SetStorageKey(ctx context.Context, id, key, updatedBy string) (bool, error) {
	args := m.Called(ctx, id, key, updatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Return(ctx context.Context, documentID, historyID string, returnDate time.Time, note, updatedBy string) (bool, error) {
	args := m.Called(ctx, documentID, historyID, returnDate, note, updatedBy)
	return args.Bool(0), args.Error(1)
}
