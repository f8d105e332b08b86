package mocks

import (
	"context"
	"io"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"
	"docstore/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Get(ctx context.Context, actor model.Actor, id string) (*model.Document, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListByFolder(ctx context.Context, folderID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, folderID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentService) Confirm(ctx context.Context, actor model.Actor, documentID, folderID string) error {
	args := m.Called(ctx, actor, documentID, folderID)
	return args.Error(0)
}

func (m *MockDocumentService) CheckReturn(ctx context.Context, documentID string) (*service.ReturnResult, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReturnResult), args.Error(1)
}

func (m *MockDocumentService) Return(ctx context.Context, actor model.Actor, documentID, note string) (*service.ReturnResult, error) {
	args := m.Called(ctx, actor, documentID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReturnResult), args.Error(1)
}

func (m *MockDocumentService) Move(ctx context.Context, actor model.Actor, documentID, targetFolderID string) error {
	args := m.Called(ctx, actor, documentID, targetFolderID)
	return args.Error(0)
}

func (m *MockDocumentService) AttachScan(ctx context.Context, actor model.Actor, documentID string, r io.Reader, filename, contentType string, size int64) (*model.Document, error) {
	args := m.Called(ctx, actor, documentID, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ScanURL(ctx context.Context, actor model.Actor, documentID string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, actor, documentID, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) PossibleLocations(ctx context.Context, actor model.Actor, pages int) ([]repository.FolderSpace, error) {
	args := m.Called(ctx, actor, pages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.FolderSpace), args.Error(1)
}

func (m *MockDocumentService) BorrowHistory(ctx context.Context, actor model.Actor, pq repository.PageQuery) (*repository.PageResult[model.BorrowHistory], int, error) {
	args := m.Called(ctx, actor, pq)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*repository.PageResult[model.BorrowHistory]), args.Int(1), args.Error(2)
}
