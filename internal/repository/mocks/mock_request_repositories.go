package mocks

import (
	"context"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockImportRequestRepository struct {
	mock.Mock
}

func (m *MockImportRequestRepository) Create(ctx context.Context, req *model.ImportRequest, doc *model.Document) (*model.ImportRequest, error) {
	args := m.Called(ctx, req, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportRequest), args.Error(1)
}

func (m *MockImportRequestRepository) FindByID(ctx context.Context, id string) (*model.ImportRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportRequest), args.Error(1)
}

func (m *MockImportRequestRepository) List(ctx context.Context, f repository.RequestFilter) (*repository.PageResult[model.ImportRequest], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ImportRequest]), args.Error(1)
}

func (m *MockImportRequestRepository) Accept(ctx context.Context, id, updatedBy string) (bool, error) {
	args := m.Called(ctx, id, updatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockImportRequestRepository) Verify(ctx context.Context, id, updatedBy string) (bool, error) {
	args := m.Called(ctx, id, updatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockImportRequestRepository) Reject(ctx context.Context, id, reason, updatedBy string) (bool, error) {
	args := m.Called(ctx, id, reason, updatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockImportRequestRepository) Cancel(ctx context.Context, id, requester string) (bool, error) {
	args := m.Called(ctx, id, requester)
	return args.Bool(0), args.Error(1)
}

func (m *MockImportRequestRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockImportRequestRepository) ExpireStaleApproved(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockBorrowRequestRepository struct {
	mock.Mock
}

func (m *MockBorrowRequestRepository) Create(ctx context.Context, req *model.BorrowRequest) (*model.BorrowRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BorrowRequest), args.Error(1)
}

func (m *MockBorrowRequestRepository) FindByID(ctx context.Context, id string) (*model.BorrowRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BorrowRequest), args.Error(1)
}

func (m *MockBorrowRequestRepository) FindInDepartment(ctx context.Context, id, departmentID string) (*model.BorrowRequest, error) {
	args := m.Called(ctx, id, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BorrowRequest), args.Error(1)
}

func (m *MockBorrowRequestRepository) List(ctx context.Context, f repository.RequestFilter) (*repository.PageResult[model.BorrowRequest], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.BorrowRequest]), args.Error(1)
}

func (m *MockBorrowRequestRepository) FindApprovedUnexpired(ctx context.Context, documentID, excludeID string, now time.Time) ([]model.BorrowRequest, error) {
	args := m.Called(ctx, documentID, excludeID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BorrowRequest), args.Error(1)
}

func (m *MockBorrowRequestRepository) Accept(ctx context.Context, id, updatedBy string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, updatedBy, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockBorrowRequestRepository) Verify(ctx context.Context, id, updatedBy string, hist *model.BorrowHistory) (bool, error) {
	args := m.Called(ctx, id, updatedBy, hist)
	return args.Bool(0), args.Error(1)
}

func (m *MockBorrowRequestRepository) Reject(ctx context.Context, id, reason, updatedBy string) (bool, error) {
	args := m.Called(ctx, id, reason, updatedBy)
	return args.Bool(0), args.Error(1)
}

func (m *MockBorrowRequestRepository) Cancel(ctx context.Context, id, requester string) (bool, error) {
	args := m.Called(ctx, id, requester)
	return args.Bool(0), args.Error(1)
}

func (m *MockBorrowRequestRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBorrowRequestRepository) ExpireStaleApproved(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockBorrowHistoryRepository struct {
	mock.Mock
}

func (m *MockBorrowHistoryRepository) FindOpenByDocument(ctx context.Context, documentID string) (*model.BorrowHistory, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BorrowHistory), args.Error(1)
}

func (m *MockBorrowHistoryRepository) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.BorrowHistory], error) {
	args := m.Called(ctx, userID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.BorrowHistory]), args.Error(1)
}

func (m *MockBorrowHistoryRepository) CountOverdue(ctx context.Context, userID string, now time.Time) (int, error) {
	args := m.Called(ctx, userID, now)
	return args.Int(0), args.Error(1)
}
