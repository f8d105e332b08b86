package mocks

import (
	"context"

	"docstore/internal/model"
	"docstore/internal/repository"
	"docstore/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockImportRequestService struct {
	mock.Mock
}

func (m *MockImportRequestService) Create(ctx context.Context, actor model.Actor, in service.CreateImportInput) (*model.ImportRequest, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportRequest), args.Error(1)
}

func (m *MockImportRequestService) Get(ctx context.Context, actor model.Actor, id string) (*model.ImportRequest, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportRequest), args.Error(1)
}

func (m *MockImportRequestService) List(ctx context.Context, actor model.Actor, status model.RequestStatus, pq repository.PageQuery) (*repository.PageResult[model.ImportRequest], error) {
	args := m.Called(ctx, actor, status, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ImportRequest]), args.Error(1)
}

func (m *MockImportRequestService) Accept(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockImportRequestService) Verify(ctx context.Context, actor model.Actor, token string) error {
	args := m.Called(ctx, actor, token)
	return args.Error(0)
}

func (m *MockImportRequestService) Reject(ctx context.Context, actor model.Actor, id, reason string) error {
	args := m.Called(ctx, actor, id, reason)
	return args.Error(0)
}

func (m *MockImportRequestService) Cancel(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type MockBorrowRequestService struct {
	mock.Mock
}

func (m *MockBorrowRequestService) Create(ctx context.Context, actor model.Actor, in service.CreateBorrowInput) (*model.BorrowRequest, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BorrowRequest), args.Error(1)
}

func (m *MockBorrowRequestService) Get(ctx context.Context, actor model.Actor, id string) (*model.BorrowRequest, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BorrowRequest), args.Error(1)
}

func (m *MockBorrowRequestService) List(ctx context.Context, actor model.Actor, status model.RequestStatus, pq repository.PageQuery) (*repository.PageResult[model.BorrowRequest], error) {
	args := m.Called(ctx, actor, status, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.BorrowRequest]), args.Error(1)
}

func (m *MockBorrowRequestService) Accept(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockBorrowRequestService) Verify(ctx context.Context, actor model.Actor, token string) error {
	args := m.Called(ctx, actor, token)
	return args.Error(0)
}

func (m *MockBorrowRequestService) Reject(ctx context.Context, actor model.Actor, id, reason string) error {
	args := m.Called(ctx, actor, id, reason)
	return args.Error(0)
}

func (m *MockBorrowRequestService) Cancel(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
