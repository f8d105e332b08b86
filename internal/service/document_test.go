package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"
	repoMocks "docstore/internal/repository/mocks"
	"docstore/internal/storage"
	storeMocks "docstore/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testActor = model.Actor{ID: "user-1", Name: "Ani", Role: model.RoleEmployee, DepartmentID: "dept-1"}

var testManager = model.Actor{ID: "manager-1", Name: "Budi", Role: model.RoleManager, DepartmentID: "dept-1"}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mDocs *repoMocks.MockDocumentRepository)
		wantErr    bool
	}{
		{
			name: "document in the actor's department",
			setupMocks: func(mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").
					Return(&model.Document{ID: "doc-1", Status: model.DocumentAvailable}, nil)
			},
		},
		{
			name: "foreign department maps to a conflict",
			setupMocks: func(mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").
					Return(nil, sql.ErrNoRows)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mDocs := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mDocs, nil, nil, nil, nil, nil)

			tt.setupMocks(mDocs)

			doc, err := svc.Get(ctx, testActor, "doc-1")

			if tt.wantErr {
				var st *StateConflictError
				assert.ErrorAs(t, err, &st)
				assert.Nil(t, doc)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "doc-1", doc.ID)
			}
			mDocs.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Confirm(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mDocs *repoMocks.MockDocumentRepository)
		wantErr    bool
	}{
		{
			name: "placement confirmed",
			setupMocks: func(mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("ConfirmPlacement", ctx, "doc-1", "folder-1", "manager-1").Return(true, nil)
			},
		},
		{
			name: "document not pending in that folder",
			setupMocks: func(mDocs *repoMocks.MockDocumentRepository) {
				mDocs.On("ConfirmPlacement", ctx, "doc-1", "folder-1", "manager-1").Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mDocs := new(repoMocks.MockDocumentRepository)
			svc := NewDocumentService(mDocs, nil, nil, nil, nil, nil)

			tt.setupMocks(mDocs)

			err := svc.Confirm(ctx, testManager, "doc-1", "folder-1")

			if tt.wantErr {
				var st *StateConflictError
				assert.ErrorAs(t, err, &st)
			} else {
				assert.NoError(t, err)
			}
			mDocs.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Return(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	openHistory := func(due time.Time) *model.BorrowHistory {
		return &model.BorrowHistory{
			ID:         "hist-1",
			DocumentID: "doc-1",
			UserID:     "user-1",
			StartDate:  due.AddDate(0, 0, -5),
			DueDate:    due,
		}
	}

	t.Run("on time return", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mHist := new(repoMocks.MockBorrowHistoryRepository)
		svc := NewDocumentService(mDocs, mHist, nil, nil, nil, fixedNow(now))

		mHist.On("FindOpenByDocument", ctx, "doc-1").Return(openHistory(now.AddDate(0, 0, 2)), nil)
		mDocs.On("Return", ctx, "doc-1", "hist-1", now, "good condition", "manager-1").Return(true, nil)

		res, err := svc.Return(ctx, testManager, "doc-1", "good condition")

		assert.NoError(t, err)
		assert.True(t, res.OnTime)
		assert.NotNil(t, res.History.ReturnDate)
		assert.Equal(t, now, *res.History.ReturnDate)
		mDocs.AssertExpectations(t)
		mHist.AssertExpectations(t)
	})

	t.Run("late return flagged", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mHist := new(repoMocks.MockBorrowHistoryRepository)
		svc := NewDocumentService(mDocs, mHist, nil, nil, nil, fixedNow(now))

		mHist.On("FindOpenByDocument", ctx, "doc-1").Return(openHistory(now.AddDate(0, 0, -1)), nil)
		mDocs.On("Return", ctx, "doc-1", "hist-1", now, "", "manager-1").Return(true, nil)

		res, err := svc.Return(ctx, testManager, "doc-1", "")

		assert.NoError(t, err)
		assert.False(t, res.OnTime)
	})

	t.Run("no open checkout", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mHist := new(repoMocks.MockBorrowHistoryRepository)
		svc := NewDocumentService(mDocs, mHist, nil, nil, nil, fixedNow(now))

		mHist.On("FindOpenByDocument", ctx, "doc-1").Return(nil, sql.ErrNoRows)

		res, err := svc.Return(ctx, testManager, "doc-1", "")

		var st *StateConflictError
		assert.ErrorAs(t, err, &st)
		assert.Nil(t, res)
	})

	t.Run("concurrent return loses the guarded update", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mHist := new(repoMocks.MockBorrowHistoryRepository)
		svc := NewDocumentService(mDocs, mHist, nil, nil, nil, fixedNow(now))

		mHist.On("FindOpenByDocument", ctx, "doc-1").Return(openHistory(now.AddDate(0, 0, 2)), nil)
		mDocs.On("Return", ctx, "doc-1", "hist-1", now, "", "manager-1").Return(false, nil)

		res, err := svc.Return(ctx, testManager, "doc-1", "")

		var st *StateConflictError
		assert.ErrorAs(t, err, &st)
		assert.Nil(t, res)
	})
}

func TestDocumentService_CheckReturn(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	mHist := new(repoMocks.MockBorrowHistoryRepository)
	svc := NewDocumentService(nil, mHist, nil, nil, nil, fixedNow(now))

	mHist.On("FindOpenByDocument", ctx, "doc-1").Return(&model.BorrowHistory{
		ID:      "hist-1",
		DueDate: now.AddDate(0, 0, -1),
	}, nil)

	res, err := svc.CheckReturn(ctx, "doc-1")

	assert.NoError(t, err)
	assert.False(t, res.OnTime)
	assert.Nil(t, res.History.ReturnDate)
}

func TestDocumentService_Move(t *testing.T) {
	ctx := context.Background()

	doc := &model.Document{ID: "doc-1", Status: model.DocumentAvailable, NumOfPages: 3, FolderID: "folder-1"}
	folder := &model.Folder{ID: "folder-2", Capacity: 10}

	t.Run("target folder has space", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mFolders := new(repoMocks.MockFolderRepository)
		ledger := NewCapacityLedger(mFolders, mDocs, nil, nil)
		svc := NewDocumentService(mDocs, nil, mFolders, ledger, nil, nil)

		mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").Return(doc, nil)
		mFolders.On("FindFolderInDepartment", ctx, "folder-2", "dept-1").Return(folder, nil)
		mFolders.On("FindFolderByID", ctx, "folder-2").Return(folder, nil)
		mDocs.On("SumActivePages", ctx, "folder-2").Return(4, nil)
		mDocs.On("MoveToFolder", ctx, "doc-1", "folder-2", "manager-1").Return(true, nil)

		err := svc.Move(ctx, testManager, "doc-1", "folder-2")

		assert.NoError(t, err)
		mDocs.AssertExpectations(t)
		mFolders.AssertExpectations(t)
	})

	t.Run("move into the current folder is a no-op", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mFolders := new(repoMocks.MockFolderRepository)
		ledger := NewCapacityLedger(mFolders, mDocs, nil, nil)
		svc := NewDocumentService(mDocs, nil, mFolders, ledger, nil, nil)

		// 8 of 10 pages used by the document itself: a same-folder move must
		// not count it against its own folder and fail.
		near := &model.Document{ID: "doc-1", Status: model.DocumentAvailable, NumOfPages: 8, FolderID: "folder-1"}
		home := &model.Folder{ID: "folder-1", Capacity: 10}

		mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").Return(near, nil)
		mFolders.On("FindFolderInDepartment", ctx, "folder-1", "dept-1").Return(home, nil)

		err := svc.Move(ctx, testManager, "doc-1", "folder-1")

		assert.NoError(t, err)
		mDocs.AssertNotCalled(t, "SumActivePages", mock.Anything, mock.Anything)
		mDocs.AssertNotCalled(t, "MoveToFolder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("target folder would overflow", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mFolders := new(repoMocks.MockFolderRepository)
		ledger := NewCapacityLedger(mFolders, mDocs, nil, nil)
		svc := NewDocumentService(mDocs, nil, mFolders, ledger, nil, nil)

		mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").Return(doc, nil)
		mFolders.On("FindFolderInDepartment", ctx, "folder-2", "dept-1").Return(folder, nil)
		mFolders.On("FindFolderByID", ctx, "folder-2").Return(folder, nil)
		mDocs.On("SumActivePages", ctx, "folder-2").Return(8, nil)

		err := svc.Move(ctx, testManager, "doc-1", "folder-2")

		var ce *CapacityExceededError
		assert.ErrorAs(t, err, &ce)
		assert.Equal(t, 8, ce.Current)
		assert.Equal(t, 10, ce.Capacity)
		assert.Equal(t, 3, ce.Requested)
	})

	t.Run("target folder outside the department", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mFolders := new(repoMocks.MockFolderRepository)
		svc := NewDocumentService(mDocs, nil, mFolders, nil, nil, nil)

		mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").Return(doc, nil)
		mFolders.On("FindFolderInDepartment", ctx, "folder-9", "dept-1").Return(nil, sql.ErrNoRows)

		err := svc.Move(ctx, testManager, "doc-1", "folder-9")

		var cv *ContainmentViolationError
		assert.ErrorAs(t, err, &cv)
	})

	t.Run("guarded move loses a capacity race", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mFolders := new(repoMocks.MockFolderRepository)
		ledger := NewCapacityLedger(mFolders, mDocs, nil, nil)
		svc := NewDocumentService(mDocs, nil, mFolders, ledger, nil, nil)

		mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").Return(doc, nil)
		mFolders.On("FindFolderInDepartment", ctx, "folder-2", "dept-1").Return(folder, nil)
		mFolders.On("FindFolderByID", ctx, "folder-2").Return(folder, nil)
		mDocs.On("SumActivePages", ctx, "folder-2").Return(4, nil).Once()
		mDocs.On("MoveToFolder", ctx, "doc-1", "folder-2", "manager-1").Return(false, nil)
		mDocs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		mDocs.On("SumActivePages", ctx, "folder-2").Return(9, nil).Once()

		err := svc.Move(ctx, testManager, "doc-1", "folder-2")

		var ce *CapacityExceededError
		assert.ErrorAs(t, err, &ce)
		assert.Equal(t, 9, ce.Current)
	})
}

func TestDocumentService_AttachScan(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: "doc-1", Status: model.DocumentAvailable}

	t.Run("scan uploaded and recorded", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mDocs, nil, nil, nil, mStore, nil)

		r := strings.NewReader("scan bytes")
		mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").Return(doc, nil)
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "scans/") && strings.HasSuffix(key, ".pdf")
		}), r, storage.PutObjectOptions{
			Size:        10,
			ContentType: "application/pdf",
			Metadata:    map[string]string{"original-filename": "contract.pdf"},
		}).Return(storage.ObjectInfo{}, nil)
		mDocs.On("SetStorageKey", ctx, "doc-1", mock.Anything, "manager-1").Return(true, nil)

		out, err := svc.AttachScan(ctx, testManager, "doc-1", r, "contract.pdf", "application/pdf", 10)

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(out.StorageKey, "scans/"))
		mDocs.AssertExpectations(t)
		mStore.AssertExpectations(t)
	})

	t.Run("nil reader rejected before any IO", func(t *testing.T) {
		svc := NewDocumentService(nil, nil, nil, nil, nil, nil)

		out, err := svc.AttachScan(ctx, testManager, "doc-1", nil, "contract.pdf", "application/pdf", 10)

		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Nil(t, out)
	})

	t.Run("db write failure rolls back the object", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mDocs, nil, nil, nil, mStore, nil)

		r := strings.NewReader("scan bytes")
		mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").Return(doc, nil)
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mDocs.On("SetStorageKey", ctx, "doc-1", mock.Anything, "manager-1").Return(false, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		out, err := svc.AttachScan(ctx, testManager, "doc-1", r, "contract.pdf", "application/pdf", 10)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "record scan")
		assert.Nil(t, out)
		mStore.AssertExpectations(t)
	})
}

func TestDocumentService_ScanURL(t *testing.T) {
	ctx := context.Background()

	t.Run("presigned url for an attached scan", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		mStore := new(storeMocks.MockStorage)
		svc := NewDocumentService(mDocs, nil, nil, nil, mStore, nil)

		mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").
			Return(&model.Document{ID: "doc-1", StorageKey: "scans/abc.pdf"}, nil)
		mStore.On("PresignGet", ctx, "scans/abc.pdf", 15*time.Minute).
			Return("https://minio.local/scans/abc.pdf?sig", nil)

		url, err := svc.ScanURL(ctx, testActor, "doc-1", 15*time.Minute)

		assert.NoError(t, err)
		assert.Contains(t, url, "scans/abc.pdf")
	})

	t.Run("document without a scan", func(t *testing.T) {
		mDocs := new(repoMocks.MockDocumentRepository)
		svc := NewDocumentService(mDocs, nil, nil, nil, nil, nil)

		mDocs.On("FindInDepartment", ctx, "doc-1", "dept-1").
			Return(&model.Document{ID: "doc-1"}, nil)

		url, err := svc.ScanURL(ctx, testActor, "doc-1", 15*time.Minute)

		var st *StateConflictError
		assert.ErrorAs(t, err, &st)
		assert.Empty(t, url)
	})
}

func TestDocumentService_PossibleLocations(t *testing.T) {
	ctx := context.Background()

	t.Run("folders with enough remaining space", func(t *testing.T) {
		mFolders := new(repoMocks.MockFolderRepository)
		svc := NewDocumentService(nil, nil, mFolders, nil, nil, nil)

		mFolders.On("FoldersWithSpace", ctx, "dept-1", 5).Return([]repository.FolderSpace{
			{Folder: model.Folder{ID: "folder-2"}, Remaining: 50},
		}, nil)

		items, err := svc.PossibleLocations(ctx, testActor, 5)

		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 50, items[0].Remaining)
	})

	t.Run("non positive page count rejected", func(t *testing.T) {
		svc := NewDocumentService(nil, nil, nil, nil, nil, nil)

		items, err := svc.PossibleLocations(ctx, testActor, 0)

		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Nil(t, items)
	})
}

func TestDocumentService_BorrowHistory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("lists the actor's checkouts with the overdue count", func(t *testing.T) {
		mHist := new(repoMocks.MockBorrowHistoryRepository)
		svc := NewDocumentService(nil, mHist, nil, nil, nil, fixedNow(now))

		page := repository.PageQuery{Limit: 5}
		mHist.On("ListByUser", ctx, "user-1", page).
			Return(&repository.PageResult[model.BorrowHistory]{
				Items: []model.BorrowHistory{{ID: "hist-2", UserID: "user-1"}, {ID: "hist-1", UserID: "user-1"}},
				Total: 2,
			}, nil)
		mHist.On("CountOverdue", ctx, "user-1", now).Return(1, nil)

		res, overdue, err := svc.BorrowHistory(ctx, testActor, page)

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, 1, overdue)
		mHist.AssertExpectations(t)
	})

	t.Run("zero limit falls back to the default page size", func(t *testing.T) {
		mHist := new(repoMocks.MockBorrowHistoryRepository)
		svc := NewDocumentService(nil, mHist, nil, nil, nil, fixedNow(now))

		mHist.On("ListByUser", ctx, "user-1", repository.PageQuery{Limit: 10}).
			Return(&repository.PageResult[model.BorrowHistory]{Total: 0}, nil)
		mHist.On("CountOverdue", ctx, "user-1", now).Return(0, nil)

		_, _, err := svc.BorrowHistory(ctx, testActor, repository.PageQuery{})

		assert.NoError(t, err)
		mHist.AssertExpectations(t)
	})
}
