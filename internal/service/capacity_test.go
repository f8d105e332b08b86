package service

import (
	"context"
	"database/sql"
	"testing"

	"docstore/internal/model"
	repoMocks "docstore/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
)

func TestCapacityLedger_CheckFolder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		capacity   int
		used       int
		additional int
		wantOK     bool
	}{
		{"fits exactly", 10, 7, 3, true},
		{"one page over", 10, 8, 3, false},
		{"empty folder", 10, 0, 10, true},
		{"already full", 10, 10, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folders := new(repoMocks.MockFolderRepository)
			docs := new(repoMocks.MockDocumentRepository)
			ledger := NewCapacityLedger(folders, docs, nil, nil)

			folders.On("FindFolderByID", ctx, "folder-1").
				Return(&model.Folder{ID: "folder-1", Capacity: tt.capacity}, nil)
			docs.On("SumActivePages", ctx, "folder-1").Return(tt.used, nil)

			report, err := ledger.CheckFolder(ctx, "folder-1", tt.additional)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantOK, report.OK)
			assert.Equal(t, tt.used, report.CurrentUsage)
			assert.Equal(t, tt.capacity, report.Capacity)
		})
	}

	t.Run("missing folder", func(t *testing.T) {
		folders := new(repoMocks.MockFolderRepository)
		ledger := NewCapacityLedger(folders, nil, nil, nil)

		folders.On("FindFolderByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := ledger.CheckFolder(ctx, "missing", 1)

		var st *StateConflictError
		assert.ErrorAs(t, err, &st)
	})
}

func TestCapacityLedger_CheckLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("slot free", func(t *testing.T) {
		lockers := new(repoMocks.MockLockerRepository)
		ledger := NewCapacityLedger(nil, nil, lockers, nil)

		lockers.On("FindLockerByID", ctx, "locker-1").
			Return(&model.Locker{ID: "locker-1", Capacity: 5}, nil)
		lockers.On("CountFolders", ctx, "locker-1").Return(4, nil)

		report, err := ledger.CheckLocker(ctx, "locker-1")

		assert.NoError(t, err)
		assert.True(t, report.OK)
	})

	t.Run("locker full", func(t *testing.T) {
		lockers := new(repoMocks.MockLockerRepository)
		ledger := NewCapacityLedger(nil, nil, lockers, nil)

		lockers.On("FindLockerByID", ctx, "locker-1").
			Return(&model.Locker{ID: "locker-1", Capacity: 5}, nil)
		lockers.On("CountFolders", ctx, "locker-1").Return(5, nil)

		report, err := ledger.CheckLocker(ctx, "locker-1")

		assert.NoError(t, err)
		assert.False(t, report.OK)
		assert.Equal(t, 5, report.CurrentUsage)
	})
}

func TestCapacityLedger_CheckRoom(t *testing.T) {
	ctx := context.Background()

	rooms := new(repoMocks.MockRoomRepository)
	ledger := NewCapacityLedger(nil, nil, nil, rooms)

	rooms.On("FindRoomByID", ctx, "room-1").
		Return(&model.Room{ID: "room-1", Capacity: 3}, nil)
	rooms.On("CountLockers", ctx, "room-1").Return(3, nil)

	report, err := ledger.CheckRoom(ctx, "room-1")

	assert.NoError(t, err)
	assert.False(t, report.OK)
	assert.Equal(t, 3, report.Capacity)
}
