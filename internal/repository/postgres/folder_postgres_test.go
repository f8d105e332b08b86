package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"docstore/internal/model"
	"docstore/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func folderRows(id, name string, capacity int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "capacity", "locker_id", "created_at"}).
		AddRow(id, name, capacity, "locker-1", time.Now().UTC())
}

func TestFolderPostgres_CreateFolder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFolderPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	folder := &model.Folder{ID: "folder-1", Name: "2024-contracts", Capacity: 100, LockerID: "locker-1", CreatedAt: now}

	t.Run("locker has a free slot", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO folders (.+) SELECT (.+) WHERE \(SELECT COUNT\(\*\) FROM folders WHERE locker_id = (.+)\) < \(SELECT capacity FROM lockers WHERE id = (.+)\) RETURNING`).
			WithArgs(folder.ID, folder.Name, folder.Capacity, folder.LockerID, folder.CreatedAt).
			WillReturnRows(folderRows("folder-1", "2024-contracts", 100))

		out, err := repo.CreateFolder(ctx, folder)

		assert.NoError(t, err)
		assert.Equal(t, "folder-1", out.ID)
		assert.Equal(t, 100, out.Capacity)
	})

	t.Run("locker is full", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO folders`).
			WithArgs(folder.ID, folder.Name, folder.Capacity, folder.LockerID, folder.CreatedAt).
			WillReturnError(sql.ErrNoRows)

		out, err := repo.CreateFolder(ctx, folder)

		assert.Nil(t, out)
		assert.True(t, errors.Is(err, repository.ErrNotInserted))
	})
}

func TestFolderPostgres_FindFolderInDepartment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFolderPostgres(db)
	ctx := context.Background()

	t.Run("containment chain matches", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM folders f JOIN lockers l ON l.id = f.locker_id JOIN rooms r ON r.id = l.room_id WHERE f.id = (.+) AND r.department_id = ?`).
			WithArgs("folder-1", "dept-1").
			WillReturnRows(folderRows("folder-1", "2024-contracts", 100))

		out, err := repo.FindFolderInDepartment(ctx, "folder-1", "dept-1")

		assert.NoError(t, err)
		assert.Equal(t, "folder-1", out.ID)
	})

	t.Run("foreign department sees nothing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM folders f JOIN lockers l`).
			WithArgs("folder-1", "dept-2").
			WillReturnError(sql.ErrNoRows)

		out, err := repo.FindFolderInDepartment(ctx, "folder-1", "dept-2")

		assert.Nil(t, out)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestFolderPostgres_ListFolders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFolderPostgres(db)
	ctx := context.Background()

	rows := folderRows("folder-1", "2024-contracts", 100).
		AddRow("folder-2", "2025-contracts", 50, "locker-1", time.Now().UTC())
	mock.ExpectQuery(`SELECT (.+) FROM folders WHERE locker_id = (.+) ORDER BY name`).
		WithArgs("locker-1").
		WillReturnRows(rows)

	items, err := repo.ListFolders(ctx, "locker-1")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "2024-contracts", items[0].Name)
}

func TestFolderPostgres_UpdateFolderCapacity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFolderPostgres(db)
	ctx := context.Background()

	t.Run("new capacity covers the active pages", func(t *testing.T) {
		mock.ExpectExec(`UPDATE folders SET capacity = (.+) WHERE id = (.+) AND (.+) >= \( SELECT COALESCE\(SUM\(num_of_pages\), 0\) FROM documents WHERE folder_id = (.+) AND status IN \('AVAILABLE', 'BORROWED', 'PENDING'\) \)`).
			WithArgs(120, "folder-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdateFolderCapacity(ctx, "folder-1", 120)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("shrinking below the active pages is refused", func(t *testing.T) {
		mock.ExpectExec(`UPDATE folders SET capacity = ?`).
			WithArgs(5, "folder-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdateFolderCapacity(ctx, "folder-1", 5)

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFolderPostgres_FoldersWithSpace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewFolderPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "name", "capacity", "locker_id", "created_at", "remaining"}).
		AddRow("folder-2", "2025-contracts", 50, "locker-1", now, 50).
		AddRow("folder-1", "2024-contracts", 100, "locker-1", now, 12)
	mock.ExpectQuery(`SELECT (.+) f.capacity - COALESCE\(u.used, 0\) AS remaining FROM folders f (.+) WHERE r.department_id = (.+) AND f.capacity - COALESCE\(u.used, 0\) >= (.+) ORDER BY remaining DESC, f.name`).
		WithArgs("dept-1", 10).
		WillReturnRows(rows)

	items, err := repo.FoldersWithSpace(ctx, "dept-1", 10)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "folder-2", items[0].Folder.ID)
	assert.Equal(t, 50, items[0].Remaining)
	assert.Equal(t, 12, items[1].Remaining)
}
