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

func documentRows(id string, status model.DocumentStatus, pages int) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "name", "status", "num_of_pages", "storage_key", "folder_id",
		"category_id", "created_by", "updated_by", "created_at", "updated_at",
	}).AddRow(id, "contract.pdf", status, pages, "", "folder-1", "cat-1", "user-1", "", now, now)
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("doc-1").
			WillReturnRows(documentRows("doc-1", model.DocumentAvailable, 4))

		doc, err := repo.FindByID(ctx, "doc-1")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "doc-1", doc.ID)
		assert.Equal(t, model.DocumentAvailable, doc.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_FindInDepartment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("containment chain matches", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents d JOIN folders f (.+) JOIN lockers l (.+) JOIN rooms r (.+) WHERE d.id = (.+) AND r.department_id = ?").
			WithArgs("doc-1", "dept-1").
			WillReturnRows(documentRows("doc-1", model.DocumentAvailable, 4))

		doc, err := repo.FindInDepartment(ctx, "doc-1", "dept-1")

		assert.NoError(t, err)
		assert.Equal(t, "doc-1", doc.ID)
	})

	t.Run("foreign department sees no row", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents d JOIN folders f").
			WithArgs("doc-1", "dept-2").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindInDepartment(ctx, "doc-1", "dept-2")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_ListByFolder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE folder_id = ?").
		WithArgs("folder-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE folder_id = (.+) ORDER BY").
		WithArgs("folder-1", 10, 0).
		WillReturnRows(documentRows("doc-1", model.DocumentPending, 4))

	res, err := repo.ListByFolder(ctx, "folder-1", repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_SumActivePages(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	// REQUESTING and DELETED rows are excluded by the IN list.
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(num_of_pages\\), 0\\) FROM documents WHERE folder_id = (.+) AND status IN \\('AVAILABLE', 'BORROWED', 'PENDING'\\)").
		WithArgs("folder-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(8))

	sum, err := repo.SumActivePages(ctx, "folder-1")

	assert.NoError(t, err)
	assert.Equal(t, 8, sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("transition wins", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET status = (.+) WHERE id = (.+) AND status = ?").
			WithArgs(model.DocumentBorrowed, "mgr-1", "doc-1", model.DocumentAvailable).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.UpdateStatus(ctx, "doc-1", model.DocumentAvailable, model.DocumentBorrowed, "mgr-1")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("stale expected status loses", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET status = (.+) WHERE id = (.+) AND status = ?").
			WithArgs(model.DocumentBorrowed, "mgr-1", "doc-1", model.DocumentAvailable).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.UpdateStatus(ctx, "doc-1", model.DocumentAvailable, model.DocumentBorrowed, "mgr-1")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDocumentPostgres_ConfirmPlacement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("pending document in expected folder", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET status = 'AVAILABLE'(.+) WHERE id = (.+) AND status = 'PENDING' AND folder_id = ?").
			WithArgs("mgr-1", "doc-1", "folder-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.ConfirmPlacement(ctx, "doc-1", "folder-1", "mgr-1")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong folder", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET status = 'AVAILABLE'").
			WithArgs("mgr-1", "doc-1", "folder-2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.ConfirmPlacement(ctx, "doc-1", "folder-2", "mgr-1")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDocumentPostgres_MoveToFolder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("capacity predicate holds and excludes the moving row", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET folder_id = (.+) WHERE id = (.+) AND status = 'AVAILABLE' AND \\((.+)SELECT COALESCE\\(SUM\\(o.num_of_pages\\), 0\\) FROM documents o WHERE o.folder_id = (.+) AND o.id <> (.+) AND o.status IN").
			WithArgs("folder-2", "mgr-1", "doc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.MoveToFolder(ctx, "doc-1", "folder-2", "mgr-1")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("target folder full", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET folder_id = ").
			WithArgs("folder-2", "mgr-1", "doc-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.MoveToFolder(ctx, "doc-1", "folder-2", "mgr-1")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDocumentPostgres_Return(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	returnDate := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	t.Run("both rows advance", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE documents SET status = 'AVAILABLE'(.+) WHERE id = (.+) AND status = 'BORROWED'").
			WithArgs("mgr-1", "doc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE borrow_histories SET return_date = (.+) WHERE id = (.+) AND return_date IS NULL").
			WithArgs(returnDate, "fine", "hist-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ok, err := repo.Return(ctx, "doc-1", "hist-1", returnDate, "fine", "mgr-1")

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("document not borrowed rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE documents SET status = 'AVAILABLE'").
			WithArgs("mgr-1", "doc-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		ok, err := repo.Return(ctx, "doc-1", "hist-1", returnDate, "fine", "mgr-1")

		assert.NoError(t, err)
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
