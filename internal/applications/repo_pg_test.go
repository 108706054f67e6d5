package applications

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var applicationColumns = []string{
	"id", "job_title", "company", "description", "source_url", "status", "industry", "date_applied", "updated_at",
}

func newPGRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoInsertReturnsStoredRow(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC)
	status := StatusApplied

	mock.ExpectQuery("INSERT INTO applications").
		WithArgs("app-1", "Engineer", "Acme", nil, "https://acme.com", "Applied", nil).
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow("app-1", "Engineer", "Acme", nil, "https://acme.com", "Applied", nil, now, now))

	got, err := repo.Insert(context.Background(), Application{
		ID:        "app-1",
		JobTitle:  "Engineer",
		Company:   "Acme",
		SourceURL: strPtr("https://acme.com"),
		Status:    &status,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got.Description != nil || got.Industry != nil {
		t.Fatalf("expected null optionals, got %+v", got)
	}
	if got.Status == nil || *got.Status != StatusApplied {
		t.Fatalf("unexpected status %v", got.Status)
	}
	if !got.DateApplied.Equal(now) {
		t.Fatalf("unexpected dateApplied %s", got.DateApplied)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFindAllEmpty(t *testing.T) {
	repo, mock := newPGRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM applications").
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	got, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestPGRepoFindByIDNotFound(t *testing.T) {
	repo, mock := newPGRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM applications WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateSetsOnlySuppliedColumns(t *testing.T) {
	repo, mock := newPGRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`UPDATE applications\s+SET status = \$1, industry = \$2, updated_at = now\(\)\s+WHERE id = \$3`).
		WithArgs("Offer", nil, "app-1").
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow("app-1", "Engineer", "Acme", "desc", nil, "Offer", nil, now, now))

	got, err := repo.UpdateByID(context.Background(), "app-1", Patch{
		Status:   strPtr("Offer"),
		Industry: strPtr(""),
	})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if got.Status == nil || *got.Status != StatusOffer {
		t.Fatalf("unexpected status %v", got.Status)
	}
	if got.Description == nil || *got.Description != "desc" {
		t.Fatalf("unexpected description %v", got.Description)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateMissingRow(t *testing.T) {
	repo, mock := newPGRepo(t)
	mock.ExpectQuery("UPDATE applications").
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	if _, err := repo.UpdateByID(context.Background(), "missing", Patch{Company: strPtr("Acme")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDelete(t *testing.T) {
	repo, mock := newPGRepo(t)
	mock.ExpectExec("DELETE FROM applications WHERE id = \\$1").
		WithArgs("app-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM applications WHERE id = \\$1").
		WithArgs("app-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByID(context.Background(), "app-1"); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := repo.DeleteByID(context.Background(), "app-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoPropagatesDriverErrors(t *testing.T) {
	repo, mock := newPGRepo(t)
	cause := errors.New("connection reset")
	mock.ExpectQuery("SELECT (.+) FROM applications").WillReturnError(cause)

	if _, err := repo.FindAll(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("expected driver error, got %v", err)
	}
}
