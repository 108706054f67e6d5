package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newGormRepo(t *testing.T) (*GormRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo, err := NewGormRepo(db)
	if err != nil {
		t.Fatalf("NewGormRepo: %v", err)
	}
	return repo, mock
}

func TestGormRepoInsertStampsTimestamps(t *testing.T) {
	repo, mock := newGormRepo(t)
	mock.ExpectExec(`INSERT INTO "applications"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	status := StatusApplied
	got, err := repo.Insert(context.Background(), Application{
		ID:       "app-1",
		JobTitle: "Engineer",
		Company:  "Acme",
		Industry: strPtr("Tech"),
		Status:   &status,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got.ID != "app-1" || got.JobTitle != "Engineer" || got.Company != "Acme" {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.Status == nil || *got.Status != StatusApplied {
		t.Fatalf("unexpected status %v", got.Status)
	}
	if got.Description != nil || got.SourceURL != nil {
		t.Fatalf("expected nil optionals, got %+v", got)
	}
	if got.DateApplied.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestGormRepoInsertError(t *testing.T) {
	repo, mock := newGormRepo(t)
	mock.ExpectExec(`INSERT INTO "applications"`).
		WillReturnError(errors.New("duplicate key"))

	if _, err := repo.Insert(context.Background(), Application{ID: "app-1", JobTitle: "Engineer", Company: "Acme"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGormRepoUpdateReturnsPatchedRow(t *testing.T) {
	repo, mock := newGormRepo(t)
	created := time.Date(2026, time.April, 2, 8, 30, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	mock.ExpectExec(`UPDATE "applications" SET .* WHERE id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow("app-1", "Engineer", "Acme", "desc", nil, "Offer", "Tech", created, updated))

	got, err := repo.UpdateByID(context.Background(), "app-1", Patch{Status: strPtr("Offer")})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if got.Status == nil || *got.Status != StatusOffer {
		t.Fatalf("unexpected status %v", got.Status)
	}
	if got.JobTitle != "Engineer" || got.Description == nil || *got.Description != "desc" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if !got.DateApplied.Equal(created) || !got.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected timestamps %v %v", got.DateApplied, got.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestGormRepoFindAllMapsRows(t *testing.T) {
	repo, mock := newGormRepo(t)
	now := time.Date(2026, time.April, 2, 8, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "applications"`).
		WillReturnRows(sqlmock.NewRows(applicationColumns).
			AddRow("app-1", "Engineer", "Acme", nil, nil, "Interviewing", "Tech", now, now).
			AddRow("app-2", "Designer", "Globex", "desc", nil, nil, nil, now, now))

	got, err := repo.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Status == nil || *got[0].Status != StatusInterviewing {
		t.Fatalf("unexpected status %v", got[0].Status)
	}
	if got[0].Industry == nil || *got[0].Industry != "Tech" {
		t.Fatalf("unexpected industry %v", got[0].Industry)
	}
	if got[1].Status != nil {
		t.Fatalf("expected nil status, got %v", *got[1].Status)
	}
	if got[1].Description == nil || *got[1].Description != "desc" {
		t.Fatalf("unexpected description %v", got[1].Description)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestGormRepoFindByIDNotFound(t *testing.T) {
	repo, mock := newGormRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "applications" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGormRepoUpdateMissingRow(t *testing.T) {
	repo, mock := newGormRepo(t)
	mock.ExpectExec(`UPDATE "applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateByID(context.Background(), "missing", Patch{Status: strPtr("Offer")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestGormRepoDelete(t *testing.T) {
	repo, mock := newGormRepo(t)
	mock.ExpectExec(`DELETE FROM "applications" WHERE id = \$1`).
		WithArgs("app-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "applications" WHERE id = \$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByID(context.Background(), "app-1"); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := repo.DeleteByID(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
