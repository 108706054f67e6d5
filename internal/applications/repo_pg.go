package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const selectColumns = `id, job_title, company, description, source_url, status, industry, date_applied, updated_at`

// PGRepo implements Repo using Postgres through database/sql.
type PGRepo struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Insert writes a new application; date_applied and updated_at come from column defaults.
func (r *PGRepo) Insert(ctx context.Context, app Application) (Application, error) {
	const query = `
INSERT INTO applications (id, job_title, company, description, source_url, status, industry)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + selectColumns

	row := r.DB.QueryRowContext(ctx, query,
		app.ID,
		app.JobTitle,
		app.Company,
		nullableString(app.Description),
		nullableString(app.SourceURL),
		nullableStatus(app.Status),
		nullableString(app.Industry),
	)
	return scanApplication(row)
}

// FindAll lists every application in table order.
func (r *PGRepo) FindAll(ctx context.Context) ([]Application, error) {
	const query = `SELECT ` + selectColumns + ` FROM applications`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

// FindByID fetches a single application.
func (r *PGRepo) FindByID(ctx context.Context, id string) (Application, error) {
	const query = `SELECT ` + selectColumns + ` FROM applications WHERE id = $1 LIMIT 1`

	app, err := scanApplication(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

// UpdateByID sets the supplied columns and bumps updated_at.
func (r *PGRepo) UpdateByID(ctx context.Context, id string, patch Patch) (Application, error) {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 7)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.JobTitle != nil {
		add("job_title", *patch.JobTitle)
	}
	if patch.Company != nil {
		add("company", *patch.Company)
	}
	if patch.Description != nil {
		add("description", nullableString(patch.Description))
	}
	if patch.SourceURL != nil {
		add("source_url", nullableString(patch.SourceURL))
	}
	if patch.Status != nil {
		add("status", nullableString(patch.Status))
	}
	if patch.Industry != nil {
		add("industry", nullableString(patch.Industry))
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
UPDATE applications
SET %s
WHERE id = $%d
RETURNING %s`, strings.Join(sets, ", "), len(args), selectColumns)

	app, err := scanApplication(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

// DeleteByID removes an application.
func (r *PGRepo) DeleteByID(ctx context.Context, id string) error {
	const query = `DELETE FROM applications WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var description sql.NullString
	var sourceURL sql.NullString
	var status sql.NullString
	var industry sql.NullString
	err := row.Scan(
		&app.ID,
		&app.JobTitle,
		&app.Company,
		&description,
		&sourceURL,
		&status,
		&industry,
		&app.DateApplied,
		&app.UpdatedAt,
	)
	if err != nil {
		return Application{}, err
	}
	if description.Valid {
		app.Description = &description.String
	}
	if sourceURL.Valid {
		app.SourceURL = &sourceURL.String
	}
	if status.Valid {
		s := Status(status.String)
		app.Status = &s
	}
	if industry.Valid {
		app.Industry = &industry.String
	}
	return app, nil
}

func nullableString(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func nullableStatus(value *Status) any {
	if value == nil || *value == "" {
		return nil
	}
	return string(*value)
}

var _ Repo = (*PGRepo)(nil)
