package applications

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type applicationRow struct {
	ID          string    `gorm:"column:id;primaryKey"`
	JobTitle    string    `gorm:"column:job_title;not null"`
	Company     string    `gorm:"column:company;not null"`
	Description *string   `gorm:"column:description"`
	SourceURL   *string   `gorm:"column:source_url"`
	Status      *string   `gorm:"column:status"`
	Industry    *string   `gorm:"column:industry"`
	DateApplied time.Time `gorm:"column:date_applied;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (applicationRow) TableName() string { return "applications" }

// GormRepo implements Repo with the gorm ORM on top of an existing pool.
type GormRepo struct {
	DB *gorm.DB
}

// NewGormRepo wraps sqlDB in a gorm session using the postgres dialect.
func NewGormRepo(sqlDB *sql.DB) (*GormRepo, error) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return &GormRepo{DB: gdb}, nil
}

// Insert stores app; the creation and update timestamps are stamped by gorm.
func (r *GormRepo) Insert(ctx context.Context, app Application) (Application, error) {
	row := toRow(app)
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return Application{}, err
	}
	return row.toApplication(), nil
}

// FindAll returns every stored application.
func (r *GormRepo) FindAll(ctx context.Context) ([]Application, error) {
	var rows []applicationRow
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Application, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toApplication())
	}
	return out, nil
}

// FindByID returns the application with the given id or ErrNotFound.
func (r *GormRepo) FindByID(ctx context.Context, id string) (Application, error) {
	var row applicationRow
	err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return row.toApplication(), nil
}

// UpdateByID writes the supplied patch fields and returns the updated row.
func (r *GormRepo) UpdateByID(ctx context.Context, id string, patch Patch) (Application, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.JobTitle != nil {
		updates["job_title"] = *patch.JobTitle
	}
	if patch.Company != nil {
		updates["company"] = *patch.Company
	}
	if patch.Description != nil {
		updates["description"] = nullableString(patch.Description)
	}
	if patch.SourceURL != nil {
		updates["source_url"] = nullableString(patch.SourceURL)
	}
	if patch.Status != nil {
		updates["status"] = nullableString(patch.Status)
	}
	if patch.Industry != nil {
		updates["industry"] = nullableString(patch.Industry)
	}

	res := r.DB.WithContext(ctx).Model(&applicationRow{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return Application{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Application{}, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// DeleteByID removes the application or returns ErrNotFound.
func (r *GormRepo) DeleteByID(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&applicationRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func toRow(app Application) applicationRow {
	row := applicationRow{
		ID:          app.ID,
		JobTitle:    app.JobTitle,
		Company:     app.Company,
		Description: app.Description,
		SourceURL:   app.SourceURL,
		Industry:    app.Industry,
	}
	if app.Status != nil {
		s := string(*app.Status)
		row.Status = &s
	}
	return row
}

func (row applicationRow) toApplication() Application {
	app := Application{
		ID:          row.ID,
		JobTitle:    row.JobTitle,
		Company:     row.Company,
		Description: row.Description,
		SourceURL:   row.SourceURL,
		Industry:    row.Industry,
		DateApplied: row.DateApplied,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.Status != nil {
		s := Status(*row.Status)
		app.Status = &s
	}
	return app
}

var _ Repo = (*GormRepo)(nil)
