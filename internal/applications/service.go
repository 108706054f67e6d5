package applications

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Service validates application requests and delegates storage to Repo.
type Service struct {
	Repo  Repo
	NewID func() string
}

// NewService constructs a Service that generates UUID identifiers.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, NewID: uuid.NewString}
}

// Create validates in and persists a new application.
func (s *Service) Create(ctx context.Context, in CreateInput) (Application, error) {
	if violations := ValidateCreate(in); len(violations) > 0 {
		return Application{}, &ValidationError{Violations: violations}
	}

	app := Application{
		ID:          s.NewID(),
		JobTitle:    strings.TrimSpace(in.JobTitle),
		Company:     strings.TrimSpace(in.Company),
		Description: trimOptional(in.Description),
		SourceURL:   trimOptional(in.SourceURL),
		Industry:    trimOptional(in.Industry),
	}
	if status := trimOptional(in.Status); status != nil {
		app.Status = optionalStatus(*status)
	}

	stored, err := s.Repo.Insert(ctx, app)
	if err != nil {
		return Application{}, &StorageError{Op: "create", Err: err}
	}
	return stored, nil
}

// List returns all stored applications; an empty table yields an empty slice.
func (s *Service) List(ctx context.Context) ([]Application, error) {
	apps, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	if apps == nil {
		apps = []Application{}
	}
	return apps, nil
}

// Get returns the application with the given id.
func (s *Service) Get(ctx context.Context, id string) (Application, error) {
	app, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return Application{}, translate("get", id, err)
	}
	return app, nil
}

// Update validates the supplied fields and overwrites them.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Application, error) {
	if violations := ValidateUpdate(in); len(violations) > 0 {
		return Application{}, &ValidationError{Violations: violations}
	}

	patch := Patch{
		JobTitle:    trimPresent(in.JobTitle),
		Company:     trimPresent(in.Company),
		Description: trimPresent(in.Description),
		SourceURL:   trimPresent(in.SourceURL),
		Status:      trimPresent(in.Status),
		Industry:    trimPresent(in.Industry),
	}
	app, err := s.Repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return Application{}, translate("update", id, err)
	}
	return app, nil
}

// Delete removes the application with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return translate("delete", id, err)
	}
	return nil
}

func translate(op, id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	return &StorageError{Op: op, Err: err}
}

// trimOptional maps blank optional values to nil.
func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	return optional(strings.TrimSpace(*value))
}

// trimPresent keeps a supplied value, possibly empty, so an update can clear it.
func trimPresent(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
