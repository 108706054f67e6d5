package applications

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	data  map[string]Application
	order []string
	now   func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Application),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Insert stores a new application and stamps its timestamps.
func (r *MemoryRepo) Insert(ctx context.Context, app Application) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[app.ID]; exists {
		return Application{}, fmt.Errorf("duplicate application id %q", app.ID)
	}
	now := r.now()
	app.DateApplied = now
	app.UpdatedAt = now
	r.data[app.ID] = app
	r.order = append(r.order, app.ID)
	return app, nil
}

// FindAll returns every application in insertion order.
func (r *MemoryRepo) FindAll(ctx context.Context) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Application, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.data[id])
	}
	return out, nil
}

// FindByID returns the application with the given id.
func (r *MemoryRepo) FindByID(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.data[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

// UpdateByID overwrites the supplied fields and returns the updated record.
func (r *MemoryRepo) UpdateByID(ctx context.Context, id string, patch Patch) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.data[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	patch.Apply(&app)
	app.UpdatedAt = r.now()
	r.data[id] = app
	return app, nil
}

// DeleteByID removes the application with the given id.
func (r *MemoryRepo) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
