package applications

import "context"

// Repo is the persistence collaborator for applications. Implementations
// report a missing id as ErrNotFound.
type Repo interface {
	Insert(ctx context.Context, app Application) (Application, error)
	FindAll(ctx context.Context) ([]Application, error)
	FindByID(ctx context.Context, id string) (Application, error)
	UpdateByID(ctx context.Context, id string, patch Patch) (Application, error)
	DeleteByID(ctx context.Context, id string) error
}
