package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/kiiromate/JATA-V1/internal/shared/storage/db"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a health service. database may be nil when running on memory storage.
func NewService(database *sql.DB) *Service {
	return &Service{DB: database}
}

// Status reports liveness and, when a database is configured, its reachability.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	out := map[string]any{"ok": true, "storage": "memory"}
	if s == nil || s.DB == nil {
		return out, true
	}
	out["storage"] = "postgres"
	if err := db.Ping(ctx, s.DB, pingTimeout); err != nil {
		out["ok"] = false
		out["database"] = "unreachable"
		return out, false
	}
	out["database"] = "ok"
	return out, true
}
