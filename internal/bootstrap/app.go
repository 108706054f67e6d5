package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kiiromate/JATA-V1/internal/applications"
	"github.com/kiiromate/JATA-V1/internal/services/health"
	"github.com/kiiromate/JATA-V1/internal/shared/config"
	"github.com/kiiromate/JATA-V1/internal/shared/server"
	"github.com/kiiromate/JATA-V1/internal/shared/storage/db"
	"github.com/kiiromate/JATA-V1/internal/shared/telemetry"
)

// App holds the constructed dependencies. Call Close when done.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	ApplicationsRepo   applications.Repo
	ApplicationService *applications.Service
	ApplicationHandler *applications.Handler
	Health             *health.Service

	ownsDB bool
}

// Build connects storage, wires the service and mounts routes.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, owns, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, ownsDB: owns}
	if err := app.buildServices(); err != nil {
		app.Close()
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		ApplicationHandler: app.ApplicationHandler,
		Health:             app.Health,
	})
	return app, nil
}

// BuildWithRepo wires the service on an existing repository without touching a database.
func BuildWithRepo(cfg config.Config, repo applications.Repo) *App {
	app := &App{Config: cfg}
	app.wire(repo)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		ApplicationHandler: app.ApplicationHandler,
		Health:             app.Health,
	})
	return app
}

// Close releases the database pool if this App opened it.
func (a *App) Close() error {
	if a == nil || a.DB == nil || !a.ownsDB {
		return nil
	}
	err := a.DB.Close()
	a.DB = nil
	return err
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, bool, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("DATABASE_URL is required in %s", cfg.Env)
	}

	var (
		sqlDB *sql.DB
		owns  bool
		err   error
	)
	if db.DetectRuntime() == db.RuntimeLambda {
		// Warm invocations share one pool; it lives as long as the execution environment.
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL)
	} else {
		sqlDB, err = db.Open(ctx, cfg.DatabaseURL, db.RuntimeServer)
		owns = true
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": err.Error()})
			return nil, false, nil
		}
		return nil, false, err
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			if owns {
				_ = sqlDB.Close()
			}
			return nil, false, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, owns, nil
}

func (a *App) buildServices() error {
	var repo applications.Repo
	switch {
	case a.DB == nil:
		repo = applications.NewMemoryRepo()
	case a.Config.Persistence == config.PersistenceGorm:
		gormRepo, err := applications.NewGormRepo(a.DB)
		if err != nil {
			return fmt.Errorf("init gorm: %w", err)
		}
		repo = gormRepo
	default:
		repo = &applications.PGRepo{DB: a.DB}
	}
	a.wire(repo)
	return nil
}

func (a *App) wire(repo applications.Repo) {
	a.ApplicationsRepo = repo
	a.ApplicationService = applications.NewService(repo)
	a.ApplicationHandler = applications.NewHandler(a.ApplicationService)
	a.Health = health.NewService(a.DB)
}
