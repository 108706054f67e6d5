package bootstrap

import (
	"testing"

	"github.com/kiiromate/JATA-V1/internal/applications"
	"github.com/kiiromate/JATA-V1/internal/shared/config"
)

func TestBuildFallsBackToMemoryInDev(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	app, err := Build(config.Config{Env: "dev"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if app.DB != nil {
		t.Fatalf("expected no database")
	}
	if _, ok := app.ApplicationsRepo.(*applications.MemoryRepo); !ok {
		t.Fatalf("expected memory repo, got %T", app.ApplicationsRepo)
	}
	if app.Router == nil || app.ApplicationHandler == nil || app.Health == nil {
		t.Fatalf("expected router, handler and health to be wired")
	}
}

func TestBuildRequiresDatabaseInProduction(t *testing.T) {
	if _, err := Build(config.Config{Env: "production"}); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestCloseIsSafeWithoutDatabase(t *testing.T) {
	var nilApp *App
	if err := nilApp.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
	app := BuildWithRepo(config.Config{Env: "dev"}, applications.NewMemoryRepo())
	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
