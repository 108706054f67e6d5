package config

import (
	"os"
	"strconv"
	"strings"
)

// Persistence backends selectable with PERSISTENCE.
const (
	PersistenceSQL  = "sql"
	PersistenceGorm = "gorm"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	Persistence     string
	RunMigrations   bool
	CORSAllowOrigin []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Persistence:     normalizePersistence(getEnv("PERSISTENCE", PersistenceSQL)),
		RunMigrations:   getBool("RUN_MIGRATIONS", true),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
	}
}

// IsDevLike reports whether missing infrastructure may fall back to in-memory storage.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizePersistence(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gorm", "orm":
		return PersistenceGorm
	default:
		return PersistenceSQL
	}
}
