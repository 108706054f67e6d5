package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"github.com/kiiromate/JATA-V1/internal/shared/telemetry"
)

// Runtime describes how a process holds its pool.
type Runtime string

const (
	// RuntimeServer is the long-running HTTP API.
	RuntimeServer Runtime = "server"
	// RuntimeLambda serves one request at a time per execution environment.
	RuntimeLambda Runtime = "lambda"
	// RuntimeMigrate is the one-shot migration CLI.
	RuntimeMigrate Runtime = "migrate"
)

// Pool holds database/sql pool limits.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

var poolDefaults = map[Runtime]Pool{
	RuntimeServer:  {MaxOpen: 10, MaxIdle: 5, MaxLifetime: time.Hour, MaxIdleTime: 2 * time.Minute, PingTimeout: 5 * time.Second},
	RuntimeLambda:  {MaxOpen: 2, MaxIdle: 1, MaxLifetime: 15 * time.Minute, MaxIdleTime: 30 * time.Second, PingTimeout: 3 * time.Second},
	RuntimeMigrate: {MaxOpen: 1, MaxIdle: 1, MaxLifetime: time.Hour, MaxIdleTime: 2 * time.Minute, PingTimeout: 5 * time.Second},
}

var (
	openDB = sql.Open

	sharedMu sync.Mutex
	sharedDB *sql.DB
)

// DetectRuntime returns RuntimeLambda inside AWS Lambda and RuntimeServer otherwise.
func DetectRuntime() Runtime {
	if strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != "" {
		return RuntimeLambda
	}
	return RuntimeServer
}

// PoolFor returns the pool limits for rt with DB_* overrides applied.
// Invalid overrides are logged and ignored.
func PoolFor(rt Runtime) Pool {
	p, ok := poolDefaults[rt]
	if !ok {
		p = poolDefaults[RuntimeServer]
	}
	overrideInt("DB_MAX_OPEN_CONNS", &p.MaxOpen)
	overrideInt("DB_MAX_IDLE_CONNS", &p.MaxIdle)
	overrideDuration("DB_CONN_MAX_LIFETIME", &p.MaxLifetime)
	overrideDuration("DB_CONN_MAX_IDLE_TIME", &p.MaxIdleTime)
	overrideDuration("DB_PING_TIMEOUT", &p.PingTimeout)
	return p
}

// Open connects to databaseURL with the pool for rt and verifies the
// connection. The caller owns the returned pool.
func Open(ctx context.Context, databaseURL string, rt Runtime) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	pool := PoolFor(rt)
	database, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	database.SetMaxOpenConns(pool.MaxOpen)
	database.SetMaxIdleConns(pool.MaxIdle)
	database.SetConnMaxLifetime(pool.MaxLifetime)
	database.SetConnMaxIdleTime(pool.MaxIdleTime)

	if err := Ping(ctx, database, pool.PingTimeout); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	telemetry.Info("db.connected", map[string]any{
		"runtime":  string(rt),
		"max_open": pool.MaxOpen,
		"max_idle": pool.MaxIdle,
	})
	return database, nil
}

// Shared returns the pool kept for the life of a Lambda execution
// environment. A failed connect is retried on the next call.
func Shared(ctx context.Context, databaseURL string) (*sql.DB, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedDB != nil {
		return sharedDB, nil
	}
	database, err := Open(ctx, databaseURL, RuntimeLambda)
	if err != nil {
		return nil, err
	}
	sharedDB = database
	return sharedDB, nil
}

// Ping checks connectivity with a bounded timeout.
func Ping(ctx context.Context, database *sql.DB, timeout time.Duration) error {
	if database == nil {
		return fmt.Errorf("database not configured")
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return database.PingContext(pingCtx)
}

func overrideInt(key string, dst *int) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "value": raw})
		return
	}
	*dst = v
}

func overrideDuration(key string, dst *time.Duration) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "value": raw})
		return
	}
	*dst = v
}
