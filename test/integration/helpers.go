// Package integration hosts tests that exercise the PostgreSQL-backed alias
// store against a real database.  The tests spin up a disposable Postgres
// container via testcontainers and are gated behind an environment flag so
// plain `go test ./...` stays fast and Docker-free.
package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
)

const (
	// EnvIntegrationEnabled controls whether integration tests run.
	EnvIntegrationEnabled = "RXGENE_INTEGRATION_TEST"

	// EnvPostgresURL overrides the container with an existing database, for
	// CI environments that provide a service database instead of Docker.
	EnvPostgresURL = "RXGENE_TEST_POSTGRES_URL"

	postgresImage = "postgres:16-alpine"
	testUser      = "rxgene"
	testPassword  = "rxgene"
	testDBName    = "rxgene_test"

	// SetupTimeout bounds container startup plus migrations.
	SetupTimeout = 120 * time.Second
)

// SkipIfNoIntegration skips the calling test when the integration flag is
// unset.
func SkipIfNoIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv(EnvIntegrationEnabled) == "" {
		t.Skipf("skipping integration test: set %s=1 to enable", EnvIntegrationEnabled)
	}
}

// PostgresEnv is a migrated test database plus the handles tests need.
type PostgresEnv struct {
	Pool   *pgxpool.Pool
	URL    string
	Logger logging.Logger
}

// StartPostgres provides a migrated PostgreSQL database: either the one named
// by RXGENE_TEST_POSTGRES_URL or a fresh container.  Cleanup is registered on
// t, so each test (or subtest tree) gets an isolated schema.
func StartPostgres(t *testing.T) *PostgresEnv {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), SetupTimeout)
	defer cancel()

	dbURL := os.Getenv(EnvPostgresURL)
	if dbURL == "" {
		dbURL = startContainer(ctx, t)
	}

	if err := postgres.RunMigrations(dbURL, "file://../../migrations"); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("pinging test database: %v", err)
	}

	return &PostgresEnv{
		Pool:   pool,
		URL:    dbURL,
		Logger: logging.NewNopLogger(),
	}
}

// startContainer boots a disposable Postgres container and returns its URL.
func startContainer(ctx context.Context, t *testing.T) string {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       testDBName,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		termCtx, termCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer termCancel()
		if err := container.Terminate(termCtx); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("resolving container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("resolving container port: %v", err)
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		testUser, testPassword, host, port.Port(), testDBName)
}

//Personal.AI order the ending
