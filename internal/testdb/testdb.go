// Package testdb starts a migrated PostgreSQL container for integration tests.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/JaimeStill/compliance-reports/internal/migrations"
	"github.com/JaimeStill/compliance-reports/pkg/database"
	"github.com/JaimeStill/compliance-reports/pkg/logging"
)

// Setup skips unless TEST_INTEGRATION is set. Otherwise it runs a postgres
// container, applies every migration and returns an open pool that is closed
// with the test.
func Setup(t *testing.T) *sql.DB {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "docker.io/postgres:16-alpine",
		postgres.WithDatabase("compliance_reports"),
		postgres.WithUsername("compliance"),
		postgres.WithPassword("compliance"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	cfg := &database.Config{
		Host:     host,
		Port:     port.Int(),
		Name:     "compliance_reports",
		User:     "compliance",
		Password: "compliance",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}

	if _, err := database.Migrate(cfg, migrations.FS, migrations.Dir, logging.Discard()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := database.New(cfg, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	conn := db.Connection()
	t.Cleanup(func() { conn.Close() })

	if err := conn.PingContext(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return conn
}
