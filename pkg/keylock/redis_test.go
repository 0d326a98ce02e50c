package keylock_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/JaimeStill/compliance-reports/pkg/keylock"
	"github.com/JaimeStill/compliance-reports/pkg/logging"
)

func setupRedis(t *testing.T) *keylock.Config {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "docker.io/redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("redis endpoint: %v", err)
	}

	cfg := &keylock.Config{Backend: keylock.BackendRedis, TTL: "5s", RetryInterval: "10ms"}
	cfg.Redis.Addr = endpoint
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRedis_ExclusiveAcrossLockers(t *testing.T) {
	cfg := setupRedis(t)
	ctx := context.Background()

	a, _ := keylock.New(cfg, logging.Discard())
	b, _ := keylock.New(cfg, logging.Discard())

	unlock, err := a.Lock(ctx, "file-1:PDF")
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := b.Lock(waitCtx, "file-1:PDF"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("second locker error = %v, want DeadlineExceeded", err)
	}

	unlock()

	unlockB, err := b.Lock(ctx, "file-1:PDF")
	if err != nil {
		t.Fatalf("Lock() after release error = %v", err)
	}
	unlockB()
}
