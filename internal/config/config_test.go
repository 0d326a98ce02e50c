package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/compliance-reports/internal/config"
	"github.com/JaimeStill/compliance-reports/pkg/keylock"
	"github.com/JaimeStill/compliance-reports/pkg/storage"
)

const base = `
version = "1.2.0"
shutdown_timeout = "15s"

[server]
port = 9090

[auth]
secret = "0123456789abcdef0123"

[storage]
backend = "filesystem"
base_path = ".data/test"
max_upload_size = "5MB"

[analysis]
interpreter = "python3"
script = "scripts/code.py"
timeout = "2m"

[reports]
cache_size = 64

[locks]
backend = "local"
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := config.LoadFile(writeConfig(t, "config.toml", base))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Version != "1.2.0" || cfg.ShutdownTimeoutDuration() != 15*time.Second {
		t.Errorf("root = %q %v", cfg.Version, cfg.ShutdownTimeoutDuration())
	}
	if cfg.Server.Addr() != ":9090" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Storage.MaxUploadSizeBytes() != 5_000_000 {
		t.Errorf("MaxUploadSizeBytes() = %d", cfg.Storage.MaxUploadSizeBytes())
	}
	if cfg.Analysis.TimeoutDuration() != 2*time.Minute {
		t.Errorf("analysis timeout = %v", cfg.Analysis.TimeoutDuration())
	}
	if cfg.Reports.CacheSize != 64 || cfg.Reports.CacheTTLDuration() != 10*time.Minute {
		t.Errorf("reports = %+v", cfg.Reports)
	}
	if cfg.Render.MaxDetails != 10000 {
		t.Errorf("render.max_details = %d", cfg.Render.MaxDetails)
	}
	if cfg.API.BasePath != "/api" || cfg.API.Pagination.DefaultPageSize == 0 {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.Locks.Backend != keylock.BackendLocal {
		t.Errorf("locks.backend = %q", cfg.Locks.Backend)
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "config.toml")
	os.WriteFile(basePath, []byte(base), 0o644)
	os.WriteFile(filepath.Join(dir, "config.prod.toml"), []byte(`
[storage]
backend = "s3"

[storage.s3]
endpoint = "minio:9000"
bucket = "compliance"

[locks]
backend = "redis"
`), 0o644)

	t.Setenv(config.EnvServiceEnv, "prod")

	cfg, err := config.LoadFile(basePath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Storage.Backend != storage.BackendS3 || cfg.Storage.S3.Bucket != "compliance" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Locks.Backend != keylock.BackendRedis {
		t.Errorf("locks.backend = %q", cfg.Locks.Backend)
	}
	if cfg.Server.Port != 9090 {
		t.Error("base values should survive the overlay")
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("AUTH_SECRET", "environment-secret-value")
	t.Setenv(config.EnvAnalysisTimeout, "30s")
	t.Setenv(config.EnvRenderMaxDetails, "50")

	cfg, err := config.LoadFile(writeConfig(t, "config.toml", base))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 || cfg.Database.Host != "db.internal" {
		t.Errorf("server/database = %d %q", cfg.Server.Port, cfg.Database.Host)
	}
	if cfg.Auth.Secret != "environment-secret-value" {
		t.Errorf("auth.secret not overridden")
	}
	if cfg.Analysis.TimeoutDuration() != 30*time.Second || cfg.Render.MaxDetails != 50 {
		t.Errorf("analysis/render = %v %d", cfg.Analysis.TimeoutDuration(), cfg.Render.MaxDetails)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"short secret", `[auth]
secret = "short"`, "auth"},
		{"bad max_details", base + "\n" + `[render]
max_details = -1`, "render"},
		{"bad shutdown", strings.Replace(base, `"15s"`, `"soon"`, 1), "shutdown_timeout"},
		{"bad toml", "[server", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFile(writeConfig(t, "config.toml", tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
