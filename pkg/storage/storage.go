// Package storage provides whole-object blob storage behind a single System
// interface, backed by the local filesystem or an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/compliance-reports/pkg/lifecycle"
)

// System stores and retrieves whole objects by key.
type System interface {
	// Store writes data at key, replacing any existing object.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the object at key, ErrNotFound when absent, or an
	// error wrapping ErrUnavailable for transient failures.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object at key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists.
	Validate(ctx context.Context, key string) (bool, error)

	// URL returns the locator recorded alongside a key.
	URL(key string) string

	Start(lc *lifecycle.Coordinator) error
}

// New builds the backend selected by cfg.Backend.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendFilesystem, "":
		return newFilesystem(cfg, logger)
	case BackendS3:
		return newS3(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".json": "application/json",
	".txt":  "text/plain; charset=utf-8",
	".csv":  "text/csv",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ContentType derives a MIME type from a key or filename extension.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
