// Package blobs is the object store gateway: it names new objects, stores
// and fetches whole blobs, and separates definite misses from transient
// storage failures.
package blobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/JaimeStill/compliance-reports/pkg/storage"
)

// Folders used by the service.
const (
	FolderUploads = "uploads"
	FolderReports = "reports"
)

var (
	// ErrNotFound means the store answered and the key does not exist.
	ErrNotFound = errors.New("blob not found")
	// ErrUnavailable means the store could not be reached or failed mid-operation.
	ErrUnavailable = errors.New("blob storage unavailable")
)

// Object identifies a stored blob.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// System puts and gets whole objects.
type System interface {
	// Put stores data under "<folder>/<uuid><ext>" where ext comes from nameHint.
	Put(ctx context.Context, data []byte, nameHint, folder string) (Object, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type gateway struct {
	store  storage.System
	logger *slog.Logger
}

// New wraps a storage backend.
func New(store storage.System, logger *slog.Logger) System {
	return &gateway{
		store:  store,
		logger: logger.With("system", "blobs"),
	}
}

func (g *gateway) Put(ctx context.Context, data []byte, nameHint, folder string) (Object, error) {
	key := NewKey(folder, nameHint)

	if err := g.store.Store(ctx, key, data); err != nil {
		return Object{}, fmt.Errorf("%w: put %s: %w", ErrUnavailable, key, err)
	}

	g.logger.Debug("object stored", "key", key, "size", humanize.Bytes(uint64(len(data))))
	return Object{Key: key, URL: g.store.URL(key)}, nil
}

func (g *gateway) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := g.store.Retrieve(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		case errors.Is(err, storage.ErrInvalidKey):
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, key, err)
		default:
			return nil, fmt.Errorf("%w: get %s: %w", ErrUnavailable, key, err)
		}
	}
	return data, nil
}

func (g *gateway) Delete(ctx context.Context, key string) error {
	if err := g.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrUnavailable, key, err)
	}
	return nil
}

func (g *gateway) URL(key string) string {
	return g.store.URL(key)
}

// NewKey builds a collision-free key in folder keeping nameHint's extension.
func NewKey(folder, nameHint string) string {
	ext := strings.ToLower(filepath.Ext(nameHint))
	return path.Join(folder, uuid.NewString()+ext)
}
