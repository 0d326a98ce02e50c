package blobs_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/JaimeStill/compliance-reports/internal/blobs"
	"github.com/JaimeStill/compliance-reports/pkg/lifecycle"
	"github.com/JaimeStill/compliance-reports/pkg/logging"
	"github.com/JaimeStill/compliance-reports/pkg/storage"
)

// flakyStore fails every call with a transient error.
type flakyStore struct{}

func (flakyStore) Store(context.Context, string, []byte) error { return storage.ErrUnavailable }
func (flakyStore) Retrieve(context.Context, string) ([]byte, error) {
	return nil, storage.ErrUnavailable
}
func (flakyStore) Delete(context.Context, string) error { return storage.ErrUnavailable }
func (flakyStore) Validate(context.Context, string) (bool, error) {
	return false, storage.ErrUnavailable
}
func (flakyStore) URL(key string) string              { return "mem://" + key }
func (flakyStore) Start(*lifecycle.Coordinator) error { return nil }

func newGateway(t *testing.T) blobs.System {
	t.Helper()
	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return blobs.New(store, logging.Discard())
}

var keyPattern = regexp.MustCompile(`^reports/[0-9a-f-]{36}\.pdf$`)

func TestGateway_PutGet(t *testing.T) {
	g := newGateway(t)
	ctx := context.Background()

	obj, err := g.Put(ctx, []byte("%PDF"), "report_1.PDF", blobs.FolderReports)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !keyPattern.MatchString(obj.Key) {
		t.Errorf("Key = %q, want reports/<uuid>.pdf", obj.Key)
	}
	if obj.URL == "" {
		t.Error("URL should be set")
	}

	data, err := g.Get(ctx, obj.Key)
	if err != nil || string(data) != "%PDF" {
		t.Errorf("Get() = %q, %v", data, err)
	}
}

func TestGateway_PutNeverCollides(t *testing.T) {
	g := newGateway(t)
	ctx := context.Background()

	a, _ := g.Put(ctx, []byte("a"), "x.json", blobs.FolderReports)
	b, _ := g.Put(ctx, []byte("b"), "x.json", blobs.FolderReports)

	if a.Key == b.Key {
		t.Errorf("keys collided: %q", a.Key)
	}
}

func TestGateway_GetMissing(t *testing.T) {
	g := newGateway(t)

	_, err := g.Get(context.Background(), "reports/gone.pdf")
	if !errors.Is(err, blobs.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if errors.Is(err, blobs.ErrUnavailable) {
		t.Error("a definite miss must not be reported as unavailable")
	}
}

func TestGateway_Transient(t *testing.T) {
	g := blobs.New(flakyStore{}, logging.Discard())
	ctx := context.Background()

	if _, err := g.Get(ctx, "reports/a.pdf"); !errors.Is(err, blobs.ErrUnavailable) || errors.Is(err, blobs.ErrNotFound) {
		t.Errorf("Get() error = %v, want only ErrUnavailable", err)
	}
	if _, err := g.Put(ctx, []byte("x"), "a.pdf", blobs.FolderReports); !errors.Is(err, blobs.ErrUnavailable) {
		t.Errorf("Put() error = %v, want ErrUnavailable", err)
	}
}

func TestNewKey(t *testing.T) {
	tests := []struct {
		folder, hint string
		pattern      string
	}{
		{"uploads", "Policy Scan.pdf", `^uploads/[0-9a-f-]{36}\.pdf$`},
		{"reports", "findings.json", `^reports/[0-9a-f-]{36}\.json$`},
		{"uploads", "noext", `^uploads/[0-9a-f-]{36}$`},
	}

	for _, tt := range tests {
		if key := blobs.NewKey(tt.folder, tt.hint); !regexp.MustCompile(tt.pattern).MatchString(key) {
			t.Errorf("NewKey(%q, %q) = %q", tt.folder, tt.hint, key)
		}
	}
}
