package files_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/JaimeStill/compliance-reports/internal/blobs"
	"github.com/JaimeStill/compliance-reports/internal/files"
	"github.com/JaimeStill/compliance-reports/internal/testdb"
	"github.com/JaimeStill/compliance-reports/pkg/logging"
	"github.com/JaimeStill/compliance-reports/pkg/pagination"
	"github.com/JaimeStill/compliance-reports/pkg/storage"
)

func newRepo(t *testing.T) files.System {
	t.Helper()
	db := testdb.Setup(t)

	store, err := storage.New(&storage.Config{BasePath: t.TempDir()}, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	gateway := blobs.New(store, logging.Discard())

	return files.New(db, gateway, logging.Discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, 1<<20)
}

func TestRepository_UploadAndFind(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()

	f, err := sys.Upload(ctx, "u-1", files.CreateCommand{Filename: "controls.json", Data: []byte(`{}`)})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if f.Status != files.StatusUploaded || f.Name != "controls.json" || f.ContentType != "application/json" {
		t.Errorf("file = %+v", f)
	}

	got, err := sys.FindOwned(ctx, f.ID, "u-1")
	if err != nil || got.StorageKey != f.StorageKey {
		t.Errorf("FindOwned() = %+v, %v", got, err)
	}

	if _, err := sys.FindOwned(ctx, f.ID, "u-2"); !errors.Is(err, files.ErrForbidden) {
		t.Errorf("FindOwned(other) error = %v, want ErrForbidden", err)
	}
}

func TestRepository_UploadRejects(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()

	if _, err := sys.Upload(ctx, "u-1", files.CreateCommand{Filename: "empty.pdf"}); !errors.Is(err, files.ErrInvalidFile) {
		t.Errorf("empty upload error = %v", err)
	}

	big := make([]byte, 2<<20)
	if _, err := sys.Upload(ctx, "u-1", files.CreateCommand{Filename: "big.pdf", Data: big}); !errors.Is(err, files.ErrFileTooLarge) {
		t.Errorf("large upload error = %v", err)
	}
}

func TestRepository_ListAndCounts(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()

	for _, owner := range []string{"u-1", "u-1", "u-2"} {
		if _, err := sys.Upload(ctx, owner, files.CreateCommand{Filename: "a.json", Data: []byte(`[]`)}); err != nil {
			t.Fatal(err)
		}
	}

	page, err := sys.List(ctx, "u-1", pagination.PageRequest{Page: 1, PageSize: 10}, files.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || len(page.Data) != 2 {
		t.Errorf("List() total = %d, len = %d", page.Total, len(page.Data))
	}

	counts, err := sys.Counts(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if counts.Uploaded != 2 || counts.Total != 2 {
		t.Errorf("Counts() = %+v", counts)
	}
}

func TestRepository_TransitionOnce(t *testing.T) {
	sys := newRepo(t)
	ctx := context.Background()

	f, err := sys.Upload(ctx, "u-1", files.CreateCommand{Filename: "a.json", Data: []byte(`[]`)})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 4)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sys.Transition(ctx, f.ID, files.StatusUploaded, files.StatusProcessing)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	won := 0
	for err := range results {
		switch {
		case err == nil:
			won++
		case !errors.Is(err, files.ErrStatusChanged):
			t.Errorf("Transition() error = %v", err)
		}
	}
	if won != 1 {
		t.Errorf("%d transitions succeeded, want 1", won)
	}

	if _, err := sys.Transition(ctx, f.ID, files.StatusUploaded, files.StatusProcessing); !errors.Is(err, files.ErrStatusChanged) {
		t.Errorf("stale Transition() error = %v", err)
	}
}
