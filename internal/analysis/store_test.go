package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/compliance-reports/internal/analysis"
	"github.com/JaimeStill/compliance-reports/internal/testdb"
)

func TestStore_OnePerFile(t *testing.T) {
	db := testdb.Setup(t)
	ctx := context.Background()

	fileID := uuid.New()
	_, err := db.ExecContext(ctx, `INSERT INTO files (id, name, filename, storage_key, storage_url,
		content_type, size_bytes, owner_id, status)
		VALUES ($1, 'a', 'a.pdf', 'uploads/a.pdf', 'file://a', 'application/pdf', 1, 'u-1', 'Processing')`, fileID)
	if err != nil {
		t.Fatal(err)
	}

	store := analysis.NewStore(db)

	if _, err := store.FindByFile(ctx, fileID); !errors.Is(err, analysis.ErrNotFound) {
		t.Errorf("FindByFile() error = %v, want ErrNotFound", err)
	}

	created, err := store.Create(ctx, fileID, analysis.Result{ReportKey: "reports/f.json", ReportURL: "file://f"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Format != analysis.FormatJSON {
		t.Errorf("Format = %q", created.Format)
	}

	if _, err := store.Create(ctx, fileID, analysis.Result{ReportKey: "reports/g.json", ReportURL: "file://g"}); !errors.Is(err, analysis.ErrAlreadyAnalyzed) {
		t.Errorf("second Create() error = %v, want ErrAlreadyAnalyzed", err)
	}

	found, err := store.FindByFile(ctx, fileID)
	if err != nil || found.ID != created.ID {
		t.Errorf("FindByFile() = %+v, %v", found, err)
	}
}
