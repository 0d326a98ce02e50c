package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/JaimeStill/compliance-reports/internal/migrations"
)

func TestFS_PairsUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, migrations.Dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %q", name)
		}
	}

	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for v := range ups {
		if !downs[v] {
			t.Errorf("migration %s has no down file", v)
		}
	}
}

func TestFS_ReportCacheKey(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, migrations.Dir+"/000003_reports.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "UNIQUE (file_id, format)") {
		t.Error("reports must be unique per (file_id, format)")
	}
}
