package files_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/compliance-reports/internal/files"
	"github.com/JaimeStill/compliance-reports/pkg/query"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    files.Status
		wantErr bool
	}{
		{"Uploaded", files.StatusUploaded, false},
		{"Processing", files.StatusProcessing, false},
		{"Analyzed", files.StatusAnalyzed, false},
		{"analyzed", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := files.ParseStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v", tt.in, err)
			}
			if tt.wantErr && !errors.Is(err, files.ErrInvalidStatus) {
				t.Errorf("error = %v, want ErrInvalidStatus", err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOwnedBy(t *testing.T) {
	f := &files.File{OwnerID: "u-1"}

	if !f.OwnedBy("u-1") {
		t.Error("owner should own the file")
	}
	if f.OwnedBy("u-2") {
		t.Error("other user should not own the file")
	}
	if (&files.File{}).OwnedBy("") {
		t.Error("empty owner never matches")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{files.ErrNotFound, http.StatusNotFound},
		{files.ErrForbidden, http.StatusForbidden},
		{files.ErrDuplicate, http.StatusConflict},
		{fmt.Errorf("%w: expected Uploaded", files.ErrStatusChanged), http.StatusConflict},
		{files.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{files.ErrInvalidFile, http.StatusBadRequest},
		{files.ErrInvalidStatus, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := files.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

var testProjection = query.NewProjectionMap("public", "files", "f").
	Project("status", "Status").
	Project("name", "Name").
	Project("created_at", "CreatedAt")

func TestFiltersFromQuery(t *testing.T) {
	f := files.FiltersFromQuery(url.Values{"status": {"Analyzed"}, "name": {"policy"}})
	if f.Status == nil || *f.Status != files.StatusAnalyzed {
		t.Errorf("Status = %v", f.Status)
	}
	if f.Name == nil || *f.Name != "policy" {
		t.Errorf("Name = %v", f.Name)
	}

	ignored := files.FiltersFromQuery(url.Values{"status": {"bogus"}})
	if ignored.Status != nil {
		t.Error("unknown status should be ignored")
	}
}

func TestFiltersApply(t *testing.T) {
	status := files.StatusUploaded
	name := "audit"
	b := query.NewBuilder(testProjection, query.SortField{Field: "CreatedAt", Descending: true})

	files.Filters{Status: &status, Name: &name}.Apply(b)

	sql, args := b.BuildCount()
	if !strings.Contains(sql, "f.status = $1") || !strings.Contains(sql, "f.name ILIKE $2") {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 2 || args[0] != "Uploaded" {
		t.Errorf("args = %v", args)
	}
}

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		declared string
		data     []byte
		want     string
	}{
		{"declared wins", "a.bin", "application/pdf", nil, "application/pdf"},
		{"extension", "a.pdf", "application/octet-stream", nil, "application/pdf"},
		{"sniffed", "noext", "", []byte("%PDF-1.7\n"), "application/pdf"},
		{"plain text", "noext", "", []byte("hello"), "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := files.DetectContentType(tt.filename, tt.declared, tt.data); got != tt.want {
				t.Errorf("DetectContentType() = %q, want %q", got, tt.want)
			}
		})
	}
}
