package reports_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/compliance-reports/internal/reports"
	"github.com/JaimeStill/compliance-reports/pkg/auth"
	"github.com/JaimeStill/compliance-reports/pkg/logging"
	"github.com/JaimeStill/compliance-reports/pkg/pagination"
	"github.com/JaimeStill/compliance-reports/pkg/routes"
)

func newServer(sys reports.System) http.Handler {
	h := reports.NewHandler(sys, logging.Discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	r := routes.New(logging.Discard())
	r.RegisterGroup(h.Routes())
	return r.Build()
}

func get(srv http.Handler, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != "" {
		req = req.WithContext(auth.WithIdentity(context.Background(), auth.Identity{ID: user}))
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHandler_Generate(t *testing.T) {
	fx := newFixture(t, reports.CacheConfig{})
	srv := newServer(fx.sys)

	w := get(srv, "/files/"+fx.fileID.String()+"/reports/pdf", "u-1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	want := `attachment; filename=report_` + fx.fileID.String() + `.pdf`
	if cd := w.Header().Get("Content-Disposition"); cd != want {
		t.Errorf("Content-Disposition = %q, want %q", cd, want)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF-") {
		t.Error("body is not a pdf")
	}
}

func TestHandler_StatusMapping(t *testing.T) {
	fx := newFixture(t, reports.CacheConfig{})
	srv := newServer(fx.sys)
	file := "/files/" + fx.fileID.String()

	tests := []struct {
		name string
		path string
		user string
		want int
	}{
		{"no identity", file + "/reports/pdf", "", http.StatusUnauthorized},
		{"bad format", file + "/reports/xlsx", "u-1", http.StatusBadRequest},
		{"bad id", "/files/nope/reports/pdf", "u-1", http.StatusBadRequest},
		{"other owner", file + "/reports/pdf", "u-2", http.StatusForbidden},
		{"missing file", "/files/" + uuid.NewString() + "/reports/pdf", "u-1", http.StatusNotFound},
		{"missing report", "/reports/" + uuid.NewString() + "/download", "u-1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := get(srv, tt.path, tt.user); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestHandler_NotReady(t *testing.T) {
	fx := newFixture(t, reports.CacheConfig{})
	delete(fx.analyses, fx.fileID)

	w := get(newServer(fx.sys), "/files/"+fx.fileID.String()+"/reports/docx", "u-1")
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestHandler_DownloadAndList(t *testing.T) {
	fx := newFixture(t, reports.CacheConfig{})
	srv := newServer(fx.sys)

	created, err := fx.sys.GenerateOrFetch(context.Background(), fx.fileID, "JSON", "u-1")
	if err != nil {
		t.Fatal(err)
	}

	w := get(srv, "/reports/"+created.Report.ID.String()+"/download", "u-1")
	if w.Code != http.StatusOK || w.Body.String() != findings {
		t.Errorf("download = %d %q", w.Code, w.Body.String())
	}

	w = get(srv, "/reports?format=json", "u-1")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), created.Report.ID.String()) {
		t.Errorf("list = %d %s", w.Code, w.Body.String())
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{reports.ErrNotFound, http.StatusNotFound},
		{reports.ErrForbidden, http.StatusForbidden},
		{reports.ErrInvalidFormat, http.StatusBadRequest},
		{reports.ErrAnalysisNotReady, http.StatusConflict},
		{reports.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{reports.ErrArtifactMissing, http.StatusInternalServerError},
		{reports.ErrGenerationFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := reports.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
