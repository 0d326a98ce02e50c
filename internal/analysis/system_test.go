package analysis_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/JaimeStill/compliance-reports/internal/analysis"
	"github.com/JaimeStill/compliance-reports/internal/blobs"
	"github.com/JaimeStill/compliance-reports/internal/files"
	"github.com/JaimeStill/compliance-reports/pkg/logging"
	"github.com/JaimeStill/compliance-reports/pkg/pagination"
	"github.com/JaimeStill/compliance-reports/pkg/storage"
)

type memFiles struct {
	mu    sync.Mutex
	files map[uuid.UUID]*files.File
}

func (m *memFiles) get(id uuid.UUID) (*files.File, error) {
	f, ok := m.files[id]
	if !ok {
		return nil, files.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *memFiles) Upload(context.Context, string, files.CreateCommand) (*files.File, error) {
	return nil, errors.New("not supported")
}

func (m *memFiles) Find(_ context.Context, id uuid.UUID) (*files.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *memFiles) FindOwned(ctx context.Context, id uuid.UUID, owner string) (*files.File, error) {
	f, err := m.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !f.OwnedBy(owner) {
		return nil, files.ErrForbidden
	}
	return f, nil
}

func (m *memFiles) List(context.Context, string, pagination.PageRequest, files.Filters) (*pagination.PageResult[files.File], error) {
	return nil, errors.New("not supported")
}

func (m *memFiles) Counts(context.Context, string) (*files.Counts, error) {
	return nil, errors.New("not supported")
}

func (m *memFiles) SetStatus(_ context.Context, id uuid.UUID, status files.Status) (*files.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, files.ErrNotFound
	}
	f.Status = status
	return m.get(id)
}

func (m *memFiles) Transition(_ context.Context, id uuid.UUID, from, to files.Status) (*files.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, files.ErrNotFound
	}
	if f.Status != from {
		return nil, files.ErrStatusChanged
	}
	f.Status = to
	return m.get(id)
}

type memStore struct {
	mu        sync.Mutex
	artifacts map[uuid.UUID]*analysis.Artifact
}

func (m *memStore) FindByFile(_ context.Context, fileID uuid.UUID) (*analysis.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[fileID]
	if !ok {
		return nil, analysis.ErrNotFound
	}
	return a, nil
}

func (m *memStore) Create(_ context.Context, fileID uuid.UUID, r analysis.Result) (*analysis.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.artifacts[fileID]; ok {
		return nil, analysis.ErrAlreadyAnalyzed
	}
	a := &analysis.Artifact{ID: uuid.New(), FileID: fileID, StorageKey: r.ReportKey, StorageURL: r.ReportURL, Format: analysis.FormatJSON}
	m.artifacts[fileID] = a
	return a, nil
}

// toolInvoker writes findings through the gateway the way the external tool does.
type toolInvoker struct {
	blobs blobs.System
	err   error
	calls int
}

func (i *toolInvoker) Analyze(ctx context.Context, storageKey string) (analysis.Result, error) {
	i.calls++
	if i.err != nil {
		return analysis.Result{}, i.err
	}
	obj, err := i.blobs.Put(ctx, []byte(`{"report_id":"r1"}`), "findings.json", blobs.FolderReports)
	if err != nil {
		return analysis.Result{}, err
	}
	return analysis.Result{ReportKey: obj.Key, ReportURL: obj.URL}, nil
}

type fixture struct {
	sys     analysis.System
	files   *memFiles
	store   *memStore
	invoker *toolInvoker
	blobs   blobs.System
	fileID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := storage.New(&storage.Config{BasePath: t.TempDir()}, logging.Discard())
	if err != nil {
		t.Fatal(err)
	}
	gateway := blobs.New(st, logging.Discard())

	id := uuid.New()
	fx := &fixture{
		files: &memFiles{files: map[uuid.UUID]*files.File{
			id: {ID: id, OwnerID: "u-1", StorageKey: "uploads/" + id.String() + ".pdf", Status: files.StatusUploaded},
		}},
		store:   &memStore{artifacts: map[uuid.UUID]*analysis.Artifact{}},
		invoker: &toolInvoker{blobs: gateway},
		blobs:   gateway,
		fileID:  id,
	}
	fx.sys = analysis.New(fx.files, fx.store, fx.invoker, gateway, 0, noop.NewTracerProvider().Tracer(""), logging.Discard())
	return fx
}

func (fx *fixture) status(t *testing.T) files.Status {
	t.Helper()
	f, err := fx.files.Find(context.Background(), fx.fileID)
	if err != nil {
		t.Fatal(err)
	}
	return f.Status
}

func TestAnalyze_Success(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	artifact, err := fx.sys.Analyze(ctx, fx.fileID, "u-1")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if artifact.Format != analysis.FormatJSON || artifact.FileID != fx.fileID {
		t.Errorf("artifact = %+v", artifact)
	}
	if s := fx.status(t); s != files.StatusAnalyzed {
		t.Errorf("status = %s, want Analyzed", s)
	}

	data, err := fx.sys.Findings(ctx, fx.fileID, "u-1")
	if err != nil || string(data) != `{"report_id":"r1"}` {
		t.Errorf("Findings() = %q, %v", data, err)
	}
}

func TestAnalyze_AlreadyAnalyzed(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.sys.Analyze(ctx, fx.fileID, "u-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.sys.Analyze(ctx, fx.fileID, "u-1"); !errors.Is(err, analysis.ErrAlreadyAnalyzed) {
		t.Errorf("error = %v, want ErrAlreadyAnalyzed", err)
	}
	if fx.invoker.calls != 1 {
		t.Errorf("invoker calls = %d, want 1", fx.invoker.calls)
	}
}

func TestAnalyze_FailureReverts(t *testing.T) {
	fx := newFixture(t)
	fx.invoker.err = errors.New("exit status 1")

	_, err := fx.sys.Analyze(context.Background(), fx.fileID, "u-1")
	if !errors.Is(err, analysis.ErrInvocation) {
		t.Errorf("error = %v, want ErrInvocation", err)
	}
	if s := fx.status(t); s != files.StatusUploaded {
		t.Errorf("status = %s, want Uploaded", s)
	}
	if len(fx.store.artifacts) != 0 {
		t.Error("no artifact should be recorded")
	}
}

func TestAnalyze_Rejections(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.sys.Analyze(ctx, fx.fileID, "u-2"); !errors.Is(err, files.ErrForbidden) {
		t.Errorf("other user error = %v, want ErrForbidden", err)
	}
	if _, err := fx.sys.Analyze(ctx, uuid.New(), "u-1"); !errors.Is(err, files.ErrNotFound) {
		t.Errorf("missing file error = %v, want ErrNotFound", err)
	}

	fx.files.SetStatus(ctx, fx.fileID, files.StatusProcessing)
	if _, err := fx.sys.Analyze(ctx, fx.fileID, "u-1"); !errors.Is(err, analysis.ErrInProgress) {
		t.Errorf("processing error = %v, want ErrInProgress", err)
	}
	if fx.invoker.calls != 0 {
		t.Errorf("invoker calls = %d, want 0", fx.invoker.calls)
	}
}

func TestFindings_Errors(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.sys.Findings(ctx, fx.fileID, "u-1"); !errors.Is(err, analysis.ErrNotFound) {
		t.Errorf("before analysis error = %v, want ErrNotFound", err)
	}

	artifact, err := fx.sys.Analyze(ctx, fx.fileID, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fx.sys.Findings(ctx, fx.fileID, "u-2"); !errors.Is(err, files.ErrForbidden) {
		t.Errorf("other user error = %v, want ErrForbidden", err)
	}

	fx.blobs.Delete(ctx, artifact.StorageKey)
	if _, err := fx.sys.Findings(ctx, fx.fileID, "u-1"); !errors.Is(err, analysis.ErrFindingsMissing) {
		t.Errorf("deleted blob error = %v, want ErrFindingsMissing", err)
	}
}

// ctxFiles honors cancellation the way a database-backed repository does.
type ctxFiles struct{ *memFiles }

func (c ctxFiles) SetStatus(ctx context.Context, id uuid.UUID, status files.Status) (*files.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.memFiles.SetStatus(ctx, id, status)
}

type blockingInvoker struct{}

func (blockingInvoker) Analyze(ctx context.Context, _ string) (analysis.Result, error) {
	<-ctx.Done()
	return analysis.Result{}, ctx.Err()
}

func TestAnalyze_TimeoutReverts(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	sys := analysis.New(ctxFiles{fx.files}, fx.store, blockingInvoker{}, fx.blobs, 20*time.Millisecond, noop.NewTracerProvider().Tracer(""), logging.Discard())

	_, err := sys.Analyze(ctx, fx.fileID, "u-1")
	if !errors.Is(err, analysis.ErrInvocation) {
		t.Errorf("error = %v, want ErrInvocation", err)
	}
	if s := fx.status(t); s != files.StatusUploaded {
		t.Fatalf("status = %s, want Uploaded", s)
	}

	if _, err := fx.sys.Analyze(ctx, fx.fileID, "u-1"); err != nil {
		t.Errorf("retry error = %v", err)
	}
}

func TestAnalyze_RepairsUnsettledStatus(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	recorded := &analysis.Artifact{ID: uuid.New(), FileID: fx.fileID, StorageKey: "reports/findings.json", Format: analysis.FormatJSON}
	fx.store.artifacts[fx.fileID] = recorded
	fx.files.SetStatus(ctx, fx.fileID, files.StatusProcessing)

	got, err := fx.sys.Analyze(ctx, fx.fileID, "u-1")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.ID != recorded.ID {
		t.Errorf("artifact = %s, want %s", got.ID, recorded.ID)
	}
	if s := fx.status(t); s != files.StatusAnalyzed {
		t.Errorf("status = %s, want Analyzed", s)
	}
	if fx.invoker.calls != 0 {
		t.Errorf("invoker calls = %d, want 0", fx.invoker.calls)
	}

	if _, err := fx.sys.Analyze(ctx, fx.fileID, "u-1"); !errors.Is(err, analysis.ErrAlreadyAnalyzed) {
		t.Errorf("second call error = %v, want ErrAlreadyAnalyzed", err)
	}
}
