package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/JaimeStill/compliance-reports/internal/analysis"
	"github.com/JaimeStill/compliance-reports/internal/blobs"
	"github.com/JaimeStill/compliance-reports/internal/files"
	"github.com/JaimeStill/compliance-reports/internal/render"
	"github.com/JaimeStill/compliance-reports/pkg/pagination"
)

// System generates, caches and serves reports.
type System interface {
	// GenerateOrFetch returns the report of format for an owned file,
	// rendering and storing it on first request.
	GenerateOrFetch(ctx context.Context, fileID uuid.UUID, format string, requester string) (*Artifact, error)

	// Download returns an existing report by id.
	Download(ctx context.Context, reportID uuid.UUID, requester string) (*Artifact, error)

	List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Report], error)
}

// Files looks up file records.
type Files interface {
	Find(ctx context.Context, id uuid.UUID) (*files.File, error)
}

// Analyses looks up a file's analysis artifact.
type Analyses interface {
	FindByFile(ctx context.Context, fileID uuid.UUID) (*analysis.Artifact, error)
}

// Renderer converts raw findings into a document.
type Renderer interface {
	Render(raw []byte, format render.Format) ([]byte, error)
}

// Locker serializes generation per key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Deps are the collaborators of the report system.
type Deps struct {
	Files    Files
	Analyses Analyses
	Store    Store
	Blobs    blobs.System
	Renderer Renderer
	Locker   Locker
	Tracer   trace.Tracer
	Logger   *slog.Logger
}

type repo struct {
	files    Files
	analyses Analyses
	store    Store
	blobs    blobs.System
	renderer Renderer
	locker   Locker
	cache    *recordCache
	tracer   trace.Tracer
	logger   *slog.Logger
}

// New creates the report system.
func New(deps Deps, cache CacheConfig) System {
	return &repo{
		files:    deps.Files,
		analyses: deps.Analyses,
		store:    deps.Store,
		blobs:    deps.Blobs,
		renderer: deps.Renderer,
		locker:   deps.Locker,
		cache:    newRecordCache(cache),
		tracer:   deps.Tracer,
		logger:   deps.Logger.With("system", "reports"),
	}
}

func (r *repo) GenerateOrFetch(ctx context.Context, fileID uuid.UUID, format string, requester string) (*Artifact, error) {
	ctx, span := r.tracer.Start(ctx, "reports.GenerateOrFetch", trace.WithAttributes(
		attribute.String("file.id", fileID.String()),
		attribute.String("report.format", format),
	))
	defer span.End()

	artifact, err := r.generateOrFetch(ctx, fileID, format, requester)
	return artifact, spanResult(span, err)
}

func (r *repo) generateOrFetch(ctx context.Context, fileID uuid.UUID, name string, requester string) (*Artifact, error) {
	format, err := render.ParseFormat(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, name)
	}

	if err := r.authorize(ctx, fileID, requester); err != nil {
		return nil, err
	}

	rec, err := r.lookup(ctx, fileID, format)
	if err == nil {
		return r.serve(ctx, rec, fileID)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	source, err := r.analyses.FindByFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			return nil, ErrAnalysisNotReady
		}
		return nil, fmt.Errorf("lookup analysis: %w", err)
	}

	unlock, err := r.locker.Lock(ctx, lockKey(fileID, format))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquire report lock: %w", err)
		}
		// the unique constraint on (file, format) still settles a race
		r.logger.Warn("report lock unavailable, generating unlocked",
			"file_id", fileID, "format", format, "error", err)
		unlock = func() {}
	}
	defer unlock()

	// another holder may have generated it while we waited
	if rec, err := r.lookup(ctx, fileID, format); err == nil {
		return r.serve(ctx, rec, fileID)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// A disconnecting caller must not leave a half-finished generation.
	return r.generate(context.WithoutCancel(ctx), fileID, format, source)
}

func (r *repo) generate(ctx context.Context, fileID uuid.UUID, format render.Format, source *analysis.Artifact) (*Artifact, error) {
	ctx, span := r.tracer.Start(ctx, "reports.generate")
	defer span.End()

	data, obj, err := r.produce(ctx, format, source)
	if err != nil {
		generationsTotal.WithLabelValues(string(format), "failed").Inc()
		return nil, spanResult(span, err)
	}

	rec, err := r.store.Create(ctx, Report{
		FileID:     fileID,
		Format:     format,
		StorageKey: obj.Key,
		StorageURL: obj.URL,
		SizeBytes:  int64(len(data)),
	})
	if errors.Is(err, ErrDuplicate) {
		generationsTotal.WithLabelValues(string(format), "lost_race").Inc()
		r.logger.Warn("report generated concurrently, serving existing record",
			"file_id", fileID, "format", format, "orphan_key", obj.Key)

		winner, err := r.store.FindByFile(ctx, fileID, format)
		if err != nil {
			return nil, spanResult(span, fmt.Errorf("lookup winning report: %w", err))
		}
		r.cache.add(winner)
		artifact, err := r.serve(ctx, winner, fileID)
		return artifact, spanResult(span, err)
	}
	if err != nil {
		generationsTotal.WithLabelValues(string(format), "failed").Inc()
		if delErr := r.blobs.Delete(ctx, obj.Key); delErr != nil {
			r.logger.Error("cleanup failed after db error", "storage_key", obj.Key, "error", delErr)
		}
		return nil, spanResult(span, fmt.Errorf("%w: %w", ErrGenerationFailed, err))
	}

	r.cache.add(rec)
	generationsTotal.WithLabelValues(string(format), "succeeded").Inc()
	r.logger.Info("report generated",
		"report_id", rec.ID,
		"file_id", fileID,
		"format", format,
		"storage_key", rec.StorageKey,
		"size", rec.SizeBytes,
	)
	return newArtifact(rec, data, fileID), nil
}

// produce renders the findings and uploads the document.
func (r *repo) produce(ctx context.Context, format render.Format, source *analysis.Artifact) ([]byte, blobs.Object, error) {
	raw, err := r.blobs.Get(ctx, source.StorageKey)
	if err != nil {
		if errors.Is(err, blobs.ErrNotFound) {
			return nil, blobs.Object{}, fmt.Errorf("%w: findings %s", ErrArtifactMissing, source.StorageKey)
		}
		return nil, blobs.Object{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	start := time.Now()
	data, err := r.renderer.Render(raw, format)
	renderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, blobs.Object{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	obj, err := r.blobs.Put(ctx, data, "report."+format.Ext(), blobs.FolderReports)
	if err != nil {
		return nil, blobs.Object{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return data, obj, nil
}

func (r *repo) Download(ctx context.Context, reportID uuid.UUID, requester string) (*Artifact, error) {
	ctx, span := r.tracer.Start(ctx, "reports.Download", trace.WithAttributes(
		attribute.String("report.id", reportID.String()),
	))
	defer span.End()

	rec, err := r.store.Find(ctx, reportID)
	if err != nil {
		return nil, spanResult(span, err)
	}
	if err := r.authorize(ctx, rec.FileID, requester); err != nil {
		return nil, spanResult(span, err)
	}

	artifact, err := r.serve(ctx, rec, reportID)
	return artifact, spanResult(span, err)
}

func (r *repo) List(ctx context.Context, owner string, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Report], error) {
	return r.store.List(ctx, owner, page, filters)
}

func (r *repo) authorize(ctx context.Context, fileID uuid.UUID, requester string) error {
	file, err := r.files.Find(ctx, fileID)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return err
	}
	if !file.OwnedBy(requester) {
		return ErrForbidden
	}
	return nil
}

func (r *repo) lookup(ctx context.Context, fileID uuid.UUID, format render.Format) (*Report, error) {
	if rec, ok := r.cache.get(fileID, format); ok {
		lookupsTotal.WithLabelValues("cache").Inc()
		return rec, nil
	}

	rec, err := r.store.FindByFile(ctx, fileID, format)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			lookupsTotal.WithLabelValues("miss").Inc()
		}
		return nil, err
	}

	lookupsTotal.WithLabelValues("store").Inc()
	r.cache.add(rec)
	return rec, nil
}

// serve fetches a record's bytes. A record whose blob is gone is reported,
// never regenerated.
func (r *repo) serve(ctx context.Context, rec *Report, nameID uuid.UUID) (*Artifact, error) {
	data, err := r.blobs.Get(ctx, rec.StorageKey)
	if err != nil {
		if errors.Is(err, blobs.ErrNotFound) {
			r.logger.Error("report record has no blob",
				"report_id", rec.ID, "storage_key", rec.StorageKey)
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, rec.StorageKey)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return newArtifact(rec, data, nameID), nil
}

func lockKey(fileID uuid.UUID, format render.Format) string {
	return "report:" + fileID.String() + ":" + string(format)
}

func spanResult(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
