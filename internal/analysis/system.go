package analysis

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

	"github.com/JaimeStill/compliance-reports/internal/blobs"
	"github.com/JaimeStill/compliance-reports/internal/files"
)

// System drives a file through analysis and serves its findings.
type System interface {
	// Analyze invokes the analysis tool for an owned file and records the
	// artifact. The file moves Uploaded → Processing → Analyzed and returns
	// to Uploaded when the run fails. A recorded artifact whose file never
	// reached Analyzed is returned after the status is repaired.
	Analyze(ctx context.Context, fileID uuid.UUID, requester string) (*Artifact, error)

	// Findings returns the raw findings JSON of an owned, analyzed file.
	Findings(ctx context.Context, fileID uuid.UUID, requester string) ([]byte, error)
}

type analyzer struct {
	files   files.System
	store   Store
	invoker Invoker
	blobs   blobs.System
	timeout time.Duration
	tracer  trace.Tracer
	logger  *slog.Logger
}

// New creates the analysis system. A zero timeout leaves runs unbounded.
func New(files files.System, store Store, invoker Invoker, blobs blobs.System, timeout time.Duration, tracer trace.Tracer, logger *slog.Logger) System {
	return &analyzer{
		files:   files,
		store:   store,
		invoker: invoker,
		blobs:   blobs,
		timeout: timeout,
		tracer:  tracer,
		logger:  logger.With("system", "analysis"),
	}
}

func (a *analyzer) Analyze(ctx context.Context, fileID uuid.UUID, requester string) (*Artifact, error) {
	ctx, span := a.tracer.Start(ctx, "analysis.Analyze", trace.WithAttributes(
		attribute.String("file.id", fileID.String()),
	))
	defer span.End()

	artifact, err := a.analyze(ctx, fileID, requester)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return artifact, err
}

func (a *analyzer) analyze(ctx context.Context, fileID uuid.UUID, requester string) (*Artifact, error) {
	file, err := a.files.FindOwned(ctx, fileID, requester)
	if err != nil {
		return nil, err
	}

	if existing, err := a.store.FindByFile(ctx, fileID); err == nil {
		return a.repair(ctx, file, existing)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup analysis: %w", err)
	}

	if _, err := a.files.Transition(ctx, fileID, files.StatusUploaded, files.StatusProcessing); err != nil {
		if errors.Is(err, files.ErrStatusChanged) {
			return nil, ErrInProgress
		}
		return nil, err
	}

	// The run outlives the request so the status is always settled.
	runCtx := context.WithoutCancel(ctx)
	if a.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, a.timeout)
		defer cancel()
	}

	a.logger.Info("analysis started", "file_id", fileID, "storage_key", file.StorageKey)

	start := time.Now()
	result, err := a.invoker.Analyze(runCtx, file.StorageKey)
	runDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		runsTotal.WithLabelValues("failed").Inc()
		a.revert(ctx, fileID, err)
		if !errors.Is(err, ErrInvocation) {
			err = fmt.Errorf("%w: %v", ErrInvocation, err)
		}
		return nil, err
	}

	// Recording and status settlement must not inherit the run timeout.
	settleCtx, cancel := settle(ctx)
	defer cancel()

	artifact, err := a.store.Create(settleCtx, fileID, result)
	if err != nil {
		runsTotal.WithLabelValues("failed").Inc()
		a.revert(ctx, fileID, err)
		return nil, fmt.Errorf("record analysis: %w", err)
	}

	if _, err := a.files.SetStatus(settleCtx, fileID, files.StatusAnalyzed); err != nil {
		return nil, fmt.Errorf("mark analyzed: %w", err)
	}

	runsTotal.WithLabelValues("succeeded").Inc()
	a.logger.Info("analysis complete",
		"file_id", fileID,
		"findings_key", artifact.StorageKey,
		"duration", time.Since(start),
	)
	return artifact, nil
}

const settleTimeout = 5 * time.Second

func settle(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
}

// repair finishes a run whose artifact was recorded but whose file status
// was never marked analyzed.
func (a *analyzer) repair(ctx context.Context, file *files.File, existing *Artifact) (*Artifact, error) {
	if file.Status == files.StatusAnalyzed {
		return nil, ErrAlreadyAnalyzed
	}

	settleCtx, cancel := settle(ctx)
	defer cancel()

	if _, err := a.files.SetStatus(settleCtx, file.ID, files.StatusAnalyzed); err != nil {
		return nil, fmt.Errorf("mark analyzed: %w", err)
	}
	a.logger.Info("analysis status repaired", "file_id", file.ID, "findings_key", existing.StorageKey)
	return existing, nil
}

func (a *analyzer) revert(ctx context.Context, fileID uuid.UUID, cause error) {
	a.logger.Warn("analysis failed", "file_id", fileID, "error", cause)

	ctx, cancel := settle(ctx)
	defer cancel()

	if _, err := a.files.SetStatus(ctx, fileID, files.StatusUploaded); err != nil {
		a.logger.Error("failed to revert file status", "file_id", fileID, "error", err)
	}
}

func (a *analyzer) Findings(ctx context.Context, fileID uuid.UUID, requester string) ([]byte, error) {
	if _, err := a.files.FindOwned(ctx, fileID, requester); err != nil {
		return nil, err
	}

	artifact, err := a.store.FindByFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	data, err := a.blobs.Get(ctx, artifact.StorageKey)
	if err != nil {
		if errors.Is(err, blobs.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFindingsMissing, artifact.StorageKey)
		}
		return nil, err
	}
	return data, nil
}
