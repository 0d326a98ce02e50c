package api

import (
	"github.com/JaimeStill/compliance-reports/internal/analysis"
	"github.com/JaimeStill/compliance-reports/internal/config"
	"github.com/JaimeStill/compliance-reports/internal/files"
	"github.com/JaimeStill/compliance-reports/internal/render"
	"github.com/JaimeStill/compliance-reports/internal/reports"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Files    files.System
	Analysis analysis.System
	Reports  reports.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	db := runtime.Database.Connection()
	tracer := runtime.Tracing.Tracer()

	filesSys := files.New(
		db,
		runtime.Blobs,
		runtime.Logger,
		runtime.Pagination,
		cfg.Storage.MaxUploadSizeBytes(),
	)

	invoker := analysis.NewCommand(cfg.Analysis.Interpreter, cfg.Analysis.Script, runtime.Logger)
	invoker.Dir = cfg.Analysis.Dir
	invoker.Env = cfg.Analysis.Env

	analysisStore := analysis.NewStore(db)

	analysisSys := analysis.New(
		filesSys,
		analysisStore,
		invoker,
		runtime.Blobs,
		cfg.Analysis.TimeoutDuration(),
		tracer,
		runtime.Logger,
	)

	reportsSys := reports.New(
		reports.Deps{
			Files:    filesSys,
			Analyses: analysisStore,
			Store:    reports.NewStore(db, runtime.Pagination),
			Blobs:    runtime.Blobs,
			Renderer: render.New(cfg.Render.MaxDetails),
			Locker:   runtime.Locker,
			Tracer:   tracer,
			Logger:   runtime.Logger,
		},
		reports.CacheConfig{
			Size: cfg.Reports.CacheSize,
			TTL:  cfg.Reports.CacheTTLDuration(),
		},
	)

	return &Domain{
		Files:    filesSys,
		Analysis: analysisSys,
		Reports:  reportsSys,
	}
}
