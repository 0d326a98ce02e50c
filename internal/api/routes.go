package api

import (
	"github.com/JaimeStill/compliance-reports/internal/analysis"
	"github.com/JaimeStill/compliance-reports/internal/config"
	"github.com/JaimeStill/compliance-reports/internal/files"
	"github.com/JaimeStill/compliance-reports/internal/reports"
	"github.com/JaimeStill/compliance-reports/pkg/routes"
)

func registerRoutes(r routes.System, runtime *Runtime, domain *Domain, cfg *config.Config) {
	filesHandler := files.NewHandler(domain.Files, runtime.Logger, runtime.Pagination, cfg.Storage.MaxUploadSizeBytes())
	r.RegisterGroup(filesHandler.Routes())

	analysisHandler := analysis.NewHandler(domain.Analysis, runtime.Logger)
	r.RegisterGroup(analysisHandler.Routes())

	reportsHandler := reports.NewHandler(domain.Reports, runtime.Logger, runtime.Pagination)
	r.RegisterGroup(reportsHandler.Routes())
}
