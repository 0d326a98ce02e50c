package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JaimeStill/compliance-reports/internal/api"
	"github.com/JaimeStill/compliance-reports/internal/config"
	"github.com/JaimeStill/compliance-reports/internal/infrastructure"
	"github.com/JaimeStill/compliance-reports/internal/migrations"
	"github.com/JaimeStill/compliance-reports/internal/server"
	"github.com/JaimeStill/compliance-reports/pkg/database"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra *infrastructure.Infrastructure
	http  server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := database.Migrate(&cfg.Database, migrations.FS, migrations.Dir, infra.Logger); err != nil {
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, infra)
	apiModule.Mount(mux)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"storage", cfg.Storage.Backend,
		"locks", cfg.Locks.Backend,
	)

	return &Server{
		infra: infra,
		http:  server.New(cfg, mux, infra.Logger),
	}, nil
}

// Start begins all subsystems and returns once they are launched.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
