// Package api assembles the authenticated compliance API: domain systems,
// their route groups and the middleware stack around them.
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/compliance-reports/internal/config"
	"github.com/JaimeStill/compliance-reports/internal/infrastructure"
	"github.com/JaimeStill/compliance-reports/pkg/auth"
	"github.com/JaimeStill/compliance-reports/pkg/middleware"
	"github.com/JaimeStill/compliance-reports/pkg/openapi"
	"github.com/JaimeStill/compliance-reports/pkg/routes"
)

// Module is the mounted API: a handler served beneath Prefix.
type Module struct {
	Prefix  string
	Handler http.Handler
	Domain  *Domain
	Spec    []byte
}

// NewModule builds the API module from shared infrastructure.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg)

	r := routes.New(runtime.Logger)
	registerRoutes(r, runtime, domain, cfg)

	spec, err := generateSpec(r, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate openapi spec: %w", err)
	}

	mw := middleware.New()
	mw.Use(middleware.TrimSlash())
	mw.Use(middleware.Logger(runtime.Logger))
	mw.Use(middleware.CORS(&cfg.API.CORS))
	mw.Use(middleware.Metrics())
	mw.Use(middleware.Trace(runtime.Tracing.Tracer()))
	mw.Use(auth.Middleware(&cfg.Auth, runtime.Logger))

	prefix := strings.TrimSuffix(cfg.API.BasePath, "/")

	return &Module{
		Prefix:  prefix,
		Handler: mw.Apply(http.StripPrefix(prefix, r.Build())),
		Domain:  domain,
		Spec:    spec,
	}, nil
}

// Mount registers the module on mux beneath its prefix. The OpenAPI document
// is served without authentication.
func (m *Module) Mount(mux *http.ServeMux) {
	mux.Handle(m.Prefix+"/", m.Handler)
	mux.HandleFunc("GET "+m.Prefix+"/openapi.json", openapi.ServeSpec(m.Spec))
}
