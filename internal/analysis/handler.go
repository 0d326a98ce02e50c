package analysis

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/compliance-reports/pkg/auth"
	"github.com/JaimeStill/compliance-reports/pkg/handlers"
	"github.com/JaimeStill/compliance-reports/pkg/routes"
)

// Handler exposes analysis of a file.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates an analysis handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analysis"),
	}
}

// Routes returns the analysis endpoints nested under a file.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/files/{id}",
		Tags:        []string{"Analysis"},
		Description: "Compliance analysis of uploaded files",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze, OpenAPI: Spec.Analyze},
			{Method: "GET", Pattern: "/analysis", Handler: h.Findings, OpenAPI: Spec.Findings},
		},
	}
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, fileID, ok := h.request(w, r)
	if !ok {
		return
	}

	artifact, err := h.sys.Analyze(r.Context(), fileID, id.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, artifact)
}

func (h *Handler) Findings(w http.ResponseWriter, r *http.Request) {
	id, fileID, ok := h.request(w, r)
	if !ok {
		return
	}

	data, err := h.sys.Findings(r.Context(), fileID, id.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) request(w http.ResponseWriter, r *http.Request) (auth.Identity, uuid.UUID, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok || id.ID == "" {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrNoToken)
		return auth.Identity{}, uuid.Nil, false
	}

	fileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return auth.Identity{}, uuid.Nil, false
	}
	return id, fileID, true
}
