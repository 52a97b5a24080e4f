package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"envision/internal/domain"
	"envision/internal/middleware"
	"envision/internal/orchestrator"
	"envision/internal/persist"
	"envision/internal/service"
	"envision/internal/storage"
)

// App bundles the handler dependencies. Clients are constructed explicitly at
// startup and owned here; no package-level singletons.
type App struct {
	Logger       zerolog.Logger
	Orchestrator *orchestrator.Orchestrator
	Persister    *persist.Persister
	Records      *service.Records
	Repo         domain.VisualizationRepository
	Store        *storage.FileStore
	// MediaSaveToken authenticates the server-mediated fallback upload
	// endpoint.
	MediaSaveToken string
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorResponse{Code: code, Message: message})
}

func (a *App) requireOwner(ctx context.Context, w http.ResponseWriter, rec *domain.Visualization) bool {
	// Records are scoped to their owner; a foreign id reads as absent.
	if rec.OwnerID != middleware.UserIDFromContext(ctx) {
		a.error(w, http.StatusNotFound, "not_found", "visualization not found")
		return false
	}
	return true
}
