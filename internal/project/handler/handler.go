// Package handler exposes project CRUD over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"conform/internal/project/models"
	"conform/internal/project/service"
	id "conform/pkg/domain"
	"conform/pkg/platform/httputil"
	"conform/pkg/requestcontext"
)

const defaultListLimit = 100

// Service defines the interface for project operations.
type Service interface {
	CreateProject(ctx context.Context, name, description, organization string) (*models.Project, error)
	GetProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error)
	ListProjects(ctx context.Context, offset, limit int) ([]service.Summary, error)
	UpdateProject(ctx context.Context, projectID id.ProjectID, update models.Update) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID id.ProjectID) error
}

// Handler wires project endpoints to the project service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a project handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts project endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{projectID}", h.HandleGet)
		r.Patch("/{projectID}", h.HandleUpdate)
		r.Delete("/{projectID}", h.HandleDelete)
	})
}

// HandleCreate handles POST /projects.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateProjectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	project, err := h.service.CreateProject(ctx, req.Name, req.Description, req.Organization)
	if err != nil {
		h.logger.ErrorContext(ctx, "project creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromProject(project))
}

// HandleList handles GET /projects with offset/limit pagination.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", defaultListLimit)

	summaries, err := h.service.ListProjects(ctx, offset, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "project listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromSummaries(summaries))
}

// HandleGet handles GET /projects/{projectID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	project, err := h.service.GetProject(ctx, projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromProject(project))
}

// HandleUpdate handles PATCH /projects/{projectID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateProjectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	project, err := h.service.UpdateProject(ctx, projectID, req.Update())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromProject(project))
}

// HandleDelete handles DELETE /projects/{projectID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteProject(ctx, projectID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
