// Package handler exposes the assessment lifecycle over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"conform/internal/assessment/models"
	"conform/internal/assessment/service"
	id "conform/pkg/domain"
	"conform/pkg/platform/httputil"
	"conform/pkg/requestcontext"
)

// Service defines the interface for assessment operations.
type Service interface {
	CreateAssessment(ctx context.Context, projectID id.ProjectID, title string) (*models.Assessment, error)
	GetAssessment(ctx context.Context, assessmentID id.AssessmentID) (*models.Assessment, error)
	ListAssessments(ctx context.Context, projectID id.ProjectID) ([]*models.Assessment, error)
	SaveAnswer(ctx context.Context, assessmentID id.AssessmentID, questionID string, value any) (*models.Answer, error)
	SaveAnswers(ctx context.Context, assessmentID id.AssessmentID, inputs []service.AnswerInput) ([]*models.Answer, error)
	CompleteAssessment(ctx context.Context, assessmentID id.AssessmentID) (*models.Assessment, error)
	GetReport(ctx context.Context, assessmentID id.AssessmentID) (*service.Report, error)
}

// Handler wires assessment endpoints to the assessment service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an assessment handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts assessment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/assessments", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{assessmentID}", h.HandleGet)
		r.Post("/{assessmentID}/answers", h.HandleSubmitAnswer)
		r.Post("/{assessmentID}/answers/batch", h.HandleSubmitAnswersBatch)
		r.Post("/{assessmentID}/complete", h.HandleComplete)
		r.Get("/{assessmentID}/report", h.HandleReport)
	})
}

// HandleCreate handles POST /assessments.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateAssessmentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	assessment, err := h.service.CreateAssessment(ctx, req.ParsedProjectID(), req.Title)
	if err != nil {
		h.logger.ErrorContext(ctx, "assessment creation failed",
			"request_id", requestID,
			"project_id", req.ProjectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromAssessment(assessment))
}

// HandleList handles GET /assessments, optionally filtered by project_id.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var projectID id.ProjectID
	if raw := strings.TrimSpace(r.URL.Query().Get("project_id")); raw != "" {
		parsed, err := id.ParseProjectID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		projectID = parsed
	}

	assessments, err := h.service.ListAssessments(ctx, projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAssessments(assessments))
}

// HandleGet handles GET /assessments/{assessmentID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	assessmentID, err := id.ParseAssessmentID(chi.URLParam(r, "assessmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	assessment, err := h.service.GetAssessment(r.Context(), assessmentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAssessment(assessment))
}

// HandleSubmitAnswer handles POST /assessments/{assessmentID}/answers.
func (h *Handler) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	assessmentID, err := id.ParseAssessmentID(chi.URLParam(r, "assessmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitAnswerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	answer, err := h.service.SaveAnswer(ctx, assessmentID, req.QuestionID, req.Value)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromAnswer(answer))
}

// HandleSubmitAnswersBatch handles POST /assessments/{assessmentID}/answers/batch.
func (h *Handler) HandleSubmitAnswersBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	assessmentID, err := id.ParseAssessmentID(chi.URLParam(r, "assessmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitAnswersBatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	answers, err := h.service.SaveAnswers(ctx, assessmentID, req.Inputs())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromAnswers(answers))
}

// HandleComplete handles POST /assessments/{assessmentID}/complete.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	assessmentID, err := id.ParseAssessmentID(chi.URLParam(r, "assessmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	assessment, err := h.service.CompleteAssessment(ctx, assessmentID)
	if err != nil {
		h.logger.ErrorContext(ctx, "assessment completion failed",
			"request_id", requestID,
			"assessment_id", assessmentID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAssessment(assessment))
}

// HandleReport handles GET /assessments/{assessmentID}/report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	assessmentID, err := id.ParseAssessmentID(chi.URLParam(r, "assessmentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.GetReport(r.Context(), assessmentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}
