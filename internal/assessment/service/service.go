// Package service orchestrates the assessment lifecycle: creation, answer
// capture, rule evaluation on completion, and report generation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"conform/internal/assessment/metrics"
	"conform/internal/assessment/models"
	"conform/internal/compliance"
	projectmodels "conform/internal/project/models"
	id "conform/pkg/domain"
	dErrors "conform/pkg/domain-errors"
	"conform/pkg/platform/audit"
	"conform/pkg/platform/sentinel"
	"conform/pkg/platform/tx"
	"conform/pkg/requestcontext"
)

// Store persists assessments with their answers and flags.
type Store interface {
	CreateAssessment(ctx context.Context, assessment *models.Assessment) error
	GetAssessment(ctx context.Context, assessmentID id.AssessmentID) (*models.Assessment, error)
	ListAssessments(ctx context.Context, projectID id.ProjectID) ([]*models.Assessment, error)
	UpdateAssessment(ctx context.Context, assessment *models.Assessment) error
	CountByProject(ctx context.Context, projectID id.ProjectID) (int, error)
	DeleteByProject(ctx context.Context, projectID id.ProjectID) error
	UpsertAnswer(ctx context.Context, answer *models.Answer) error
	ListAnswers(ctx context.Context, assessmentID id.AssessmentID) ([]models.Answer, error)
	ReplaceFlags(ctx context.Context, assessmentID id.AssessmentID, flags []models.RegulatoryFlag) error
	ListFlags(ctx context.Context, assessmentID id.AssessmentID) ([]models.RegulatoryFlag, error)
}

// ProjectStore is the slice of the project feature this service needs.
type ProjectStore interface {
	FindByID(ctx context.Context, projectID id.ProjectID) (*projectmodels.Project, error)
}

// Engine evaluates answers against the rule catalogue.
// Implemented by *compliance.Engine.
type Engine interface {
	EvaluateAssessment(ctx context.Context, answers compliance.AnswerSet) (compliance.RiskLevel, []compliance.RuleResult, error)
	TriggeredRules(results []compliance.RuleResult) []compliance.RuleResult
	GenerateReport(riskLevel compliance.RiskLevel, results []compliance.RuleResult) *compliance.Report
}

// AuditPublisher records assessment lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// ReportCache caches serialized reports for completed assessments.
// Implementations return sentinel.ErrNotFound on a miss.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// AnswerInput is one question/value pair for batch submission.
type AnswerInput struct {
	QuestionID string
	Value      any
}

// Service manages assessments.
type Service struct {
	store    Store
	projects ProjectStore
	engine   Engine

	logger   *slog.Logger
	metrics  *metrics.Metrics
	auditor  AuditPublisher
	cache    ReportCache
	cacheTTL time.Duration
	tx       tx.Runner
	tracer   trace.Tracer
}

// Option configures the service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithReportCache(cache ReportCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithTx(runner tx.Runner) Option {
	return func(s *Service) { s.tx = runner }
}

func New(store Store, projects ProjectStore, engine Engine, opts ...Option) *Service {
	s := &Service{
		store:    store,
		projects: projects,
		engine:   engine,
		logger:   slog.Default(),
		tx:       tx.NoopRunner{},
		tracer:   otel.Tracer("conform/assessment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAssessment opens a new draft assessment for an existing project.
func (s *Service) CreateAssessment(ctx context.Context, projectID id.ProjectID, title string) (*models.Assessment, error) {
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "project not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify project")
	}

	assessment, err := models.NewAssessment(id.AssessmentID(uuid.New()), projectID, title, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateAssessment(txCtx, assessment); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create assessment")
		}
		return s.emit(txCtx, audit.EventAssessmentCreated, assessment.ID.String(), "")
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCreated()
	s.logger.InfoContext(ctx, "assessment created",
		"assessment_id", assessment.ID,
		"project_id", projectID,
	)
	return assessment, nil
}

// GetAssessment fetches one assessment.
func (s *Service) GetAssessment(ctx context.Context, assessmentID id.AssessmentID) (*models.Assessment, error) {
	if assessmentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "assessment id is required")
	}
	assessment, err := s.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, wrapAssessmentErr(err)
	}
	return assessment, nil
}

// ListAssessments lists assessments, optionally filtered to one project.
func (s *Service) ListAssessments(ctx context.Context, projectID id.ProjectID) ([]*models.Assessment, error) {
	assessments, err := s.store.ListAssessments(ctx, projectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assessments")
	}
	return assessments, nil
}

// SaveAnswer records or updates one answer. The first answer moves a draft
// to in_progress. Completed and archived assessments reject answers.
func (s *Service) SaveAnswer(ctx context.Context, assessmentID id.AssessmentID, questionID string, value any) (*models.Answer, error) {
	answers, err := s.SaveAnswers(ctx, assessmentID, []AnswerInput{{QuestionID: questionID, Value: value}})
	if err != nil {
		return nil, err
	}
	return answers[0], nil
}

// SaveAnswers records a batch of answers atomically.
func (s *Service) SaveAnswers(ctx context.Context, assessmentID id.AssessmentID, inputs []AnswerInput) ([]*models.Answer, error) {
	if assessmentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "assessment id is required")
	}
	if len(inputs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one answer is required")
	}

	now := requestcontext.Now(ctx)
	var saved []*models.Answer
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		assessment, err := s.store.GetAssessment(txCtx, assessmentID)
		if err != nil {
			return wrapAssessmentErr(err)
		}
		if err := assessment.CanAcceptAnswers(); err != nil {
			return err
		}

		saved = saved[:0]
		for _, input := range inputs {
			answer, err := models.NewAnswer(assessmentID, input.QuestionID, input.Value, now)
			if err != nil {
				return err
			}
			if err := s.store.UpsertAnswer(txCtx, answer); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save answer")
			}
			saved = append(saved, answer)
		}

		if assessment.Status == models.StatusDraft {
			assessment.MarkInProgress(now)
			if err := s.store.UpdateAssessment(txCtx, assessment); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update assessment status")
			}
		}

		return s.emit(txCtx, audit.EventAnswerSubmitted, assessmentID.String(), "")
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// CompleteAssessment evaluates all saved answers against the rule catalogue,
// persists regulatory flags for triggered rules, and freezes the assessment
// with its verdict. Completing an already-completed assessment returns the
// stored result unchanged.
func (s *Service) CompleteAssessment(ctx context.Context, assessmentID id.AssessmentID) (*models.Assessment, error) {
	if assessmentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "assessment id is required")
	}

	ctx, span := s.tracer.Start(ctx, "assessment.complete")
	defer span.End()

	start := time.Now()
	now := requestcontext.Now(ctx)

	var completed *models.Assessment
	var flagCount int
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		assessment, err := s.store.GetAssessment(txCtx, assessmentID)
		if err != nil {
			return wrapAssessmentErr(err)
		}
		if assessment.IsCompleted() {
			s.logger.WarnContext(txCtx, "assessment already completed", "assessment_id", assessmentID)
			completed = assessment
			return nil
		}
		if err := assessment.CanComplete(); err != nil {
			return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
		}

		answers, err := s.store.ListAnswers(txCtx, assessmentID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load answers")
		}
		if len(answers) == 0 {
			return dErrors.New(dErrors.CodeValidation, "cannot complete assessment without answers")
		}

		riskLevel, results, err := s.engine.EvaluateAssessment(txCtx, answerSet(answers))
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "rule evaluation failed")
		}

		triggered := s.engine.TriggeredRules(results)
		flags := make([]models.RegulatoryFlag, 0, len(triggered))
		for _, result := range triggered {
			flags = append(flags, models.FlagFromRule(assessmentID, result.Rule, now))
		}
		if err := s.store.ReplaceFlags(txCtx, assessmentID, flags); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist regulatory flags")
		}
		flagCount = len(flags)

		assessment.ApplyCompletion(string(riskLevel), now)
		if err := s.store.UpdateAssessment(txCtx, assessment); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to complete assessment")
		}

		completed = assessment
		return s.emit(txCtx, audit.EventAssessmentCompleted, assessmentID.String(), string(riskLevel))
	})
	if err != nil {
		return nil, err
	}

	if completed.CompletedAt != nil && completed.CompletedAt.Equal(now) {
		s.metrics.IncrementCompleted(completed.RiskLevel)
		s.metrics.AddFlagsRaised(flagCount)
		s.metrics.ObserveCompletionLatency(time.Since(start).Seconds())
		s.logger.InfoContext(ctx, "assessment completed",
			"assessment_id", assessmentID,
			"risk_level", completed.RiskLevel,
			"flags_raised", flagCount,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return completed, nil
}

// answerSet converts stored answers into the engine's evaluation input.
func answerSet(answers []models.Answer) compliance.AnswerSet {
	set := make(compliance.AnswerSet, len(answers))
	for i := range answers {
		set[answers[i].QuestionID] = answers[i].EvaluationValue()
	}
	return set
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, subject, outcome string) error {
	if s.auditor == nil {
		return nil
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Actor:     requestcontext.Actor(ctx),
		Subject:   subject,
		Action:    string(action),
		Outcome:   outcome,
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func wrapAssessmentErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "assessment not found")
	}
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "assessment store failure")
}
