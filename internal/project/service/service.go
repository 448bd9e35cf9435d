// Package service orchestrates project lifecycle management for assessed
// AI systems.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"conform/internal/project/models"
	id "conform/pkg/domain"
	dErrors "conform/pkg/domain-errors"
	"conform/pkg/platform/audit"
	"conform/pkg/platform/sentinel"
	"conform/pkg/platform/tx"
	"conform/pkg/requestcontext"
)

// Store persists projects. Implemented by the memory and postgres stores.
type Store interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, projectID id.ProjectID) (*models.Project, error)
	List(ctx context.Context, offset, limit int) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, projectID id.ProjectID) error
}

// AssessmentDirectory is the slice of the assessment feature this service
// needs: counting for listings and sweeping on project deletion.
type AssessmentDirectory interface {
	CountByProject(ctx context.Context, projectID id.ProjectID) (int, error)
	DeleteByProject(ctx context.Context, projectID id.ProjectID) error
}

// AuditPublisher records project lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Summary is a project with its assessment count, as returned by listings.
type Summary struct {
	Project         *models.Project
	AssessmentCount int
}

// Service manages projects.
type Service struct {
	store       Store
	assessments AssessmentDirectory
	auditor     AuditPublisher
	logger      *slog.Logger
	tx          tx.Runner
}

// Option configures the service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAssessments(dir AssessmentDirectory) Option {
	return func(s *Service) { s.assessments = dir }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithTx(runner tx.Runner) Option {
	return func(s *Service) { s.tx = runner }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tx:     tx.NoopRunner{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateProject(ctx context.Context, name, description, organization string) (*models.Project, error) {
	project, err := models.NewProject(id.ProjectID(uuid.New()), name, description, organization, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.Create(txCtx, project); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create project")
		}
		return s.emit(txCtx, audit.EventProjectCreated, project.ID.String(), "")
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "project created",
		"project_id", project.ID,
		"name", project.Name,
	)
	return project, nil
}

func (s *Service) GetProject(ctx context.Context, projectID id.ProjectID) (*models.Project, error) {
	if projectID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "project id is required")
	}
	project, err := s.store.FindByID(ctx, projectID)
	if err != nil {
		return nil, wrapProjectErr(err)
	}
	return project, nil
}

func (s *Service) ListProjects(ctx context.Context, offset, limit int) ([]Summary, error) {
	projects, err := s.store.List(ctx, offset, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list projects")
	}

	summaries := make([]Summary, 0, len(projects))
	for _, project := range projects {
		summary := Summary{Project: project}
		if s.assessments != nil {
			count, err := s.assessments.CountByProject(ctx, project.ID)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count assessments")
			}
			summary.AssessmentCount = count
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Service) UpdateProject(ctx context.Context, projectID id.ProjectID, update models.Update) (*models.Project, error) {
	if projectID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "project id is required")
	}

	var project *models.Project
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.store.FindByID(txCtx, projectID)
		if err != nil {
			return wrapProjectErr(err)
		}
		if err := p.ApplyUpdate(update, requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.store.Update(txCtx, p); err != nil {
			return wrapProjectErr(err)
		}
		if err := s.emit(txCtx, audit.EventProjectUpdated, p.ID.String(), ""); err != nil {
			return err
		}
		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project and everything assessed under it. The
// assessment sweep and the audit record commit with the delete or not at all.
func (s *Service) DeleteProject(ctx context.Context, projectID id.ProjectID) error {
	if projectID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "project id is required")
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if s.assessments != nil {
			if err := s.assessments.DeleteByProject(txCtx, projectID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete project assessments")
			}
		}
		if err := s.store.Delete(txCtx, projectID); err != nil {
			return wrapProjectErr(err)
		}
		return s.emit(txCtx, audit.EventProjectDeleted, projectID.String(), "")
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "project deleted", "project_id", projectID)
	return nil
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

func wrapProjectErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "project not found")
	}
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "project store failure")
}
