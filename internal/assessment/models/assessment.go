package models

import (
	"strings"
	"time"
	"unicode/utf8"

	id "conform/pkg/domain"
	dErrors "conform/pkg/domain-errors"
)

const maxTitleLength = 255

// Status tracks an assessment through its workflow:
// draft → in_progress → completed, with archived for retired records.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// Assessment is one compliance evaluation session for a project. A project
// can be assessed multiple times, for example after system changes.
type Assessment struct {
	ID        id.AssessmentID
	ProjectID id.ProjectID
	Title     string
	Status    Status
	// RiskLevel holds the overall verdict once completed, empty before.
	RiskLevel   string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAssessment validates inputs and constructs a draft assessment.
func NewAssessment(assessmentID id.AssessmentID, projectID id.ProjectID, title string, now time.Time) (*Assessment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "assessment title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, dErrors.New(dErrors.CodeValidation, "assessment title must be at most 255 characters")
	}
	if projectID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "project id is required")
	}
	return &Assessment{
		ID:        assessmentID,
		ProjectID: projectID,
		Title:     title,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanAcceptAnswers reports whether answers may still be saved.
func (a *Assessment) CanAcceptAnswers() error {
	switch a.Status {
	case StatusCompleted:
		return dErrors.New(dErrors.CodeConflict, "cannot modify completed assessment")
	case StatusArchived:
		return dErrors.New(dErrors.CodeConflict, "cannot modify archived assessment")
	}
	return nil
}

// MarkInProgress moves a draft to in_progress on the first saved answer.
func (a *Assessment) MarkInProgress(now time.Time) {
	if a.Status == StatusDraft {
		a.Status = StatusInProgress
		a.UpdatedAt = now
	}
}

// CanComplete reports whether completion may run. A completed assessment is
// not an error here; completion is idempotent and the caller short-circuits.
func (a *Assessment) CanComplete() error {
	if a.Status == StatusArchived {
		return dErrors.New(dErrors.CodeInvariantViolation, "cannot complete archived assessment")
	}
	return nil
}

// IsCompleted reports whether the verdict has been recorded.
func (a *Assessment) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// ApplyCompletion records the evaluation verdict and freezes the assessment.
func (a *Assessment) ApplyCompletion(riskLevel string, now time.Time) {
	a.RiskLevel = riskLevel
	a.Status = StatusCompleted
	a.CompletedAt = &now
	a.UpdatedAt = now
}
