// Package domain defines typed identifiers shared across features.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment (passing a ProjectID where an AssessmentID is expected).
package domain

import (
	"github.com/google/uuid"

	dErrors "conform/pkg/domain-errors"
)

// ProjectID identifies an AI system under assessment.
type ProjectID uuid.UUID

// AssessmentID identifies a single compliance evaluation session.
type AssessmentID uuid.UUID

func (id ProjectID) String() string    { return uuid.UUID(id).String() }
func (id AssessmentID) String() string { return uuid.UUID(id).String() }

func (id ProjectID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id AssessmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseProjectID parses and validates a project ID from its string form.
// IDs must be valid, non-nil UUIDs.
func ParseProjectID(s string) (ProjectID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ProjectID{}, err
	}
	return ProjectID(u), nil
}

// ParseAssessmentID parses and validates an assessment ID from its string form.
func ParseAssessmentID(s string) (AssessmentID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return AssessmentID{}, err
	}
	return AssessmentID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}
