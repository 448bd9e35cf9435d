package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// Completed assessments and their verdicts must be reconstructable years
	// later, so these require tamper-proof storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility. These can be sampled with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// Actor is who performed the action, from the authenticated request.
	Actor string
	// Subject is the resource the action applied to (project or assessment ID).
	Subject string
	Action  string
	// Outcome records the result of the action when one exists, such as the
	// risk level a completed assessment was classified at.
	Outcome string
	Reason  string
	// RequestID is the correlation ID from HTTP request context.
	RequestID string
}

type AuditEvent string

const (
	// Project events
	EventProjectCreated AuditEvent = "project_created"
	EventProjectUpdated AuditEvent = "project_updated"
	EventProjectDeleted AuditEvent = "project_deleted"

	// Assessment events
	EventAssessmentCreated   AuditEvent = "assessment_created"
	EventAnswerSubmitted     AuditEvent = "answer_submitted"
	EventAssessmentCompleted AuditEvent = "assessment_completed"
	EventReportGenerated     AuditEvent = "report_generated"
)

// eventCategories maps each audit event to its category.
// Compliance: legal/regulatory significance, long retention required.
// Operations: debugging, operational visibility, can be sampled.
var eventCategories = map[AuditEvent]EventCategory{
	// The completion verdict and the deletion of assessed systems are the
	// events a regulator would ask for.
	EventAssessmentCompleted: CategoryCompliance,
	EventProjectDeleted:      CategoryCompliance,

	EventProjectCreated:    CategoryOperations,
	EventProjectUpdated:    CategoryOperations,
	EventAssessmentCreated: CategoryOperations,
	EventAnswerSubmitted:   CategoryOperations,
	EventReportGenerated:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Implementations: in-memory for tests and
// single-node dev, PostgreSQL outbox for production.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
