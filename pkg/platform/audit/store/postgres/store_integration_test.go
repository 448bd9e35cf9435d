//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"conform/pkg/platform/audit"
	"conform/pkg/platform/audit/store/postgres"
	"conform/pkg/platform/tx"
	"conform/pkg/testutil/containers"
)

type OutboxStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestOutboxStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OutboxStoreSuite))
}

func (s *OutboxStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *OutboxStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "audit_outbox", "audit_events")
	s.Require().NoError(err)
}

func (s *OutboxStoreSuite) pendingOutboxRows() int {
	var count int
	err := s.postgres.DB.QueryRow(
		`SELECT COUNT(*) FROM audit_outbox WHERE published_at IS NULL`).Scan(&count)
	s.Require().NoError(err)
	return count
}

func (s *OutboxStoreSuite) TestAppendWritesOutboxRow() {
	ctx := context.Background()
	subject := uuid.NewString()

	err := s.store.Append(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Actor:     "auditor@example.com",
		Subject:   subject,
		Action:    string(audit.EventAssessmentCompleted),
		Outcome:   "high",
		RequestID: "req-123",
	})
	s.Require().NoError(err)

	var (
		aggregateType string
		aggregateID   string
		eventType     string
		rawPayload    []byte
	)
	err = s.postgres.DB.QueryRow(
		`SELECT aggregate_type, aggregate_id, event_type, payload FROM audit_outbox`).
		Scan(&aggregateType, &aggregateID, &eventType, &rawPayload)
	s.Require().NoError(err)

	s.Equal("resource", aggregateType)
	s.Equal(subject, aggregateID)
	s.Equal(string(audit.EventAssessmentCompleted), eventType)

	var payload map[string]any
	s.Require().NoError(json.Unmarshal(rawPayload, &payload))
	s.Equal(string(audit.CategoryCompliance), payload["Category"])
	s.Equal("auditor@example.com", payload["Actor"])
	s.Equal("high", payload["Outcome"])
}

func (s *OutboxStoreSuite) TestAppendRidesEnclosingTransaction() {
	ctx := context.Background()
	runner := tx.NewSQLRunner(s.postgres.DB)

	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		return s.store.Append(ctx, audit.Event{
			Timestamp: time.Now().UTC(),
			Subject:   uuid.NewString(),
			Action:    string(audit.EventProjectCreated),
		})
	})
	s.Require().NoError(err)
	s.Equal(1, s.pendingOutboxRows())
}

func (s *OutboxStoreSuite) TestAppendRollsBackWithTransaction() {
	ctx := context.Background()
	runner := tx.NewSQLRunner(s.postgres.DB)

	boom := errors.New("domain write failed")
	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Append(ctx, audit.Event{
			Timestamp: time.Now().UTC(),
			Subject:   uuid.NewString(),
			Action:    string(audit.EventProjectCreated),
		}); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)
	s.Equal(0, s.pendingOutboxRows())
}

func (s *OutboxStoreSuite) TestListBySubjectReadsMaterializedTrail() {
	ctx := context.Background()
	subject := uuid.NewString()

	insert := `
		INSERT INTO audit_events (id, category, timestamp, actor, subject, action, outcome, reason, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	base := time.Now().UTC().Truncate(time.Microsecond)
	_, err := s.postgres.DB.Exec(insert,
		uuid.New(), string(audit.CategoryOperations), base, "auditor@example.com", subject,
		string(audit.EventProjectCreated), "", "", "req-1")
	s.Require().NoError(err)
	_, err = s.postgres.DB.Exec(insert,
		uuid.New(), string(audit.CategoryCompliance), base.Add(time.Second), "auditor@example.com", subject,
		string(audit.EventAssessmentCompleted), "high", "", "req-2")
	s.Require().NoError(err)

	events, err := s.store.ListBySubject(ctx, subject)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	// Most recent first.
	s.Equal(string(audit.EventAssessmentCompleted), events[0].Action)
	s.Equal(audit.CategoryCompliance, events[0].Category)
	s.Equal(string(audit.EventProjectCreated), events[1].Action)

	recent, err := s.store.ListRecent(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal("high", recent[0].Outcome)
}
