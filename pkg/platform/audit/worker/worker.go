// Package worker relays audit events from the PostgreSQL outbox to Kafka.
// Kafka is the source of truth for the audit trail; the outbox only exists so
// the event and the domain write commit atomically.
package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	defaultPollInterval = time.Second
	defaultBatchSize    = 100
)

// Worker polls the outbox table and publishes pending entries to Kafka.
type Worker struct {
	db     *sql.DB
	client *kgo.Client
	topic  string
	logger *slog.Logger

	pollInterval time.Duration
	batchSize    int
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the worker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithPollInterval overrides how often the outbox is polled.
func WithPollInterval(d time.Duration) Option {
	return func(w *Worker) { w.pollInterval = d }
}

// WithBatchSize overrides how many entries are claimed per poll.
func WithBatchSize(n int) Option {
	return func(w *Worker) { w.batchSize = n }
}

// New constructs an outbox worker.
func New(db *sql.DB, client *kgo.Client, topic string, opts ...Option) *Worker {
	w := &Worker{
		db:           db,
		client:       client,
		topic:        topic,
		logger:       slog.Default(),
		pollInterval: defaultPollInterval,
		batchSize:    defaultBatchSize,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EnsureTopic creates the audit topic if it does not exist yet.
func (w *Worker) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(w.client)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, w.topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Run polls the outbox until the context is cancelled. Publish failures are
// logged and retried on the next tick; entries stay in the outbox until they
// reach Kafka.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			published, err := w.publishBatch(ctx)
			if err != nil {
				w.logger.ErrorContext(ctx, "outbox publish failed", "error", err)
				continue
			}
			if published > 0 {
				w.logger.DebugContext(ctx, "published outbox entries", "count", published)
			}
		}
	}
}

type outboxEntry struct {
	id          string
	aggregateID string
	payload     []byte
}

// publishBatch claims a batch of unpublished entries, produces them to Kafka,
// and marks them published in the same transaction. SKIP LOCKED lets multiple
// workers run without stepping on each other.
func (w *Worker) publishBatch(ctx context.Context) (int, error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_id, payload
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("claim outbox entries: %w", err)
	}

	var entries []outboxEntry
	for rows.Next() {
		var e outboxEntry
		if err := rows.Scan(&e.id, &e.aggregateID, &e.payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate outbox entries: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	for _, e := range entries {
		record := &kgo.Record{
			Topic: w.topic,
			// Keyed by aggregate so one resource's trail stays ordered
			// within a partition.
			Key:   []byte(e.aggregateID),
			Value: e.payload,
		}
		if err := w.client.ProduceSync(ctx, record).FirstErr(); err != nil {
			return 0, fmt.Errorf("produce outbox entry %s: %w", e.id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE audit_outbox SET published_at = $1 WHERE id = $2`,
			time.Now(), e.id,
		); err != nil {
			return 0, fmt.Errorf("mark outbox entry published: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox tx: %w", err)
	}
	return len(entries), nil
}
