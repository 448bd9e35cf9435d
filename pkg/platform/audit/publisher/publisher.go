// Package publisher emits audit events to a store, synchronously by default
// or through a buffered channel when loss of operational events is acceptable.
package publisher

import (
	"context"
	"sync"
	"time"

	audit "conform/pkg/platform/audit"
)

// Publisher writes audit events to its store. In sync mode Emit fails closed:
// a store error propagates to the caller and the surrounding transaction.
// In async mode events are buffered and a full buffer drops the event, so
// async mode is only appropriate for operations-category events.
type Publisher struct {
	store audit.Store

	inbox     chan audit.Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Option configures a Publisher.
type Option func(*config)

type config struct {
	bufferSize int
}

// WithAsyncBuffer enables asynchronous publishing with the given buffer size.
func WithAsyncBuffer(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// NewPublisher constructs a publisher over the given store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	p := &Publisher{store: store}
	if cfg.bufferSize > 0 {
		p.inbox = make(chan audit.Event, cfg.bufferSize)
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit publishes an audit event. The timestamp is stamped here when the
// caller left it zero, so stores and consumers can rely on it being set.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
	default:
		// Buffer full. Dropping beats blocking the request path.
	}
	return nil
}

// List returns the audit trail for a subject.
func (p *Publisher) List(ctx context.Context, subject string) ([]audit.Event, error) {
	return p.store.ListBySubject(ctx, subject)
}

// Close stops async processing after draining buffered events.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.inbox {
		// Detached from the request context on purpose: the request may be
		// long gone by the time the event is persisted.
		_ = p.store.Append(context.Background(), event)
	}
}
