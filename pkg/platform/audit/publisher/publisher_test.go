package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	audit "conform/pkg/platform/audit"
	"conform/pkg/platform/audit/store/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	subject := uuid.NewString()
	event := audit.Event{
		Subject: subject,
		Action:  string(audit.EventAssessmentCreated),
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.List(context.Background(), subject)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventAssessmentCreated), events[0].Action)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))
	defer pub.Close()

	subject := uuid.NewString()
	event := audit.Event{
		Subject: subject,
		Action:  string(audit.EventAnswerSubmitted),
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	// Wait for async processing
	time.Sleep(100 * time.Millisecond)

	events, err := pub.List(context.Background(), subject)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventAnswerSubmitted), events[0].Action)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	subject := uuid.NewString()

	for range 10 {
		event := audit.Event{
			Subject: subject,
			Action:  string(audit.EventAnswerSubmitted),
		}
		err := pub.Emit(context.Background(), event)
		require.NoError(t, err)
	}

	// Close should drain all events
	pub.Close()

	events, err := store.ListBySubject(context.Background(), subject)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_BufferFull_DropsEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	subject := uuid.NewString()

	// Fill the buffer with concurrent writes
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			event := audit.Event{
				Subject: subject,
				Action:  string(audit.EventAnswerSubmitted),
			}
			_ = pub.Emit(context.Background(), event)
		}()
	}
	wg.Wait()

	// Some events may be dropped (buffer size 1); the publisher must stay
	// usable either way.
	err := pub.Emit(context.Background(), audit.Event{
		Subject: subject,
		Action:  string(audit.EventAnswerSubmitted),
	})
	require.NoError(t, err)
}

func TestPublisher_SetsTimestampAndCategory(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	subject := uuid.NewString()
	err := pub.Emit(context.Background(), audit.Event{
		Subject: subject,
		Action:  string(audit.EventAssessmentCompleted),
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), subject)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
}

func TestAuditEvent_Category(t *testing.T) {
	assert.Equal(t, audit.CategoryCompliance, audit.EventAssessmentCompleted.Category())
	assert.Equal(t, audit.CategoryCompliance, audit.EventProjectDeleted.Category())
	assert.Equal(t, audit.CategoryOperations, audit.EventAnswerSubmitted.Category())
	assert.Equal(t, audit.CategoryOperations, audit.AuditEvent("something_new").Category())
}
