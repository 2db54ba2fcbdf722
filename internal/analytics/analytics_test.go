package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortref/internal/analytics"
	"github.com/serroba/shortref/internal/analytics/store"
	"github.com/serroba/shortref/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

// blockingTracker holds every Record until release is closed.
type blockingTracker struct {
	release chan struct{}
	mu      sync.Mutex
	codes   []shortener.Code
	err     error
}

func (b *blockingTracker) Record(_ context.Context, code shortener.Code, _ shortener.Access) error {
	<-b.release

	b.mu.Lock()
	defer b.mu.Unlock()

	b.codes = append(b.codes, code)

	return b.err
}

func (b *blockingTracker) recorded() []shortener.Code {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]shortener.Code(nil), b.codes...)
}

func TestAccessEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	access := shortener.Access{ID: "id-1", At: at, Referrer: "r", ClientIP: "10.0.0.1", UserAgent: "ua"}

	event := analytics.NewAccessEvent("abc", access)

	assert.Equal(t, "abc", event.Code)
	assert.Equal(t, at, event.AccessedAt)

	back := event.Access()
	assert.Equal(t, shortener.Code("abc"), back.Code)
	assert.Equal(t, "id-1", back.ID)
	assert.Equal(t, "10.0.0.1", back.ClientIP)
}

func TestPublishingTracker(t *testing.T) {
	t.Run("publishes access event", func(t *testing.T) {
		pub := &mockPublisher{}
		tracker := analytics.NewPublishingTracker(pub)

		err := tracker.Record(context.Background(), "abc", shortener.Access{ID: "id-1", Referrer: "r"})

		require.NoError(t, err)
		assert.Equal(t, analytics.TopicAccessed, pub.topic)
		require.Len(t, pub.messages, 1)

		var event analytics.AccessEvent
		require.NoError(t, json.Unmarshal(pub.messages[0].Payload, &event))
		assert.Equal(t, "abc", event.Code)
		assert.Equal(t, "id-1", event.ID)
		assert.Equal(t, "r", event.Referrer)
	})

	t.Run("returns publish error", func(t *testing.T) {
		cause := errors.New("broker down")
		tracker := analytics.NewPublishingTracker(&mockPublisher{publishErr: cause})

		err := tracker.Record(context.Background(), "abc", shortener.Access{})

		assert.ErrorIs(t, err, cause)
	})
}

func TestAsyncTracker(t *testing.T) {
	t.Run("records in background and drains on shutdown", func(t *testing.T) {
		log := store.NewMemory()
		tracker := analytics.NewAsyncTracker(log, 16, zap.NewNop())

		for range 5 {
			require.NoError(t, tracker.Record(context.Background(), "abc", shortener.Access{}))
		}

		require.NoError(t, tracker.Shutdown())

		accesses, _ := log.Accesses(context.Background(), "abc")
		assert.Len(t, accesses, 5)
		assert.Equal(t, int64(5), tracker.Recorded())
		assert.Zero(t, tracker.Dropped())
	})

	t.Run("drops when queue is full", func(t *testing.T) {
		next := &blockingTracker{release: make(chan struct{})}
		tracker := analytics.NewAsyncTracker(next, 1, zap.NewNop())

		// One in flight at the worker, at most one queued; the rest must drop.
		for range 10 {
			require.NoError(t, tracker.Record(context.Background(), "abc", shortener.Access{}))
		}

		assert.GreaterOrEqual(t, tracker.Dropped(), int64(8))

		close(next.release)
		require.NoError(t, tracker.Shutdown())

		assert.Equal(t, int64(10), tracker.Dropped()+tracker.Recorded())
	})

	t.Run("record never blocks on a stuck tracker", func(t *testing.T) {
		next := &blockingTracker{release: make(chan struct{})}
		tracker := analytics.NewAsyncTracker(next, 1, zap.NewNop())

		done := make(chan struct{})

		go func() {
			for range 100 {
				_ = tracker.Record(context.Background(), "abc", shortener.Access{})
			}

			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("record blocked")
		}

		close(next.release)
		_ = tracker.Shutdown()
	})

	t.Run("underlying failures are not recorded", func(t *testing.T) {
		next := &blockingTracker{release: make(chan struct{}), err: errors.New("db down")}
		close(next.release)
		tracker := analytics.NewAsyncTracker(next, 4, zap.NewNop())

		_ = tracker.Record(context.Background(), "abc", shortener.Access{})
		require.NoError(t, tracker.Shutdown())

		assert.Len(t, next.recorded(), 1)
		assert.Zero(t, tracker.Recorded())
	})

	t.Run("rejects records after shutdown", func(t *testing.T) {
		tracker := analytics.NewAsyncTracker(store.NewMemory(), 0, zap.NewNop())

		require.NoError(t, tracker.Shutdown())
		require.NoError(t, tracker.Shutdown())

		err := tracker.Record(context.Background(), "abc", shortener.Access{})
		assert.ErrorIs(t, err, analytics.ErrTrackerStopped)
	})
}

type failingLog struct {
	shortener.AccessLog
	err error
}

func (f failingLog) Record(context.Context, shortener.Code, shortener.Access) error {
	return f.err
}

func TestAccessHandler(t *testing.T) {
	t.Run("persists the event", func(t *testing.T) {
		log := store.NewMemory()
		handle := analytics.NewAccessHandler(log)

		err := handle(context.Background(), &analytics.AccessEvent{ID: "1", Code: "abc", UserAgent: "ua"})

		require.NoError(t, err)

		accesses, _ := log.Accesses(context.Background(), "abc")
		require.Len(t, accesses, 1)
		assert.Equal(t, "ua", accesses[0].UserAgent)
	})

	t.Run("returns log errors for redelivery", func(t *testing.T) {
		cause := errors.New("db down")
		handle := analytics.NewAccessHandler(failingLog{err: cause})

		err := handle(context.Background(), &analytics.AccessEvent{ID: "1", Code: "abc"})

		assert.ErrorIs(t, err, cause)
	})
}
