package analytics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/serroba/shortref/internal/shortener"
	"go.uber.org/zap"
)

// DefaultBuffer is the queue size used when NewAsyncTracker gets a
// non-positive buffer.
const DefaultBuffer = 1024

// ErrTrackerStopped is returned by Record after Shutdown.
var ErrTrackerStopped = errors.New("tracker stopped")

type pending struct {
	code   shortener.Code
	access shortener.Access
}

// AsyncTracker queues accesses and records them on a single worker, so
// resolution never waits for the underlying tracker. Accesses arriving while
// the queue is full are dropped and counted.
type AsyncTracker struct {
	next   shortener.Tracker
	logger *zap.Logger
	queue  chan pending

	dropped  atomic.Int64
	recorded atomic.Int64

	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
	done     chan struct{}
}

func NewAsyncTracker(next shortener.Tracker, buffer int, logger *zap.Logger) *AsyncTracker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	t := &AsyncTracker{
		next:   next,
		logger: logger,
		queue:  make(chan pending, buffer),
		done:   make(chan struct{}),
	}

	go t.run()

	return t
}

// Record enqueues the access without blocking.
func (t *AsyncTracker) Record(_ context.Context, code shortener.Code, access shortener.Access) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.stopped {
		return ErrTrackerStopped
	}

	select {
	case t.queue <- pending{code: code, access: access}:
	default:
		t.dropped.Add(1)
	}

	return nil
}

// Dropped reports how many accesses were discarded on a full queue.
func (t *AsyncTracker) Dropped() int64 {
	return t.dropped.Load()
}

// Recorded reports how many accesses reached the underlying tracker.
func (t *AsyncTracker) Recorded() int64 {
	return t.recorded.Load()
}

// Shutdown stops accepting accesses and waits until the queue is drained.
func (t *AsyncTracker) Shutdown() error {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.stopped = true
		close(t.queue)
		t.mu.Unlock()

		<-t.done

		t.logger.Info("access tracker stopped",
			zap.Int64("recorded", t.recorded.Load()),
			zap.Int64("dropped", t.dropped.Load()),
		)
	})

	return nil
}

func (t *AsyncTracker) run() {
	defer close(t.done)

	for p := range t.queue {
		// Detached from the request; the request may be long gone.
		if err := t.next.Record(context.Background(), p.code, p.access); err != nil {
			t.logger.Warn("failed to record access",
				zap.String("code", string(p.code)),
				zap.Error(err),
			)

			continue
		}

		t.recorded.Add(1)
	}
}

var _ shortener.Tracker = (*AsyncTracker)(nil)
