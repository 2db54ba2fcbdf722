package shortener

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// AllocatorStats holds counters about allocation attempts.
type AllocatorStats struct {
	Shortened  int64
	Attempts   int64
	Collisions int64
	Reused     int64
}

// Allocator mints codes by trying candidates against a Store.
type Allocator struct {
	store       Store
	candidates  CandidateSource
	maxAttempts int
	logger      *zap.Logger

	shortened  atomic.Int64
	attempts   atomic.Int64
	collisions atomic.Int64
	reused     atomic.Int64
}

// AllocatorOption configures an Allocator.
type AllocatorOption func(*Allocator)

// WithMaxAttempts bounds the number of candidates tried per Shorten call.
// Zero or less means unbounded.
func WithMaxAttempts(n int) AllocatorOption {
	return func(a *Allocator) {
		a.maxAttempts = n
	}
}

// NewAllocator creates an allocator drawing candidates from source.
func NewAllocator(store Store, source CandidateSource, logger *zap.Logger, opts ...AllocatorOption) *Allocator {
	a := &Allocator{
		store:      store,
		candidates: source,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Shorten returns the code for url, minting one if url has none yet.
// Shortening the same url twice yields the same code.
func (a *Allocator) Shorten(ctx context.Context, url string) (Code, error) {
	if url == "" {
		return "", ErrEmptyURL
	}

	attempt := 0

	for candidate := range a.candidates.Candidates() {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if a.maxAttempts > 0 && attempt >= a.maxAttempts {
			break
		}

		attempt++
		a.attempts.Add(1)

		code := Code(candidate)

		a.logger.Debug("shorten attempt",
			zap.Int("attempt", attempt),
			zap.String("code", candidate),
			zap.String("url", url),
		)

		err := a.store.Put(ctx, code, url)

		switch {
		case err == nil:
			a.shortened.Add(1)

			return code, nil
		case errors.Is(err, ErrDuplicateKey):
			a.collisions.Add(1)
			a.logger.Debug("code collision", zap.String("code", candidate))

			continue
		case errors.Is(err, ErrDuplicateValue):
			a.reused.Add(1)
			a.logger.Debug("url already shortened", zap.String("url", url))

			return a.existing(ctx, url)
		default:
			return "", fmt.Errorf("store code: %w", err)
		}
	}

	a.logger.Warn("no free code found",
		zap.String("url", url),
		zap.Int("attempts", attempt),
	)

	return "", fmt.Errorf("%w after %d attempts", ErrCodespaceExhausted, attempt)
}

func (a *Allocator) existing(ctx context.Context, url string) (Code, error) {
	code, err := a.store.KeyFor(ctx, url)
	if err != nil {
		return "", fmt.Errorf("lookup existing code: %w", err)
	}

	return code, nil
}

// Stats returns the allocation counters.
func (a *Allocator) Stats() AllocatorStats {
	return AllocatorStats{
		Shortened:  a.shortened.Load(),
		Attempts:   a.attempts.Load(),
		Collisions: a.collisions.Load(),
		Reused:     a.reused.Load(),
	}
}
