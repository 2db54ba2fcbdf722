package shortener

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Resolver maps codes back to URLs and reports accesses to a Tracker.
type Resolver struct {
	store   Store
	tracker Tracker
	logger  *zap.Logger
}

// NewResolver creates a resolver. tracker may be nil.
func NewResolver(store Store, tracker Tracker, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:   store,
		tracker: tracker,
		logger:  logger,
	}
}

// Resolve returns the URL behind code. When access is non-nil it is handed to
// the tracker first; tracker failures are logged and never returned.
func (r *Resolver) Resolve(ctx context.Context, code Code, access *Access) (string, error) {
	r.track(ctx, code, access)

	url, err := r.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotExists
		}

		return "", fmt.Errorf("resolve code: %w", err)
	}

	return url, nil
}

func (r *Resolver) track(ctx context.Context, code Code, access *Access) {
	if access == nil || r.tracker == nil {
		r.logger.Debug("access not tracked", zap.String("code", string(code)))

		return
	}

	event := *access
	event.Code = code

	if err := r.tracker.Record(ctx, code, event); err != nil {
		r.logger.Warn("failed to track access",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}
}
