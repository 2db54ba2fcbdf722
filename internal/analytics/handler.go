package analytics

import (
	"context"
	"fmt"

	"github.com/serroba/shortref/internal/messaging"
	"github.com/serroba/shortref/internal/shortener"
)

// NewAccessHandler persists consumed access events into log.
func NewAccessHandler(log shortener.AccessLog) messaging.Handler[AccessEvent] {
	return func(ctx context.Context, event *AccessEvent) error {
		if err := log.Record(ctx, shortener.Code(event.Code), event.Access()); err != nil {
			return fmt.Errorf("record access %s: %w", event.ID, err)
		}

		return nil
	}
}
