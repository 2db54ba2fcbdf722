package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortref/internal/analytics"
	analyticsstore "github.com/serroba/shortref/internal/analytics/store"
	"github.com/serroba/shortref/internal/messaging"
	"github.com/serroba/shortref/internal/shortener"
	"go.uber.org/zap"
)

// Tracking is the configured access tracking. Tracker is nil when tracking is
// off; Log is nil when accesses cannot be listed.
type Tracking struct {
	Tracker shortener.Tracker
	Log     shortener.AccessLog
	async   *analytics.AsyncTracker
}

// Shutdown drains queued accesses.
func (t *Tracking) Shutdown() error {
	if t.async == nil {
		return nil
	}

	return t.async.Shutdown()
}

// AccessLogPackage provides where accesses are persisted: in memory, in
// PostgreSQL for the postgres and stream trackers, or only logged.
func AccessLogPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (shortener.AccessLog, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Tracker {
		case TrackerMemory:
			return analyticsstore.NewMemory(), nil
		case TrackerPostgres, TrackerStream:
			return analyticsstore.NewPostgres(do.MustInvoke[*PostgresPool](i).Pool), nil
		default:
			return analyticsstore.NewNoop(do.MustInvoke[*zap.Logger](i)), nil
		}
	})
}

// TrackingPackage provides the resolver's tracker. Stores are written behind
// an AsyncTracker; the stream tracker publishes for the consumer binary.
func TrackingPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Tracking, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.Tracker == TrackerNone {
			logger.Info("access tracking disabled")

			return &Tracking{}, nil
		}

		log := do.MustInvoke[shortener.AccessLog](i)

		var next shortener.Tracker = log
		if opts.Tracker == TrackerStream {
			next = analytics.NewPublishingTracker(do.MustInvoke[*messaging.PublisherGroup](i).Publisher())
		}

		async := analytics.NewAsyncTracker(next, opts.TrackerBuffer, logger)

		logger.Info("access tracking enabled",
			zap.String("tracker", opts.Tracker),
			zap.Int("buffer", opts.TrackerBuffer),
		)

		return &Tracking{Tracker: async, Log: log, async: async}, nil
	})
}
