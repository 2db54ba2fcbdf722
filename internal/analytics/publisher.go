package analytics

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortref/internal/messaging"
	"github.com/serroba/shortref/internal/shortener"
)

// PublishingTracker hands accesses to the message bus for the consumer
// process to persist.
type PublishingTracker struct {
	publish messaging.Publish[AccessEvent]
}

func NewPublishingTracker(publisher message.Publisher) *PublishingTracker {
	return &PublishingTracker{
		publish: messaging.NewPublishFunc[AccessEvent](publisher, TopicAccessed),
	}
}

func (p *PublishingTracker) Record(ctx context.Context, code shortener.Code, access shortener.Access) error {
	return p.publish(ctx, NewAccessEvent(code, access))
}

var _ shortener.Tracker = (*PublishingTracker)(nil)
