package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortref/internal/analytics"
	"github.com/serroba/shortref/internal/messaging"
	"github.com/serroba/shortref/internal/shortener"
	"go.uber.org/zap"
)

const consumerGroupName = "shortref-accesses"

// PublisherGroupPackage provides the Redis stream publisher.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := messaging.NewRedisPublisher(
			do.MustInvoke[*RedisClient](i).Client,
			do.MustInvoke[*zap.Logger](i),
		)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// ConsumerGroupPackage provides the consumers that persist published
// accesses into the access log.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := messaging.NewRedisSubscriber(
			do.MustInvoke[*RedisClient](i).Client,
			consumerGroupName,
			logger,
		)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			analytics.TopicAccessed,
			analytics.NewAccessHandler(do.MustInvoke[shortener.AccessLog](i)),
			logger,
		))

		return group, nil
	})
}
