package kafka_middleware

import (
	"context"
	"time"

	"spacehub/pkg/kafka"
	"spacehub/pkg/logger"
)

func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		attrs := append(msg.LogAttrs(), "duration", time.Since(start))

		if err != nil {
			log.Error("Failed to publish event", append(attrs, "error", err)...)
		} else {
			log.Debug("Published event", attrs...)
		}
		return err
	}
}

func LoggingConsumerMiddleware(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		attrs := append(msg.LogAttrs(),
			"partition", msg.Partition,
			"offset", msg.Offset,
			"duration", time.Since(start),
		)

		if err != nil {
			log.Warn("Failed to process event", append(attrs, "error", err)...)
		} else {
			log.Debug("Processed event", attrs...)
		}
		return err
	}
}
