package app

import (
	"spacehub/pkg/events"
	"spacehub/pkg/kafka"
	kafka_config "spacehub/pkg/kafka/config"
	kafka_middleware "spacehub/pkg/kafka/middleware"
)

func (a *Application) busMetrics() *kafka_middleware.Metrics {
	if a.kafkaMetrics == nil {
		a.kafkaMetrics = kafka_middleware.NewMetrics()
		a.WithEventStats(func() any { return a.kafkaMetrics.Snapshot() })
	}
	return a.kafkaMetrics
}

func (a *Application) kafkaConfig() *kafka_config.Config {
	if a.kafkaCfg == nil {
		kcfg, err := kafka_config.Load(a.cfg.ConsumerGroupID)
		if err != nil {
			a.cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
		}
		a.kafkaCfg = kcfg
		a.cfg.Log.Info("Kafka configured", kcfg.LogAttrs()...)
	}
	return a.kafkaCfg
}

// EventPublisher returns a publisher writing to topic. With Kafka disabled it
// returns a no-op publisher. The publisher is closed on shutdown.
func (a *Application) EventPublisher(topic string) events.Publisher {
	if !a.cfg.KafkaEnabled {
		a.cfg.Log.Info("Kafka disabled, domain events are dropped", "topic", topic)
		return events.NoopPublisher{}
	}

	producer, err := kafka.NewProducer(a.kafkaConfig(), topic, a.cfg.EventsDLQTopic, a.cfg.Log)
	if err != nil {
		a.cfg.Log.Fatal("Failed to create Kafka producer", "topic", topic, "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(a.cfg.Log))
	producer.Use(a.busMetrics().ProducerMiddleware())

	publisher := events.NewKafkaPublisher(producer, a.cfg.ConsumerGroupID, a.cfg.Log)
	a.AddCloser(publisher)
	return publisher
}

// Subscribe starts a consumer on topic as a background worker. It does
// nothing when Kafka is disabled.
func (a *Application) Subscribe(topic string, handler kafka.MessageHandler) *Application {
	if !a.cfg.KafkaEnabled {
		a.cfg.Log.Info("Kafka disabled, not subscribing", "topic", topic)
		return a
	}

	consumer, err := kafka.NewConsumer(a.kafkaConfig(), topic, a.cfg.ConsumerGroupID, a.cfg.EventsDLQTopic, handler, a.cfg.Log)
	if err != nil {
		a.cfg.Log.Fatal("Failed to create Kafka consumer", "topic", topic, "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(a.cfg.Log))
	consumer.Use(a.busMetrics().ConsumerMiddleware())
	return a.AddWorker(consumer)
}
