package repository

import (
	"context"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/domain/repository"
	pkgkafka "SectorPulse/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishEpoch(ctx context.Context, epoch int, loss float64) error {
	return p.producer.Publish(ctx, p.topic, []byte("epoch"), models.ForecastEvent{
		Type:      "epoch",
		Epoch:     epoch,
		Loss:      loss,
		Timestamp: time.Now().UTC(),
	})
}

func (p *KafkaPublisher) PublishForecasts(ctx context.Context, preds []models.Prediction) error {
	if len(preds) == 0 {
		return nil
	}
	now := time.Now().UTC()
	msgs := make([]pkgkafka.Message, len(preds))
	for i, pr := range preds {
		msgs[i] = pkgkafka.Message{
			Key: []byte(pr.Symbol),
			Value: models.ForecastEvent{
				Type:      "forecast",
				Symbol:    pr.Symbol,
				Forecast:  pr.Forecast,
				Timestamp: now,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
