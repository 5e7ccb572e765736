package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/offsoc/hyperswitch/internal/webhook/application"
	"github.com/offsoc/hyperswitch/pkg/tracing"
)

type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutcomePublisher raises an application event for every settled webhook
// delivery attempt. Messages are keyed by the primary object id so outcomes
// for one resource land on one partition.
type OutcomePublisher struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewOutcomePublisher(log *slog.Logger, producer Producer, topic string) *OutcomePublisher {
	return &OutcomePublisher{log: log, producer: producer, topic: topic}
}

func (p *OutcomePublisher) Publish(ctx context.Context, outcome application.DeliveryOutcomeEvent) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return err
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(outcome.EventType)},
		{Key: "delivery_attempt", Value: []byte(outcome.DeliveryAttempt)},
	}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   p.topic,
		Key:     []byte(outcome.PrimaryObjectID),
		Value:   payload,
		Headers: headers,
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("outcome publish failed", "event_id", outcome.EventID, "err", err)
		return err
	}
	p.log.Info("delivery outcome published",
		"event_id", outcome.EventID, "delivered", outcome.Delivered, "attempt", outcome.DeliveryAttempt)
	return nil
}
