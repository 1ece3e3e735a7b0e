// Package service publishes reservation domain events to RabbitMQ.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/table-reservation/internal/queue"
)

// Publisher sends events to the default exchange, one short-lived
// connection per event.  Messages are persistent.
type Publisher struct {
	url    string
	logger *slog.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishReservationUpdated publishes ev to the reservation.updated queue.
// Errors are logged and returned; callers treat them as non-fatal.
func (p *Publisher) PublishReservationUpdated(ctx context.Context, ev queue.ReservationUpdatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.publish(ctx, queue.ReservationUpdatedQueue, body); err != nil {
		p.logger.Warn("rabbitmq: publish failed", "queue", queue.ReservationUpdatedQueue, "public_id", ev.PublicID, "error", err)
		return err
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, queueName string, body []byte) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	return ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
