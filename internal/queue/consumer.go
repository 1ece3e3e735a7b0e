package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditLogName is the file, inside the audit directory, that receives one
// line per reservation event.
const AuditLogName = "reservation.log"

// AuditConsumer appends every ReservationUpdatedEvent to
// <Dir>/reservation.log.
type AuditConsumer struct {
	URL    string
	Dir    string
	Logger *slog.Logger
}

// Run connects to the broker, declares the durable reservation.updated
// queue and consumes it until ctx is cancelled.  Lost connections are
// retried with exponential backoff capped at 30s.  Malformed messages are
// rejected without requeueing.
func (a *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(a.URL)
		if err != nil {
			a.Logger.Warn("audit consumer: dial failed", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(backoff*2, 30*time.Second)
			continue
		}
		backoff = time.Second

		err = a.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.Logger.Warn("audit consumer: consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (a *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		a.Logger.Warn("audit consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(ReservationUpdatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, ReservationUpdatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := a.Handle(d.Body); err != nil {
			a.Logger.Warn("audit consumer: handle message failed", "error", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle decodes one message body and appends its audit line.
func (a *AuditConsumer) Handle(body []byte) error {
	var ev ReservationUpdatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.PublicID == "" {
		return errors.New("event without public_id")
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", a.Dir, err)
	}
	f, err := os.OpenFile(filepath.Join(a.Dir, AuditLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatAuditLine(ev)); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// FormatAuditLine renders ev as a single newline-terminated line.
func FormatAuditLine(ev ReservationUpdatedEvent) string {
	tables := make([]string, len(ev.TableIDs))
	for i, id := range ev.TableIDs {
		tables[i] = fmt.Sprint(id)
	}
	action := "Reservation updated"
	if ev.Status == "CANCELLED" && ev.PreviousStatus != "CANCELLED" {
		action = "Reservation cancelled"
	}
	return fmt.Sprintf("[%s] %s | public_id=%s | reservation_id=%d | user_id=%d | status=%s->%s | time=%s | people=%d | tables=[%s]\n",
		ev.UpdatedAt, action, ev.PublicID, ev.ReservationID, ev.UserID, ev.PreviousStatus, ev.Status,
		ev.ReservationTime, ev.NumberOfPeople, strings.Join(tables, ","))
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
