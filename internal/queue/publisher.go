package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publishAttempts bounds the internal resend loop before a message is
// dropped.  Dispatch is best-effort; durability beyond that belongs to the
// broker, not to this process.
const publishAttempts = 3

// Publisher holds a long-lived connection and channel to the broker and
// publishes persistent JSON messages to the booking.created queue.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher dials the broker and declares the booking.created queue as
// durable so messages survive broker restarts.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(
		BookingCreatedQueue, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

// BookingCreated publishes msg to the booking.created queue, retrying a
// couple of times before giving up.  The last error is returned so the
// caller can log it; it carries no rollback semantics.
func (p *Publisher) BookingCreated(ctx context.Context, msg BookingCreated) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	for attempt := 0; attempt < publishAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
		}
		err = p.ch.PublishWithContext(ctx,
			"",                  // default exchange
			BookingCreatedQueue, // routing key = queue name
			false,               // mandatory
			false,               // immediate
			pub,
		)
		if err == nil {
			return nil
		}
		log.Printf("rabbitmq: publish attempt %d failed: %v", attempt+1, err)
	}
	return err
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
