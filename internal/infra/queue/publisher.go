// Package queue publishes chat notifications to a durable RabbitMQ queue that
// the chat gateway consumes.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrClosed is returned by Send after Close
var ErrClosed = errors.New("queue: publisher closed")

// NotificationEvent is the message body consumed by the gateway
type NotificationEvent struct {
	ChatID int64     `json:"chat_id"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher keeps one connection and one channel, reopening them after a
// broker disconnect. Publishing is serialized because amqp channels are not
// safe for concurrent use.
type Publisher struct {
	url   string
	queue string
	log   Logger

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewPublisher dials the broker and declares the queue.
func NewPublisher(url, queue string, log Logger) (*Publisher, error) {
	p := &Publisher{url: url, queue: queue, log: log}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// Send publishes one persistent message for recipientID.
func (p *Publisher) Send(ctx context.Context, recipientID int64, text string) error {
	msg, err := newPublishing(recipientID, text, time.Now().UTC())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if p.ch == nil || p.ch.IsClosed() {
		p.log.Warn("queue: channel is closed, reconnecting")
		if err := p.connect(); err != nil {
			return err
		}
	}

	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("queue: publish to %s: %w", p.queue, err)
	}
	return nil
}

// Close releases the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	return p.release()
}

func (p *Publisher) connect() error {
	_ = p.release()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("queue: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("queue: open channel: %w", err)
	}

	// durable, чтобы сообщения пережили перезапуск брокера
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("queue: declare %s: %w", p.queue, err)
	}

	p.conn, p.ch = conn, ch
	p.log.Info("queue: connected, queue=%s", p.queue)
	return nil
}

func (p *Publisher) release() error {
	var errs []error
	if p.ch != nil && !p.ch.IsClosed() {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}
	p.ch, p.conn = nil, nil
	return errors.Join(errs...)
}

func newPublishing(recipientID int64, text string, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(NotificationEvent{ChatID: recipientID, Text: text, SentAt: now})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("queue: marshal event: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	}, nil
}
