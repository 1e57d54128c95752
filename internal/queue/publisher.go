package queue

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is a reusable RabbitMQ publisher. It holds one connection
// and one channel, re-established lazily after a broker failure, so
// publishing does not pay a fresh TCP+AMQP handshake per booking.
// All methods are safe for concurrent use.
type Publisher struct {
	url string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool // queues already declared on the current channel
}

// NewPublisher dials the broker and opens a channel. The returned
// Publisher recovers from later connection loss by redialing on the
// next Publish.
func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{url: url}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureChannel(); err != nil {
		return nil, err
	}
	return p, nil
}

// Publish sends body to the named durable queue via the default
// exchange and waits for broker acceptance, bounded by ctx. On a
// channel/connection error it redials once and retries, so a single
// broker restart between publishes does not fail the request.
func (p *Publisher) Publish(ctx context.Context, queueName string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.publishLocked(ctx, queueName, body)
	if err == nil {
		return nil
	}
	log.Printf("queue: publish to %q failed, redialing: %v", queueName, err)
	p.closeLocked()
	if err := p.ensureChannel(); err != nil {
		return err
	}
	return p.publishLocked(ctx, queueName, body)
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *Publisher) publishLocked(ctx context.Context, queueName string, body []byte) error {
	if err := p.ensureChannel(); err != nil {
		return err
	}
	// Idempotent declare; durable so messages survive broker restarts.
	if !p.declared[queueName] {
		if _, err := p.ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare: %w", err)
		}
		p.declared[queueName] = true
	}
	return p.ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}

func (p *Publisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return fmt.Errorf("dial rabbitmq: %w", err)
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	p.ch = ch
	p.declared = make(map[string]bool)
	return nil
}

func (p *Publisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	p.declared = nil
}
