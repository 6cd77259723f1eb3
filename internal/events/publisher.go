package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"myfood-be/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	TopicOrderConfirmed = "order.confirmed"
	TopicOrderFulfilled = "order.fulfilled"
	TopicSlotsReset     = "slots.reset"
)

var Topics = []string{TopicOrderConfirmed, TopicOrderFulfilled, TopicSlotsReset}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}

// Pinger is implemented by publishers holding a live broker connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitMQ struct {
	mu   sync.RWMutex
	conn *amqp.Connection
	ch   channel
}

// NewRabbitMQ dials url and declares one durable queue per topic.
func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := newRabbitMQ(conn, ch)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

func newRabbitMQ(conn *amqp.Connection, ch channel) (*RabbitMQ, error) {
	for _, topic := range Topics {
		if _, err := ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
			ch.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", topic, err)
		}
	}
	return &RabbitMQ{conn: conn, ch: ch}, nil
}

func (p *RabbitMQ) Publish(ctx context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	err = p.ch.PublishWithContext(ctx, "", topic, false, false, amqp.Publishing{
		DeliveryMode:  amqp.Persistent,
		ContentType:   "application/json",
		CorrelationId: logger.RequestIDFrom(ctx),
		Body:          body,
		Timestamp:     time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

var errConnClosed = errors.New("rabbitmq connection closed")

func (p *RabbitMQ) Ping(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.conn == nil || p.conn.IsClosed() {
		return errConnClosed
	}
	return nil
}

func (p *RabbitMQ) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, topic string, payload any) error {
	logger.FromCtx(ctx).Debug("event dropped, no broker configured", zap.String("topic", topic))
	return nil
}

func (Noop) Close() error { return nil }

// New picks the RabbitMQ publisher when url is set.
func New(url string) (Publisher, error) {
	if url == "" {
		return Noop{}, nil
	}
	return NewRabbitMQ(url)
}
