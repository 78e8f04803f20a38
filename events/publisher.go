// Package events mirrors analytics events onto a RabbitMQ topic exchange.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/cppla/eduquest/models"
)

// Publisher sends analytics events to a topic exchange, routed by action.
// A Publisher built with an empty URL is disabled and drops every event.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
	log      *zap.Logger
	mu       sync.Mutex
}

// NewPublisher dials url and declares a durable topic exchange.
func NewPublisher(url, exchange string, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if url == "" {
		log.Info("amqp url empty, event publishing disabled")
		return &Publisher{exchange: exchange, log: log}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	log.Info("event publisher ready", zap.String("exchange", exchange))
	return &Publisher{conn: conn, channel: ch, exchange: exchange, enabled: true, log: log}, nil
}

// Enabled reports whether events are actually sent.
func (p *Publisher) Enabled() bool { return p.enabled }

// PublishEvent publishes e with routing key "analytics.<action>".
func (p *Publisher) PublishEvent(ctx context.Context, e *models.AnalyticsEvent) error {
	if !p.enabled {
		return nil
	}
	body, err := sonic.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(e.Action), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    e.ID,
		Body:         body,
		Headers: amqp.Table{
			"action":  e.Action,
			"user_id": e.User,
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Action, err)
	}
	return nil
}

// RoutingKey maps an action onto the exchange's routing namespace.
func RoutingKey(action string) string {
	return "analytics." + action
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.log.Warn("close amqp channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close amqp connection: %w", err)
		}
	}
	return nil
}
