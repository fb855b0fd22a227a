// Package queue publishes new leads to a RabbitMQ exchange for downstream
// consumers such as a CRM sync.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/silahub/site/internal/domain"
)

// LeadCreated is the message body published for every new lead.
type LeadCreated struct {
	Event  string      `json:"event"`
	Lead   domain.Lead `json:"lead"`
	SentAt time.Time   `json:"sentAt"`
}

// Publisher owns one connection and channel to the broker.
type Publisher struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// Dial connects to url and declares a durable topic exchange.
func Dial(url, exchange, routingKey string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

// Encode builds the persistent JSON publishing for lead.
func Encode(lead domain.Lead, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(LeadCreated{Event: "lead.created", Lead: lead, SentAt: now.UTC()})
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal lead event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    lead.ID,
		Timestamp:    now,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}, nil
}

func (p *Publisher) Notify(ctx context.Context, lead domain.Lead) error {
	msg, err := Encode(lead, time.Now())
	if err != nil {
		return err
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish lead %s: %w", lead.ID, err)
	}
	return nil
}

func (p *Publisher) Name() string { return "amqp" }

// Close releases the channel and the connection.
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}
