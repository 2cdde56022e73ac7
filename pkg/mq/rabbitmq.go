package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"rideshare-booking/internal/data/entity"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Channel is the part of *amqp091.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends JSON messages to one durable topic exchange.
type Publisher struct {
	conn     *amqp091.Connection
	ch       Channel
	exchange string
	mu       sync.Mutex
	log      *zap.Logger
}

// Connect dials the broker, retrying a few times while it starts up, and
// declares the exchange.
func Connect(url, exchange string, log *zap.Logger) (*Publisher, error) {
	var conn *amqp091.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp091.Dial(url)
		if err == nil {
			break
		}
		log.Warn("RabbitMQ not ready, retrying", zap.Error(err), zap.Int("attempt", i+1))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open RabbitMQ channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange, log)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func NewPublisher(ch Channel, exchange string, log *zap.Logger) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Publisher{
		ch:       ch,
		exchange: exchange,
		log:      log.With(zap.String("component", "rabbitmq")),
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", routingKey, err)
	}

	p.log.Debug("Message published",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", routingKey),
	)
	return nil
}

// NotificationMessage is the payload consumers of notification.<type> receive.
type NotificationMessage struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	RelatedBookingID *string   `json:"related_booking_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func NotificationRoutingKey(t entity.NotificationType) string {
	return "notification." + string(t)
}

func (p *Publisher) PublishNotification(ctx context.Context, n *entity.Notification) error {
	msg := NotificationMessage{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedBookingID != nil {
		id := n.RelatedBookingID.String()
		msg.RelatedBookingID = &id
	}

	return p.Publish(ctx, NotificationRoutingKey(n.Type), msg)
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return fmt.Errorf("close channel: %w", err)
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
