package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"rideshare-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type recordedPublish struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []recordedPublish
	publishErr error
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	c.declared = append(c.declared, name+":"+kind)
	return nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, recordedPublish{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error { return nil }

func TestNewPublisherDeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	if _, err := NewPublisher(ch, "notifications", zap.NewNop()); err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != "notifications:topic" {
		t.Fatalf("declared = %v", ch.declared)
	}
}

func TestPublishNotification(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, "notifications", zap.NewNop())
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}

	bookingID := uuid.New()
	n := &entity.Notification{
		BaseSimple:       entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:           uuid.New(),
		Type:             entity.NotificationSuccess,
		Title:            "Booking confirmed",
		Message:          "ok",
		RelatedBookingID: &bookingID,
	}

	if err := p.PublishNotification(context.Background(), n); err != nil {
		t.Fatalf("PublishNotification: %v", err)
	}
	if len(ch.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(ch.published))
	}

	got := ch.published[0]
	if got.exchange != "notifications" || got.key != "notification.success" {
		t.Fatalf("published to %s/%s", got.exchange, got.key)
	}
	if got.msg.DeliveryMode != amqp091.Persistent || got.msg.ContentType != "application/json" {
		t.Fatalf("unexpected publishing options: %+v", got.msg)
	}

	var body NotificationMessage
	if err := json.Unmarshal(got.msg.Body, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.UserID != n.UserID.String() || body.RelatedBookingID == nil || *body.RelatedBookingID != bookingID.String() {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestPublishWrapsChannelError(t *testing.T) {
	boom := errors.New("channel closed")
	p, err := NewPublisher(&fakeChannel{publishErr: boom}, "notifications", zap.NewNop())
	if err != nil {
		t.Fatalf("NewPublisher: %v", err)
	}
	if err := p.Publish(context.Background(), "notification.info", map[string]string{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}
