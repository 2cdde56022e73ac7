package usecase

import (
	"context"
	"time"

	"rideshare-booking/internal/data/entity"
	"rideshare-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationPublisher hands committed notifications to the delivery side.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, notification *entity.Notification) error
}

// notificationSink is the only place notifications are created. Appends are
// best-effort: a failure is logged and never aborts the booking transaction.
type notificationSink struct {
	publisher NotificationPublisher
	log       *zap.Logger
}

func newNotificationSink(publisher NotificationPublisher, log *zap.Logger) *notificationSink {
	return &notificationSink{
		publisher: publisher,
		log:       log.With(zap.String("component", "notification_sink")),
	}
}

type notificationDraft struct {
	recipient uuid.UUID
	kind      entity.NotificationType
	title     string
	message   string
}

// append stores the draft in the recipient's mailbox. It returns nil when the
// append failed so the caller skips delivery for it.
func (s *notificationSink) append(ctx context.Context, mailbox repository.NotificationRepository, draft notificationDraft, bookingID uuid.UUID) *entity.Notification {
	n := &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:           draft.recipient,
		Type:             draft.kind,
		Title:            draft.title,
		Message:          draft.message,
		RelatedBookingID: &bookingID,
	}

	if err := mailbox.Append(ctx, n); err != nil {
		s.log.Warn("Failed to append notification, continuing without it",
			zap.Error(err),
			zap.String("user_id", draft.recipient.String()),
			zap.String("booking_id", bookingID.String()),
			zap.String("title", draft.title),
		)
		return nil
	}

	return n
}

// deliver publishes notifications after their transaction committed.
func (s *notificationSink) deliver(ctx context.Context, notifications ...*entity.Notification) {
	if s.publisher == nil {
		return
	}
	for _, n := range notifications {
		if n == nil {
			continue
		}
		if err := s.publisher.PublishNotification(ctx, n); err != nil {
			s.log.Warn("Failed to publish notification",
				zap.Error(err),
				zap.String("notification_id", n.ID.String()),
				zap.String("user_id", n.UserID.String()),
			)
		}
	}
}
