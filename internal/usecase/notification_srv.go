package usecase

import (
	"context"
	"errors"
	"fmt"

	"rideshare-booking/internal/data/repository"
	"rideshare-booking/internal/dto/request"
	"rideshare-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService is the read side of the mailbox. Notifications
// themselves are only created by booking transitions.
type NotificationService interface {
	ListNotifications(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.NotificationListResponse, error)
	MarkRead(ctx context.Context, actor Actor, notificationID string) error
}

type notificationService struct {
	mailbox repository.NotificationRepository
	log     *zap.Logger
}

func NewNotificationService(mailbox repository.NotificationRepository, log *zap.Logger) NotificationService {
	return &notificationService{
		mailbox: mailbox,
		log:     log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) ListNotifications(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.NotificationListResponse, error) {
	limit := req.Limit()

	notifications, err := s.mailbox.FindByUserID(ctx, actor.UserID, limit, req.Offset())
	if err != nil {
		s.log.Error("Failed to get notifications",
			zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
		)
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	total, unread, err := s.mailbox.CountByUserID(ctx, actor.UserID)
	if err != nil {
		s.log.Error("Failed to count notifications", zap.Error(err))
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	data := make([]response.NotificationResponse, len(notifications))
	for i, n := range notifications {
		data[i] = response.NotificationToResponse(n)
	}

	return &response.NotificationListResponse{
		PaginatedResponse: response.NewPaginatedResponse(data, req.Page, limit, total),
		UnreadCount:       unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor Actor, notificationID string) error {
	id, err := uuid.Parse(notificationID)
	if err != nil {
		return ErrNotificationNotFound
	}

	err = s.mailbox.MarkRead(ctx, id, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	if err != nil {
		s.log.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", notificationID),
		)
		return fmt.Errorf("mark notification read: %w", err)
	}

	return nil
}
