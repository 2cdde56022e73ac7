package repository

import (
	"context"
	"fmt"

	"rideshare-booking/internal/data/entity"
	"rideshare-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationRepository is the per-user mailbox. Entries are only appended;
// the read flag is the single mutable field.
type NotificationRepository interface {
	Append(ctx context.Context, notification *entity.Notification) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (total int64, unread int64, err error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

type notificationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewNotificationRepository(db database.Querier, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

// Append inserts inside a savepoint so a failed insert does not poison the
// caller's transaction.
func (r *notificationRepository) Append(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, is_read, related_booking_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	err := database.Savepoint(ctx, r.db, func(q database.Querier) error {
		_, err := q.Exec(ctx, query,
			n.ID,
			n.UserID,
			n.Type,
			n.Title,
			n.Message,
			n.IsRead,
			n.RelatedBookingID,
			n.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("append notification for user %s: %w", n.UserID.String(), err)
	}

	return nil
}

func (r *notificationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, is_read, related_booking_id, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find notifications by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find notifications by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.IsRead,
			&n.RelatedBookingID,
			&n.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan notification row", zap.Error(err))
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

func (r *notificationRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT is_read)
		FROM notifications
		WHERE user_id = $1
	`

	var total, unread int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total, &unread); err != nil {
		r.log.Error("Failed to count notifications",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, 0, fmt.Errorf("count notifications for user %s: %w", userID.String(), err)
	}

	return total, unread, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", id.String()),
		)
		return fmt.Errorf("mark notification %s read: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
