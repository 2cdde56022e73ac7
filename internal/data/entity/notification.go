package entity

import (
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	BaseSimple
	UserID           uuid.UUID        `db:"user_id"`
	Type             NotificationType `db:"type"`
	Title            string           `db:"title"`
	Message          string           `db:"message"`
	IsRead           bool             `db:"is_read"`
	RelatedBookingID *uuid.UUID       `db:"related_booking_id"`
}
