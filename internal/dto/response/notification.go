package response

import (
	"time"

	"rideshare-booking/internal/data/entity"
)

type NotificationResponse struct {
	ID               string                  `json:"id"`
	Type             entity.NotificationType `json:"type"`
	Title            string                  `json:"title"`
	Message          string                  `json:"message"`
	IsRead           bool                    `json:"is_read"`
	RelatedBookingID *string                 `json:"related_booking_id,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

type NotificationListResponse struct {
	*PaginatedResponse[NotificationResponse]
	UnreadCount int64 `json:"unread_count"`
}

func NotificationToResponse(n *entity.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedBookingID != nil {
		id := n.RelatedBookingID.String()
		resp.RelatedBookingID = &id
	}
	return resp
}
