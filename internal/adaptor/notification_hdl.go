package adaptor

import (
	"net/http"

	"rideshare-booking/internal/usecase"
	"rideshare-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "notification")),
	}
}

// GetNotifications handles GET /api/notifications (protected)
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	notifications, err := h.service.ListNotifications(r.Context(), actor, paginationFrom(r))
	if err != nil {
		handleServiceError(h.log, w, err, "list notifications")
		return
	}

	utils.ResponseSuccess(w, "success", notifications)
}

// MarkRead handles PATCH /api/notifications/{id}/read (protected)
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.MarkRead(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "mark notification read")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
