package wire

import (
	"net/http"

	"rideshare-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(auth)

		r.Get("/", notificationHandler.GetNotifications)
		r.Patch("/{id}/read", notificationHandler.MarkRead)
	})
}
