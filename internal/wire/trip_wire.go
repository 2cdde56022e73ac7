package wire

import (
	"net/http"

	"rideshare-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTrip(
	r chi.Router,
	tripHandler *adaptor.TripHandler,
	auth func(http.Handler) http.Handler,
	driverOnly func(http.Handler) http.Handler,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/trips/{id} - Trip details incl. available seats (public)
	r.Get("/api/trips/{id}", tripHandler.GetTrip)

	// ==================== DRIVER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth, driverOnly)

		r.Post("/api/trips", tripHandler.CreateTrip)
		r.Delete("/api/trips/{id}", tripHandler.CancelTrip)
		r.Get("/api/driver/trips", tripHandler.ListDriverTrips)
	})
}
