package wire

import (
	"net/http"

	"rideshare-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	auth func(http.Handler) http.Handler,
	driverOnly func(http.Handler) http.Handler,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		// POST /api/bookings - Request seats on a trip
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings/me - Passenger booking history
		r.Get("/api/bookings/me", bookingHandler.GetMyBookings)

		// DELETE /api/bookings/{id} - Cancel own booking
		r.Delete("/api/bookings/{id}", bookingHandler.CancelBooking)
	})

	// ==================== DRIVER ROUTES ====================
	r.Route("/api/driver/bookings", func(r chi.Router) {
		r.Use(auth, driverOnly)

		// GET /api/driver/bookings - Pending and confirmed bookings on own trips
		r.Get("/", bookingHandler.GetDriverBookings)

		r.Patch("/{bookingId}/confirm", bookingHandler.ConfirmBooking)
		r.Patch("/{bookingId}/reject", bookingHandler.RejectBooking)
	})
}
