package adaptor

import (
	"context"
	"encoding/json"
	"net/http"

	"rideshare-booking/internal/data/entity"
	"rideshare-booking/internal/dto/request"
	"rideshare-booking/internal/dto/response"
	"rideshare-booking/internal/usecase"
	"rideshare-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.RequestBooking(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "request booking")
		return
	}

	message := "Booking request sent to the driver"
	if booking.Status == entity.BookingStatusConfirmed {
		message = "Booking confirmed"
	}
	utils.ResponseCreated(w, message, booking)
}

// GetMyBookings handles GET /api/bookings/me (protected)
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListMyBookings(r.Context(), actor, paginationFrom(r))
	if err != nil {
		handleServiceError(h.log, w, err, "list my bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CancelBooking handles DELETE /api/bookings/{id} (protected, owner only)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "id", "cancel booking", "Booking cancelled", h.service.CancelBooking)
}

// ==================== DRIVER METHODS ====================

// GetDriverBookings handles GET /api/driver/bookings (driver)
func (h *BookingHandler) GetDriverBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookings, err := h.service.ListDriverBookings(r.Context(), actor)
	if err != nil {
		handleServiceError(h.log, w, err, "list driver bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// ConfirmBooking handles PATCH /api/driver/bookings/{bookingId}/confirm (driver)
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "bookingId", "confirm booking", "Booking confirmed", h.service.ConfirmBooking)
}

// RejectBooking handles PATCH /api/driver/bookings/{bookingId}/reject (driver)
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "bookingId", "reject booking", "Booking rejected", h.service.RejectBooking)
}

type bookingTransition func(ctx context.Context, actor usecase.Actor, bookingID string) (*response.BookingResponse, error)

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, param, operation, message string, apply bookingTransition) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookingID := chi.URLParam(r, param)
	if bookingID == "" {
		utils.ResponseBadRequest(w, "Booking ID is required", nil)
		return
	}

	booking, err := apply(r.Context(), actor, bookingID)
	if err != nil {
		handleServiceError(h.log, w, err, operation)
		return
	}

	utils.ResponseSuccess(w, message, booking)
}
