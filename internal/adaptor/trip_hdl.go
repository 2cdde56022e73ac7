package adaptor

import (
	"encoding/json"
	"net/http"

	"rideshare-booking/internal/dto/request"
	"rideshare-booking/internal/usecase"
	"rideshare-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TripHandler struct {
	service usecase.TripService
	log     *zap.Logger
}

func NewTripHandler(service usecase.TripService, log *zap.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		log:     log.With(zap.String("handler", "trip")),
	}
}

// GetTrip handles GET /api/trips/{id} (public)
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := h.service.GetTrip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get trip")
		return
	}

	utils.ResponseSuccess(w, "success", trip)
}

// CreateTrip handles POST /api/trips (driver)
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	trip, err := h.service.CreateTrip(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create trip")
		return
	}

	utils.ResponseCreated(w, "Trip created", trip)
}

// ListDriverTrips handles GET /api/driver/trips (driver)
func (h *TripHandler) ListDriverTrips(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	trips, err := h.service.ListDriverTrips(r.Context(), actor, paginationFrom(r))
	if err != nil {
		handleServiceError(h.log, w, err, "list driver trips")
		return
	}

	utils.ResponseSuccess(w, "success", trips)
}

// CancelTrip handles DELETE /api/trips/{id} (driver)
func (h *TripHandler) CancelTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	trip, err := h.service.CancelTrip(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "cancel trip")
		return
	}

	utils.ResponseSuccess(w, "Trip cancelled", trip)
}
