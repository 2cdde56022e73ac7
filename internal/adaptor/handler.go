package adaptor

import (
	"errors"
	"net/http"

	"rideshare-booking/internal/dto/request"
	"rideshare-booking/internal/usecase"
	"rideshare-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Trip         *TripHandler
	Booking      *BookingHandler
	Notification *NotificationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Trip:         NewTripHandler(service.Trip, log),
		Booking:      NewBookingHandler(service.Booking, log),
		Notification: NewNotificationHandler(service.Notification, log),
	}
}

// actorFrom reads the caller set by the auth middleware.
func actorFrom(r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{UserID: userID, Role: role}, true
}

func paginationFrom(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

// statusFor maps a caller-facing error kind to its HTTP status.
func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.CodeValidation, usecase.CodeInvalidSeatCount:
		return http.StatusBadRequest
	case usecase.CodeTripNotFound, usecase.CodeBookingNotFound, usecase.CodeNotificationNotFound:
		return http.StatusNotFound
	case usecase.CodeForbidden:
		return http.StatusForbidden
	case usecase.CodeInsufficientCapacity, usecase.CodeAlreadyProcessed,
		usecase.CodeAlreadyTerminal, usecase.CodeTripNotCancellable:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the response for a failed service call.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var svcErr *usecase.Error
	if errors.As(err, &svcErr) {
		log.Warn(operation+" failed",
			zap.Error(err),
			zap.String("code", string(svcErr.Code)),
			zap.String("operation", operation))
		utils.ResponseError(w, statusFor(svcErr.Code), string(svcErr.Code), svcErr.Message)
		return
	}

	log.Error("Failed to "+operation,
		zap.Error(err),
		zap.String("operation", operation))
	utils.ResponseInternalError(w, "Internal server error")
}
