package usecase

import (
	"rideshare-booking/internal/data/repository"

	"go.uber.org/zap"
)

type Service struct {
	Trip         TripService
	Booking      BookingService
	Notification NotificationService
}

// NewService wires the services. publisher may be nil, notifications are then
// only kept in the mailbox.
func NewService(repo *repository.Repository, publisher NotificationPublisher, log *zap.Logger) *Service {
	return &Service{
		Trip:         NewTripService(repo, log),
		Booking:      NewBookingService(repo, publisher, log),
		Notification: NewNotificationService(repo.Notification, log),
	}
}
