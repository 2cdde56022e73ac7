package response

import (
	"time"

	"rideshare-booking/internal/data/entity"
)

type BookingResponse struct {
	ID          string               `json:"id"`
	TripID      string               `json:"trip_id"`
	PassengerID string               `json:"passenger_id"`
	Seats       int                  `json:"seats"`
	Status      entity.BookingStatus `json:"status"`
	Trip        *TripSummary         `json:"trip,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// Helper converters
func BookingToResponse(b *entity.Booking, trip *entity.Trip) BookingResponse {
	return BookingResponse{
		ID:          b.ID.String(),
		TripID:      b.TripID.String(),
		PassengerID: b.PassengerID.String(),
		Seats:       b.Seats,
		Status:      b.Status,
		Trip:        TripToSummary(trip),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
