package request

type CreateBookingRequest struct {
	TripID string `json:"trip_id" validate:"required,uuid"`
	// Seats is checked by the booking service, a non-positive count has its own error kind.
	Seats int `json:"seats"`
}
