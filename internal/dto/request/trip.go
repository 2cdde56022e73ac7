package request

import "time"

type LocationRequest struct {
	CityKey string `json:"city_key" validate:"required,max=100"`
	Address string `json:"address" validate:"required,max=255"`
}

type CreateTripRequest struct {
	Origin          LocationRequest `json:"origin"`
	Destination     LocationRequest `json:"destination"`
	DepartureTime   time.Time       `json:"departure_time" validate:"required,future"`
	Price           float64         `json:"price" validate:"gte=0"`
	Seats           int             `json:"seats" validate:"required,min=1,max=8"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	InstantBooking  bool            `json:"instant_booking"`
	MaxTwoBackSeats bool            `json:"max_two_back_seats"`
}
