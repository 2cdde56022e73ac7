package response

import (
	"time"

	"rideshare-booking/internal/data/entity"
)

type LocationResponse struct {
	CityKey string `json:"city_key"`
	Address string `json:"address"`
}

type TripResponse struct {
	ID              string            `json:"id"`
	DriverID        string            `json:"driver_id"`
	Origin          LocationResponse  `json:"origin"`
	Destination     LocationResponse  `json:"destination"`
	DepartureTime   time.Time         `json:"departure_time"`
	Price           float64           `json:"price"`
	TotalSeats      int               `json:"total_seats"`
	AvailableSeats  int               `json:"available_seats"`
	ReservedSeats   int               `json:"reserved_seats"`
	Description     *string           `json:"description,omitempty"`
	InstantBooking  bool              `json:"instant_booking"`
	MaxTwoBackSeats bool              `json:"max_two_back_seats"`
	Status          entity.TripStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

// TripSummary is the part of a trip embedded in booking listings.
type TripSummary struct {
	ID            string           `json:"id"`
	Origin        LocationResponse `json:"origin"`
	Destination   LocationResponse `json:"destination"`
	DepartureTime time.Time        `json:"departure_time"`
	Price         float64          `json:"price"`
}

func LocationToResponse(l entity.Location) LocationResponse {
	return LocationResponse{
		CityKey: l.CityKey,
		Address: l.Address,
	}
}

func TripToResponse(t *entity.Trip) TripResponse {
	return TripResponse{
		ID:              t.ID.String(),
		DriverID:        t.DriverID.String(),
		Origin:          LocationToResponse(t.Origin),
		Destination:     LocationToResponse(t.Destination),
		DepartureTime:   t.DepartureTime,
		Price:           t.Price,
		TotalSeats:      t.TotalSeats,
		AvailableSeats:  t.AvailableSeats,
		ReservedSeats:   t.ReservedSeats(),
		Description:     t.Description,
		InstantBooking:  t.InstantBooking,
		MaxTwoBackSeats: t.MaxTwoBackSeats,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
	}
}

func TripToSummary(t *entity.Trip) *TripSummary {
	if t == nil {
		return nil
	}
	return &TripSummary{
		ID:            t.ID.String(),
		Origin:        LocationToResponse(t.Origin),
		Destination:   LocationToResponse(t.Destination),
		DepartureTime: t.DepartureTime,
		Price:         t.Price,
	}
}
