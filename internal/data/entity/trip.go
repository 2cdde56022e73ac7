package entity

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

const MaxTripSeats = 8

type Location struct {
	CityKey string `json:"city_key"`
	Address string `json:"address"`
}

// Trip owns the seat inventory. AvailableSeats is only ever changed by the
// ledger's reserve/release statements and stays within [0, TotalSeats].
type Trip struct {
	Base
	DriverID        uuid.UUID  `db:"driver_id"`
	Origin          Location   `db:"origin"`
	Destination     Location   `db:"destination"`
	DepartureTime   time.Time  `db:"departure_time"`
	Price           float64    `db:"price"`
	TotalSeats      int        `db:"total_seats"`
	AvailableSeats  int        `db:"available_seats"`
	Description     *string    `db:"description"`
	InstantBooking  bool       `db:"instant_booking"`
	MaxTwoBackSeats bool       `db:"max_two_back_seats"`
	Status          TripStatus `db:"status"`
}

func (t *Trip) IsActive() bool {
	return t.Status == TripStatusActive
}

// ReservedSeats is the number of seats held by confirmed bookings.
func (t *Trip) ReservedSeats() int {
	return t.TotalSeats - t.AvailableSeats
}
