package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusRejected  BookingStatus = "rejected"
)

type Booking struct {
	Base
	TripID      uuid.UUID     `db:"trip_id"`
	PassengerID uuid.UUID     `db:"passenger_id"`
	Seats       int           `db:"seats"`
	Status      BookingStatus `db:"status"`
}
