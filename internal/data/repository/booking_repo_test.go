package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"rideshare-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"go.uber.org/zap"
)

var bookingRowColumns = []string{"id", "trip_id", "passenger_id", "seats", "status", "created_at", "updated_at"}

func TestFindBookingForUpdate(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock, zap.NewNop())
	id, tripID, passengerID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM bookings b WHERE b.id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(bookingRowColumns).
			AddRow(id, tripID, passengerID, 2, entity.BookingStatusPending, now, now))

	booking, err := repo.FindByIDForUpdate(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByIDForUpdate: %v", err)
	}
	if booking == nil || booking.TripID != tripID || booking.Seats != 2 || booking.Status != entity.BookingStatusPending {
		t.Fatalf("unexpected booking: %+v", booking)
	}
	expectationsMet(t, mock)
}

func TestFindBookingMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock, zap.NewNop())
	id := uuid.New()

	mock.ExpectQuery(`FROM bookings b WHERE b.id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(bookingRowColumns))

	booking, err := repo.FindByIDForUpdate(context.Background(), id)
	if err != nil || booking != nil {
		t.Fatalf("got %+v, %v; want nil, nil", booking, err)
	}
	expectationsMet(t, mock)
}

func TestSumConfirmedSeats(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock, zap.NewNop())
	tripID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(seats\), 0\) FROM bookings WHERE trip_id = \$1 AND status = 'confirmed'`).
		WithArgs(tripID).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(5))

	sum, err := repo.SumConfirmedSeats(context.Background(), tripID)
	if err != nil {
		t.Fatalf("SumConfirmedSeats: %v", err)
	}
	if sum != 5 {
		t.Fatalf("sum = %d, want 5", sum)
	}
	expectationsMet(t, mock)
}

func TestBookingUpdateStatusIsConditional(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock, zap.NewNop())
	id := uuid.New()

	mock.ExpectExec(`UPDATE bookings SET status = \$3, updated_at = NOW\(\) WHERE id = \$1 AND status = \$2`).
		WithArgs(id, entity.BookingStatusPending, entity.BookingStatusConfirmed).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(id, entity.BookingStatusPending, entity.BookingStatusRejected).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ctx := context.Background()
	if err := repo.UpdateStatus(ctx, id, entity.BookingStatusPending, entity.BookingStatusConfirmed); err != nil {
		t.Fatalf("first UpdateStatus: %v", err)
	}
	if err := repo.UpdateStatus(ctx, id, entity.BookingStatusPending, entity.BookingStatusRejected); !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("err = %v, want ErrStatusConflict", err)
	}
	expectationsMet(t, mock)
}

func TestFindActiveByDriverID(t *testing.T) {
	mock := newMock(t)
	repo := NewBookingRepository(mock, zap.NewNop())
	driverID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`JOIN trips t ON t.id = b.trip_id`).
		WithArgs(driverID).
		WillReturnRows(pgxmock.NewRows(bookingRowColumns).
			AddRow(uuid.New(), uuid.New(), uuid.New(), 1, entity.BookingStatusPending, now, now).
			AddRow(uuid.New(), uuid.New(), uuid.New(), 2, entity.BookingStatusConfirmed, now, now))

	bookings, err := repo.FindActiveByDriverID(context.Background(), driverID)
	if err != nil {
		t.Fatalf("FindActiveByDriverID: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("got %d bookings, want 2", len(bookings))
	}
	expectationsMet(t, mock)
}
