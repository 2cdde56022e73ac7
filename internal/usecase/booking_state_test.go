package usecase

import (
	"context"
	"slices"
	"testing"

	"rideshare-booking/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestBookingLifecycleEdges(t *testing.T) {
	wf := newBookingMachine(newNotificationSink(nil, zap.NewNop()), zap.NewNop()).wf

	tests := []struct {
		state string
		want  []string
	}{
		{stateNone, []string{"book_instant", "request"}},
		{statePending, []string{"cancel", "confirm", "reject"}},
		{stateConfirmed, []string{"cancel"}},
		// terminal
		{stateCancelled, []string{}},
		{stateRejected, []string{}},
		{"expired", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			if got := wf.AvailableSignals(tt.state); !slices.Equal(got, tt.want) {
				t.Fatalf("signals from %s = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestRefusedTransitionLeavesBookingUntouched(t *testing.T) {
	store := newMemStore()
	repo := store.repository()
	machine := newBookingMachine(newNotificationSink(nil, zap.NewNop()), zap.NewNop())
	trip := store.addTrip(uuid.New(), 3, false)

	tests := []struct {
		status entity.BookingStatus
		t      transition
		want   *Error
	}{
		{entity.BookingStatusConfirmed, confirmPending, ErrAlreadyProcessed},
		{entity.BookingStatusRejected, rejectPending, ErrAlreadyProcessed},
		{entity.BookingStatusCancelled, confirmPending, ErrAlreadyProcessed},
		{entity.BookingStatusCancelled, cancelActive, ErrAlreadyTerminal},
		{entity.BookingStatusRejected, cancelActive, ErrAlreadyTerminal},
	}

	for _, tt := range tests {
		t.Run(string(tt.status)+"/"+tt.t.name, func(t *testing.T) {
			b := &entity.Booking{
				Base:        entity.Base{ID: uuid.New()},
				TripID:      trip.ID,
				PassengerID: uuid.New(),
				Seats:       1,
				Status:      tt.status,
			}

			note, err := machine.apply(context.Background(), repo, tt.t, b, &trip)
			assertCode(t, err, tt.want)
			if note != nil {
				t.Fatalf("refused transition produced a notification")
			}
			if b.Status != tt.status {
				t.Fatalf("status = %s, want %s", b.Status, tt.status)
			}
			if got := store.trip(trip.ID).AvailableSeats; got != 3 {
				t.Fatalf("available = %d, want 3", got)
			}
		})
	}
}
