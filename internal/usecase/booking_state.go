package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideshare-booking/internal/data/entity"
	"rideshare-booking/internal/data/repository"

	"github.com/im-adarsh/go-statemachine/workflow"
	"go.uber.org/zap"
)

// stateNone is where a booking starts before its row exists.
const stateNone = "none"

const (
	statePending   = string(entity.BookingStatusPending)
	stateConfirmed = string(entity.BookingStatusConfirmed)
	stateRejected  = string(entity.BookingStatusRejected)
	stateCancelled = string(entity.BookingStatusCancelled)
)

// transition names the signal an operation sends and the error it reports
// when the booking's current status has no such edge.
type transition struct {
	name    string
	illegal *Error
}

var (
	requestPending = transition{name: "request"}
	requestInstant = transition{name: "book_instant"}
	confirmPending = transition{name: "confirm", illegal: ErrAlreadyProcessed}
	rejectPending  = transition{name: "reject", illegal: ErrAlreadyProcessed}
	cancelActive   = transition{name: "cancel", illegal: ErrAlreadyTerminal}
)

// initial picks the creation edge for a trip.
func initial(trip *entity.Trip) transition {
	if trip.InstantBooking {
		return requestInstant
	}
	return requestPending
}

// bookingRun is the payload of one signal. repo is bound to the caller's
// transaction; from is the status of the locked row.
type bookingRun struct {
	repo    *repository.Repository
	booking *entity.Booking
	trip    *entity.Trip
	from    entity.BookingStatus
	illegal *Error
	note    *entity.Notification
}

// bookingMachine executes transitions inside a caller-owned unit of work.
// It is the single place where booking status, seat ledger and notifications
// change together.
type bookingMachine struct {
	wf   *workflow.Workflow[*bookingRun]
	sink *notificationSink
	log  *zap.Logger
}

func newBookingMachine(sink *notificationSink, log *zap.Logger) *bookingMachine {
	m := &bookingMachine{
		sink: sink,
		log:  log.With(zap.String("component", "booking_state")),
	}
	m.wf = bookingWF(m)
	return m
}

// bookingWF is the booking lifecycle. Seats move only on the edges that
// reserve or release them; cancelled and rejected have no way out.
func bookingWF(m *bookingMachine) *workflow.Workflow[*bookingRun] {
	return workflow.Define[*bookingRun]().
		From(stateNone).On(requestPending.name).To(statePending).
		Activity(insertAs(entity.BookingStatusPending), m.notify(newRequestDraft)).
		From(stateNone).On(requestInstant.name).To(stateConfirmed).
		Activity(reserveSeats, insertAs(entity.BookingStatusConfirmed), m.notify(bookedDraft)).
		From(statePending).On(confirmPending.name).To(stateConfirmed).
		Activity(reserveSeats, moveTo(entity.BookingStatusConfirmed), m.notify(confirmedDraft)).
		From(statePending).On(rejectPending.name).To(stateRejected).
		Activity(moveTo(entity.BookingStatusRejected), m.notify(rejectedDraft)).
		From(statePending).On(cancelActive.name).To(stateCancelled).
		Activity(moveTo(entity.BookingStatusCancelled), m.notify(cancelledDraft)).
		From(stateConfirmed).On(cancelActive.name).To(stateCancelled).
		Activity(releaseSeats, moveTo(entity.BookingStatusCancelled), m.notify(cancelledDraft)).
		MustBuild()
}

// apply sends t for booking b. A booking without status is created, otherwise
// b must be the locked current row. On success b carries the new status and
// the appended notification (nil if the append failed) is returned.
func (m *bookingMachine) apply(ctx context.Context, repo *repository.Repository, t transition, b *entity.Booking, trip *entity.Trip) (*entity.Notification, error) {
	state := stateNone
	if b.Status != "" {
		state = string(b.Status)
	}

	run := &bookingRun{
		repo:    repo,
		booking: b,
		trip:    trip,
		from:    b.Status,
		illegal: t.illegal,
	}

	exec := m.wf.NewExecution(ctx, state, workflow.WithHooks(workflow.ExecutionHooks[*bookingRun]{
		OnTransition: func(_ context.Context, from, to, signal string, run *bookingRun) {
			m.log.Debug("Transition applied",
				zap.String("transition", signal),
				zap.String("booking_id", run.booking.ID.String()),
				zap.String("from", from),
				zap.String("to", to),
			)
		},
	}))
	defer exec.Cancel()

	err := exec.Signal(ctx, t.name, run)
	if err == nil {
		return run.note, nil
	}

	if errors.Is(err, workflow.ErrUnknownSignal) && t.illegal != nil {
		m.log.Debug("Transition refused",
			zap.String("transition", t.name),
			zap.String("booking_id", b.ID.String()),
			zap.String("status", state),
		)
		return nil, t.illegal
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return nil, svcErr
	}
	return nil, fmt.Errorf("%s: %w", t.name, err)
}

func reserveSeats(ctx context.Context, run *bookingRun) error {
	b := run.booking
	available, err := run.repo.Trip.TryReserve(ctx, b.TripID, b.Seats)
	switch {
	case errors.Is(err, repository.ErrInsufficientSeats):
		return insufficientCapacity(available)
	case errors.Is(err, repository.ErrTripNotFound):
		return ErrTripNotFound
	case errors.Is(err, repository.ErrInvalidSeats):
		return ErrInvalidSeatCount
	case err != nil:
		return fmt.Errorf("reserve seats: %w", err)
	}
	return nil
}

func releaseSeats(ctx context.Context, run *bookingRun) error {
	b := run.booking
	if _, err := run.repo.Trip.Release(ctx, b.TripID, b.Seats); err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return ErrTripNotFound
		}
		return fmt.Errorf("release seats: %w", err)
	}
	return nil
}

func insertAs(status entity.BookingStatus) workflow.Activity[*bookingRun] {
	return func(ctx context.Context, run *bookingRun) error {
		b := run.booking
		now := time.Now()
		b.Status = status
		b.CreatedAt = now
		b.UpdatedAt = now
		if err := run.repo.Booking.Create(ctx, b); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	}
}

// moveTo is a compare-and-set on the locked row's status.
func moveTo(to entity.BookingStatus) workflow.Activity[*bookingRun] {
	return func(ctx context.Context, run *bookingRun) error {
		b := run.booking
		err := run.repo.Booking.UpdateStatus(ctx, b.ID, run.from, to)
		if errors.Is(err, repository.ErrStatusConflict) && run.illegal != nil {
			return run.illegal
		}
		if err != nil {
			return fmt.Errorf("move booking to %s: %w", to, err)
		}
		b.Status = to
		b.UpdatedAt = time.Now()
		return nil
	}
}

// notify is the last step of every edge. It never fails the transition.
func (m *bookingMachine) notify(draft func(b *entity.Booking, trip *entity.Trip) notificationDraft) workflow.Activity[*bookingRun] {
	return func(ctx context.Context, run *bookingRun) error {
		run.note = m.sink.append(ctx, run.repo.Notification, draft(run.booking, run.trip), run.booking.ID)
		return nil
	}
}

func newRequestDraft(b *entity.Booking, trip *entity.Trip) notificationDraft {
	return notificationDraft{
		recipient: trip.DriverID,
		kind:      entity.NotificationInfo,
		title:     "New booking request",
		message:   fmt.Sprintf("A passenger requested %d seat(s) on your trip %s to %s.", b.Seats, trip.Origin.CityKey, trip.Destination.CityKey),
	}
}

func bookedDraft(b *entity.Booking, trip *entity.Trip) notificationDraft {
	return notificationDraft{
		recipient: b.PassengerID,
		kind:      entity.NotificationSuccess,
		title:     "Booking created",
		message:   fmt.Sprintf("Your %d seat(s) on the trip %s to %s are booked.", b.Seats, trip.Origin.CityKey, trip.Destination.CityKey),
	}
}

func confirmedDraft(b *entity.Booking, trip *entity.Trip) notificationDraft {
	return notificationDraft{
		recipient: b.PassengerID,
		kind:      entity.NotificationSuccess,
		title:     "Booking confirmed",
		message:   fmt.Sprintf("The driver confirmed your booking on the trip %s to %s.", trip.Origin.CityKey, trip.Destination.CityKey),
	}
}

func rejectedDraft(b *entity.Booking, trip *entity.Trip) notificationDraft {
	return notificationDraft{
		recipient: b.PassengerID,
		kind:      entity.NotificationError,
		title:     "Booking rejected",
		message:   fmt.Sprintf("The driver rejected your booking on the trip %s to %s.", trip.Origin.CityKey, trip.Destination.CityKey),
	}
}

func cancelledDraft(b *entity.Booking, trip *entity.Trip) notificationDraft {
	return notificationDraft{
		recipient: trip.DriverID,
		kind:      entity.NotificationInfo,
		title:     "Booking cancelled",
		message:   fmt.Sprintf("A passenger cancelled %d seat(s) on your trip %s to %s.", b.Seats, trip.Origin.CityKey, trip.Destination.CityKey),
	}
}
