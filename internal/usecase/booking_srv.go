package usecase

import (
	"context"
	"fmt"

	"rideshare-booking/internal/data/entity"
	"rideshare-booking/internal/data/repository"
	"rideshare-booking/internal/dto/request"
	"rideshare-booking/internal/dto/response"
	"rideshare-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Passenger
	RequestBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	ListMyBookings(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Driver
	ConfirmBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	RejectBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error)
	ListDriverBookings(ctx context.Context, actor Actor) ([]response.BookingResponse, error)
}

type bookingService struct {
	repo    *repository.Repository
	machine *bookingMachine
	sink    *notificationSink
	log     *zap.Logger
}

func NewBookingService(repo *repository.Repository, publisher NotificationPublisher, log *zap.Logger) BookingService {
	sink := newNotificationSink(publisher, log)
	return &bookingService{
		repo:    repo,
		machine: newBookingMachine(sink, log),
		sink:    sink,
		log:     log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) RequestBooking(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Request booking validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}
	if req.Seats <= 0 {
		return nil, ErrInvalidSeatCount
	}

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, validationError(fmt.Sprintf("invalid trip ID %s", req.TripID))
	}

	booking := &entity.Booking{
		Base:        entity.Base{ID: uuid.New()},
		TripID:      tripID,
		PassengerID: actor.UserID,
		Seats:       req.Seats,
	}

	var trip *entity.Trip
	var note *entity.Notification
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		trip, err = tx.Trip.FindByID(ctx, tripID)
		if err != nil {
			return fmt.Errorf("load trip: %w", err)
		}
		if trip == nil || !trip.IsActive() {
			return ErrTripNotFound
		}
		// approval trips only check here, the seats are taken on confirmation
		if trip.AvailableSeats < booking.Seats {
			return insufficientCapacity(trip.AvailableSeats)
		}

		note, err = s.machine.apply(ctx, tx, initial(trip), booking, trip)
		return err
	})
	if err != nil {
		return nil, s.fail("request booking", err,
			zap.String("trip_id", req.TripID),
			zap.String("passenger_id", actor.UserID.String()),
			zap.Int("seats", req.Seats),
		)
	}

	s.sink.deliver(ctx, note)

	s.log.Info("Booking requested",
		zap.String("booking_id", booking.ID.String()),
		zap.String("trip_id", tripID.String()),
		zap.String("passenger_id", actor.UserID.String()),
		zap.Int("seats", booking.Seats),
		zap.String("status", string(booking.Status)),
	)

	resp := response.BookingToResponse(booking, trip)
	return &resp, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	return s.decide(ctx, actor, bookingID, confirmPending)
}

func (s *bookingService) RejectBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	return s.decide(ctx, actor, bookingID, rejectPending)
}

// decide runs a driver decision on a pending booking of one of the driver's trips.
func (s *bookingService) decide(ctx context.Context, actor Actor, bookingID string, t transition) (*response.BookingResponse, error) {
	return s.transitionExisting(ctx, actor, bookingID, t, func(b *entity.Booking, trip *entity.Trip) bool {
		return trip.DriverID == actor.UserID
	})
}

func (s *bookingService) CancelBooking(ctx context.Context, actor Actor, bookingID string) (*response.BookingResponse, error) {
	return s.transitionExisting(ctx, actor, bookingID, cancelActive, func(b *entity.Booking, trip *entity.Trip) bool {
		return b.PassengerID == actor.UserID
	})
}

// transitionExisting locks the booking, checks that actor may act on it and
// applies t in one unit of work.
func (s *bookingService) transitionExisting(
	ctx context.Context,
	actor Actor,
	bookingID string,
	t transition,
	permitted func(b *entity.Booking, trip *entity.Trip) bool,
) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	var booking *entity.Booking
	var trip *entity.Trip
	var note *entity.Notification
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		booking, err = tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("lock booking: %w", err)
		}
		if booking == nil {
			return ErrBookingNotFound
		}

		trip, err = tx.Trip.FindByID(ctx, booking.TripID)
		if err != nil {
			return fmt.Errorf("load trip: %w", err)
		}
		if trip == nil {
			return ErrTripNotFound
		}

		if !permitted(booking, trip) {
			return ErrForbidden
		}

		note, err = s.machine.apply(ctx, tx, t, booking, trip)
		return err
	})
	if err != nil {
		return nil, s.fail(t.name+" booking", err,
			zap.String("booking_id", bookingID),
			zap.String("actor_id", actor.UserID.String()),
		)
	}

	s.sink.deliver(ctx, note)

	s.log.Info("Booking updated",
		zap.String("transition", t.name),
		zap.String("booking_id", booking.ID.String()),
		zap.String("trip_id", booking.TripID.String()),
		zap.String("status", string(booking.Status)),
	)

	resp := response.BookingToResponse(booking, trip)
	return &resp, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByPassengerID(ctx, actor.UserID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get passenger bookings",
			zap.Error(err),
			zap.String("passenger_id", actor.UserID.String()),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get passenger bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByPassengerID(ctx, actor.UserID)
	if err != nil {
		s.log.Error("Failed to count passenger bookings", zap.Error(err))
		return nil, fmt.Errorf("count passenger bookings: %w", err)
	}

	data, err := s.withTrips(ctx, bookings)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

func (s *bookingService) ListDriverBookings(ctx context.Context, actor Actor) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindActiveByDriverID(ctx, actor.UserID)
	if err != nil {
		s.log.Error("Failed to get driver bookings",
			zap.Error(err),
			zap.String("driver_id", actor.UserID.String()),
		)
		return nil, fmt.Errorf("get driver bookings: %w", err)
	}

	return s.withTrips(ctx, bookings)
}

// withTrips converts bookings and attaches a summary of each booked trip.
func (s *bookingService) withTrips(ctx context.Context, bookings []*entity.Booking) ([]response.BookingResponse, error) {
	trips := make(map[uuid.UUID]*entity.Trip)
	data := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		trip, ok := trips[b.TripID]
		if !ok {
			var err error
			trip, err = s.repo.Trip.FindByID(ctx, b.TripID)
			if err != nil {
				return nil, fmt.Errorf("load trip for booking %s: %w", b.ID.String(), err)
			}
			trips[b.TripID] = trip
		}
		data[i] = response.BookingToResponse(b, trip)
	}
	return data, nil
}

// fail logs err at a level matching its kind and returns it unchanged.
func (s *bookingService) fail(op string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.Error(err))
	if IsExpected(err) {
		s.log.Warn("Failed to "+op, fields...)
		return err
	}
	s.log.Error("Failed to "+op, fields...)
	return fmt.Errorf("%s: %w", op, err)
}
