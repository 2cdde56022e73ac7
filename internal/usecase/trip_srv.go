package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideshare-booking/internal/data/entity"
	"rideshare-booking/internal/data/repository"
	"rideshare-booking/internal/dto/request"
	"rideshare-booking/internal/dto/response"
	"rideshare-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TripService interface {
	// Public
	GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error)

	// Driver
	CreateTrip(ctx context.Context, actor Actor, req *request.CreateTripRequest) (*response.TripResponse, error)
	ListDriverTrips(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TripResponse], error)
	CancelTrip(ctx context.Context, actor Actor, tripID string) (*response.TripResponse, error)
}

type tripService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTripService(repo *repository.Repository, log *zap.Logger) TripService {
	return &tripService{
		repo: repo,
		log:  log.With(zap.String("service", "trip")),
	}
}

func (s *tripService) CreateTrip(ctx context.Context, actor Actor, req *request.CreateTripRequest) (*response.TripResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create trip validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	trip := &entity.Trip{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DriverID:        actor.UserID,
		Origin:          entity.Location{CityKey: req.Origin.CityKey, Address: req.Origin.Address},
		Destination:     entity.Location{CityKey: req.Destination.CityKey, Address: req.Destination.Address},
		DepartureTime:   req.DepartureTime,
		Price:           req.Price,
		TotalSeats:      req.Seats,
		AvailableSeats:  req.Seats,
		Description:     req.Description,
		InstantBooking:  req.InstantBooking,
		MaxTwoBackSeats: req.MaxTwoBackSeats,
		Status:          entity.TripStatusActive,
	}

	if err := s.repo.Trip.Create(ctx, trip); err != nil {
		s.log.Error("Failed to create trip",
			zap.Error(err),
			zap.String("driver_id", actor.UserID.String()),
		)
		return nil, fmt.Errorf("create trip: %w", err)
	}

	s.log.Info("Trip created",
		zap.String("trip_id", trip.ID.String()),
		zap.String("driver_id", actor.UserID.String()),
		zap.Int("seats", trip.TotalSeats),
		zap.Bool("instant_booking", trip.InstantBooking),
	)

	resp := response.TripToResponse(trip)
	return &resp, nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID string) (*response.TripResponse, error) {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return nil, ErrTripNotFound
	}

	trip, err := s.repo.Trip.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get trip", zap.Error(err), zap.String("trip_id", tripID))
		return nil, fmt.Errorf("get trip: %w", err)
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	resp := response.TripToResponse(trip)
	return &resp, nil
}

func (s *tripService) ListDriverTrips(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TripResponse], error) {
	limit := req.Limit()

	trips, err := s.repo.Trip.FindByDriverID(ctx, actor.UserID, limit, req.Offset())
	if err != nil {
		s.log.Error("Failed to get driver trips",
			zap.Error(err),
			zap.String("driver_id", actor.UserID.String()),
		)
		return nil, fmt.Errorf("get driver trips: %w", err)
	}

	total, err := s.repo.Trip.CountByDriverID(ctx, actor.UserID)
	if err != nil {
		s.log.Error("Failed to count driver trips", zap.Error(err))
		return nil, fmt.Errorf("count driver trips: %w", err)
	}

	data := make([]response.TripResponse, len(trips))
	for i, trip := range trips {
		data[i] = response.TripToResponse(trip)
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

// CancelTrip closes the trip for new reservations. Bookings already on it are
// left as they are.
func (s *tripService) CancelTrip(ctx context.Context, actor Actor, tripID string) (*response.TripResponse, error) {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return nil, ErrTripNotFound
	}

	var trip *entity.Trip
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		trip, err = tx.Trip.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load trip: %w", err)
		}
		if trip == nil {
			return ErrTripNotFound
		}
		if trip.DriverID != actor.UserID {
			return ErrForbidden
		}
		if !trip.IsActive() {
			return ErrTripNotCancellable
		}

		err = tx.Trip.UpdateStatus(ctx, id, entity.TripStatusCancelled)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTripNotFound
		}
		if err != nil {
			return fmt.Errorf("cancel trip: %w", err)
		}
		trip.Status = entity.TripStatusCancelled
		return nil
	})
	if err != nil {
		if IsExpected(err) {
			s.log.Warn("Failed to cancel trip", zap.Error(err), zap.String("trip_id", tripID))
			return nil, err
		}
		s.log.Error("Failed to cancel trip", zap.Error(err), zap.String("trip_id", tripID))
		return nil, fmt.Errorf("cancel trip: %w", err)
	}

	s.log.Info("Trip cancelled",
		zap.String("trip_id", tripID),
		zap.String("driver_id", actor.UserID.String()),
	)

	resp := response.TripToResponse(trip)
	return &resp, nil
}
