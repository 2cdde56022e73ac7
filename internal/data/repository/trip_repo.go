package repository

import (
	"context"
	"errors"
	"fmt"

	"rideshare-booking/internal/data/entity"
	"rideshare-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TripRepository interface {
	Create(ctx context.Context, trip *entity.Trip) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error)
	FindByDriverID(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*entity.Trip, error)
	CountByDriverID(ctx context.Context, driverID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TripStatus) error

	// Seat ledger. Both statements are single conditional updates, so the
	// check and the mutation happen under one row lock.
	TryReserve(ctx context.Context, id uuid.UUID, seats int) (int, error)
	Release(ctx context.Context, id uuid.UUID, seats int) (int, error)
}

type tripRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTripRepository(db database.Querier, log *zap.Logger) TripRepository {
	return &tripRepository{
		db:  db,
		log: log.With(zap.String("repository", "trip")),
	}
}

const tripColumns = `id, driver_id, origin, destination, departure_time, price,
		       total_seats, available_seats, description, instant_booking,
		       max_two_back_seats, status, created_at, updated_at`

func scanTrip(row pgx.Row) (*entity.Trip, error) {
	var trip entity.Trip
	err := row.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.Origin,
		&trip.Destination,
		&trip.DepartureTime,
		&trip.Price,
		&trip.TotalSeats,
		&trip.AvailableSeats,
		&trip.Description,
		&trip.InstantBooking,
		&trip.MaxTwoBackSeats,
		&trip.Status,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) Create(ctx context.Context, trip *entity.Trip) error {
	query := `
		INSERT INTO trips (id, driver_id, origin, destination, departure_time, price,
		                   total_seats, available_seats, description, instant_booking,
		                   max_two_back_seats, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.Origin,
		trip.Destination,
		trip.DepartureTime,
		trip.Price,
		trip.TotalSeats,
		trip.AvailableSeats,
		trip.Description,
		trip.InstantBooking,
		trip.MaxTwoBackSeats,
		trip.Status,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create trip",
			zap.Error(err),
			zap.String("driver_id", trip.DriverID.String()),
		)
		return fmt.Errorf("create trip for driver %s: %w", trip.DriverID.String(), err)
	}

	return nil
}

func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find trip by ID",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return nil, fmt.Errorf("find trip by ID %s: %w", id.String(), err)
	}

	return trip, nil
}

func (r *tripRepository) FindByDriverID(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*entity.Trip, error) {
	query := `SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = $1
		ORDER BY departure_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, driverID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find trips by driver ID",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, fmt.Errorf("find trips by driver ID %s: %w", driverID.String(), err)
	}
	defer rows.Close()

	var trips []*entity.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			r.log.Error("Failed to scan trip row", zap.Error(err))
			return nil, fmt.Errorf("scan trip row: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

func (r *tripRepository) CountByDriverID(ctx context.Context, driverID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM trips WHERE driver_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, driverID).Scan(&count); err != nil {
		r.log.Error("Failed to count trips by driver ID",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return 0, fmt.Errorf("count trips by driver ID %s: %w", driverID.String(), err)
	}

	return count, nil
}

func (r *tripRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TripStatus) error {
	query := `UPDATE trips SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update trip status",
			zap.Error(err),
			zap.String("trip_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update trip %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// TryReserve takes seats from an active trip and returns the seats left.
// It fails with ErrTripNotFound when the trip is missing or not active and
// with ErrInsufficientSeats when fewer than seats remain.
func (r *tripRepository) TryReserve(ctx context.Context, id uuid.UUID, seats int) (int, error) {
	if seats <= 0 {
		return 0, ErrInvalidSeats
	}

	remaining, err := r.decrement(ctx, id, seats)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// nothing updated, lock the row and find out why
	var status entity.TripStatus
	var available int
	err = r.db.QueryRow(ctx, `SELECT status, available_seats FROM trips WHERE id = $1 FOR UPDATE`, id).Scan(&status, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrTripNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("inspect trip %s after failed reserve: %w", id.String(), err)
	}
	if status != entity.TripStatusActive {
		return 0, ErrTripNotFound
	}
	if available >= seats {
		// seats came back between the two statements; the row is ours now
		return r.decrement(ctx, id, seats)
	}

	r.log.Debug("Reserve rejected, not enough seats",
		zap.String("trip_id", id.String()),
		zap.Int("requested", seats),
		zap.Int("available", available),
	)
	return available, ErrInsufficientSeats
}

func (r *tripRepository) decrement(ctx context.Context, id uuid.UUID, seats int) (int, error) {
	query := `
		UPDATE trips
		SET available_seats = available_seats - $2, updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND available_seats >= $2
		RETURNING available_seats
	`

	var remaining int
	err := r.db.QueryRow(ctx, query, id, seats).Scan(&remaining)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to reserve seats",
			zap.Error(err),
			zap.String("trip_id", id.String()),
			zap.Int("seats", seats),
		)
		return 0, fmt.Errorf("reserve %d seats on trip %s: %w", seats, id.String(), err)
	}
	return remaining, err
}

// Release gives seats back, never above the trip's total capacity.
func (r *tripRepository) Release(ctx context.Context, id uuid.UUID, seats int) (int, error) {
	if seats <= 0 {
		return 0, ErrInvalidSeats
	}

	query := `
		UPDATE trips
		SET available_seats = LEAST(total_seats, available_seats + $2), updated_at = NOW()
		WHERE id = $1
		RETURNING available_seats
	`

	var remaining int
	err := r.db.QueryRow(ctx, query, id, seats).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrTripNotFound
	}
	if err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.String("trip_id", id.String()),
			zap.Int("seats", seats),
		)
		return 0, fmt.Errorf("release %d seats on trip %s: %w", seats, id.String(), err)
	}

	return remaining, nil
}
