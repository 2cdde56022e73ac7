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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	// FindByIDForUpdate locks the booking row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByPassengerID(ctx context.Context, passengerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByPassengerID(ctx context.Context, passengerID uuid.UUID) (int64, error)

	// Business queries
	FindActiveByDriverID(ctx context.Context, driverID uuid.UUID) ([]*entity.Booking, error)
	SumConfirmedSeats(ctx context.Context, tripID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.trip_id, b.passenger_id, b.seats, b.status, b.created_at, b.updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.TripID,
		&booking.PassengerID,
		&booking.Seats,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, trip_id, passenger_id, seats, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.TripID,
		booking.PassengerID,
		booking.Seats,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("trip_id", booking.TripID.String()),
			zap.String("passenger_id", booking.PassengerID.String()),
		)
		return fmt.Errorf("create booking on trip %s: %w", booking.TripID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 FOR UPDATE`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByPassengerID(ctx context.Context, passengerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.passenger_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, passengerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by passenger ID",
			zap.Error(err),
			zap.String("passenger_id", passengerID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by passenger ID %s: %w", passengerID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) CountByPassengerID(ctx context.Context, passengerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE passenger_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, passengerID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by passenger ID",
			zap.Error(err),
			zap.String("passenger_id", passengerID.String()),
		)
		return 0, fmt.Errorf("count bookings by passenger ID %s: %w", passengerID.String(), err)
	}

	return count, nil
}

// FindActiveByDriverID returns pending and confirmed bookings on any trip of the driver.
func (r *bookingRepository) FindActiveByDriverID(ctx context.Context, driverID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN trips t ON t.id = b.trip_id
		WHERE t.driver_id = $1 AND b.status IN ('pending', 'confirmed')
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, driverID)
	if err != nil {
		r.log.Error("Failed to find active bookings by driver ID",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, fmt.Errorf("find active bookings by driver ID %s: %w", driverID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) SumConfirmedSeats(ctx context.Context, tripID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(SUM(seats), 0) FROM bookings WHERE trip_id = $1 AND status = 'confirmed'`

	var sum int
	if err := r.db.QueryRow(ctx, query, tripID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum confirmed seats on trip %s: %w", tripID.String(), err)
	}
	return sum, nil
}

// UpdateStatus moves a booking from one status to another. The from status is
// part of the predicate, so a stale transition affects no rows.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(to), err)
	}

	if result.RowsAffected() == 0 {
		return ErrStatusConflict
	}

	return nil
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
