package repository

import (
	"context"
	"errors"

	"rideshare-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrTripNotFound      = errors.New("trip not found or not active")
	ErrInsufficientSeats = errors.New("insufficient available seats")
	ErrInvalidSeats      = errors.New("seat count must be positive")
	ErrStatusConflict    = errors.New("booking status changed concurrently")
)

// TxFunc runs fn with a Repository whose members are bound to one transaction.
type TxFunc func(ctx context.Context, fn func(repo *Repository) error) error

type Repository struct {
	Trip         TripRepository
	Booking      BookingRepository
	Notification NotificationRepository

	tx TxFunc
}

func NewRepository(db database.PgxIface, retries int, log *zap.Logger) *Repository {
	repo := bind(db, log)
	repo.tx = func(ctx context.Context, fn func(repo *Repository) error) error {
		return database.RunInTx(ctx, db, retries, log, func(tx pgx.Tx) error {
			return fn(bind(tx, log))
		})
	}
	return repo
}

// New assembles a Repository from explicit members, e.g. in-memory stores in tests.
// A nil tx runs the unit of work directly against the members.
func New(trip TripRepository, booking BookingRepository, notification NotificationRepository, tx TxFunc) *Repository {
	return &Repository{
		Trip:         trip,
		Booking:      booking,
		Notification: notification,
		tx:           tx,
	}
}

func bind(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Trip:         NewTripRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Notification: NewNotificationRepository(db, log),
	}
}

// Transaction executes fn as one unit of work. Everything fn does through the
// repo it receives commits or rolls back together.
func (r *Repository) Transaction(ctx context.Context, fn func(repo *Repository) error) error {
	if r.tx == nil {
		return fn(r)
	}
	return r.tx(ctx, fn)
}
