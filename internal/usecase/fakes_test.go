package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"rideshare-booking/internal/data/entity"
	"rideshare-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memStore backs the fake repositories. A unit of work holds mu for its whole
// duration and restores a snapshot when it fails.
type memStore struct {
	mu            sync.Mutex
	trips         map[uuid.UUID]entity.Trip
	bookings      map[uuid.UUID]entity.Booking
	notifications []entity.Notification
	failAppend    bool
}

func newMemStore() *memStore {
	return &memStore{
		trips:    make(map[uuid.UUID]entity.Trip),
		bookings: make(map[uuid.UUID]entity.Booking),
	}
}

func (s *memStore) repository() *repository.Repository {
	var repo *repository.Repository
	repo = repository.New(
		&fakeTrips{s: s},
		&fakeBookings{s: s},
		&fakeMailbox{s: s},
		func(ctx context.Context, fn func(repo *repository.Repository) error) error {
			s.mu.Lock()
			defer s.mu.Unlock()

			trips := make(map[uuid.UUID]entity.Trip, len(s.trips))
			for k, v := range s.trips {
				trips[k] = v
			}
			bookings := make(map[uuid.UUID]entity.Booking, len(s.bookings))
			for k, v := range s.bookings {
				bookings[k] = v
			}
			notifications := append([]entity.Notification(nil), s.notifications...)

			if err := fn(repo); err != nil {
				s.trips, s.bookings, s.notifications = trips, bookings, notifications
				return err
			}
			return nil
		},
	)
	return repo
}

func (s *memStore) addTrip(driverID uuid.UUID, seats int, instant bool) entity.Trip {
	now := time.Now()
	trip := entity.Trip{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		DriverID:       driverID,
		Origin:         entity.Location{CityKey: "almaty", Address: "Abai 1"},
		Destination:    entity.Location{CityKey: "astana", Address: "Mangilik El 5"},
		DepartureTime:  now.Add(24 * time.Hour),
		Price:          5000,
		TotalSeats:     seats,
		AvailableSeats: seats,
		InstantBooking: instant,
		Status:         entity.TripStatusActive,
	}
	s.trips[trip.ID] = trip
	return trip
}

func (s *memStore) trip(id uuid.UUID) entity.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trips[id]
}

func (s *memStore) booking(id uuid.UUID) entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *memStore) mailbox(userID uuid.UUID) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *memStore) confirmedSeats(tripID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for _, b := range s.bookings {
		if b.TripID == tripID && b.Status == entity.BookingStatusConfirmed {
			sum += b.Seats
		}
	}
	return sum
}

type fakeTrips struct{ s *memStore }

func (f *fakeTrips) Create(ctx context.Context, trip *entity.Trip) error {
	f.s.trips[trip.ID] = *trip
	return nil
}

func (f *fakeTrips) FindByID(ctx context.Context, id uuid.UUID) (*entity.Trip, error) {
	trip, ok := f.s.trips[id]
	if !ok {
		return nil, nil
	}
	return &trip, nil
}

func (f *fakeTrips) FindByDriverID(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*entity.Trip, error) {
	var trips []*entity.Trip
	for _, t := range f.s.trips {
		if t.DriverID == driverID {
			trip := t
			trips = append(trips, &trip)
		}
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].DepartureTime.After(trips[j].DepartureTime) })
	return page(trips, limit, offset), nil
}

func (f *fakeTrips) CountByDriverID(ctx context.Context, driverID uuid.UUID) (int64, error) {
	var n int64
	for _, t := range f.s.trips {
		if t.DriverID == driverID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTrips) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TripStatus) error {
	trip, ok := f.s.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	trip.Status = status
	f.s.trips[id] = trip
	return nil
}

func (f *fakeTrips) TryReserve(ctx context.Context, id uuid.UUID, seats int) (int, error) {
	if seats <= 0 {
		return 0, repository.ErrInvalidSeats
	}
	trip, ok := f.s.trips[id]
	if !ok || trip.Status != entity.TripStatusActive {
		return 0, repository.ErrTripNotFound
	}
	if trip.AvailableSeats < seats {
		return trip.AvailableSeats, repository.ErrInsufficientSeats
	}
	trip.AvailableSeats -= seats
	f.s.trips[id] = trip
	return trip.AvailableSeats, nil
}

func (f *fakeTrips) Release(ctx context.Context, id uuid.UUID, seats int) (int, error) {
	if seats <= 0 {
		return 0, repository.ErrInvalidSeats
	}
	trip, ok := f.s.trips[id]
	if !ok {
		return 0, repository.ErrTripNotFound
	}
	trip.AvailableSeats = min(trip.TotalSeats, trip.AvailableSeats+seats)
	f.s.trips[id] = trip
	return trip.AvailableSeats, nil
}

type fakeBookings struct{ s *memStore }

func (f *fakeBookings) Create(ctx context.Context, booking *entity.Booking) error {
	f.s.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeBookings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	b, ok := f.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBookings) FindByPassengerID(ctx context.Context, passengerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range f.s.bookings {
		if b.PassengerID == passengerID {
			booking := b
			out = append(out, &booking)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (f *fakeBookings) CountByPassengerID(ctx context.Context, passengerID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range f.s.bookings {
		if b.PassengerID == passengerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookings) FindActiveByDriverID(ctx context.Context, driverID uuid.UUID) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range f.s.bookings {
		trip := f.s.trips[b.TripID]
		if trip.DriverID == driverID && (b.Status == entity.BookingStatusPending || b.Status == entity.BookingStatusConfirmed) {
			booking := b
			out = append(out, &booking)
		}
	}
	return out, nil
}

func (f *fakeBookings) SumConfirmedSeats(ctx context.Context, tripID uuid.UUID) (int, error) {
	sum := 0
	for _, b := range f.s.bookings {
		if b.TripID == tripID && b.Status == entity.BookingStatusConfirmed {
			sum += b.Seats
		}
	}
	return sum, nil
}

func (f *fakeBookings) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error {
	b, ok := f.s.bookings[id]
	if !ok || b.Status != from {
		return repository.ErrStatusConflict
	}
	b.Status = to
	f.s.bookings[id] = b
	return nil
}

type fakeMailbox struct{ s *memStore }

func (f *fakeMailbox) Append(ctx context.Context, n *entity.Notification) error {
	if f.s.failAppend {
		return errors.New("mailbox unavailable")
	}
	f.s.notifications = append(f.s.notifications, *n)
	return nil
}

func (f *fakeMailbox) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for i := len(f.s.notifications) - 1; i >= 0; i-- {
		if n := f.s.notifications[i]; n.UserID == userID {
			out = append(out, &n)
		}
	}
	return page(out, limit, offset), nil
}

func (f *fakeMailbox) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var total, unread int64
	for _, n := range f.s.notifications {
		if n.UserID == userID {
			total++
			if !n.IsRead {
				unread++
			}
		}
	}
	return total, unread, nil
}

func (f *fakeMailbox) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	for i := range f.s.notifications {
		if f.s.notifications[i].ID == id && f.s.notifications[i].UserID == userID {
			f.s.notifications[i].IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*entity.Notification
	err       error
}

func (p *recordingPublisher) PublishNotification(ctx context.Context, n *entity.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, n)
	return p.err
}
