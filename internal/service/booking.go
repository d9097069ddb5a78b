package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/goevent/event-booking/internal/model"
	"github.com/goevent/event-booking/internal/queue"
	"github.com/goevent/event-booking/internal/store"
)

// maxConflictAttempts bounds how often a capacity write is replayed after
// losing a conditional-write race before Conflict surfaces to the caller.
const maxConflictAttempts = 3

// Notifier publishes booking lifecycle messages.  Publish failures must stay
// inside the notifier or its caller; they never fail a booking.
type Notifier interface {
	BookingCreated(ctx context.Context, msg queue.BookingCreated) error
}

// BookingService is the seat inventory engine.  It keeps, for every event,
// available = total − sum(seats of live bookings) across concurrent
// reservations, adjustments and releases.  No in-process lock is involved:
// the store's conditional write on the Event document is the only
// serialization point, so the workflow also holds across several service
// instances sharing one database.
//
// The Event capacity change is always written before the Booking record.  If
// the process dies between the two writes the event under-counts availability,
// which is recoverable by a compensating credit; the reverse order could
// oversell and is never used.
type BookingService struct {
	events   store.Store[model.Event]
	bookings store.Store[model.Booking]
	notifier Notifier
	cache    *EventCache
}

// NewBookingService wires the engine to its stores.  notifier and cache may
// be nil, disabling notifications and cache invalidation respectively.
func NewBookingService(events store.Store[model.Event], bookings store.Store[model.Booking], notifier Notifier, cache *EventCache) *BookingService {
	if events == nil || bookings == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{events: events, bookings: bookings, notifier: notifier, cache: cache}
}

// CreateBooking reserves seats on an event.  The whole read-validate-write
// sequence is replayed on conflict so the capacity check always runs against
// the availability of the version being written.
func (s *BookingService) CreateBooking(ctx context.Context, userID, userEmail, userName, eventID string, seats int) (model.Booking, error) {
	var zero model.Booking
	if seats <= 0 {
		return zero, ErrInvalidSeatCount
	}
	err := s.retryOnConflict(ctx, func(ctx context.Context) error {
		ev, err := s.events.Get(ctx, eventID, eventID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrEventNotFound
		}
		if err != nil {
			return err
		}
		if seats > ev.AvailableSeats {
			return ErrInsufficientCapacity
		}
		ev.AvailableSeats -= seats
		_, err = s.events.Update(ctx, ev, ev.PartitionKey())
		return err
	})
	if err != nil {
		return zero, err
	}
	s.dropCache(ctx, eventID)

	booking := model.NewBooking(eventID, userID, userName, userEmail, seats)
	created, err := s.bookings.Add(ctx, booking)
	if err != nil {
		// The seats were already taken off the event; hand them back so the
		// failed booking has no lasting effect.
		s.adjustAvailable(ctx, eventID, seats)
		return zero, err
	}

	s.publishCreated(ctx, created)
	return created, nil
}

// UpdateBooking changes the seat count of an existing booking owned by
// userID, re-validating the delta against the event's current availability.
func (s *BookingService) UpdateBooking(ctx context.Context, userID, eventID, bookingID string, newSeats int) (model.Booking, error) {
	var zero model.Booking
	booking, err := s.bookings.Get(ctx, bookingID, eventID)
	if errors.Is(err, store.ErrNotFound) {
		return zero, ErrBookingNotFound
	}
	if err != nil {
		return zero, err
	}
	if booking.UserID != userID {
		return zero, ErrForbidden
	}
	if newSeats <= 0 {
		return zero, ErrInvalidSeatCount
	}

	delta := newSeats - booking.Seats
	if delta != 0 {
		err = s.retryOnConflict(ctx, func(ctx context.Context) error {
			ev, err := s.events.Get(ctx, eventID, eventID)
			if errors.Is(err, store.ErrNotFound) {
				return ErrEventNotFound
			}
			if err != nil {
				return err
			}
			if delta > 0 && delta > ev.AvailableSeats {
				return ErrInsufficientCapacity
			}
			ev.AvailableSeats -= delta
			if ev.AvailableSeats > ev.TotalSeats {
				ev.AvailableSeats = ev.TotalSeats
			}
			_, err = s.events.Update(ctx, ev, ev.PartitionKey())
			return err
		})
		if err != nil {
			return zero, err
		}
		s.dropCache(ctx, eventID)
	}

	booking.Seats = newSeats
	booking.BookingDate = time.Now().UTC()
	updated, err := s.bookings.Update(ctx, booking, eventID)
	if err != nil {
		if delta != 0 {
			// Undo the capacity change the orphaned delta took.
			s.adjustAvailable(ctx, eventID, delta)
		}
		return zero, err
	}
	return updated, nil
}

// DeleteBooking releases a booking, crediting its seats back to the owning
// event before removing the record.  Deleting an absent booking is a no-op
// success; the returned flag reports whether a record was actually removed.
func (s *BookingService) DeleteBooking(ctx context.Context, eventID, bookingID string) (bool, error) {
	booking, err := s.bookings.Get(ctx, bookingID, eventID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	// Credit first: a crash after the credit leaves a live booking whose
	// seats are counted twice only until the retryable delete lands, while
	// the reverse order could lose the seats for good.
	if err := s.adjustAvailable(ctx, eventID, booking.Seats); err != nil {
		return false, err
	}
	s.dropCache(ctx, eventID)
	return s.bookings.Delete(ctx, bookingID, eventID)
}

// GetBooking returns one booking by id within its event partition.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, eventID string) (model.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID, eventID)
	if errors.Is(err, store.ErrNotFound) {
		return booking, ErrBookingNotFound
	}
	return booking, err
}

// ListBookings returns every booking in the container.
func (s *BookingService) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return s.bookings.List(ctx)
}

// ListBookingsByEvent returns all bookings for one event.  The query stays
// inside the event's partition.
func (s *BookingService) ListBookingsByEvent(ctx context.Context, eventID string) ([]model.Booking, error) {
	return s.bookings.Find(ctx, bson.M{"eventId": eventID}, eventID)
}

// ListBookingsByUser returns all bookings made by one user across events.
func (s *BookingService) ListBookingsByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.bookings.Find(ctx, bson.M{"userId": userID}, "")
}

// adjustAvailable applies delta to an event's available seats with the usual
// conflict retries, clamping into [0, total].  A missing event is fine: the
// booking was orphaned by a catalog delete and there is nothing to credit.
func (s *BookingService) adjustAvailable(ctx context.Context, eventID string, delta int) error {
	return s.retryOnConflict(ctx, func(ctx context.Context) error {
		ev, err := s.events.Get(ctx, eventID, eventID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		ev.AvailableSeats += delta
		if ev.AvailableSeats > ev.TotalSeats {
			ev.AvailableSeats = ev.TotalSeats
		}
		if ev.AvailableSeats < 0 {
			ev.AvailableSeats = 0
		}
		_, err = s.events.Update(ctx, ev, ev.PartitionKey())
		return err
	})
}

// retryOnConflict replays fn while it loses conditional-write races.  Domain
// failures and transient-store failures pass straight through; the last
// conflict surfaces after the attempt budget.
func (s *BookingService) retryOnConflict(ctx context.Context, fn func(context.Context) error) error {
	return retryConflicts(ctx, fn)
}

// publishCreated sends the booking-created message.  Failures are logged and
// swallowed; the booking already happened.
func (s *BookingService) publishCreated(ctx context.Context, b model.Booking) {
	if s.notifier == nil {
		return
	}
	msg := queue.BookingCreated{
		EventID:   b.EventID,
		UserID:    b.UserID,
		UserName:  b.UserName,
		UserEmail: b.UserEmail,
		Seats:     b.Seats,
		CreatedAt: b.BookingDate,
	}
	if err := s.notifier.BookingCreated(ctx, msg); err != nil {
		log.Printf("booking: publish booking.created failed: %v", err)
	}
}

func (s *BookingService) dropCache(ctx context.Context, eventID string) {
	if s.cache != nil {
		s.cache.Drop(ctx, eventKey(eventID), eventListKey)
	}
}
