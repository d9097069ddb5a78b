package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/goevent/event-booking/internal/model"
	"github.com/goevent/event-booking/internal/store"
)

// EventService is the event catalog: plain CRUD over Event documents plus the
// cache in front of the read paths.  Capacity accounting lives in
// BookingService; the catalog only touches AvailableSeats when seeding a new
// event and when clamping after a capacity shrink.
type EventService struct {
	events store.Store[model.Event]
	cache  *EventCache
}

// NewEventService wires the catalog to its store.  cache may be nil.
func NewEventService(events store.Store[model.Event], cache *EventCache) *EventService {
	if events == nil {
		panic("nil store passed to NewEventService")
	}
	return &EventService{events: events, cache: cache}
}

// CreateEvent adds an event to the catalog with every seat available.
func (s *EventService) CreateEvent(ctx context.Context, name string, date time.Time, location string, price float64, totalSeats int) (model.Event, error) {
	var zero model.Event
	name = strings.TrimSpace(name)
	if name == "" || price < 0 || totalSeats <= 0 {
		return zero, ErrInvalidEvent
	}
	created, err := s.events.Add(ctx, model.NewEvent(name, date, location, price, totalSeats))
	if err != nil {
		return zero, err
	}
	s.cache.Drop(ctx, eventListKey)
	return created, nil
}

// GetEvent returns one event by id, consulting the cache first.
func (s *EventService) GetEvent(ctx context.Context, id string) (model.Event, error) {
	var ev model.Event
	if s.cache.Get(ctx, eventKey(id), &ev) {
		return ev, nil
	}
	ev, err := s.events.Get(ctx, id, id)
	if errors.Is(err, store.ErrNotFound) {
		return ev, ErrEventNotFound
	}
	if err != nil {
		return ev, err
	}
	s.cache.Set(ctx, eventKey(id), ev)
	return ev, nil
}

// ListEvents returns the whole catalog, consulting the cache first.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	var cached []model.Event
	if s.cache.Get(ctx, eventListKey, &cached) {
		return cached, nil
	}
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, eventListKey, events)
	return events, nil
}

// UpdateEvent overwrites name, date, location, price and total seats.  The
// write is conditional and replayed on conflict because the booking workflow
// mutates the same document concurrently.  Available seats are left to the
// booking workflow, except that shrinking the total clamps availability down
// to the new capacity.
func (s *EventService) UpdateEvent(ctx context.Context, id, name string, date time.Time, location string, price float64, totalSeats int) (model.Event, error) {
	var zero model.Event
	name = strings.TrimSpace(name)
	if name == "" || price < 0 || totalSeats <= 0 {
		return zero, ErrInvalidEvent
	}
	var updated model.Event
	err := retryConflicts(ctx, func(ctx context.Context) error {
		ev, err := s.events.Get(ctx, id, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrEventNotFound
		}
		if err != nil {
			return err
		}
		ev.Name = name
		ev.Date = date.UTC()
		ev.Location = location
		ev.Price = price
		ev.TotalSeats = totalSeats
		if ev.AvailableSeats > totalSeats {
			ev.AvailableSeats = totalSeats
		}
		updated, err = s.events.Update(ctx, ev, ev.PartitionKey())
		return err
	})
	if err != nil {
		return zero, err
	}
	s.cache.Drop(ctx, eventKey(id), eventListKey)
	return updated, nil
}

// DeleteEvent removes an event from the catalog.  Existing bookings are not
// cascaded; they stay as dangling references until released.
func (s *EventService) DeleteEvent(ctx context.Context, id string) (bool, error) {
	deleted, err := s.events.Delete(ctx, id, id)
	if err != nil {
		return false, err
	}
	s.cache.Drop(ctx, eventKey(id), eventListKey)
	return deleted, nil
}

// retryConflicts runs fn with jittered backoff while it keeps losing
// conditional writes.  Shared by the catalog and the booking workflow.
func retryConflicts(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < maxConflictAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(25+rand.Intn(50)) * time.Millisecond * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		err = fn(ctx)
		if !errors.Is(err, store.ErrConflict) {
			return err
		}
	}
	return err
}
