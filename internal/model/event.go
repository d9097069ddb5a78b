package model

import (
	"time"

	"github.com/google/uuid"
)

// EventsContainer is the collection holding Event documents.
const EventsContainer = "Events"

// Event represents a bookable event with a fixed total seat capacity and a
// running count of seats still available.  Each event is its own partition,
// so the partition key equals the event ID.
//
// AvailableSeats is maintained by the booking workflow and must always equal
// TotalSeats minus the seats of all live bookings for the event.  Version is
// the concurrency token bumped by the store on every write; stale writes are
// rejected so concurrent capacity changes cannot be lost.
type Event struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Date           time.Time `bson:"date" json:"date"`
	Location       string    `bson:"location" json:"location"`
	Price          float64   `bson:"price" json:"price"`
	TotalSeats     int       `bson:"totalSeats" json:"total_seats"`
	AvailableSeats int       `bson:"availableSeats" json:"available_seats"`
	Version        int64     `bson:"version" json:"-"`
}

// NewEvent builds an Event with a generated ID and all seats available.
func NewEvent(name string, date time.Time, location string, price float64, totalSeats int) Event {
	return Event{
		ID:             uuid.NewString(),
		Name:           name,
		Date:           date.UTC(),
		Location:       location,
		Price:          price,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
	}
}

func (e Event) DocID() string        { return e.ID }
func (e Event) PartitionKey() string { return e.ID }
func (e Event) Container() string    { return EventsContainer }
func (e Event) DocVersion() int64    { return e.Version }
