package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingsContainer is the collection holding Booking documents.
const BookingsContainer = "Bookings"

// Booking records a number of seats reserved by a user for one event.  The
// partition key is the event ID, co-locating all bookings for an event so
// per-event queries stay inside a single partition.
//
// EventID is a reference, not an ownership relation: deleting an event leaves
// its bookings dangling, and the booking workflow tolerates that when
// releasing them.
type Booking struct {
	ID          string    `bson:"_id" json:"id"`
	EventID     string    `bson:"eventId" json:"event_id"`
	UserID      string    `bson:"userId" json:"user_id"`
	UserName    string    `bson:"userName" json:"user_name"`
	UserEmail   string    `bson:"userEmail" json:"user_email"`
	Seats       int       `bson:"seats" json:"seats"`
	BookingDate time.Time `bson:"bookingDate" json:"booking_date"`
	Version     int64     `bson:"version" json:"-"`
}

// NewBooking builds a Booking with a generated ID and the current UTC time.
func NewBooking(eventID, userID, userName, userEmail string, seats int) Booking {
	return Booking{
		ID:          uuid.NewString(),
		EventID:     eventID,
		UserID:      userID,
		UserName:    userName,
		UserEmail:   userEmail,
		Seats:       seats,
		BookingDate: time.Now().UTC(),
	}
}

func (b Booking) DocID() string        { return b.ID }
func (b Booking) PartitionKey() string { return b.EventID }
func (b Booking) Container() string    { return BookingsContainer }
func (b Booking) DocVersion() int64    { return b.Version }
