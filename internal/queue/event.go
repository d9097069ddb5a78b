// Package queue defines the messages exchanged over the broker and the
// publisher/consumer pair moving them.
package queue

import "time"

// BookingCreatedQueue is the durable queue carrying BookingCreated messages.
const BookingCreatedQueue = "booking.created"

// BookingCreated is published after a booking is stored.  It carries enough
// for downstream consumers (email dispatch, audit logging) to act without
// reading the primary database.
type BookingCreated struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	Seats     int       `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
}
