// Package service holds the domain workflows: seat inventory accounting over
// the document store, the event catalog, and account handling.  Store-level
// Conflict/Unavailable errors pass through unchanged; everything declared
// here is a terminal domain failure that is never retried.
package service

import "errors"

// ErrEventNotFound is returned when the target event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when the target booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrInvalidSeatCount rejects bookings for zero or negative seats.
var ErrInvalidSeatCount = errors.New("number of seats must be greater than zero")

// ErrInsufficientCapacity rejects bookings asking for more seats than the
// event has available at the time of the write.
var ErrInsufficientCapacity = errors.New("not enough seats available")

// ErrForbidden is returned when a user touches a booking they do not own.
// Handlers translate it into a 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidEvent rejects catalog writes with malformed fields (empty name,
// negative price, non-positive capacity).
var ErrInvalidEvent = errors.New("invalid event data")

// ErrEmailExists is returned when registering an address that is taken.
var ErrEmailExists = errors.New("email already registered")

// ErrInvalidCredentials is returned on login with a bad email or password.
var ErrInvalidCredentials = errors.New("invalid credentials")
