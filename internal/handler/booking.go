package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goevent/event-booking/internal/service"
)

// BookingHandler exposes the booking workflow.  All routes sit behind
// JWTAuth; the identity claims from the token are what the workflow trusts
// for ownership checks.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	if bookings == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings}
}

type createBookingReq struct {
	EventID string `json:"event_id"`
	Seats   int    `json:"seats"`
}
type updateBookingReq struct {
	Seats int `json:"seats"`
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	booking, err := h.Bookings.CreateBooking(c.Request().Context(), user.ID, user.Email, user.Name, req.EventID, req.Seats)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// Get handles GET /v1/bookings/:eventId/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	eventID, id := c.Param("eventId"), c.Param("id")
	if eventID == "" || id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}
	booking, err := h.Bookings.GetBooking(c.Request().Context(), id, eventID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// List handles GET /v1/bookings.  Admin-only by route middleware.
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.Bookings.ListBookings(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// ByEvent handles GET /v1/events/:id/bookings.
func (h *BookingHandler) ByEvent(c echo.Context) error {
	eventID := c.Param("id")
	if eventID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	bookings, err := h.Bookings.ListBookingsByEvent(c.Request().Context(), eventID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// Mine handles GET /v1/my/bookings.
func (h *BookingHandler) Mine(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListBookingsByUser(c.Request().Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// Update handles PUT /v1/bookings/:eventId/:id, changing the seat count.
func (h *BookingHandler) Update(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, id := c.Param("eventId"), c.Param("id")
	if eventID == "" || id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	booking, err := h.Bookings.UpdateBooking(c.Request().Context(), user.ID, eventID, id, req.Seats)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Delete handles DELETE /v1/bookings/:eventId/:id.  Deleting twice, or
// deleting a booking that never existed, still answers 204.
func (h *BookingHandler) Delete(c echo.Context) error {
	eventID, id := c.Param("eventId"), c.Param("id")
	if eventID == "" || id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}
	if _, err := h.Bookings.DeleteBooking(c.Request().Context(), eventID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
