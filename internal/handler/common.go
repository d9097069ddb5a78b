package handler // handler defines the HTTP handlers for the API

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goevent/event-booking/internal/service"
	"github.com/goevent/event-booking/internal/store"
)

// authedUser is the identity JWTAuth left in the request context.
type authedUser struct {
	ID    string
	Email string
	Name  string
	Role  string
}

// currentUser extracts the authenticated identity from the context.  A
// missing user id means the middleware did not run or the token carried no
// subject; handlers answer 401 in that case.
func currentUser(c echo.Context) (authedUser, bool) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return authedUser{}, false
	}
	email, _ := c.Get("email").(string)
	name, _ := c.Get("name").(string)
	role, _ := c.Get("role").(string)
	return authedUser{ID: id, Email: email, Name: name, Role: role}, true
}

// writeError maps service and store sentinels onto stable status codes so
// clients can tell retryable failures (409, 503) from request errors.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidSeatCount),
		errors.Is(err, service.ErrInvalidEvent):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientCapacity):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrEmailExists), errors.Is(err, store.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, try again"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
