package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goevent/event-booking/internal/model"
	"github.com/goevent/event-booking/internal/queue"
	"github.com/goevent/event-booking/internal/service"
	"github.com/goevent/event-booking/internal/store"
)

type noopNotifier struct{}

func (noopNotifier) BookingCreated(context.Context, queue.BookingCreated) error { return nil }

type handlerFixture struct {
	events  *store.Memory[model.Event]
	handler *BookingHandler
	echo    *echo.Echo
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	events := store.NewMemory[model.Event]()
	bookings := store.NewMemory[model.Booking]()
	svc := service.NewBookingService(events, bookings, noopNotifier{}, nil)
	return &handlerFixture{
		events:  events,
		handler: NewBookingHandler(svc),
		echo:    echo.New(),
	}
}

func (f *handlerFixture) seedEvent(t *testing.T, total int) model.Event {
	t.Helper()
	ev, err := f.events.Add(context.Background(), model.NewEvent("Jazz Night", time.Now().Add(24*time.Hour), "Oslo", 35, total))
	require.NoError(t, err)
	return ev
}

// newContext builds an echo context with an authenticated user already set,
// the way JWTAuth leaves it.
func (f *handlerFixture) newContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.Set("user_id", "user-1")
	c.Set("email", "u1@example.com")
	c.Set("name", "User One")
	c.Set("role", model.RoleUser)
	return c, rec
}

func TestBookingCreateHandler(t *testing.T) {
	f := newHandlerFixture(t)
	ev := f.seedEvent(t, 10)

	c, rec := f.newContext(http.MethodPost, "/v1/bookings", `{"event_id":"`+ev.ID+`","seats":4}`)
	require.NoError(t, f.handler.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var booking model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Equal(t, ev.ID, booking.EventID)
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, 4, booking.Seats)
}

func TestBookingCreateHandlerErrors(t *testing.T) {
	f := newHandlerFixture(t)
	ev := f.seedEvent(t, 10)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing event id", `{"seats":2}`, http.StatusBadRequest},
		{"zero seats", `{"event_id":"` + ev.ID + `","seats":0}`, http.StatusBadRequest},
		{"unknown event", `{"event_id":"nope","seats":2}`, http.StatusNotFound},
		{"over capacity", `{"event_id":"` + ev.ID + `","seats":11}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := f.newContext(http.MethodPost, "/v1/bookings", tc.body)
			require.NoError(t, f.handler.Create(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestBookingCreateHandlerUnauthenticated(t *testing.T) {
	f := newHandlerFixture(t)
	ev := f.seedEvent(t, 10)

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(`{"event_id":"`+ev.ID+`","seats":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)

	require.NoError(t, f.handler.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingUpdateHandlerForbidden(t *testing.T) {
	f := newHandlerFixture(t)
	ev := f.seedEvent(t, 10)

	c, rec := f.newContext(http.MethodPost, "/v1/bookings", `{"event_id":"`+ev.ID+`","seats":4}`)
	require.NoError(t, f.handler.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var booking model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))

	c, rec = f.newContext(http.MethodPut, "/", `{"seats":2}`)
	c.Set("user_id", "intruder")
	c.SetParamNames("eventId", "id")
	c.SetParamValues(ev.ID, booking.ID)
	require.NoError(t, f.handler.Update(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingDeleteHandlerIdempotent(t *testing.T) {
	f := newHandlerFixture(t)
	ev := f.seedEvent(t, 10)

	c, rec := f.newContext(http.MethodPost, "/v1/bookings", `{"event_id":"`+ev.ID+`","seats":4}`)
	require.NoError(t, f.handler.Create(c))
	var booking model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))

	for i := 0; i < 2; i++ {
		c, rec = f.newContext(http.MethodDelete, "/", "")
		c.SetParamNames("eventId", "id")
		c.SetParamValues(ev.ID, booking.ID)
		require.NoError(t, f.handler.Delete(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestBookingGetHandlerNotFound(t *testing.T) {
	f := newHandlerFixture(t)

	c, rec := f.newContext(http.MethodGet, "/", "")
	c.SetParamNames("eventId", "id")
	c.SetParamValues("ev", "nope")
	require.NoError(t, f.handler.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
