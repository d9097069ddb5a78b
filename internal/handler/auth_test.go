package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/goevent/event-booking/internal/config"
	"github.com/goevent/event-booking/internal/model"
	"github.com/goevent/event-booking/internal/service"
	"github.com/goevent/event-booking/internal/store"
)

func newAuthHandler(t *testing.T) (*AuthHandler, *echo.Echo) {
	t.Helper()
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, BcryptCost: bcrypt.MinCost}
	svc := service.NewAuthService(store.NewMemory[model.User](), cfg.BcryptCost)
	return NewAuthHandler(cfg, svc), echo.New()
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterHandlerIssuesToken(t *testing.T) {
	h, e := newAuthHandler(t)

	c, rec := postJSON(e, "/v1/auth/register", `{"email":"anna@example.com","full_name":"Anna Berg","password":"s3cret"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "anna@example.com", resp.User.Email)
	assert.Equal(t, model.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.Access.Token)
	assert.False(t, resp.Access.Expires.IsZero())
}

func TestRegisterHandlerValidation(t *testing.T) {
	h, e := newAuthHandler(t)

	c, rec := postJSON(e, "/v1/auth/register", `{"email":"","password":""}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	h, e := newAuthHandler(t)

	c, rec := postJSON(e, "/v1/auth/register", `{"email":"anna@example.com","password":"s3cret"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON(e, "/v1/auth/register", `{"email":"anna@example.com","password":"other"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	h, e := newAuthHandler(t)

	c, rec := postJSON(e, "/v1/auth/register", `{"email":"anna@example.com","password":"s3cret"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON(e, "/v1/auth/login", `{"email":"anna@example.com","password":"s3cret"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = postJSON(e, "/v1/auth/login", `{"email":"anna@example.com","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeHandler(t *testing.T) {
	h, e := newAuthHandler(t)

	c, rec := postJSON(e, "/v1/auth/register", `{"email":"anna@example.com","full_name":"Anna Berg","password":"s3cret"}`)
	require.NoError(t, h.Register(c))
	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("user_id", resp.User.ID)
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var me userPart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Anna Berg", me.FullName)
}
