// Package utils provides token issuance and password hashing helpers.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goevent/event-booking/internal/model"
)

// AccessToken is a signed HS256 JWT together with its expiry.  The token is
// sent in the Authorization header on protected endpoints.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken signs a token for u.  Claims: sub (user id), email, name,
// role, plus exp/iat.  The middleware on the other side copies these into
// the request context so handlers never parse tokens themselves.
func NewAccessToken(secret string, u model.User, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"name":  u.FullName,
		"role":  u.Role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
