package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/goevent/event-booking/internal/model"
	"github.com/goevent/event-booking/internal/store"
	"github.com/goevent/event-booking/internal/utils"
)

// AuthService manages user accounts in the Users container.  Token issuance
// itself lives in utils/handler; this service only knows about records and
// password hashes.
type AuthService struct {
	users      store.Store[model.User]
	bcryptCost int
}

// NewAuthService wires account handling to its store.
func NewAuthService(users store.Store[model.User], bcryptCost int) *AuthService {
	if users == nil {
		panic("nil store passed to NewAuthService")
	}
	return &AuthService{users: users, bcryptCost: bcryptCost}
}

// Register creates an account.  Emails are unique across the container, which
// takes a cross-partition lookup since users are partitioned by id.
func (s *AuthService) Register(ctx context.Context, email, fullName, password, role string) (model.User, error) {
	var zero model.User
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return zero, ErrInvalidCredentials
	}
	if role != model.RoleAdmin {
		role = model.RoleUser
	}
	existing, err := s.users.Find(ctx, bson.M{"email": email}, "")
	if err != nil {
		return zero, err
	}
	if len(existing) > 0 {
		return zero, ErrEmailExists
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return zero, err
	}
	return s.users.Add(ctx, model.NewUser(email, fullName, hash, role))
}

// Login verifies credentials and returns the matching user.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.User, error) {
	var zero model.User
	email = strings.ToLower(strings.TrimSpace(email))
	matches, err := s.users.Find(ctx, bson.M{"email": email}, "")
	if err != nil {
		return zero, err
	}
	if len(matches) == 0 || !utils.VerifyPassword(matches[0].PasswordHash, password) {
		return zero, ErrInvalidCredentials
	}
	return matches[0], nil
}

// GetUser returns one account by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (model.User, error) {
	u, err := s.users.Get(ctx, id, id)
	if errors.Is(err, store.ErrNotFound) {
		return u, ErrInvalidCredentials
	}
	return u, err
}
