package model

import (
	"time"

	"github.com/google/uuid"
)

// UsersContainer is the collection holding User documents.
const UsersContainer = "Users"

// Roles stored in the user record and carried in the JWT "role" claim.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an account that can authenticate and book seats.  Users are
// partitioned by their own ID; email lookups at login run as a
// cross-partition query.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	FullName     string    `bson:"fullName" json:"full_name"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	Version      int64     `bson:"version" json:"-"`
}

// NewUser builds a User with a generated ID.  The caller supplies an already
// hashed password.
func NewUser(email, fullName, passwordHash, role string) User {
	return User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}

func (u User) DocID() string        { return u.ID }
func (u User) PartitionKey() string { return u.ID }
func (u User) Container() string    { return UsersContainer }
func (u User) DocVersion() int64    { return u.Version }
