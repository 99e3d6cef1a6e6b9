package model

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	LoginName string `json:"login_name"`
	Password  string `json:"password"`
}

type RegisterRequest struct {
	LoginName   string `json:"login_name"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Occupation  string `json:"occupation"`
}

// UpdateUserRequest replaces the editable profile fields. login_name and
// password cannot be changed here.
type UpdateUserRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Occupation  string `json:"occupation"`
}

type LoginResponse struct {
	ID        uuid.UUID `json:"_id"`
	LoginName string    `json:"login_name"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	Token     string    `json:"token"`
}

// AuthContext is the identity decoded from a verified session token.
// Protected handlers receive it explicitly from the gate.
type AuthContext struct {
	ID        uuid.UUID
	LoginName string
	FirstName string
	LastName  string
	IsAdmin   bool
	ExpiresAt time.Time
}

type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	LoginName string    `json:"login_name"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	Exp       int64     `json:"exp"`
}

type User struct {
	ID           uuid.UUID
	LoginName    string
	PasswordHash string
	FirstName    string
	LastName     string
	Location     string
	Description  string
	Occupation   string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID          uuid.UUID `json:"_id"`
	LoginName   string    `json:"login_name"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Occupation  string    `json:"occupation"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		LoginName:   u.LoginName,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Location:    u.Location,
		Description: u.Description,
		Occupation:  u.Occupation,
	}
}
