package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the access level carried by an account and its tokens.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is what a verified bearer token asserts about its holder.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// RegisterRequest is the body of a registration call.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate normalizes and checks the registration fields.
func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if len(r.Username) < 3 {
		return NewValidationError("username", "Username must be at least 3 characters")
	}
	if !strings.Contains(r.Email, "@") {
		return NewValidationError("email", "A valid email is required")
	}
	if len(r.Password) < 6 {
		return NewValidationError("password", "Password must be at least 6 characters")
	}
	return nil
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
