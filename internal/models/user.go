package models

import (
	"net/mail"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole accepts only the known role values (case-insensitive).
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleMember:
		return RoleMember, true
	default:
		return "", false
	}
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // don’t expose hash
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserProfile is the sanitized view of a User returned to callers.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

func (u User) Profile() UserProfile {
	return UserProfile{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Phone:    u.Phone,
	}
}

// Registration is the raw sign-up payload.
type Registration struct {
	Username string
	Name     string
	Email    string
	Password string
	Phone    string
}

// NormalizeEmail lowercases and trims an address; emails are stored this way.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize trims fields and lowercases the email, then validates.
func (r Registration) Normalize() (Registration, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)

	switch {
	case r.Username == "":
		return r, invalid("username", "is required")
	case r.Name == "":
		return r, invalid("name", "is required")
	case r.Email == "":
		return r, invalid("email", "is required")
	case strings.TrimSpace(r.Password) == "":
		return r, invalid("password", "is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return r, invalid("email", "should be valid")
	}
	return r, nil
}
