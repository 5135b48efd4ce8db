package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role represents the navigation role derived from the server's admin flag.
// It only drives what the UI offers; the inventory API enforces real authorization.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Credentials is the transient login input. Username may also be an e-mail address.
type Credentials struct {
	Username string
	Password string
}

// RegistrationRequest is the payload sent to the auth API when creating an account.
type RegistrationRequest struct {
	Username string
	Email    string
	Password string
}

// TokenGrant is what a successful login returns.
// ExpiresAt is zero when the access token carries no readable exp claim.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	UserID       int64
	Username     string
	Email        string
	IsAdmin      bool
	ExpiresAt    time.Time
}

// Profile is the account summary returned by the auth API for a bearer token.
type Profile struct {
	ID       int64
	Username string
	Email    string
}

// AdminFlag is the server-asserted admin bit.
// It serialises as the string "true" or "false" to keep the stored record layout
// (accessToken, refreshToken, user, isAdmin) readable by other tooling.
type AdminFlag bool

// String returns "true" or "false".
func (f AdminFlag) String() string {
	if f {
		return "true"
	}
	return "false"
}

// MarshalJSON encodes the flag as a JSON string.
func (f AdminFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON accepts "true"/"false" strings and raw booleans.
// Any string other than "true" decodes to false.
func (f *AdminFlag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = AdminFlag(s == "true")
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("decode isAdmin: %w", err)
	}
	*f = AdminFlag(b)
	return nil
}

// ParseAdminFlag mirrors the stored representation: only the exact string "true" is admin.
func ParseAdminFlag(s string) AdminFlag {
	return AdminFlag(strings.TrimSpace(s) == "true")
}

// Session is the server-side record we persist for an authenticated browser.
// ID is an opaque session identifier carried in the session cookie.
type Session struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	User         string    `json:"user"`
	Email        string    `json:"email,omitempty"`
	IsAdmin      AdminFlag `json:"isAdmin"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// HasToken reports whether the session carries an access token.
func (s Session) HasToken() bool { return s.AccessToken != "" }

// Admin reports whether the session's admin flag is set.
func (s Session) Admin() bool { return bool(s.IsAdmin) }

// Role maps the admin flag onto a navigation role.
func (s Session) Role() Role {
	switch {
	case !s.HasToken():
		return RoleGuest
	case s.Admin():
		return RoleAdmin
	default:
		return RoleUser
	}
}

// IsGuest returns true if the session has no access token.
func (s Session) IsGuest() bool { return s.Role() == RoleGuest }

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
