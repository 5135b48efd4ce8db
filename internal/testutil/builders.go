package testutil

import (
	"time"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
)

// SessionBuilder provides a fluent interface for building sessions in tests.
type SessionBuilder struct {
	sess domainauth.Session
}

// NewSession creates a SessionBuilder for a non-admin user expiring in one hour.
func NewSession() *SessionBuilder {
	now := time.Now()
	return &SessionBuilder{
		sess: domainauth.Session{
			ID:           "test-session",
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			User:         "testuser",
			IsAdmin:      false,
			CreatedAt:    now,
			ExpiresAt:    now.Add(time.Hour),
		},
	}
}

// WithID sets the session ID.
func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.sess.ID = id
	return b
}

// WithUser sets the username.
func (b *SessionBuilder) WithUser(user string) *SessionBuilder {
	b.sess.User = user
	return b
}

// WithEmail sets the account e-mail.
func (b *SessionBuilder) WithEmail(email string) *SessionBuilder {
	b.sess.Email = email
	return b
}

// WithTokens sets the access and refresh tokens.
func (b *SessionBuilder) WithTokens(access, refresh string) *SessionBuilder {
	b.sess.AccessToken = access
	b.sess.RefreshToken = refresh
	return b
}

// AsAdmin marks the session as admin.
func (b *SessionBuilder) AsAdmin() *SessionBuilder {
	b.sess.IsAdmin = true
	return b
}

// ExpiringAt sets the expiry; the zero time means no expiry.
func (b *SessionBuilder) ExpiringAt(t time.Time) *SessionBuilder {
	b.sess.ExpiresAt = t
	return b
}

// Build returns the session.
func (b *SessionBuilder) Build() domainauth.Session {
	return b.sess
}

// NewTokenGrant returns a grant as the auth API would issue it for username.
func NewTokenGrant(username string, admin bool) domainauth.TokenGrant {
	return domainauth.TokenGrant{
		AccessToken:  "access-" + username,
		RefreshToken: "refresh-" + username,
		Username:     username,
		Email:        username + "@example.com",
		IsAdmin:      admin,
	}
}
