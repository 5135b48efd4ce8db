package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
)

// AuthAPI is the remote account service that owns users and issues tokens.
type AuthAPI interface {
	// Register creates an account. A nil error means the service answered 201.
	Register(ctx context.Context, req domainauth.RegistrationRequest) error

	// Login exchanges credentials for a token grant.
	Login(ctx context.Context, creds domainauth.Credentials) (domainauth.TokenGrant, error)

	// Profile returns the account behind a bearer access token.
	Profile(ctx context.Context, accessToken string) (domainauth.Profile, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
