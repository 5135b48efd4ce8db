package redis

// Package redis provides Redis-backed adapters for the inventory web app.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	apperrors "github.com/hackathon/inventory-web/internal/errors"
	"github.com/hackathon/inventory-web/internal/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// Hash fields of a stored session. The names match the keys the browser client used to persist.
const (
	fieldAccessToken  = "accessToken"
	fieldRefreshToken = "refreshToken"
	fieldUser         = "user"
	fieldEmail        = "email"
	fieldIsAdmin      = "isAdmin"
	fieldCreatedAt    = "created_at"
	fieldExpiresAt    = "expires_at"
)

// DefaultTTL applies to sessions saved without an expiry.
const DefaultTTL = 8 * time.Hour

// ErrNotFound is returned when a session is not found.
var ErrNotFound = apperrors.NotFound("session not found")

// SessionStore is a Redis-based session store for production use.
// Each session is one hash; its TTL follows the session ExpiresAt.
type SessionStore struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, "session:")
}

// NewSessionStoreWithPrefix creates a Redis session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{
		client:     client,
		prefix:     prefix,
		defaultTTL: DefaultTTL,
	}
}

// WithDefaultTTL sets the TTL used for sessions that carry no ExpiresAt.
func (s *SessionStore) WithDefaultTTL(ttl time.Duration) *SessionStore {
	if ttl > 0 {
		s.defaultTTL = ttl
	}
	return s
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Save replaces the session hash and its TTL in one MULTI/EXEC.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := s.defaultTTL
	if !sess.ExpiresAt.IsZero() {
		ttl = time.Until(sess.ExpiresAt)
		if ttl <= 0 {
			return errors.New("session is expired")
		}
	}

	key := s.key(sess.ID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, encode(sess))
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("redis get session: %w", err)
	}
	if len(fields) == 0 {
		return domainauth.Session{}, ErrNotFound
	}

	sess, err := decode(id, fields)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("decode session: %w", err)
	}

	// Redis TTL normally removes these first; clock skew can leave a window.
	if sess.Expired(time.Now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

func encode(sess domainauth.Session) map[string]any {
	return map[string]any{
		fieldAccessToken:  sess.AccessToken,
		fieldRefreshToken: sess.RefreshToken,
		fieldUser:         sess.User,
		fieldEmail:        sess.Email,
		fieldIsAdmin:      sess.IsAdmin.String(),
		fieldCreatedAt:    formatTime(sess.CreatedAt),
		fieldExpiresAt:    formatTime(sess.ExpiresAt),
	}
}

func decode(id string, fields map[string]string) (domainauth.Session, error) {
	createdAt, err := parseTime(fields[fieldCreatedAt])
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("%s: %w", fieldCreatedAt, err)
	}
	expiresAt, err := parseTime(fields[fieldExpiresAt])
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("%s: %w", fieldExpiresAt, err)
	}

	return domainauth.Session{
		ID:           id,
		AccessToken:  fields[fieldAccessToken],
		RefreshToken: fields[fieldRefreshToken],
		User:         fields[fieldUser],
		Email:        fields[fieldEmail],
		IsAdmin:      domainauth.ParseAdminFlag(fields[fieldIsAdmin]),
		CreatedAt:    createdAt,
		ExpiresAt:    expiresAt,
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
