package devauth

// Package devauth provides a simple, config-driven AuthAPI for local development.
// It keeps accounts in memory and signs short-lived HS256 tokens with a per-process key.

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	apperrors "github.com/hackathon/inventory-web/internal/errors"
	"github.com/hackathon/inventory-web/internal/ports"
)

var _ ports.AuthAPI = (*Provider)(nil)

// Config controls the dev auth provider behavior.
// Username and Password are required; the seeded account is admin when Admin is set.
type Config struct {
	Username string
	Password string
	Email    string
	Admin    bool
	TokenTTL time.Duration // default 8h when zero
}

type account struct {
	id       int64
	username string
	email    string
	password string
	admin    bool
}

// Provider implements ports.AuthAPI without a network hop.
type Provider struct {
	mu       sync.RWMutex
	accounts map[string]account
	nextID   int64
	key      []byte
	ttl      time.Duration
	now      func() time.Time
}

type claims struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Username == "" {
		return nil, errors.New("dev auth: Username is required")
	}
	if cfg.Password == "" {
		return nil, errors.New("dev auth: Password is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("dev auth: generate signing key: %w", err)
	}

	p := &Provider{
		accounts: make(map[string]account),
		key:      key,
		ttl:      ttl,
		now:      time.Now,
	}
	p.add(cfg.Username, cfg.Email, cfg.Password, cfg.Admin)
	return p, nil
}

func (p *Provider) add(username, email, password string, admin bool) account {
	p.nextID++
	acc := account{id: p.nextID, username: username, email: email, password: password, admin: admin}
	p.accounts[strings.ToLower(username)] = acc
	return acc
}

// Register stores a new non-admin account. Duplicate usernames are rejected with 400.
func (p *Provider) Register(_ context.Context, req domainauth.RegistrationRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[strings.ToLower(req.Username)]; exists {
		return apperrors.Rejected(http.StatusBadRequest, "A user with that username already exists.")
	}
	p.add(req.Username, req.Email, req.Password, false)
	return nil
}

// Login accepts a username or e-mail plus password.
func (p *Provider) Login(_ context.Context, creds domainauth.Credentials) (domainauth.TokenGrant, error) {
	acc, ok := p.lookup(creds.Username)
	if !ok || acc.password != creds.Password {
		return domainauth.TokenGrant{}, apperrors.InvalidCredentials(http.StatusUnauthorized)
	}

	now := p.now()
	exp := now.Add(p.ttl)
	access, err := p.sign(acc, now, exp)
	if err != nil {
		return domainauth.TokenGrant{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "sign access token")
	}
	refresh, err := p.sign(acc, now, now.Add(7*24*time.Hour))
	if err != nil {
		return domainauth.TokenGrant{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "sign refresh token")
	}

	return domainauth.TokenGrant{
		AccessToken:  access,
		RefreshToken: refresh,
		UserID:       acc.id,
		Username:     acc.username,
		Email:        acc.email,
		IsAdmin:      acc.admin,
		ExpiresAt:    jwt.NewNumericDate(exp).Time,
	}, nil
}

// Profile verifies the token signature and returns its account.
func (p *Provider) Profile(_ context.Context, accessToken string) (domainauth.Profile, error) {
	var c claims
	_, err := jwt.ParseWithClaims(accessToken, &c, func(*jwt.Token) (any, error) {
		return p.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil {
		return domainauth.Profile{}, apperrors.Unauthorized("invalid access token")
	}

	acc, ok := p.lookup(c.Username)
	if !ok {
		return domainauth.Profile{}, apperrors.Unauthorized("unknown account")
	}
	return domainauth.Profile{ID: acc.id, Username: acc.username, Email: acc.email}, nil
}

func (p *Provider) lookup(login string) (account, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if acc, ok := p.accounts[strings.ToLower(login)]; ok {
		return acc, true
	}
	for _, acc := range p.accounts {
		if acc.email != "" && strings.EqualFold(acc.email, login) {
			return acc, true
		}
	}
	return account{}, false
}

func (p *Provider) sign(acc account, issued, exp time.Time) (string, error) {
	c := claims{
		Username: acc.username,
		Email:    acc.email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(acc.id, 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(p.key)
}
