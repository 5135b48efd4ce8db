package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	apperrors "github.com/hackathon/inventory-web/internal/errors"
	"github.com/hackathon/inventory-web/internal/observability/metrics"
	"github.com/hackathon/inventory-web/internal/observability/statsd"
	"github.com/hackathon/inventory-web/internal/ports"
	"github.com/hackathon/inventory-web/internal/validation"
)

// DefaultSessionTTL bounds sessions whose access token carries no expiry.
const DefaultSessionTTL = 8 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API      ports.AuthAPI      // Required
	Sessions ports.SessionStore // Required
	Config   AuthServiceConfig  // Optional
}

// AuthServiceConfig holds optional tuning and observability hooks.
type AuthServiceConfig struct {
	SessionTTL time.Duration
	Logger     *slog.Logger
	Metrics    statsd.Sink
	Clock      func() time.Time
}

// AuthService orchestrates registration, login and logout against the auth API
// and keeps the resulting sessions in the session store.
type AuthService struct {
	api      ports.AuthAPI
	sessions ports.SessionStore
	ttl      time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink
	now      func() time.Time
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService. It panics when a required dependency is nil.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.API == nil {
		panic("AuthAPI is required")
	}
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}

	ttl := opts.Config.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := opts.Config.Clock
	if now == nil {
		now = time.Now
	}

	return &AuthService{
		api:      opts.API,
		sessions: opts.Sessions,
		ttl:      ttl,
		logger:   opts.Config.Logger,
		metrics:  opts.Config.Metrics,
		now:      now,
	}
}

func (s *AuthService) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// RegisterInput is the raw register form.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates the form locally and, only when every field passes,
// asks the auth API to create the account. Registration never logs the user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) domainauth.RegisterResult {
	start := s.now()

	fieldErrors := validation.ValidateRegistration(validation.RegistrationInput(in))
	if len(fieldErrors) > 0 {
		s.emit(metrics.ActionRegister, domainauth.FailureValidation, nil, 0)
		return domainauth.RegisterResult{
			Failure:     domainauth.FailureValidation,
			FieldErrors: fieldErrors,
		}
	}

	err := s.api.Register(ctx, domainauth.RegistrationRequest{
		Username: in.Username,
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	})
	elapsed := s.now().Sub(start)
	if err != nil {
		kind := registerFailure(err)
		s.log().InfoContext(ctx, "registration failed", "username", in.Username, "failure", kind, "error", err)
		s.emit(metrics.ActionRegister, kind, err, elapsed)
		return domainauth.RegisterResult{
			Failure: kind,
			Message: apperrors.GetDetail(err),
		}
	}

	s.log().InfoContext(ctx, "registration succeeded", "username", in.Username)
	s.emit(metrics.ActionRegister, domainauth.FailureNone, nil, elapsed)
	return domainauth.RegisterResult{Success: true}
}

// Login exchanges credentials for tokens and persists a new session.
// Nothing is stored unless the auth API returned a well-formed grant.
func (s *AuthService) Login(ctx context.Context, creds domainauth.Credentials) domainauth.LoginResult {
	start := s.now()

	grant, err := s.api.Login(ctx, creds)
	if err != nil {
		kind := loginFailure(err)
		s.log().InfoContext(ctx, "login failed", "username", creds.Username, "failure", kind, "error", err)
		s.emit(metrics.ActionLogin, kind, err, s.now().Sub(start))
		return domainauth.LoginResult{Failure: kind}
	}

	sess, err := s.newSession(creds, grant)
	if err == nil {
		err = s.sessions.Save(ctx, sess)
	}
	if err != nil {
		s.log().ErrorContext(ctx, "store session failed", "username", creds.Username, "error", err)
		s.emit(metrics.ActionLogin, domainauth.FailureUnavailable, err, s.now().Sub(start))
		return domainauth.LoginResult{Failure: domainauth.FailureUnavailable}
	}

	s.log().InfoContext(ctx, "login succeeded", "username", sess.User, "admin", sess.Admin())
	s.emit(metrics.ActionLogin, domainauth.FailureNone, nil, s.now().Sub(start))
	return domainauth.LoginResult{
		Success: true,
		IsAdmin: sess.Admin(),
		Session: &sess,
	}
}

func (s *AuthService) newSession(creds domainauth.Credentials, grant domainauth.TokenGrant) (domainauth.Session, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	if !grant.ExpiresAt.IsZero() {
		if !grant.ExpiresAt.After(now) {
			return domainauth.Session{}, errors.New("access token already expired")
		}
		if grant.ExpiresAt.Before(expires) {
			expires = grant.ExpiresAt
		}
	}

	user := grant.Username
	if user == "" {
		user = creds.Username
	}

	return domainauth.Session{
		ID:           uuid.NewString(),
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		User:         user,
		Email:        grant.Email,
		IsAdmin:      domainauth.AdminFlag(grant.IsAdmin),
		CreatedAt:    now,
		ExpiresAt:    expires,
	}, nil
}

// GetSession retrieves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session. An empty ID is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.emit(metrics.ActionLogout, domainauth.FailureUnavailable, err, 0)
		return fmt.Errorf("delete session: %w", err)
	}

	s.emit(metrics.ActionLogout, domainauth.FailureNone, nil, 0)
	return nil
}

// Profile asks the auth API who the session's token belongs to.
func (s *AuthService) Profile(ctx context.Context, sess *domainauth.Session) (domainauth.Profile, error) {
	if sess == nil || !sess.HasToken() {
		return domainauth.Profile{}, apperrors.Unauthorized("no session")
	}
	p, err := s.api.Profile(ctx, sess.AccessToken)
	if err != nil {
		return domainauth.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return p, nil
}

func (s *AuthService) emit(action string, kind domainauth.FailureKind, err error, d time.Duration) {
	m := metrics.AuthMetric{Action: action, Result: metrics.ResultSuccess, Duration: d}
	if kind != domainauth.FailureNone {
		m.Result = metrics.ResultFailure
		m.Failure = string(kind)
		if kind == domainauth.FailureUnavailable {
			m.Result = metrics.ResultError
			m.Err = err
		}
	}
	metrics.EmitAuthOutcome(s.metrics, m)
}

func loginFailure(err error) domainauth.FailureKind {
	switch {
	case apperrors.IsInvalidCredentials(err):
		return domainauth.FailureInvalidCredentials
	case apperrors.IsUnavailable(err):
		return domainauth.FailureUnavailable
	default:
		return domainauth.FailureRejected
	}
}

func registerFailure(err error) domainauth.FailureKind {
	if apperrors.IsUnavailable(err) {
		return domainauth.FailureUnavailable
	}
	return domainauth.FailureRejected
}
