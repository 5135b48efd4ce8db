package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	apperrors "github.com/hackathon/inventory-web/internal/errors"
	"github.com/hackathon/inventory-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthAPI      = (*StubAuthAPI)(nil)
	_ ports.SessionStore = (*FailingSessionStore)(nil)
)

// StubAuthAPI answers from a fixed account table unless a *Func override is set.
// Usernames starting with "admin" are admins. It counts calls per method.
type StubAuthAPI struct {
	RegisterFunc func(ctx context.Context, req domainauth.RegistrationRequest) error
	LoginFunc    func(ctx context.Context, creds domainauth.Credentials) (domainauth.TokenGrant, error)
	ProfileFunc  func(ctx context.Context, accessToken string) (domainauth.Profile, error)

	mu        sync.Mutex
	passwords map[string]string
	calls     map[string]int
}

// NewStubAuthAPI creates a stub that knows the given username/password pairs.
func NewStubAuthAPI(accounts map[string]string) *StubAuthAPI {
	pw := make(map[string]string, len(accounts))
	for u, p := range accounts {
		pw[u] = p
	}
	return &StubAuthAPI{passwords: pw, calls: make(map[string]int)}
}

// Calls returns how often method was invoked.
func (s *StubAuthAPI) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *StubAuthAPI) record(method string) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[method]++
	s.mu.Unlock()
}

func (s *StubAuthAPI) Register(ctx context.Context, req domainauth.RegistrationRequest) error {
	s.record("Register")
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.passwords == nil {
		s.passwords = make(map[string]string)
	}
	if _, exists := s.passwords[req.Username]; exists {
		return apperrors.Rejected(http.StatusBadRequest, "Username already exists")
	}
	s.passwords[req.Username] = req.Password
	return nil
}

func (s *StubAuthAPI) Login(ctx context.Context, creds domainauth.Credentials) (domainauth.TokenGrant, error) {
	s.record("Login")
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, creds)
	}

	s.mu.Lock()
	pw, ok := s.passwords[creds.Username]
	s.mu.Unlock()
	if !ok || pw != creds.Password {
		return domainauth.TokenGrant{}, apperrors.InvalidCredentials(http.StatusUnauthorized)
	}
	return domainauth.TokenGrant{
		AccessToken:  "access-" + creds.Username,
		RefreshToken: "refresh-" + creds.Username,
		Username:     creds.Username,
		Email:        creds.Username + "@example.com",
		IsAdmin:      strings.HasPrefix(creds.Username, "admin"),
	}, nil
}

func (s *StubAuthAPI) Profile(ctx context.Context, accessToken string) (domainauth.Profile, error) {
	s.record("Profile")
	if s.ProfileFunc != nil {
		return s.ProfileFunc(ctx, accessToken)
	}

	user, ok := strings.CutPrefix(accessToken, "access-")
	if !ok {
		return domainauth.Profile{}, apperrors.Unauthorized("unknown token")
	}
	return domainauth.Profile{ID: 1, Username: user, Email: user + "@example.com"}, nil
}

// ErrStoreDown is the default error returned by FailingSessionStore.
var ErrStoreDown = errors.New("session store unavailable")

// FailingSessionStore fails every call that has an error configured.
// A nil error field means that method succeeds with an empty result.
type FailingSessionStore struct {
	SaveErr   error
	GetErr    error
	DeleteErr error
}

// NewFailingSessionStore fails every method with ErrStoreDown.
func NewFailingSessionStore() *FailingSessionStore {
	return &FailingSessionStore{SaveErr: ErrStoreDown, GetErr: ErrStoreDown, DeleteErr: ErrStoreDown}
}

func (f *FailingSessionStore) Save(_ context.Context, _ domainauth.Session) error {
	return f.SaveErr
}

func (f *FailingSessionStore) Get(_ context.Context, _ string) (domainauth.Session, error) {
	return domainauth.Session{}, f.GetErr
}

func (f *FailingSessionStore) Delete(_ context.Context, _ string) error {
	return f.DeleteErr
}
