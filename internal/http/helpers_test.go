package httpx

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hackathon/inventory-web/internal/adapters/memstore"
	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	authmocks "github.com/hackathon/inventory-web/internal/mocks/auth"
	"github.com/hackathon/inventory-web/internal/service"
)

// testAccounts are the accounts every test env starts with. Usernames starting with "admin" are admins.
var testAccounts = map[string]string{ //nolint:gochecknoglobals // test fixture
	"alice":      "Password1!",
	"admin_bob":  "Password1!",
	"carol_user": "Password1!",
}

// testEnv wires the real auth service to a stub auth API and an in-memory store.
type testEnv struct {
	api   *authmocks.StubAuthAPI
	store *memstore.SessionStore
	svc   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := authmocks.NewStubAuthAPI(testAccounts)
	store := memstore.New()
	svc := service.NewAuthService(service.AuthServiceOptions{API: api, Sessions: store})
	return &testEnv{api: api, store: store, svc: svc}
}

// login creates a session for username through the service and returns it.
func (e *testEnv) login(t *testing.T, username string) *domainauth.Session {
	t.Helper()
	res := e.svc.Login(context.Background(), domainauth.Credentials{Username: username, Password: testAccounts[username]})
	require.True(t, res.Success, "login %s should succeed", username)
	require.NotNil(t, res.Session)
	return res.Session
}

func withSession(r *http.Request, s *domainauth.Session) *http.Request {
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: s.ID})
	return r
}

func formBody(values map[string]string) *strings.Reader {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	return strings.NewReader(form.Encode())
}

func asBrowser(r *http.Request) *http.Request {
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	return r
}

func asAPI(r *http.Request) *http.Request {
	r.Header.Set("Accept", "application/json")
	return r
}

// RequireTemplateRenderer parses the shipped templates, skipping the test when they are missing.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	if err != nil {
		t.Skipf("templates unavailable: %v", err)
	}
	return tr
}

func SkipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); err != nil {
		t.Skipf("templates unavailable: %v", err)
	}
}

// ContainsAll reports whether body contains every fragment.
func ContainsAll(body string, fragments []string) bool {
	for _, f := range fragments {
		if !strings.Contains(body, f) {
			return false
		}
	}
	return true
}
