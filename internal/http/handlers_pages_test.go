package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
)

type profileFunc func(ctx context.Context, sess *domainauth.Session) (domainauth.Profile, error)

func (f profileFunc) Profile(ctx context.Context, sess *domainauth.Session) (domainauth.Profile, error) {
	return f(ctx, sess)
}

func requestWithSession(target string, sess *domainauth.Session) *http.Request {
	r := asBrowser(httptest.NewRequest(http.MethodGet, target, nil))
	return r.WithContext(SetSessionInContext(r.Context(), sess))
}

func TestPageHandlers_Inventory(t *testing.T) {
	sess := &domainauth.Session{ID: "s", AccessToken: "tok", User: "alice", Email: "stored@example.com"}

	t.Run("shows the profile e-mail", func(t *testing.T) {
		h := &PageHandlers{
			T:        RequireTemplateRenderer(t),
			Profiles: profileFunc(func(_ context.Context, s *domainauth.Session) (domainauth.Profile, error) {
				assert.Equal(t, "tok", s.AccessToken)
				return domainauth.Profile{Username: "alice", Email: "live@example.com"}, nil
			}),
		}
		rec := httptest.NewRecorder()
		h.Inventory(rec, requestWithSession("/inventory", sess))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ContainsAll(rec.Body.String(), []string{"live@example.com", "alice", `action="/logout"`}))
	})

	t.Run("falls back to the session e-mail", func(t *testing.T) {
		h := &PageHandlers{
			T:        RequireTemplateRenderer(t),
			Profiles: profileFunc(func(context.Context, *domainauth.Session) (domainauth.Profile, error) {
				return domainauth.Profile{}, errors.New("auth api down")
			}),
		}
		rec := httptest.NewRecorder()
		h.Inventory(rec, requestWithSession("/inventory", sess))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "stored@example.com")
	})

	t.Run("admin link only for admins", func(t *testing.T) {
		h := &PageHandlers{T: RequireTemplateRenderer(t)}

		rec := httptest.NewRecorder()
		h.Inventory(rec, requestWithSession("/inventory", sess))
		assert.NotContains(t, rec.Body.String(), `href="/admin"`)

		admin := *sess
		admin.IsAdmin = true
		rec = httptest.NewRecorder()
		h.Inventory(rec, requestWithSession("/inventory", &admin))
		assert.Contains(t, rec.Body.String(), `href="/admin"`)
	})
}

func TestPageHandlers_Admin(t *testing.T) {
	h := &PageHandlers{T: RequireTemplateRenderer(t)}
	sess := &domainauth.Session{ID: "s", AccessToken: "tok", User: "admin_bob", IsAdmin: true}

	rec := httptest.NewRecorder()
	h.Admin(rec, requestWithSession("/admin", sess))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{"Admin Portal", "admin_bob"}))
}

func TestPageHandlers_Root(t *testing.T) {
	rec := httptest.NewRecorder()
	(&PageHandlers{}).Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, domainauth.LoginPath, rec.Header().Get("Location"))
}

func TestPageHandlers_NotFound(t *testing.T) {
	t.Run("browser gets the page", func(t *testing.T) {
		h := &PageHandlers{T: RequireTemplateRenderer(t)}
		rec := httptest.NewRecorder()
		h.NotFound(rec, asBrowser(httptest.NewRequest(http.MethodGet, "/does/not/exist", nil)))

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "/does/not/exist")
	})

	t.Run("api caller gets json", func(t *testing.T) {
		h := &PageHandlers{T: RequireTemplateRenderer(t)}
		rec := httptest.NewRecorder()
		h.NotFound(rec, asAPI(httptest.NewRequest(http.MethodGet, "/api/items", nil)))

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"not_found","message":"Not Found"}`, rec.Body.String())
	})

	t.Run("no renderer falls back to json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		(&PageHandlers{}).NotFound(rec, asBrowser(httptest.NewRequest(http.MethodGet, "/x", nil)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}
