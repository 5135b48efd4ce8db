package devauth

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	apperrors "github.com/hackathon/inventory-web/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T) *Provider {
	t.Helper()
	prov, err := NewProvider(Config{Username: "admin", Password: "Admin123!", Email: "admin@example.com", Admin: true})
	require.NoError(t, err)
	return prov
}

func TestNewProvider_RequiresCredentials(t *testing.T) {
	_, err := NewProvider(Config{Password: "x"})
	assert.Error(t, err)
	_, err = NewProvider(Config{Username: "x"})
	assert.Error(t, err)
}

func TestProvider_LoginAndProfile(t *testing.T) {
	prov := newProvider(t)
	ctx := context.Background()

	grant, err := prov.Login(ctx, domainauth.Credentials{Username: "admin", Password: "Admin123!"})
	require.NoError(t, err)
	assert.True(t, grant.IsAdmin)
	assert.NotEmpty(t, grant.AccessToken)
	assert.NotEmpty(t, grant.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), grant.ExpiresAt, 5*time.Second)

	profile, err := prov.Profile(ctx, grant.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Username)
	assert.Equal(t, "admin@example.com", profile.Email)
}

func TestProvider_LoginByEmail(t *testing.T) {
	prov := newProvider(t)
	grant, err := prov.Login(context.Background(), domainauth.Credentials{Username: "ADMIN@example.com", Password: "Admin123!"})
	require.NoError(t, err)
	assert.Equal(t, "admin", grant.Username)
}

func TestProvider_LoginRefused(t *testing.T) {
	prov := newProvider(t)
	_, err := prov.Login(context.Background(), domainauth.Credentials{Username: "admin", Password: "wrong"})
	assert.True(t, apperrors.IsInvalidCredentials(err))

	_, err = prov.Login(context.Background(), domainauth.Credentials{Username: "ghost", Password: "Admin123!"})
	assert.True(t, apperrors.IsInvalidCredentials(err))
}

func TestProvider_RegisterThenLogin(t *testing.T) {
	prov := newProvider(t)
	ctx := context.Background()

	req := domainauth.RegistrationRequest{Username: "new_user", Email: "new@example.com", Password: "Secret1!x"}
	require.NoError(t, prov.Register(ctx, req))

	err := prov.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsRejected(err))
	assert.NotEmpty(t, apperrors.GetDetail(err))

	grant, err := prov.Login(ctx, domainauth.Credentials{Username: "new_user", Password: "Secret1!x"})
	require.NoError(t, err)
	assert.False(t, grant.IsAdmin)
}

func TestProvider_ProfileRejectsForeignAndExpiredTokens(t *testing.T) {
	prov := newProvider(t)
	other := newProvider(t)
	ctx := context.Background()

	grant, err := other.Login(ctx, domainauth.Credentials{Username: "admin", Password: "Admin123!"})
	require.NoError(t, err)
	_, err = prov.Profile(ctx, grant.AccessToken)
	assert.True(t, apperrors.IsUnauthorized(err))

	grant, err = prov.Login(ctx, domainauth.Credentials{Username: "admin", Password: "Admin123!"})
	require.NoError(t, err)
	prov.now = func() time.Time { return time.Now().Add(9 * time.Hour) }
	_, err = prov.Profile(ctx, grant.AccessToken)
	assert.True(t, apperrors.IsUnauthorized(err))
}
