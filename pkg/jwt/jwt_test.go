package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sparkyfitness-server/internal/config"
	domain "sparkyfitness-server/internal/domain/user"
	jwtsvc "sparkyfitness-server/pkg/jwt"
)

func newTestService() jwtsvc.Service {
	return jwtsvc.NewService(&config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Issuer:        "sparkyfitness",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func newTestUser(t *testing.T) *domain.User {
	t.Helper()
	return domain.NewUser("user@example.com", "hash", "Test User")
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService()
	u := newTestUser(t)

	token, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), claims.UserID)
	require.Equal(t, u.Email, claims.Email)
	require.Equal(t, string(u.Role), claims.Role)
}

func TestRefreshToken_RoundTripWithJTI(t *testing.T) {
	svc := newTestService()
	u := newTestUser(t)

	token, jti, err := svc.GenerateRefreshToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := svc.ParseRefreshToken(token)
	require.NoError(t, err)
	require.Equal(t, jti, claims.ID)
	require.Equal(t, u.ID.String(), claims.UserID)
}

func TestParseAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := newTestService()
	u := newTestUser(t)

	// Токены подписаны разными секретами
	refresh, _, err := svc.GenerateRefreshToken(u)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(refresh)
	require.Error(t, err)
}

func TestParseAccessToken_RejectsForeignIssuer(t *testing.T) {
	u := newTestUser(t)

	other := jwtsvc.NewService(&config.JWTConfig{
		AccessSecret: "test-access-secret",
		Issuer:       "another-app",
		AccessTTL:    time.Minute,
	})
	token, err := other.GenerateAccessToken(u)
	require.NoError(t, err)

	_, err = newTestService().ParseAccessToken(token)
	require.Error(t, err)
}

func TestParseAccessToken_RejectsGarbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.ParseAccessToken("not.a.token")
	require.Error(t, err)
}
