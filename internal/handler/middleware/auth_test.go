package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"sparkyfitness-server/internal/config"
	domain "sparkyfitness-server/internal/domain/user"
	"sparkyfitness-server/internal/handler/middleware"
	"sparkyfitness-server/internal/session"
	jwtsvc "sparkyfitness-server/pkg/jwt"
)

func newTestRouter(t *testing.T) (*gin.Engine, jwtsvc.Service, *session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := jwtsvc.NewService(&config.JWTConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Issuer:        "sparkyfitness",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	sessions := session.NewStore(&config.SessionConfig{
		Secret:     "test-session-secret",
		CookieName: "sparky.sid",
		MaxAge:     time.Hour,
	})

	r := gin.New()
	r.GET("/protected", middleware.Auth(jwtService, sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(middleware.ContextUserIDKey),
			"role":    c.GetString(middleware.ContextUserRoleKey),
		})
	})
	r.GET("/admin", middleware.Auth(jwtService, sessions), middleware.RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, jwtService, sessions
}

func testUser(role domain.Role) *domain.User {
	u := domain.NewUser("user@example.com", "hash", "Test User")
	u.Role = role
	return u
}

func TestAuth_NoCredentials(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_BearerToken(t *testing.T) {
	r, jwtService, _ := newTestRouter(t)
	u := testUser(domain.RoleUser)

	token, err := jwtService.GenerateAccessToken(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), u.ID.String())
}

func TestAuth_MalformedBearerHeader(t *testing.T) {
	r, _, _ := newTestRouter(t)

	for _, header := range []string{"Bearer", "Bearer ", "Token abc"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuth_GarbageToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_SessionCookie(t *testing.T) {
	r, _, sessions := newTestRouter(t)
	u := testUser(domain.RoleUser)

	// Выпускаем cookie-сессию и переносим её в следующий запрос
	issue := httptest.NewRecorder()
	require.NoError(t, sessions.Save(issue, httptest.NewRequest(http.MethodGet, "/", nil), session.Identity{
		UserID: u.ID.String(),
		Email:  u.Email,
		Role:   string(u.Role),
	}))
	cookies := issue.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), u.ID.String())
}

func TestRequireRole_AdminOnly(t *testing.T) {
	r, jwtService, _ := newTestRouter(t)

	userToken, err := jwtService.GenerateAccessToken(testUser(domain.RoleUser))
	require.NoError(t, err)
	adminToken, err := jwtService.GenerateAccessToken(testUser(domain.RoleAdmin))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
