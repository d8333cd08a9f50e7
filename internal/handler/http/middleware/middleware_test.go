package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/access"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
)

type testEnv struct {
	tokens jwt.Service
	router *chi.Mux
	seen   *user.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := jwt.NewJWTService("middleware-secret", "15m", "168h")
	require.NoError(t, err)
	gate, err := access.NewGate(access.Routes(), user.RolePermissions)
	require.NoError(t, err)

	env := &testEnv{tokens: tokens, router: chi.NewRouter()}
	ok := func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		env.seen = &actor
		w.WriteHeader(http.StatusOK)
	}

	env.router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokens.JWTAuth()))
			r.Use(AuthRequired(tokens))
			r.Use(RequirePasswordChanged("GET /api/v1/me"))
			r.Use(Authorize(gate))

			r.Get("/me", ok)
			r.Get("/tasks/mine", ok)
			r.Get("/tasks/assigned", ok)
			r.Get("/tasks/{id}", ok)
		})
	})
	return env
}

func (e *testEnv) token(t *testing.T, role user.Role, mustChange bool) string {
	t.Helper()
	tok, _, err := e.tokens.GenerateAccessToken("u-1", "u1@example.com", role, mustChange)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.7:51234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

func TestAuthRequired_RejectsMissingAndWrongTokens(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do("/api/v1/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do("/api/v1/me", "garbage").Code)

	refresh, _, err := env.tokens.GenerateRefreshToken("u-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, env.do("/api/v1/me", refresh).Code)
}

func TestAuthRequired_RejectsRevokedToken(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, user.RoleEmployee, false)
	require.Equal(t, http.StatusOK, env.do("/api/v1/me", tok).Code)

	env.tokens.RevokeToken(tok, time.Now().Add(time.Hour).Unix())
	assert.Equal(t, http.StatusUnauthorized, env.do("/api/v1/me", tok).Code)
}

func TestAuthRequired_StoresActor(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do("/api/v1/tasks/mine", env.token(t, user.RoleEmployee, false))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.seen)
	assert.Equal(t, user.Actor{ID: "u-1", Role: user.RoleEmployee, IP: "10.0.0.7"}, *env.seen)
}

func TestAuthorize_UsesRoutePattern(t *testing.T) {
	env := newTestEnv(t)
	employee := env.token(t, user.RoleEmployee, false)
	hr := env.token(t, user.RoleHR, false)

	rec := env.do("/api/v1/tasks/assigned", employee)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	assert.Equal(t, http.StatusOK, env.do("/api/v1/tasks/assigned", hr).Code)
	assert.Equal(t, http.StatusOK, env.do("/api/v1/tasks/8f14e45f", employee).Code)
}

func TestRequirePasswordChanged(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, user.RoleEmployee, true)

	rec := env.do("/api/v1/tasks/mine", tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PASSWORD_CHANGE_REQUIRED", errorCode(t, rec))

	assert.Equal(t, http.StatusOK, env.do("/api/v1/me", tok).Code)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("1.1.1.1:1000"))
	assert.Equal(t, http.StatusOK, call("1.1.1.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("1.1.1.1:1002"))
	assert.Equal(t, http.StatusOK, call("2.2.2.2:1000"))
}

func TestIPRateLimiter_ForgetsIdleVisitors(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.allow("1.1.1.1"))
	assert.False(t, limiter.allow("1.1.1.1"))

	now = now.Add(limiterIdleTTL + time.Second)
	limiter.allow("3.3.3.3")
	assert.NotContains(t, limiter.visitors, "1.1.1.1")
}
