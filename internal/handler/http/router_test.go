package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/access"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
)

var publicRoutes = map[string]bool{
	"POST /api/v1/auth/login":   true,
	"POST /api/v1/auth/refresh": true,
}

type routerEnv struct {
	router *chi.Mux
	tokens jwt.Service
	gate   *access.Gate
}

// newRouterEnv wires the real router with handlers whose services are never reached.
func newRouterEnv(t *testing.T) routerEnv {
	t.Helper()

	tokens, err := jwt.NewJWTService("router-secret", "15m", "168h")
	require.NoError(t, err)
	gate, err := access.NewGate(access.Routes(), user.RolePermissions)
	require.NoError(t, err)

	handlers := Handlers{
		Auth:         NewAuthHandler(tokens, nil),
		Dashboard:    NewDashboardHandler(nil),
		Employee:     NewEmployeeHandler(nil, nil),
		Notification: NewNotificationHandler(nil),
		Task:         NewTaskHandler(nil),
		Leave:        NewLeaveHandler(nil),
		Attendance:   NewAttendanceHandler(nil, nil),
		Report:       NewReportHandler(nil),
	}

	logger := NewLogger(io.Discard, config.AppConfig{Name: "ems-test", Env: "test"}, 0)
	security := config.SecurityConfig{LoginRateLimit: 0.001, LoginRateBurst: 3}
	r := NewRouter(config.AppConfig{AllowedOrigins: []string{"*"}}, security, logger, tokens, gate, handlers)
	return routerEnv{router: r, tokens: tokens, gate: gate}
}

func TestRouter_EveryAuthenticatedRouteIsInAccessTable(t *testing.T) {
	env := newRouterEnv(t)

	mounted := map[string]bool{}
	err := chi.Walk(env.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		key := method + " " + route
		mounted[key] = true
		if publicRoutes[key] || !strings.HasPrefix(route, apiPrefix) {
			return nil
		}
		covered, err := env.gate.Covers(route, method)
		require.NoError(t, err)
		assert.True(t, covered, "route %s has no access policy", key)
		return nil
	})
	require.NoError(t, err)

	for _, rt := range access.Routes() {
		assert.True(t, mounted[rt.Method+" "+rt.Pattern], "access table lists unmounted route %s %s", rt.Method, rt.Pattern)
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	env := newRouterEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/mine", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_DeniesRoleOutsideProfile(t *testing.T) {
	env := newRouterEnv(t)
	token, _, err := env.tokens.GenerateAccessToken("u-1", "u1@example.com", user.RoleEmployee, false)
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/employees", "/api/v1/tasks/assigned", "/api/v1/dashboard/admin", "/api/v1/attendance/export"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}

func TestRouter_LoginIsRateLimited(t *testing.T) {
	env := newRouterEnv(t)

	login := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
		req.RemoteAddr = "192.0.2.10:4000"
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec.Code
	}

	// malformed bodies are rejected before the auth service is reached
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusBadRequest, login())
	}
	assert.Equal(t, http.StatusTooManyRequests, login())
}

func TestRouter_UnknownRoute(t *testing.T) {
	env := newRouterEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
