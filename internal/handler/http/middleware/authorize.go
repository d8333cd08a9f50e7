package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// Authorizer decides whether a role may call a route pattern.
type Authorizer interface {
	Allowed(role user.Role, pattern, method string) (bool, error)
}

// Authorize checks the caller's role against the matched chi route pattern.
// It must run after AuthRequired and inside the router group whose routes
// it guards, so that the full pattern is known.
func Authorize(gate Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			allowed, err := gate.Allowed(actor.Role, pattern, r.Method)
			if err != nil {
				slog.Error("access check failed", "error", err, "pattern", pattern, "role", actor.Role)
				response.InternalServerError(w, "An unexpected error occurred")
				return
			}
			if !allowed {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: role '%s' cannot %s %s", actor.Role, r.Method, pattern))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
