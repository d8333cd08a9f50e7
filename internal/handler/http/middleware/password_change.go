package middleware

import (
	"net/http"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// RequirePasswordChanged blocks accounts that still carry a temporary
// password from everything except the routes listed in exempt (matched as
// "METHOD pattern").
func RequirePasswordChanged(exempt ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(exempt))
	for _, e := range exempt {
		allowed[e] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if must, _ := claims["must_change_password"].(bool); must {
				key := strings.Join([]string{r.Method, chi.RouteContext(r.Context()).RoutePattern()}, " ")
				if _, ok := allowed[key]; !ok {
					response.PasswordChangeRequired(w)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
