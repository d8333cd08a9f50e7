package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// currentActor returns the authenticated caller or answers 401.
func currentActor(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
	}
	return actor, ok
}

// decodeJSON decodes the request body into dst or answers 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// pageParams reads page and limit; malformed values fall back to defaults.
func pageParams(r *http.Request) (page, limit int) {
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	return page, limit
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// dateRange parses the optional from/to query parameters.
func dateRange(r *http.Request) (from, to *time.Time, err error) {
	var errs validator.ValidationErrors
	for _, key := range []string{"from", "to"} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		d, ok := validator.IsValidDate(raw)
		if !ok {
			errs.Add(key, key+" must be in YYYY-MM-DD format")
			continue
		}
		if key == "from" {
			from = &d
		} else {
			to = &d
		}
	}
	return from, to, errs.Err()
}
