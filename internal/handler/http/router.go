package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const apiPrefix = "/api/v1"

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	Dashboard    DashboardHandler
	Employee     EmployeeHandler
	Notification NotificationHandler
	Task         TaskHandler
	Leave        LeaveHandler
	Attendance   AttendanceHandler
	Report       ReportHandler
}

// NewLogger builds the JSON slog logger shared by the app and the access log.
func NewLogger(out io.Writer, app config.AppConfig, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("env", app.Env),
	)
}

// passwordChangeExempt lists the routes a user holding a temporary password may still call.
var passwordChangeExempt = []string{
	"POST " + apiPrefix + "/auth/logout",
	"POST " + apiPrefix + "/auth/password/otp",
	"POST " + apiPrefix + "/auth/password/change",
	"GET " + apiPrefix + "/me",
}

func NewRouter(
	app config.AppConfig,
	security config.SecurityConfig,
	logger *slog.Logger,
	JWTService jwt.Service,
	gate middleware.Authorizer,
	h Handlers,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if app.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	loginLimiter := middleware.NewIPRateLimiter(security.LoginRateLimit, security.LoginRateBurst)

	r.Route(apiPrefix, func(r chi.Router) {
		// Public
		r.With(loginLimiter.Handler).Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.RefreshToken)

		// Requires authentication; every route below must appear in the access table
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.RequirePasswordChanged(passwordChangeExempt...))
			r.Use(middleware.Authorize(gate))

			// Session & profile
			r.Post("/auth/logout", h.Auth.Logout)
			r.Post("/auth/password/otp", h.Auth.RequestPasswordOTP)
			r.Post("/auth/password/change", h.Auth.ChangePassword)
			r.Get("/me", h.Auth.Me)
			r.Put("/me", h.Auth.UpdateProfile)

			// Dashboards
			r.Get("/dashboard/admin", h.Dashboard.Admin)
			r.Get("/dashboard/hr", h.Dashboard.HR)
			r.Get("/dashboard/employee", h.Dashboard.Employee)

			// Employees
			r.Get("/employees", h.Employee.ListEmployees)
			r.Post("/employees", h.Employee.CreateEmployee)
			r.Get("/employees/export", h.Employee.ExportEmployees)
			r.Post("/employees/bulk", h.Employee.BulkAction)
			r.Get("/employees/{id}", h.Employee.GetEmployee)
			r.Put("/employees/{id}", h.Employee.UpdateEmployee)
			r.Delete("/employees/{id}", h.Employee.DeleteEmployee)
			r.Post("/employees/{id}/toggle-active", h.Employee.ToggleActive)
			r.Post("/employees/{id}/unlock", h.Employee.Unlock)
			r.Post("/employees/{id}/reset-password", h.Employee.ResetPassword)

			// Notifications & security
			r.Post("/notifications", h.Notification.Send)
			r.Get("/security/login-attempts", h.Employee.LoginAttempts)
			r.Get("/security/audit-logs", h.Employee.AuditLogs)

			// Tasks
			r.Post("/tasks", h.Task.Create)
			r.Get("/tasks/assigned", h.Task.ListAssigned)
			r.Get("/tasks/mine", h.Task.ListMine)
			r.Get("/tasks/{id}", h.Task.Get)
			r.Put("/tasks/{id}", h.Task.Update)
			r.Delete("/tasks/{id}", h.Task.Delete)
			r.Post("/tasks/{id}/accept", h.Task.Accept)
			r.Post("/tasks/{id}/reject", h.Task.Reject)
			r.Post("/tasks/{id}/status", h.Task.AdvanceStatus)
			r.Get("/tasks/{id}/submission", h.Task.DownloadSubmission)

			// Leaves
			r.Post("/leaves", h.Leave.Apply)
			r.Get("/leaves", h.Leave.List)
			r.Get("/leaves/mine", h.Leave.ListMine)
			r.Get("/leaves/balance", h.Leave.GetBalance)
			r.Get("/leaves/{id}", h.Leave.Get)
			r.Post("/leaves/{id}/decision", h.Leave.Decide)
			r.Post("/leaves/{id}/cancel", h.Leave.Cancel)

			// Attendance
			r.Post("/attendance/self", h.Attendance.SelfMark)
			r.Get("/attendance/mine", h.Attendance.ListMine)
			r.Get("/attendance", h.Attendance.List)
			r.Post("/attendance", h.Attendance.Mark)
			r.Post("/attendance/bulk", h.Attendance.BulkMark)
			r.Get("/attendance/export", h.Attendance.Export)
			r.Put("/attendance/{id}", h.Attendance.Edit)
			r.Post("/attendance/{id}/verify", h.Attendance.Verify)

			// Reports
			r.Get("/reports/attendance/{userID}", h.Report.EmployeeAttendance)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
