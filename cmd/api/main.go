package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/ems-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/access"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	auditService "github.com/cmlabs-hris/ems-backend-go/internal/service/audit"
	authService "github.com/cmlabs-hris/ems-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/ems-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/ems-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/ems-backend-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/ems-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/ems-backend-go/internal/service/report"
	taskService "github.com/cmlabs-hris/ems-backend-go/internal/service/task"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.App, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	otpRepo := postgresql.NewOTPRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	balanceRepo := postgresql.NewBalanceRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	auditLogRepo := postgresql.NewAuditLogRepository(db)
	loginAttemptRepo := postgresql.NewLoginAttemptRepository(db)
	notificationLogRepo := postgresql.NewNotificationLogRepository(db)

	if _, err := fixtures.SeedAdmin(ctx, userRepo, cfg.Bootstrap, time.Now().Year()); err != nil {
		return err
	}

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}

	emailSvc, err := email.NewEmailService(cfg.SMTP, cfg.App.Name)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST is empty, outgoing mail is disabled")
	}

	recorder := auditService.NewRecorder(auditLogRepo)
	notifier := notificationService.NewNotifier(emailSvc, notificationLogRepo, userRepo)

	authSvc := authService.NewAuthService(db, userRepo, JWTService, otpRepo, refreshTokenRepo, loginAttemptRepo, notifier, recorder, cfg.Security)
	employeeSvc := employeeService.NewEmployeeService(db, userRepo, auditLogRepo, loginAttemptRepo, notifier, recorder)
	taskSvc := taskService.NewTaskService(taskRepo, userRepo, fileStorage, notifier, recorder)
	leaveSvc := leaveService.NewLeaveService(db, leaveRepo, balanceRepo, attendanceRepo, userRepo, notifier, recorder)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, userRepo, recorder)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, auditLogRepo, leaveRepo, balanceRepo, taskRepo, attendanceRepo)
	reportSvc := reportService.NewReportService(attendanceRepo, userRepo)
	notificationSvc := notificationService.NewNotificationService(notifier, userRepo, recorder)

	gate, err := access.NewGate(access.Routes(), user.RolePermissions)
	if err != nil {
		return fmt.Errorf("failed to build access policy: %w", err)
	}

	router := appHTTP.NewRouter(cfg.App, cfg.Security, logger, JWTService, gate, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(JWTService, authSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc, reportSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc),
		Task:         appHTTP.NewTaskHandler(taskSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, reportSvc),
		Report:       appHTTP.NewReportHandler(reportSvc),
	})

	scheduler := cron.NewScheduler(logger)
	cron.NewSessionJobs(refreshTokenRepo, otpRepo, logger).Register(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
