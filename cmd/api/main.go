package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/visit"
	appHTTP "github.com/cmlabs-hris/workforce-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/workforce-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/workforce-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/workforce-backend-go/internal/service/payroll"
	userService "github.com/cmlabs-hris/workforce-backend-go/internal/service/user"
	visitService "github.com/cmlabs-hris/workforce-backend-go/internal/service/visit"
	wfhService "github.com/cmlabs-hris/workforce-backend-go/internal/service/wfh"
	workLogService "github.com/cmlabs-hris/workforce-backend-go/internal/service/worklog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: appHTTP.ParseLogLevel(cfg.App.LogLevel),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Version)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	auditRepo := postgresql.NewAuditLogRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	breakRepo := postgresql.NewBreakLogRepository(db)
	workLogRepo := postgresql.NewWorkLogRepository(db)
	leaveRepo := postgresql.NewLeaveRequestRepository(db)
	permissionRepo := postgresql.NewPermissionRequestRepository(db)
	visitRepo := postgresql.NewVisitRequestRepository(db)
	wfhRepo := postgresql.NewWfhRequestRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	// config.Load already validated both durations.
	accessTTL, _ := time.ParseDuration(cfg.JWT.AccessExpiration)
	refreshTTL, _ := time.ParseDuration(cfg.JWT.RefreshExpiration)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessTTL, refreshTTL)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	limits := leave.NewLimitEvaluator(leaveRepo, permissionRepo)
	authSvc := serviceAuth.NewAuthService(tx, userRepo, JWTService, JWTRepository)
	userSvc := userService.NewUserService(tx, userRepo, auditRepo, JWTRepository)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, breakRepo, userRepo, workLogRepo)
	workLogSvc := workLogService.NewWorkLogService(tx, workLogRepo, userRepo)
	leaveSvc := leave.NewLeaveService(tx, leaveRepo, userRepo, auditRepo, limits)
	permissionSvc := leave.NewPermissionService(tx, permissionRepo, userRepo, auditRepo, limits)
	visitSvc := visitService.NewVisitService(tx, visitRepo, userRepo, auditRepo)
	wfhSvc := wfhService.NewWfhService(tx, wfhRepo, userRepo, auditRepo)
	payrollSvc := payrollService.NewPayrollService(userRepo, attendanceRepo, leaveRepo, permissionRepo, settingsRepo)

	router := appHTTP.NewRouter(cfg, JWTService, userRepo, appHTTP.Handlers{
		Auth:          appHTTP.NewAuthHandler(JWTService, authSvc),
		User:          appHTTP.NewUserHandler(userSvc),
		Attendance:    appHTTP.NewAttendanceHandler(attendanceSvc),
		WorkLog:       appHTTP.NewWorkLogHandler(workLogSvc),
		Leave:         appHTTP.NewLeaveHandler(leaveSvc),
		Permission:    appHTTP.NewPermissionHandler(permissionSvc),
		Wfh:           appHTTP.NewWfhHandler(wfhSvc),
		SiteVisit:     appHTTP.NewVisitHandler(visit.KindSite, visitSvc),
		ShowroomVisit: appHTTP.NewVisitHandler(visit.KindShowroom, visitSvc),
		Payroll:       appHTTP.NewPayrollHandler(payrollSvc),
	})

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		jobs := cron.NewDailyJobs(tx, userRepo, attendanceRepo, breakRepo, leaveRepo, workLogRepo, auditRepo, emailService)
		jobs.RegisterJobs(scheduler, cfg.Cron.Hour, cfg.Cron.Minute)
		scheduler.Start()
		slog.Info("Daily absence check scheduled", "hour", cfg.Cron.Hour, "minute", cfg.Cron.Minute)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if cfg.Cron.Enabled {
		scheduler.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry shutdown error", "error", err)
	}
}
