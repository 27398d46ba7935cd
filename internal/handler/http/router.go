package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Handlers struct {
	Auth          AuthHandler
	User          UserHandler
	Attendance    AttendanceHandler
	WorkLog       WorkLogHandler
	Leave         RequestHandler
	Permission    RequestHandler
	Wfh           RequestHandler
	SiteVisit     RequestHandler
	ShowroomVisit RequestHandler
	Payroll       PayrollHandler
}

// ParseLogLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, users middleware.StatusReader, h Handlers) http.Handler {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.Telemetry.ServiceName),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  ParseLogLevel(cfg.App.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))

		r.Route("/auth", func(r chi.Router) {
			r.With(httprate.LimitByIP(cfg.RateLimit.LoginPerMinute, time.Minute)).Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.RequireActive(users))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.User.Me)
				r.Patch("/me", h.User.UpdateProfile)

				r.Get("/", h.User.List)
				r.Get("/{userID}", h.User.Get)

				// Admin tier
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRoles(user.RoleHR, user.RoleAdmin))
					r.Post("/", h.User.Create)
					r.Put("/{userID}/role", h.User.UpdateRole)
					r.Put("/{userID}/salary", h.User.UpdateSalaryConfig)
					r.Put("/{userID}/status", h.User.UpdateStatus)
				})

				r.With(middleware.RequireRoles(user.RoleAdmin)).Delete("/{userID}", h.User.Delete)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Post("/breaks/start", h.Attendance.StartBreak)
				r.Post("/breaks/end", h.Attendance.EndBreak)
				r.Get("/me", h.Attendance.GetMyAttendance)
				r.Get("/summary", h.Attendance.GetSummary)
				r.Get("/users/{userID}", h.Attendance.GetUserAttendance)
			})

			r.Route("/worklogs", func(r chi.Router) {
				r.Put("/", h.WorkLog.Upsert)
				r.Get("/me", h.WorkLog.ListMine)
			})

			r.Route("/leaves", requestRoutes(h.Leave))
			r.Route("/permissions", requestRoutes(h.Permission))
			r.Route("/wfh", requestRoutes(h.Wfh))
			r.Route("/visits/site", requestRoutes(h.SiteVisit))
			r.Route("/visits/showroom", requestRoutes(h.ShowroomVisit))

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/me", h.Payroll.MySalary)

				// Admin tier
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRoles(user.RoleHR, user.RoleAdmin))
					r.Get("/users/{userID}", h.Payroll.UserSalary)
					r.Get("/report", h.Payroll.Report)
					r.Get("/settings", h.Payroll.GetSettings)
				})

				r.With(middleware.RequireRoles(user.RoleAdmin)).Put("/settings", h.Payroll.UpdateSettings)
			})
		})
	})

	return otelhttp.NewHandler(r, cfg.Telemetry.ServiceName)
}

func requestRoutes(h RequestHandler) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/me", h.ListMine)
		r.Get("/pending", h.ListPending)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/review", h.Review)
		r.With(middleware.RequireRoles(user.RoleHR, user.RoleAdmin)).Delete("/{id}", h.Delete)
	}
}
