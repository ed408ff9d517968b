package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
)

type Handlers struct {
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Holiday    HolidayHandler
	Report     ReportHandler
	Cache      CacheHandler
}

type RouterConfig struct {
	Env            string
	AllowedOrigins []string
	Auth           *jwtauth.JWTAuth
	Metrics        prometheus.Gatherer
	// Logger defaults to a JSON logger on stdout.
	Logger *slog.Logger
}

func NewRouter(cfg RouterConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logFormat := httplog.SchemaECS.Concise(false)
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			ReplaceAttr: logFormat.ReplaceAttr,
		})).With(
			slog.String("app", "hris-attendance"),
			slog.String("env", cfg.Env),
		)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot set headers, so the stream also accepts ?jwt=.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(cfg.Auth, jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Get("/dashboard/stream", h.Report.DashboardStream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(cfg.Auth))
			r.Use(middleware.AuthRequired)

			r.Get("/dashboard", h.Report.Dashboard)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/bulk-status", h.Attendance.BulkUpdateStatus)
					r.Put("/{id}/status", h.Attendance.UpdateStatus)
					r.Delete("/{id}", h.Attendance.Delete)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/employees/{id}", h.Report.EmployeeReport)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/departments/{department}", h.Report.DepartmentReport)
					r.Get("/company", h.Report.CompanyReport)
					r.Get("/trends", h.Report.Trends)
					r.Get("/missing-checkouts", h.Report.MissingCheckouts)
				})
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Post("/leaves/{id}/approve", h.Leave.Approve)

				r.Route("/holidays", func(r chi.Router) {
					r.Post("/", h.Holiday.Create)
					r.Put("/{id}", h.Holiday.Update)
					r.Delete("/{id}", h.Holiday.Delete)
				})

				r.Route("/cache", func(r chi.Router) {
					r.Get("/stats", h.Cache.Stats)
					r.Post("/warm-up", h.Cache.WarmUp)
					r.Post("/clear", h.Cache.Clear)
					r.Post("/invalidate", h.Cache.Invalidate)
				})
			})
		})
	})

	return r
}
