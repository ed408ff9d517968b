package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/settings"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(app.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("env", app.Env),
	)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store := cache.New(cache.WithMetrics(registry))
	repo := cached.New(store, cached.TTLs{
		Employees: cfg.Cache.EmployeesTTL,
		Holidays:  cfg.Cache.HolidaysTTL,
		Daily:     cfg.Cache.DailyTTL,
		Leaves:    cfg.Cache.LeavesTTL,
		Reports:   cfg.Cache.ReportsTTL,
		Dashboard: cfg.Cache.DashboardTTL,
	}, stores)

	provider, err := openSettings(ctx, cfg.Calendar, repo)
	if err != nil {
		return err
	}

	reports := reportService.NewReportService(repo, provider, reportService.Options{
		Concurrency:  cfg.Report.Concurrency,
		MaxRangeDays: cfg.Report.MaxRangeDays,
	})
	attendanceSvc := attendanceService.NewAttendanceService(repo, provider, time.Now)
	leaveSvc := leaveService.NewLeaveService(repo, time.Now)
	holidaySvc := holidayService.NewHolidayService(repo)

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("failed to create jwt service: %w", err)
	}

	events := sse.NewHub()
	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Env:     cfg.App.Env,
		Auth:    jwtService.JWTAuth(),
		Metrics: registry,
		Logger:  logger,
	}, appHTTP.Handlers{
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, events),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc, events),
		Holiday:    appHTTP.NewHolidayHandler(holidaySvc),
		Report:     appHTTP.NewReportHandler(reports, events),
		Cache:      appHTTP.NewCacheHandler(reports),
	})

	scheduler := cron.NewScheduler(cron.WithMetrics(registry))
	cron.NewCacheJobs(store, reports, reports).RegisterJobs(scheduler, cfg.Cache.SweepInterval, cfg.Cache.WarmUpInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Dashboard streams only end with their request context, so shutdown cancels it.
	requestCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return requestCtx },
	}
	server.RegisterOnShutdown(cancelRequests)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// openStores connects the record stores selected by STORE_DRIVER. The returned
// func releases them.
func openStores(ctx context.Context, cfg *config.Config) (cached.Stores, func(), error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		slog.Warn("Using in-memory store, data is lost on restart")
		db := memory.NewDB()
		return cached.Stores{
			Attendance: memory.NewAttendanceRepository(db),
			Employees:  memory.NewEmployeeRepository(db),
			Holidays:   memory.NewHolidayRepository(db),
			Leaves:     memory.NewLeaveRepository(db),
		}, func() {}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return cached.Stores{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(ctx, postgresql.Schema); err != nil {
		db.Close()
		return cached.Stores{}, nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return cached.Stores{
		Attendance: postgresql.NewAttendanceRepository(db),
		Employees:  postgresql.NewEmployeeRepository(db),
		Holidays:   postgresql.NewHolidayRepository(db),
		Leaves:     postgresql.NewLeaveRepository(db),
	}, db.Close, nil
}

// openSettings returns the calendar settings. A configured file is watched and
// every reload drops the cache entries derived from calendar rules.
func openSettings(ctx context.Context, cfg config.CalendarConfig, repo *cached.Repository) (calendar.SettingsProvider, error) {
	if cfg.File == "" {
		return settings.NewStatic(cfg.Default, nil), nil
	}

	provider, err := settings.NewFileProvider(cfg.File, cfg.Default)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar settings: %w", err)
	}
	provider.OnChange(func() {
		removed := repo.InvalidateCalendar()
		slog.Info("Calendar settings reloaded", "path", cfg.File, "cache_removed", removed)
	})
	if err := provider.Watch(ctx); err != nil {
		return nil, err
	}
	return provider, nil
}
