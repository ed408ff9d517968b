package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// missingCheckoutLookback is how many days back the scan looks for open sessions.
const missingCheckoutLookback = 7

type sweeper interface {
	Sweep() int
}

type warmer interface {
	WarmUp(ctx context.Context) error
}

type missingCheckoutFinder interface {
	GetMissingCheckouts(ctx context.Context, req report.RangeRequest) (report.MissingCheckoutReport, error)
}

// CacheJobs keeps the report cache tidy and warm.
type CacheJobs struct {
	store   sweeper
	warmer  warmer
	reports missingCheckoutFinder
	now     func() time.Time
}

func NewCacheJobs(store sweeper, warmer warmer, reports missingCheckoutFinder) *CacheJobs {
	return &CacheJobs{store: store, warmer: warmer, reports: reports, now: time.Now}
}

// RegisterJobs adds cache_sweep, cache_warm_up and missing_checkout_scan to scheduler.
func (j *CacheJobs) RegisterJobs(scheduler *Scheduler, sweepInterval, warmUpInterval time.Duration) {
	scheduler.AddJob("cache_sweep", sweepInterval, j.Sweep, SkipInitialRun())
	scheduler.AddJob("cache_warm_up", warmUpInterval, j.WarmUp)
	scheduler.AddJob("missing_checkout_scan", time.Hour, j.ScanMissingCheckouts)
}

// Sweep drops expired cache entries.
func (j *CacheJobs) Sweep(ctx context.Context) error {
	if n := j.store.Sweep(); n > 0 {
		slog.Info("Cron: Swept expired cache entries", "count", n)
	}
	return nil
}

func (j *CacheJobs) WarmUp(ctx context.Context) error {
	return j.warmer.WarmUp(ctx)
}

// ScanMissingCheckouts logs check-ins from the past week that were never closed.
func (j *CacheJobs) ScanMissingCheckouts(ctx context.Context) error {
	today := j.now()
	req := report.RangeRequest{
		StartDate: utils.DateKey(today.AddDate(0, 0, -missingCheckoutLookback)),
		EndDate:   utils.DateKey(today),
	}

	rep, err := j.reports.GetMissingCheckouts(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to scan missing checkouts: %w", err)
	}

	for _, item := range rep.Items {
		slog.Warn("Cron: Missing check-out",
			"employee_id", item.Employee.ID,
			"employee_name", item.Employee.Name,
			"date", item.Date,
			"attendance_id", item.RecordID)
	}
	slog.Info("Cron: Missing checkout scan finished", "count", len(rep.Items), "from", rep.StartDate, "to", rep.EndDate)
	return nil
}
