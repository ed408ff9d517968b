package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
)

// WarmUp preloads the reads nearly every request needs.
func (s *ReportServiceImpl) WarmUp(ctx context.Context) error {
	today, err := s.today(ctx)
	if err != nil {
		return err
	}
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := s.repo.ActiveEmployees(gctx); err != nil {
			return fmt.Errorf("failed to warm active employees: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if _, err := s.repo.HolidaysInRange(gctx, monthStart, monthEnd); err != nil {
			return fmt.Errorf("failed to warm holidays: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if _, err := s.GetDashboard(gctx, report.DashboardRequest{Date: utils.DateKey(today)}); err != nil {
			return fmt.Errorf("failed to warm dashboard: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Cache warmed up", "duration", time.Since(start), "entries", s.repo.Cache().Len())
	return nil
}

func (s *ReportServiceImpl) ClearAll() {
	n := s.repo.ClearAll()
	slog.Info("Cache cleared", "removed", n)
}

func (s *ReportServiceImpl) InvalidateFor(req report.InvalidateRequest) int {
	scope := cached.Scope{EmployeeID: req.EmployeeID}
	if req.Date != "" {
		if d, err := utils.ParseDateKey(req.Date); err == nil {
			scope.Date = &d
		}
	}
	return s.repo.InvalidateFor(scope)
}

func (s *ReportServiceImpl) Stats() cache.Stats {
	return s.repo.Cache().Stats()
}
