package report

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
)

// ReportService builds attendance reports from cached reads and the day decision engine.
type ReportService interface {
	GetEmployeeReport(ctx context.Context, employeeID string, req RangeRequest) (EmployeeReport, error)
	GetDepartmentReport(ctx context.Context, department string, req RangeRequest) (DepartmentReport, error)
	GetCompanyReport(ctx context.Context, req RangeRequest) (CompanyReport, error)
	GetTrends(ctx context.Context, req TrendsRequest) (TrendReport, error)
	GetDashboard(ctx context.Context, req DashboardRequest) (Dashboard, error)
	GetMissingCheckouts(ctx context.Context, req RangeRequest) (MissingCheckoutReport, error)
}

// CacheService exposes operational control over the report cache.
type CacheService interface {
	// WarmUp preloads active employees, this month's holidays and today's dashboard.
	WarmUp(ctx context.Context) error

	// ClearAll drops every cached entry.
	ClearAll()

	// InvalidateFor evicts entries touching an employee and/or date, or everything for an empty request.
	InvalidateFor(req InvalidateRequest) int

	Stats() cache.Stats
}
