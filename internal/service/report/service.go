package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/decision"
)

type Options struct {
	// Concurrency bounds per-employee fan-out in batch reports.
	Concurrency int
	// MaxRangeDays bounds the length of a report window.
	MaxRangeDays int
	Now          func() time.Time
}

func (o *Options) setDefaults() {
	if o.Concurrency <= 0 {
		o.Concurrency = 8
	}
	if o.MaxRangeDays <= 0 {
		o.MaxRangeDays = 366
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type ReportServiceImpl struct {
	repo     *cached.Repository
	settings calendar.SettingsProvider
	opts     Options
}

// NewReportService returns a service implementing both report.ReportService and report.CacheService.
func NewReportService(repo *cached.Repository, settings calendar.SettingsProvider, opts Options) *ReportServiceImpl {
	opts.setDefaults()
	return &ReportServiceImpl{repo: repo, settings: settings, opts: opts}
}

var (
	_ report.ReportService = (*ReportServiceImpl)(nil)
	_ report.CacheService  = (*ReportServiceImpl)(nil)
)

// today is the current calendar day in the company timezone.
func (s *ReportServiceImpl) today(ctx context.Context) (time.Time, error) {
	cfg, err := s.settings.GetCalendarConfig(ctx, "")
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get calendar config: %w", err)
	}
	return utils.TruncateDay(s.opts.Now().In(cfg.Location())), nil
}

// resolveRange validates req and clamps its end to today so future days are
// never reported as absent.
func (s *ReportServiceImpl) resolveRange(ctx context.Context, req report.RangeRequest) (time.Time, time.Time, error) {
	if err := req.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}

	today, err := s.today(ctx)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start, end, err := req.Resolve(today)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(today) {
		return time.Time{}, time.Time{}, report.ErrFutureRange
	}
	if end.After(today) {
		end = today
	}
	if days := len(utils.DaysInRange(start, end)); days > s.opts.MaxRangeDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d days requested, at most %d allowed", report.ErrRangeTooLarge, days, s.opts.MaxRangeDays)
	}
	return start, end, nil
}

// engines caches one decision engine per department for the duration of a request.
type engines struct {
	mu       sync.Mutex
	settings calendar.SettingsProvider
	byDept   map[string]*decision.Engine
}

func (s *ReportServiceImpl) newEngines() *engines {
	return &engines{settings: s.settings, byDept: make(map[string]*decision.Engine)}
}

func (e *engines) get(ctx context.Context, department string) (*decision.Engine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if eng, ok := e.byDept[department]; ok {
		return eng, nil
	}
	cfg, err := e.settings.GetCalendarConfig(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar config: %w", err)
	}
	eng := decision.New(cfg)
	e.byDept[department] = eng
	return eng, nil
}

// ========================================
// EMPLOYEE REPORT
// ========================================

func (s *ReportServiceImpl) GetEmployeeReport(ctx context.Context, employeeID string, req report.RangeRequest) (report.EmployeeReport, error) {
	start, end, err := s.resolveRange(ctx, req)
	if err != nil {
		return report.EmployeeReport{}, err
	}
	return s.employeeReport(ctx, employeeID, start, end)
}

func (s *ReportServiceImpl) employeeReport(ctx context.Context, employeeID string, start, end time.Time) (report.EmployeeReport, error) {
	key := cached.Key(cached.NSReport, cached.ReportEmployee, employeeID, cached.Day(start), cached.Day(end))

	return cache.GetOrSet(ctx, s.repo.Cache(), key, s.repo.TTLs().Reports,
		func(ctx context.Context) (report.EmployeeReport, error) {
			return s.buildEmployeeReport(ctx, employeeID, start, end)
		})
}

func (s *ReportServiceImpl) buildEmployeeReport(ctx context.Context, employeeID string, start, end time.Time) (report.EmployeeReport, error) {
	emp, err := s.repo.Employee(ctx, employeeID)
	if err != nil {
		return report.EmployeeReport{}, err
	}

	cfg, err := s.settings.GetCalendarConfig(ctx, emp.Department)
	if err != nil {
		return report.EmployeeReport{}, fmt.Errorf("failed to get calendar config: %w", err)
	}
	engine := decision.New(cfg)

	holidays, err := s.repo.HolidaysInRange(ctx, start, end)
	if err != nil {
		return report.EmployeeReport{}, fmt.Errorf("failed to get holidays: %w", err)
	}
	records, err := s.repo.AttendanceInRange(ctx, emp.ID, start, end)
	if err != nil {
		return report.EmployeeReport{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	leaves, err := s.repo.ApprovedLeavesInRange(ctx, emp.ID, start, end)
	if err != nil {
		return report.EmployeeReport{}, fmt.Errorf("failed to get leaves: %w", err)
	}

	dates := utils.DaysInRange(start, end)
	days := make([]attendance.ProcessedDay, 0, len(dates))
	for _, d := range dates {
		in := decision.DayInput{Date: d, EmployeeID: emp.ID, Holidays: holidays}
		key := utils.DateKey(d)
		if rec, ok := records[key]; ok {
			in.Record = &rec
		}
		if l, ok := leaves[key]; ok {
			in.Leave = &l
		}
		days = append(days, engine.ProcessDay(in))
	}

	return report.EmployeeReport{
		Employee:    emp.Brief(),
		StartDate:   utils.DateKey(start),
		EndDate:     utils.DateKey(end),
		Statistics:  Summarize(days),
		Days:        days,
		GeneratedAt: s.opts.Now().UTC(),
	}, nil
}

// ========================================
// FAN-OUT
// ========================================

type batchResult struct {
	reports  []report.EmployeeReport
	failures []report.BatchFailure
}

// fanOut builds every employee's report concurrently. A failed employee is
// logged and recorded, and never aborts the batch. Results keep input order.
func (s *ReportServiceImpl) fanOut(ctx context.Context, employees []employee.Employee, start, end time.Time) (batchResult, error) {
	reports := make([]report.EmployeeReport, len(employees))
	errs := make([]error, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, emp := range employees {
		g.Go(func() error {
			rep, err := s.employeeReport(gctx, emp.ID, start, end)
			if err != nil {
				errs[i] = err
				return nil
			}
			reports[i] = rep
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return batchResult{}, err
	}

	var res batchResult
	for i, emp := range employees {
		if errs[i] != nil {
			slog.Warn("Employee report failed, excluding from aggregate",
				"employee_id", emp.ID, "error", errs[i])
			res.failures = append(res.failures, report.BatchFailure{EmployeeID: emp.ID, Error: errs[i].Error()})
			continue
		}
		res.reports = append(res.reports, reports[i])
	}
	return res, nil
}

// cacheComplete serves key from cache, or builds it and caches it only when
// no employee was left out, so a partial result is retried on the next call.
func cacheComplete[T any](ctx context.Context, s *ReportServiceImpl, key string, build func(context.Context) (T, int, error)) (T, error) {
	var out T
	ok, err := s.repo.Cache().GetInto(key, &out)
	if err != nil {
		slog.Warn("Cached report could not be decoded, rebuilding", "key", key, "error", err)
	}
	if ok {
		return out, nil
	}

	out, failures, err := build(ctx)
	if err != nil {
		return out, err
	}
	if failures == 0 {
		if err := s.repo.Cache().Set(key, out, s.repo.TTLs().Reports); err != nil {
			slog.Warn("Report could not be cached", "key", key, "error", err)
		}
	}
	return out, nil
}

// ========================================
// DEPARTMENT / COMPANY
// ========================================

func (s *ReportServiceImpl) GetDepartmentReport(ctx context.Context, department string, req report.RangeRequest) (report.DepartmentReport, error) {
	start, end, err := s.resolveRange(ctx, req)
	if err != nil {
		return report.DepartmentReport{}, err
	}

	key := cached.Key(cached.NSReport, cached.ReportDepartment, department, cached.Day(start), cached.Day(end))
	return cacheComplete(ctx, s, key, func(ctx context.Context) (report.DepartmentReport, int, error) {
		employees, err := s.repo.EmployeesByDepartment(ctx, department)
		if err != nil {
			return report.DepartmentReport{}, 0, fmt.Errorf("failed to list department employees: %w", err)
		}

		batch, err := s.fanOut(ctx, employees, start, end)
		if err != nil {
			return report.DepartmentReport{}, 0, err
		}

		rep := report.DepartmentReport{
			Department:  department,
			StartDate:   utils.DateKey(start),
			EndDate:     utils.DateKey(end),
			Employees:   make([]report.EmployeeSummary, 0, len(batch.reports)),
			Failures:    batch.failures,
			GeneratedAt: s.opts.Now().UTC(),
		}
		percentages := make([]float64, 0, len(batch.reports))
		for _, r := range batch.reports {
			rep.Employees = append(rep.Employees, report.EmployeeSummary{Employee: r.Employee, Statistics: r.Statistics})
			addStatistics(&rep.Totals, r.Statistics)
			percentages = append(percentages, r.Statistics.AttendancePercentage)
		}
		finalize(&rep.Totals)
		rep.EmployeeCount = len(rep.Employees)
		rep.AverageAttendancePercentage = averagePercentage(percentages)

		return rep, len(batch.failures), nil
	})
}

func (s *ReportServiceImpl) GetCompanyReport(ctx context.Context, req report.RangeRequest) (report.CompanyReport, error) {
	start, end, err := s.resolveRange(ctx, req)
	if err != nil {
		return report.CompanyReport{}, err
	}

	key := cached.Key(cached.NSReport, cached.ReportCompany, cached.Day(start), cached.Day(end))
	return cacheComplete(ctx, s, key, func(ctx context.Context) (report.CompanyReport, int, error) {
		employees, err := s.repo.ActiveEmployees(ctx)
		if err != nil {
			return report.CompanyReport{}, 0, fmt.Errorf("failed to list active employees: %w", err)
		}

		batch, err := s.fanOut(ctx, employees, start, end)
		if err != nil {
			return report.CompanyReport{}, 0, err
		}

		rep := report.CompanyReport{
			StartDate:   utils.DateKey(start),
			EndDate:     utils.DateKey(end),
			Failures:    batch.failures,
			GeneratedAt: s.opts.Now().UTC(),
		}

		byDept := make(map[string]*report.DepartmentSummary)
		deptPercentages := make(map[string][]float64)
		percentages := make([]float64, 0, len(batch.reports))
		for _, r := range batch.reports {
			dept := r.Employee.Department
			sum, ok := byDept[dept]
			if !ok {
				sum = &report.DepartmentSummary{Department: dept}
				byDept[dept] = sum
			}
			sum.EmployeeCount++
			addStatistics(&sum.Totals, r.Statistics)
			deptPercentages[dept] = append(deptPercentages[dept], r.Statistics.AttendancePercentage)

			addStatistics(&rep.Totals, r.Statistics)
			percentages = append(percentages, r.Statistics.AttendancePercentage)
		}
		finalize(&rep.Totals)
		rep.EmployeeCount = len(batch.reports)
		rep.AverageAttendancePercentage = averagePercentage(percentages)

		rep.Departments = make([]report.DepartmentSummary, 0, len(byDept))
		for dept, sum := range byDept {
			finalize(&sum.Totals)
			sum.AverageAttendancePercentage = averagePercentage(deptPercentages[dept])
			rep.Departments = append(rep.Departments, *sum)
		}
		sort.Slice(rep.Departments, func(i, j int) bool {
			return rep.Departments[i].Department < rep.Departments[j].Department
		})

		return rep, len(batch.failures), nil
	})
}

// isNotFound reports whether err is one of the domain not-found errors.
func isNotFound(err error) bool {
	return errors.Is(err, employee.ErrEmployeeNotFound)
}
