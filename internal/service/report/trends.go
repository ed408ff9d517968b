package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
)

const allDepartments = "all"

// GetTrends buckets every employee-day in the range by day, ISO week or month.
func (s *ReportServiceImpl) GetTrends(ctx context.Context, req report.TrendsRequest) (report.TrendReport, error) {
	if err := req.Validate(); err != nil {
		return report.TrendReport{}, err
	}
	start, end, err := s.resolveRange(ctx, req.RangeRequest)
	if err != nil {
		return report.TrendReport{}, err
	}

	scope := req.Department
	if scope == "" {
		scope = allDepartments
	}
	key := cached.Key(cached.NSTrends, cached.Day(start), cached.Day(end), req.GroupBy, scope)

	return cacheComplete(ctx, s, key, func(ctx context.Context) (report.TrendReport, int, error) {
		var (
			employees []employee.Employee
			err       error
		)
		if req.Department != "" {
			employees, err = s.repo.EmployeesByDepartment(ctx, req.Department)
		} else {
			employees, err = s.repo.ActiveEmployees(ctx)
		}
		if err != nil {
			return report.TrendReport{}, 0, fmt.Errorf("failed to list employees: %w", err)
		}

		batch, err := s.fanOut(ctx, employees, start, end)
		if err != nil {
			return report.TrendReport{}, 0, err
		}

		var days []attendance.ProcessedDay
		for _, r := range batch.reports {
			days = append(days, r.Days...)
		}

		return report.TrendReport{
			StartDate:  utils.DateKey(start),
			EndDate:    utils.DateKey(end),
			GroupBy:    req.GroupBy,
			Department: req.Department,
			Points:     bucket(days, req.GroupBy),
			Failures:   batch.failures,
		}, len(batch.failures), nil
	})
}

// periodLabel names the bucket d falls in, e.g. 2024-01-15, 2024-W03 or 2024-01.
func periodLabel(d time.Time, groupBy string) string {
	switch groupBy {
	case report.GroupByWeek:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case report.GroupByMonth:
		return d.Format("2006-01")
	default:
		return utils.DateKey(d)
	}
}

func bucket(days []attendance.ProcessedDay, groupBy string) []report.TrendPoint {
	points := make(map[string]*report.TrendPoint)

	for _, d := range days {
		date, err := utils.ParseDateKey(d.Date)
		if err != nil {
			continue
		}
		label := periodLabel(date, groupBy)

		p, ok := points[label]
		if !ok {
			p = &report.TrendPoint{Period: label, StartDate: d.Date, EndDate: d.Date}
			points[label] = p
		}
		if d.Date < p.StartDate {
			p.StartDate = d.Date
		}
		if d.Date > p.EndDate {
			p.EndDate = d.Date
		}

		if !d.IsWorkingDay() {
			continue
		}
		p.WorkingEmployeeDays++
		switch d.Status {
		case attendance.StatusPresent:
			p.PresentDays++
		case attendance.StatusHalfDay:
			p.HalfDays++
		case attendance.StatusAbsent:
			p.AbsentDays++
		}
		if d.Flags.IsOnLeave {
			p.LeaveDays++
		}
		if d.Flags.IsLate {
			p.LateDays++
		}
		p.TotalWorkHours += d.WorkHours
	}

	out := make([]report.TrendPoint, 0, len(points))
	for _, p := range points {
		p.TotalWorkHours = round(p.TotalWorkHours, 2)
		p.AttendancePercentage = attendancePercentage(p.PresentDays, p.HalfDays, p.WorkingEmployeeDays)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out
}
