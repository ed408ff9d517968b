package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/decision"
)

// GetDashboard returns the company-wide view of one day. The employee lists
// are only kept when req.IncludeLists is set.
func (s *ReportServiceImpl) GetDashboard(ctx context.Context, req report.DashboardRequest) (report.Dashboard, error) {
	if err := req.Validate(); err != nil {
		return report.Dashboard{}, err
	}

	today, err := s.today(ctx)
	if err != nil {
		return report.Dashboard{}, err
	}
	date := today
	if req.Date != "" {
		date, err = utils.ParseDateKey(req.Date)
		if err != nil {
			return report.Dashboard{}, err
		}
	}
	if date.After(today) {
		return report.Dashboard{}, report.ErrFutureRange
	}

	dash, err := cache.GetOrSet(ctx, s.repo.Cache(), cached.Key(cached.NSDashboard, cached.Day(date)), s.repo.TTLs().Dashboard,
		func(ctx context.Context) (report.Dashboard, error) {
			return s.buildDashboard(ctx, date)
		})
	if err != nil {
		return report.Dashboard{}, err
	}

	if !req.IncludeLists {
		dash.PresentEmployees = nil
		dash.AbsentEmployees = nil
	}
	return dash, nil
}

func (s *ReportServiceImpl) buildDashboard(ctx context.Context, date time.Time) (report.Dashboard, error) {
	employees, err := s.repo.ActiveEmployees(ctx)
	if err != nil {
		return report.Dashboard{}, fmt.Errorf("failed to list active employees: %w", err)
	}
	holidays, err := s.repo.HolidaysInRange(ctx, date, date)
	if err != nil {
		return report.Dashboard{}, fmt.Errorf("failed to get holidays: %w", err)
	}
	records, err := s.repo.DailyRecords(ctx, date)
	if err != nil {
		return report.Dashboard{}, fmt.Errorf("failed to get daily records: %w", err)
	}
	leaves, err := s.repo.ApprovedLeavesOnDate(ctx, date)
	if err != nil {
		return report.Dashboard{}, fmt.Errorf("failed to get leaves: %w", err)
	}

	engines := s.newEngines()
	def, err := engines.get(ctx, "")
	if err != nil {
		return report.Dashboard{}, err
	}
	cls := def.Classify(date, holidays)

	dash := report.Dashboard{
		Date:             utils.DateKey(date),
		DayType:          cls.Type,
		IsWorkingDay:     cls.IsWorkingDay,
		HolidayTitle:     cls.HolidayTitle,
		TotalEmployees:   len(employees),
		PresentEmployees: []employee.Brief{},
		AbsentEmployees:  []employee.Brief{},
		GeneratedAt:      s.opts.Now().UTC(),
	}

	byEmployee := make(map[string]attendance.Record, len(records))
	for _, r := range records {
		byEmployee[r.EmployeeID] = r
	}

	for _, emp := range employees {
		engine, err := engines.get(ctx, emp.Department)
		if err != nil {
			return report.Dashboard{}, err
		}

		in := decision.DayInput{Date: date, EmployeeID: emp.ID, Holidays: holidays}
		if rec, ok := byEmployee[emp.ID]; ok {
			in.Record = &rec
		}
		if l, ok := leaves[emp.ID]; ok {
			in.Leave = &l
		}

		day := engine.ProcessDay(in)
		if !day.IsWorkingDay() {
			continue
		}

		switch day.Status {
		case attendance.StatusPresent:
			dash.Present++
			dash.PresentEmployees = append(dash.PresentEmployees, emp.Brief())
		case attendance.StatusHalfDay:
			dash.HalfDay++
			dash.PresentEmployees = append(dash.PresentEmployees, emp.Brief())
		case attendance.StatusAbsent:
			dash.Absent++
			dash.AbsentEmployees = append(dash.AbsentEmployees, emp.Brief())
		}
		if day.Flags.IsOnLeave {
			dash.OnLeave++
		}
		if day.Flags.IsLate {
			dash.Late++
		}
		if day.Flags.IsInProgress {
			dash.InProgress++
		}
	}

	dash.AttendancePercentage = attendancePercentage(dash.Present, dash.HalfDay, dash.Present+dash.HalfDay+dash.Absent)
	return dash, nil
}
