package report

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// REQUESTS
// ========================================

// RangeRequest selects a report window either by explicit dates or by a named period.
// Explicit dates win when both are given.
type RangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Period    string `json:"period"`
}

var periods = []string{
	utils.PeriodToday,
	utils.PeriodYesterday,
	utils.PeriodWeek,
	utils.PeriodMonth,
	utils.PeriodLastMonth,
}

func (r *RangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate == "" && r.EndDate == "" {
		if r.Period != "" && !validator.IsInSlice(r.Period, periods) {
			errs = append(errs, validator.ValidationError{
				Field:   "period",
				Message: ErrInvalidPeriod.Error(),
			})
		}
	} else {
		validator.DateRange(&errs, "start_date", r.StartDate, "end_date", r.EndDate)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Resolve returns the inclusive day range the request denotes. Validate must pass first.
func (r RangeRequest) Resolve(now time.Time) (time.Time, time.Time, error) {
	if r.StartDate == "" && r.EndDate == "" {
		return utils.ResolvePeriod(r.Period, now)
	}

	start, err := utils.ParseDateKey(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.ParseDateKey(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return start, end, nil
}

const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

type TrendsRequest struct {
	RangeRequest
	GroupBy    string `json:"group_by"`
	Department string `json:"department,omitempty"`
}

func (r *TrendsRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := r.RangeRequest.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}

	if r.GroupBy == "" {
		r.GroupBy = GroupByDay
	}
	if !validator.IsInSlice(r.GroupBy, []string{GroupByDay, GroupByWeek, GroupByMonth}) {
		errs = append(errs, validator.ValidationError{
			Field:   "group_by",
			Message: ErrInvalidGroupBy.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DashboardRequest struct {
	// Date defaults to today.
	Date string `json:"date"`

	// IncludeLists exposes the present/absent employee lists. Admin only.
	IncludeLists bool `json:"-"`
}

func (r *DashboardRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// InvalidateRequest scopes a manual cache invalidation. Both fields empty clears everything.
type InvalidateRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func (r *InvalidateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// EMPLOYEE REPORT
// ========================================

type Statistics struct {
	TotalDays            int     `json:"total_days"`
	WorkingDays          int     `json:"working_days"`
	Weekends             int     `json:"weekends"`
	Holidays             int     `json:"holidays"`
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	HalfDays             int     `json:"half_days"`
	LeaveDays            int     `json:"leave_days"`
	LateDays             int     `json:"late_days"`
	TotalWorkHours       float64 `json:"total_work_hours"`
	AverageWorkHours     float64 `json:"average_work_hours"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

type EmployeeReport struct {
	Employee    employee.Brief            `json:"employee"`
	StartDate   string                    `json:"start_date"`
	EndDate     string                    `json:"end_date"`
	Statistics  Statistics                `json:"statistics"`
	Days        []attendance.ProcessedDay `json:"days"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// ========================================
// DEPARTMENT / COMPANY ROLLUPS
// ========================================

// BatchFailure records an employee left out of an aggregate because its report failed.
type BatchFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

type EmployeeSummary struct {
	Employee   employee.Brief `json:"employee"`
	Statistics Statistics     `json:"statistics"`
}

type DepartmentReport struct {
	Department                  string            `json:"department"`
	StartDate                   string            `json:"start_date"`
	EndDate                     string            `json:"end_date"`
	EmployeeCount               int               `json:"employee_count"`
	Totals                      Statistics        `json:"totals"`
	AverageAttendancePercentage float64           `json:"average_attendance_percentage"`
	Employees                   []EmployeeSummary `json:"employees"`
	Failures                    []BatchFailure    `json:"failures"`
	GeneratedAt                 time.Time         `json:"generated_at"`
}

type DepartmentSummary struct {
	Department                  string     `json:"department"`
	EmployeeCount               int        `json:"employee_count"`
	Totals                      Statistics `json:"totals"`
	AverageAttendancePercentage float64    `json:"average_attendance_percentage"`
}

type CompanyReport struct {
	StartDate                   string              `json:"start_date"`
	EndDate                     string              `json:"end_date"`
	EmployeeCount               int                 `json:"employee_count"`
	Totals                      Statistics          `json:"totals"`
	AverageAttendancePercentage float64             `json:"average_attendance_percentage"`
	Departments                 []DepartmentSummary `json:"departments"`
	Failures                    []BatchFailure      `json:"failures"`
	GeneratedAt                 time.Time           `json:"generated_at"`
}

// ========================================
// TRENDS
// ========================================

type TrendPoint struct {
	Period               string  `json:"period"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	WorkingEmployeeDays  int     `json:"working_employee_days"`
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	HalfDays             int     `json:"half_days"`
	LeaveDays            int     `json:"leave_days"`
	LateDays             int     `json:"late_days"`
	TotalWorkHours       float64 `json:"total_work_hours"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

type TrendReport struct {
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	GroupBy    string         `json:"group_by"`
	Department string         `json:"department,omitempty"`
	Points     []TrendPoint   `json:"points"`
	Failures   []BatchFailure `json:"failures"`
}

// ========================================
// DASHBOARD
// ========================================

type Dashboard struct {
	Date                 string           `json:"date"`
	DayType              calendar.DayType `json:"day_type"`
	IsWorkingDay         bool             `json:"is_working_day"`
	HolidayTitle         string           `json:"holiday_title,omitempty"`
	TotalEmployees       int              `json:"total_employees"`
	Present              int              `json:"present"`
	Absent               int              `json:"absent"`
	HalfDay              int              `json:"half_day"`
	OnLeave              int              `json:"on_leave"`
	Late                 int              `json:"late"`
	InProgress           int              `json:"in_progress"`
	AttendancePercentage float64          `json:"attendance_percentage"`

	PresentEmployees []employee.Brief `json:"present_employees,omitempty"`
	AbsentEmployees  []employee.Brief `json:"absent_employees,omitempty"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// ========================================
// MISSING CHECKOUTS
// ========================================

type MissingCheckout struct {
	Employee employee.Brief `json:"employee"`
	Date     string         `json:"date"`
	CheckIn  time.Time      `json:"check_in"`
	RecordID string         `json:"record_id"`
}

type MissingCheckoutReport struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Items     []MissingCheckout `json:"items"`
}
