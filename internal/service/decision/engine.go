// Package decision classifies calendar days and derives attendance status.
// Everything here is a pure function of its inputs.
package decision

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// Engine binds a calendar configuration with its timezone and shift start resolved once.
type Engine struct {
	cfg        calendar.Config
	loc        *time.Location
	shiftStart int // minutes after midnight, -1 when unset
}

func New(cfg calendar.Config) *Engine {
	e := &Engine{cfg: cfg, loc: cfg.Location(), shiftStart: -1}
	if t, err := time.Parse("15:04", cfg.ShiftStart); err == nil {
		e.shiftStart = t.Hour()*60 + t.Minute()
	}
	return e
}

func (e *Engine) Config() calendar.Config {
	return e.cfg
}

// DayInput carries everything known about one (employee, day).
type DayInput struct {
	Date       time.Time
	EmployeeID string
	Holidays   holiday.Lookup
	Leave      *leave.Leave
	Record     *attendance.Record
}

// StatusResult is the outcome of status derivation for a working day.
type StatusResult struct {
	Status       attendance.Status
	WorkHours    float64
	IsLate       bool
	IsShortDay   bool
	IsInProgress bool
	Reason       string
}

// SaturdayOfMonth returns which Saturday of its month date is, clamped to [1,4].
// It returns 0 when date is not a Saturday.
func SaturdayOfMonth(date time.Time) int {
	if date.Weekday() != time.Saturday {
		return 0
	}
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstSaturday := 1 + (int(time.Saturday)-int(first.Weekday())+7)%7

	// ceil((day - firstSaturday + 1) / 7)
	idx := (date.Day() - firstSaturday + 1 + 6) / 7
	return min(max(idx, 1), 4)
}

// ClassifyDay is a one-off form of Engine.Classify.
func ClassifyDay(date time.Time, cfg calendar.Config, holidays holiday.Lookup) calendar.Classification {
	return New(cfg).Classify(date, holidays)
}

// Classify decides whether date is a holiday, a weekend or a working day.
// Holidays win over weekday rules, and the Nth-Saturday rule is checked last.
func (e *Engine) Classify(date time.Time, holidays holiday.Lookup) calendar.Classification {
	c := calendar.Classification{Date: utils.DateKey(date)}

	if h, ok := holidays.On(date); ok {
		c.Type = calendar.DayTypeHoliday
		c.Reason = h.Title
		c.HolidayTitle = h.Title
		c.IsOptionalHoliday = h.IsOptional
		return c
	}

	weekday := date.Weekday()
	if slices.Contains(e.cfg.NonWorkingWeekdays, weekday) {
		c.Type = calendar.DayTypeWeekend
		c.Reason = weekday.String()
		return c
	}

	if weekday == time.Saturday {
		c.SaturdayIndex = SaturdayOfMonth(date)
		if slices.Contains(e.cfg.NonWorkingSaturdays, c.SaturdayIndex) {
			c.Type = calendar.DayTypeWeekend
			c.Reason = ordinal(c.SaturdayIndex) + " Saturday"
			return c
		}
	}

	c.Type = calendar.DayTypeWorking
	c.IsWorkingDay = true
	return c
}

// DeriveStatus computes the status of a working day from raw check-in/check-out times.
func (e *Engine) DeriveStatus(date time.Time, checkIn, checkOut *time.Time) StatusResult {
	if checkIn == nil {
		return StatusResult{Status: attendance.StatusAbsent, Reason: "No check-in recorded"}
	}

	res := StatusResult{IsLate: e.IsLate(*checkIn)}

	if checkOut == nil {
		res.Status = attendance.StatusPresent
		res.IsInProgress = true
		return res
	}

	hours := max(checkOut.Sub(*checkIn).Hours(), 0)
	res.WorkHours = roundHours(hours)

	switch {
	case hours < e.cfg.MinimumWorkHours:
		res.Status = attendance.StatusAbsent
		res.IsShortDay = true
		res.Reason = fmt.Sprintf("Worked %.2f hours, below the minimum of %g", res.WorkHours, e.cfg.MinimumWorkHours)
	case hours < e.cfg.FullDayHours && !e.isSaturdayHalfDay(date):
		res.Status = attendance.StatusHalfDay
	default:
		res.Status = attendance.StatusPresent
	}
	return res
}

// IsLate reports whether checkIn falls after shift start plus the grace period,
// measured on the check-in's own day in the configured timezone.
func (e *Engine) IsLate(checkIn time.Time) bool {
	if e.shiftStart < 0 {
		return false
	}
	local := checkIn.In(e.loc)
	y, m, d := local.Date()
	deadline := time.Date(y, m, d, 0, 0, 0, 0, e.loc).
		Add(time.Duration(e.shiftStart+e.cfg.GracePeriodMinutes) * time.Minute)
	return local.After(deadline)
}

func (e *Engine) isSaturdayHalfDay(date time.Time) bool {
	return e.cfg.SaturdayHalfDay && date.Weekday() == time.Saturday
}

// ProcessDay merges classification, approved leave and the raw record into a ProcessedDay.
// Leave is applied before the record, and a manually corrected record keeps its status.
func (e *Engine) ProcessDay(in DayInput) attendance.ProcessedDay {
	cls := e.Classify(in.Date, in.Holidays)

	day := attendance.ProcessedDay{
		Date:         cls.Date,
		EmployeeID:   in.EmployeeID,
		DayType:      cls.Type,
		HolidayTitle: cls.HolidayTitle,
		Flags: attendance.Flags{
			IsWeekend:         cls.Type == calendar.DayTypeWeekend,
			IsHoliday:         cls.Type == calendar.DayTypeHoliday,
			IsOptionalHoliday: cls.IsOptionalHoliday,
		},
	}
	if !cls.IsWorkingDay {
		day.Reason = cls.Reason
		if in.Record != nil {
			day.CheckIn = in.Record.CheckIn
			day.CheckOut = in.Record.CheckOut
			day.Comments = in.Record.Comments
		}
		return day
	}

	if in.Leave != nil && in.Leave.IsApproved() {
		day.Status = attendance.StatusAbsent
		day.Flags.IsOnLeave = true
		day.LeaveType = in.Leave.LeaveType
		day.Reason = in.Leave.Reason
		if day.Reason == "" {
			day.Reason = in.Leave.LeaveType
		}
		return day
	}

	if in.Record == nil {
		day.Status = attendance.StatusAbsent
		day.Reason = "No attendance record"
		return day
	}

	rec := in.Record
	day.CheckIn = rec.CheckIn
	day.CheckOut = rec.CheckOut
	day.Comments = rec.Comments

	if rec.ManualOverride {
		day.Status = rec.Status
		day.WorkHours = rec.WorkHours
		day.Flags.IsManual = true
		if rec.CheckIn != nil && rec.Status != attendance.StatusAbsent {
			day.Flags.IsLate = e.IsLate(*rec.CheckIn)
		}
		return day
	}

	if rec.ShortDay && rec.Status == attendance.StatusAbsent {
		day.Status = attendance.StatusAbsent
		day.Flags.IsShortDay = true
		day.Reason = fmt.Sprintf("Checked out below the minimum of %g hours", e.cfg.MinimumWorkHours)
		return day
	}

	res := e.DeriveStatus(in.Date, rec.CheckIn, rec.CheckOut)
	day.Status = res.Status
	day.WorkHours = res.WorkHours
	day.Reason = res.Reason
	day.Flags.IsLate = res.IsLate
	day.Flags.IsShortDay = res.IsShortDay
	day.Flags.IsInProgress = res.IsInProgress
	return day
}

// ProcessDay is a one-off form of Engine.ProcessDay.
func ProcessDay(cfg calendar.Config, in DayInput) attendance.ProcessedDay {
	return New(cfg).ProcessDay(in)
}

// ValidateTransition checks a manual status correction from one status to another.
// Any change between present, absent and half_day is allowed; a no-op is not.
func ValidateTransition(from, to attendance.Status) error {
	if !from.IsValid() || !to.IsValid() {
		return attendance.ErrInvalidStatusTransition
	}
	if from == to {
		return attendance.ErrSameStatus
	}
	return nil
}

func roundHours(h float64) float64 {
	return decimal.NewFromFloat(h).Round(2).InexactFloat64()
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}
