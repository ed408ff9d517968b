package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
)

var validStatuses = []string{string(StatusPresent), string(StatusAbsent), string(StatusHalfDay)}

func (s Status) IsValid() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusHalfDay
}

// Record is the raw, persisted attendance of one employee on one calendar day.
type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Date       time.Time  `json:"date"`
	CheckIn    *time.Time `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Status     Status     `json:"status"`
	WorkHours  float64    `json:"work_hours"`
	Comments   string     `json:"comments,omitempty"`
	Location   string     `json:"location,omitempty"`

	// ManualOverride is set when an administrator corrected the status directly.
	ManualOverride bool `json:"manual_override"`
	// ShortDay marks an absence recorded because the session ended below the minimum work hours.
	ShortDay bool `json:"short_day"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClearForAbsence puts the record in the absent shape: no check-in, no check-out, zero hours.
func (r *Record) ClearForAbsence() {
	r.Status = StatusAbsent
	r.CheckIn = nil
	r.CheckOut = nil
	r.WorkHours = 0
}

// Validate checks the invariants a store write must satisfy.
func (r *Record) Validate() error {
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}

	if r.Status == StatusAbsent {
		if r.CheckIn != nil || r.CheckOut != nil || r.WorkHours != 0 {
			return ErrAbsentWithTimes
		}
		return nil
	}

	if r.CheckIn == nil && !r.ManualOverride {
		return ErrCheckInRequired
	}

	if r.CheckIn != nil && r.CheckOut != nil && r.CheckOut.Before(*r.CheckIn) {
		return ErrCheckOutBeforeCheckIn
	}

	return nil
}

// Flags describe a processed day beyond its status.
type Flags struct {
	IsWeekend         bool `json:"is_weekend"`
	IsHoliday         bool `json:"is_holiday"`
	IsOptionalHoliday bool `json:"is_optional_holiday"`
	IsLate            bool `json:"is_late"`
	IsShortDay        bool `json:"is_short_day"`
	IsOnLeave         bool `json:"is_on_leave"`
	IsInProgress      bool `json:"is_in_progress"`
	IsManual          bool `json:"is_manual"`
}

// ProcessedDay is the derived attendance outcome for one (employee, day).
// Status is empty on weekends and holidays.
type ProcessedDay struct {
	Date         string           `json:"date"`
	EmployeeID   string           `json:"employee_id"`
	DayType      calendar.DayType `json:"day_type"`
	CheckIn      *time.Time       `json:"check_in,omitempty"`
	CheckOut     *time.Time       `json:"check_out,omitempty"`
	Status       Status           `json:"status,omitempty"`
	WorkHours    float64          `json:"work_hours"`
	Flags        Flags            `json:"flags"`
	Reason       string           `json:"reason,omitempty"`
	LeaveType    string           `json:"leave_type,omitempty"`
	HolidayTitle string           `json:"holiday_title,omitempty"`
	Comments     string           `json:"comments,omitempty"`
}

// IsWorkingDay reports whether the day counts toward working days.
func (p ProcessedDay) IsWorkingDay() bool {
	return p.DayType == calendar.DayTypeWorking
}
