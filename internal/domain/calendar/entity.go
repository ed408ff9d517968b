package calendar

import (
	"fmt"
	"time"
)

// DayType is the classification of a calendar day independent of any employee.
type DayType string

const (
	DayTypeHoliday DayType = "holiday"
	DayTypeWeekend DayType = "weekend"
	DayTypeWorking DayType = "working"
)

// Config holds the company (or department) calendar rules.
type Config struct {
	Department string `json:"department,omitempty" yaml:"department,omitempty"`

	MinimumWorkHours float64 `json:"minimum_work_hours" yaml:"minimum_work_hours"`
	FullDayHours     float64 `json:"full_day_hours" yaml:"full_day_hours"`

	// NonWorkingWeekdays are always weekend, e.g. Sunday.
	NonWorkingWeekdays []time.Weekday `json:"non_working_weekdays" yaml:"non_working_weekdays"`
	// NonWorkingSaturdays lists Saturday-of-month indices (1..4) that are off.
	NonWorkingSaturdays []int `json:"non_working_saturdays" yaml:"non_working_saturdays"`
	// SaturdayHalfDay allows "present" below FullDayHours on working Saturdays.
	SaturdayHalfDay bool `json:"saturday_half_day" yaml:"saturday_half_day"`

	ShiftStart         string `json:"shift_start" yaml:"shift_start"` // HH:MM
	GracePeriodMinutes int    `json:"grace_period_minutes" yaml:"grace_period_minutes"`
	Timezone           string `json:"timezone" yaml:"timezone"`
}

// DefaultConfig is used when no settings are configured.
func DefaultConfig() Config {
	return Config{
		MinimumWorkHours:    4,
		FullDayHours:        8,
		NonWorkingWeekdays:  []time.Weekday{time.Sunday},
		NonWorkingSaturdays: []int{2},
		SaturdayHalfDay:     false,
		ShiftStart:          "09:30",
		GracePeriodMinutes:  15,
		Timezone:            "Asia/Kolkata",
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Classification is the derived type of a single day.
type Classification struct {
	Date              string  `json:"date"`
	Type              DayType `json:"type"`
	IsWorkingDay      bool    `json:"is_working_day"`
	Reason            string  `json:"reason,omitempty"`
	HolidayTitle      string  `json:"holiday_title,omitempty"`
	IsOptionalHoliday bool    `json:"is_optional_holiday,omitempty"`
	SaturdayIndex     int     `json:"saturday_index,omitempty"`
}

// Validate checks the thresholds and policy values are usable.
func (c Config) Validate() error {
	if c.MinimumWorkHours <= 0 {
		return fmt.Errorf("%w: minimum_work_hours must be positive", ErrInvalidConfig)
	}
	if c.FullDayHours < c.MinimumWorkHours {
		return fmt.Errorf("%w: full_day_hours must not be below minimum_work_hours", ErrInvalidConfig)
	}
	for _, idx := range c.NonWorkingSaturdays {
		if idx < 1 || idx > 4 {
			return fmt.Errorf("%w: non_working_saturdays entries must be between 1 and 4", ErrInvalidConfig)
		}
	}
	if c.ShiftStart != "" {
		if _, err := time.Parse("15:04", c.ShiftStart); err != nil {
			return fmt.Errorf("%w: shift_start must be HH:MM", ErrInvalidConfig)
		}
	}
	if c.GracePeriodMinutes < 0 {
		return fmt.Errorf("%w: grace_period_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Timezone)
		}
	}
	return nil
}
