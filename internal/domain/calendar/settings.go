package calendar

import (
	"context"
	"time"
)

// SettingsProvider is the externally owned source of calendar rules.
type SettingsProvider interface {
	// GetCalendarConfig returns the department's calendar, or the company default when
	// department is empty or has no override.
	GetCalendarConfig(ctx context.Context, department string) (Config, error)

	// IsWorkingDay applies the weekday and Saturday rules only; holidays are not consulted.
	IsWorkingDay(ctx context.Context, date time.Time, department string) (bool, error)
}
