// Package settings provides the calendar rules used to classify days.
package settings

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/decision"
)

// Static serves a fixed default calendar plus optional department overrides.
type Static struct {
	def         calendar.Config
	departments map[string]calendar.Config
}

func NewStatic(def calendar.Config, departments map[string]calendar.Config) *Static {
	return &Static{def: def, departments: departments}
}

// GetCalendarConfig implements calendar.SettingsProvider.
func (s *Static) GetCalendarConfig(ctx context.Context, department string) (calendar.Config, error) {
	return resolve(s.def, s.departments, department), nil
}

// IsWorkingDay implements calendar.SettingsProvider.
func (s *Static) IsWorkingDay(ctx context.Context, date time.Time, department string) (bool, error) {
	return isWorkingDay(resolve(s.def, s.departments, department), date), nil
}

func resolve(def calendar.Config, departments map[string]calendar.Config, department string) calendar.Config {
	if department != "" {
		if cfg, ok := departments[department]; ok {
			cfg.Department = department
			return cfg
		}
	}
	return def
}

func isWorkingDay(cfg calendar.Config, date time.Time) bool {
	return decision.New(cfg).Classify(date, nil).IsWorkingDay
}
