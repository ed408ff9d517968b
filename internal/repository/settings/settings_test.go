package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
)

const calendarYAML = `
default:
  minimum_work_hours: 4
  full_day_hours: 8
  non_working_weekdays: [0]
  non_working_saturdays: [2]
  shift_start: "09:30"
  grace_period_minutes: 15
  timezone: Asia/Kolkata
departments:
  support:
    non_working_saturdays: [2, 4]
    saturday_half_day: true
  operations:
    non_working_weekdays: [5]
`

func writeFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "calendar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStatic(t *testing.T) {
	support := calendar.DefaultConfig()
	support.SaturdayHalfDay = true
	s := NewStatic(calendar.DefaultConfig(), map[string]calendar.Config{"support": support})
	ctx := context.Background()

	cfg, err := s.GetCalendarConfig(ctx, "support")
	require.NoError(t, err)
	assert.True(t, cfg.SaturdayHalfDay)
	assert.Equal(t, "support", cfg.Department)

	cfg, err = s.GetCalendarConfig(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, cfg.SaturdayHalfDay)

	// 2024-01-13 is the 2nd Saturday, 2024-01-15 a Monday.
	ok, err := s.IsWorkingDay(ctx, time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.IsWorkingDay(ctx, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileProvider_DepartmentOverridesInheritDefault(t *testing.T) {
	path := writeFile(t, t.TempDir(), calendarYAML)
	p, err := NewFileProvider(path, calendar.DefaultConfig())
	require.NoError(t, err)
	ctx := context.Background()

	support, err := p.GetCalendarConfig(ctx, "support")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, support.NonWorkingSaturdays)
	assert.True(t, support.SaturdayHalfDay)
	assert.Equal(t, 8.0, support.FullDayHours)
	assert.Equal(t, []time.Weekday{time.Sunday}, support.NonWorkingWeekdays)

	ops, err := p.GetCalendarConfig(ctx, "operations")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Friday}, ops.NonWorkingWeekdays)

	// 2024-01-19 is a Friday.
	friday := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)
	ok, err := p.IsWorkingDay(ctx, friday, "operations")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = p.IsWorkingDay(ctx, friday, "")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileProvider_InvalidFileRejected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "default:\n  minimum_work_hours: 6\n  full_day_hours: 4\n")
	_, err := NewFileProvider(path, calendar.DefaultConfig())
	assert.ErrorIs(t, err, calendar.ErrInvalidConfig)

	_, err = NewFileProvider(filepath.Join(t.TempDir(), "missing.yaml"), calendar.DefaultConfig())
	assert.Error(t, err)
}

func TestFileProvider_ReloadKeepsCurrentOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, calendarYAML)
	p, err := NewFileProvider(path, calendar.DefaultConfig())
	require.NoError(t, err)

	var calls atomic.Int32
	p.OnChange(func() { calls.Add(1) })

	writeFile(t, dir, "default: [not, a, map]\n")
	assert.Error(t, p.Reload())
	assert.Equal(t, int32(0), calls.Load())

	cfg, err := p.GetCalendarConfig(context.Background(), "support")
	require.NoError(t, err)
	assert.True(t, cfg.SaturdayHalfDay)

	writeFile(t, dir, "default:\n  minimum_work_hours: 3\n")
	require.NoError(t, p.Reload())
	assert.Equal(t, int32(1), calls.Load())

	cfg, err = p.GetCalendarConfig(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.MinimumWorkHours)
	assert.Equal(t, 8.0, cfg.FullDayHours)
}

func TestFileProvider_WatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, calendarYAML)
	p, err := NewFileProvider(path, calendar.DefaultConfig())
	require.NoError(t, err)

	var calls atomic.Int32
	p.OnChange(func() { calls.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, p.Watch(ctx))

	writeFile(t, dir, "default:\n  minimum_work_hours: 5\n")

	require.Eventually(t, func() bool {
		cfg, err := p.GetCalendarConfig(context.Background(), "")
		return err == nil && cfg.MinimumWorkHours == 5
	}, 3*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool { return calls.Load() > 0 }, time.Second, 10*time.Millisecond)
}
