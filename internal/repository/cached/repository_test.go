package cached

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
)

type countingHolidays struct {
	holiday.HolidayRepository
	calls atomic.Int32
}

func (c *countingHolidays) ListInRange(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	c.calls.Add(1)
	return c.HolidayRepository.ListInRange(ctx, start, end)
}

type countingAttendance struct {
	attendance.AttendanceRepository
	calls atomic.Int32
}

func (c *countingAttendance) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	c.calls.Add(1)
	return c.AttendanceRepository.ListByEmployee(ctx, employeeID, start, end)
}

func (c *countingAttendance) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	c.calls.Add(1)
	return c.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
}

type fixture struct {
	repo       *Repository
	store      *cache.Store
	db         *memory.DB
	holidays   *countingHolidays
	attendance *countingAttendance
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) *time.Time {
	t := time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
	return &t
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memory.NewDB()
	db.SeedEmployees(
		employee.Employee{ID: "e1", FullName: "Asha Rao", Department: "eng", EmploymentStatus: employee.EmploymentStatusActive},
		employee.Employee{ID: "e2", FullName: "Bilal Khan", Department: "ops", EmploymentStatus: employee.EmploymentStatusActive},
	)
	db.SeedHolidays(holiday.Holiday{ID: "h1", Title: "Republic Day", Date: day(2024, time.January, 26)})
	db.SeedAttendance(attendance.Record{
		ID:         "a1",
		EmployeeID: "e1",
		Date:       day(2024, time.January, 15),
		CheckIn:    at(2024, time.January, 15, 9, 0),
		CheckOut:   at(2024, time.January, 15, 17, 0),
		Status:     attendance.StatusPresent,
		WorkHours:  8,
	})
	db.SeedLeaves(leave.Leave{ID: "l1", EmployeeID: "e2", LeaveDate: day(2024, time.January, 16), LeaveType: "sick", Status: leave.StatusPending})

	hol := &countingHolidays{HolidayRepository: memory.NewHolidayRepository(db)}
	att := &countingAttendance{AttendanceRepository: memory.NewAttendanceRepository(db)}
	store := cache.New()

	repo := New(store, DefaultTTLs(), Stores{
		Attendance: att,
		Employees:  memory.NewEmployeeRepository(db),
		Holidays:   hol,
		Leaves:     memory.NewLeaveRepository(db),
	})
	return &fixture{repo: repo, store: store, db: db, holidays: hol, attendance: att}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "holidays:2024-01-01:2024-01-31", Key(NSHolidays, Day(day(2024, 1, 1)), Day(day(2024, 1, 31))))
	assert.Equal(t, "report:employee:e1:*", Pattern(NSReport, ReportEmployee, "e1"))
	assert.Equal(t, "trends:*", Pattern(NSTrends))
}

func TestHolidaysInRange_CachedAndKeyedByDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.repo.HolidaysInRange(ctx, day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	second, err := f.repo.HolidaysInRange(ctx, day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.holidays.calls.Load())
	assert.Equal(t, first, second)
	assert.Equal(t, "Republic Day", second["2024-01-26"].Title)
	assert.True(t, f.store.Has("holidays:2024-01-01:2024-01-31"))
}

func TestAttendanceInRange_Transparent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	direct, err := f.attendance.AttendanceRepository.ListByEmployee(ctx, "e1", day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	require.Len(t, direct, 1)

	cold, err := f.repo.AttendanceInRange(ctx, "e1", day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)
	warm, err := f.repo.AttendanceInRange(ctx, "e1", day(2024, 1, 1), day(2024, 1, 31))
	require.NoError(t, err)

	assert.Equal(t, cold, warm)
	assert.Equal(t, direct[0].ID, warm["2024-01-15"].ID)
	assert.Equal(t, direct[0].CheckIn.Unix(), warm["2024-01-15"].CheckIn.Unix())
	assert.Equal(t, int32(1), f.attendance.calls.Load())
}

func TestAttendanceRecord_MissIsCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.repo.AttendanceRecord(ctx, "e2", day(2024, 1, 15))
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = f.repo.AttendanceRecord(ctx, "e2", day(2024, 1, 15))
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, int32(1), f.attendance.calls.Load())
}

func TestEmployee_NotFoundIsNotCached(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.Employee(context.Background(), "ghost")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.False(t, f.store.Has("employee:ghost"))
}

func seedAggregates(t *testing.T, s *cache.Store) {
	t.Helper()
	for _, k := range []string{
		"attendance:e1:2024-01-15",
		"attendance:e2:2024-01-01:2024-01-31",
		"daily:2024-01-15",
		"dashboard:2024-01-15",
		"report:employee:e1:2024-01-01:2024-01-31",
		"report:employee:e2:2024-01-01:2024-01-31",
		"report:department:eng:2024-01-01:2024-01-31",
		"report:company:2024-01-01:2024-01-31",
		"trends:2024-01-01:2024-01-31:day",
		"holidays:2024-01-01:2024-01-31",
		"employees:active",
		"leaves:e2:2024-01-01:2024-01-31",
	} {
		require.NoError(t, s.Set(k, true, time.Hour))
	}
}

func TestCreateAttendance_InvalidatesMatchingKeysOnly(t *testing.T) {
	f := newFixture(t)
	seedAggregates(t, f.store)

	_, err := f.repo.CreateAttendance(context.Background(), attendance.Record{
		EmployeeID: "e2",
		Date:       day(2024, 1, 15),
		CheckIn:    at(2024, 1, 15, 9, 5),
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	for _, p := range []string{"attendance:*", "daily:*", "dashboard:*", "report:department:*", "report:company:*", "trends:*", "report:employee:e2:*"} {
		for _, k := range f.store.Stats().Keys {
			assert.False(t, cache.Match(p, k), "key %s matches %s", k, p)
		}
	}

	assert.True(t, f.store.Has("report:employee:e1:2024-01-01:2024-01-31"))
	assert.True(t, f.store.Has("holidays:2024-01-01:2024-01-31"))
	assert.True(t, f.store.Has("employees:active"))
	assert.True(t, f.store.Has("leaves:e2:2024-01-01:2024-01-31"))
}

func TestCreateAttendance_FailureDoesNotInvalidate(t *testing.T) {
	f := newFixture(t)
	seedAggregates(t, f.store)
	before := f.store.Stats().Size

	_, err := f.repo.CreateAttendance(context.Background(), attendance.Record{
		EmployeeID: "e1",
		Date:       day(2024, 1, 15),
		CheckIn:    at(2024, 1, 15, 9, 0),
		Status:     attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, before, f.store.Stats().Size)

	_, err = f.repo.CreateAttendance(context.Background(), attendance.Record{
		EmployeeID: "e2",
		Date:       day(2024, 1, 17),
		Status:     attendance.StatusPresent,
	})
	assert.ErrorIs(t, err, attendance.ErrCheckInRequired)
	assert.Equal(t, before, f.store.Stats().Size)
}

func TestUpdateAttendance_AbsentClearsFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.repo.AttendanceByID(ctx, "a1")
	require.NoError(t, err)

	rec.Status = attendance.StatusAbsent
	rec.CheckIn = at(2024, 1, 15, 10, 0)
	rec.WorkHours = 6

	saved, err := f.repo.UpdateAttendance(ctx, rec)
	require.NoError(t, err)
	assert.Nil(t, saved.CheckIn)
	assert.Nil(t, saved.CheckOut)
	assert.Zero(t, saved.WorkHours)

	stored, err := f.repo.AttendanceByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, stored.Status)
	assert.Nil(t, stored.CheckIn)
	assert.Nil(t, stored.CheckOut)
	assert.Zero(t, stored.WorkHours)
}

func TestDeleteAttendance(t *testing.T) {
	f := newFixture(t)
	seedAggregates(t, f.store)
	ctx := context.Background()

	require.NoError(t, f.repo.DeleteAttendance(ctx, "a1"))
	assert.False(t, f.store.Has("report:employee:e1:2024-01-01:2024-01-31"))
	assert.True(t, f.store.Has("report:employee:e2:2024-01-01:2024-01-31"))

	assert.ErrorIs(t, f.repo.DeleteAttendance(ctx, "a1"), attendance.ErrAttendanceNotFound)
}

func TestBulkCreateAttendance(t *testing.T) {
	f := newFixture(t)
	seedAggregates(t, f.store)
	ctx := context.Background()

	created, err := f.repo.BulkCreateAttendance(ctx, []attendance.Record{
		{EmployeeID: "e1", Date: day(2024, 1, 16), Status: attendance.StatusAbsent, CheckIn: at(2024, 1, 16, 9, 0)},
		{EmployeeID: "e2", Date: day(2024, 1, 16), Status: attendance.StatusHalfDay, ManualOverride: true},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Nil(t, created[0].CheckIn)
	assert.False(t, f.store.Has("report:employee:e1:2024-01-01:2024-01-31"))
	assert.False(t, f.store.Has("report:employee:e2:2024-01-01:2024-01-31"))
}

func TestApproveLeave_Invalidates(t *testing.T) {
	f := newFixture(t)
	seedAggregates(t, f.store)
	ctx := context.Background()

	l, err := f.repo.LeaveByID(ctx, "l1")
	require.NoError(t, err)
	l.Status = leave.StatusApproved

	require.NoError(t, f.repo.ApproveLeave(ctx, l))
	assert.False(t, f.store.Has("leaves:e2:2024-01-01:2024-01-31"))
	assert.False(t, f.store.Has("report:employee:e2:2024-01-01:2024-01-31"))
	assert.False(t, f.store.Has("dashboard:2024-01-15"))
	assert.True(t, f.store.Has("report:employee:e1:2024-01-01:2024-01-31"))

	byEmployee, err := f.repo.ApprovedLeavesOnDate(ctx, day(2024, 1, 16))
	require.NoError(t, err)
	assert.Equal(t, "sick", byEmployee["e2"].LeaveType)
}

func TestHolidayWrites_InvalidateCalendarKeys(t *testing.T) {
	f := newFixture(t)
	seedAggregates(t, f.store)
	ctx := context.Background()

	_, err := f.repo.CreateHoliday(ctx, holiday.Holiday{Title: "Republic Day", Date: day(2024, 1, 26)})
	assert.ErrorIs(t, err, holiday.ErrHolidayDateConflict)
	assert.True(t, f.store.Has("holidays:2024-01-01:2024-01-31"))

	_, err = f.repo.CreateHoliday(ctx, holiday.Holiday{Title: "Founders Day", Date: day(2024, 1, 29)})
	require.NoError(t, err)
	assert.False(t, f.store.Has("holidays:2024-01-01:2024-01-31"))
	assert.False(t, f.store.Has("report:employee:e1:2024-01-01:2024-01-31"))
	assert.True(t, f.store.Has("employees:active"))
}

func TestInvalidateFor(t *testing.T) {
	t.Run("employee", func(t *testing.T) {
		f := newFixture(t)
		seedAggregates(t, f.store)

		assert.Positive(t, f.repo.InvalidateFor(Scope{EmployeeID: "e1"}))
		assert.False(t, f.store.Has("attendance:e1:2024-01-15"))
		assert.False(t, f.store.Has("report:employee:e1:2024-01-01:2024-01-31"))
		assert.True(t, f.store.Has("attendance:e2:2024-01-01:2024-01-31"))
		assert.True(t, f.store.Has("report:employee:e2:2024-01-01:2024-01-31"))
		assert.True(t, f.store.Has("holidays:2024-01-01:2024-01-31"))
	})

	t.Run("date", func(t *testing.T) {
		f := newFixture(t)
		seedAggregates(t, f.store)
		d := day(2024, 1, 15)

		f.repo.InvalidateFor(Scope{Date: &d})
		assert.False(t, f.store.Has("daily:2024-01-15"))
		assert.False(t, f.store.Has("attendance:e2:2024-01-01:2024-01-31"))
		assert.False(t, f.store.Has("report:employee:e2:2024-01-01:2024-01-31"))
		assert.True(t, f.store.Has("employees:active"))
		assert.True(t, f.store.Has("holidays:2024-01-01:2024-01-31"))
	})

	t.Run("none clears everything", func(t *testing.T) {
		f := newFixture(t)
		seedAggregates(t, f.store)

		assert.Equal(t, 12, f.repo.InvalidateFor(Scope{}))
		assert.Zero(t, f.store.Stats().Size)
	})
}
