package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/settings"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
)

func clock(d, hh, mm int) time.Time {
	return time.Date(2024, time.January, d, hh, mm, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T, records ...attendance.Record) (attendance.AttendanceService, *cached.Repository) {
	t.Helper()

	db := memory.NewDB()
	db.SeedEmployees(
		employee.Employee{ID: "e1", FullName: "Asha Rao", Department: "eng", EmploymentStatus: employee.EmploymentStatusActive},
		employee.Employee{ID: "e2", FullName: "Bilal Khan", Department: "eng", EmploymentStatus: employee.EmploymentStatusActive},
	)
	db.SeedAttendance(records...)

	repo := cached.New(cache.New(), cached.DefaultTTLs(), cached.Stores{
		Attendance: memory.NewAttendanceRepository(db),
		Employees:  memory.NewEmployeeRepository(db),
		Holidays:   memory.NewHolidayRepository(db),
		Leaves:     memory.NewLeaveRepository(db),
	})

	svc := NewAttendanceService(repo, settings.NewStatic(testConfig(), nil), func() time.Time { return clock(2, 9, 0) })
	return svc, repo
}

func testConfig() calendar.Config {
	cfg := calendar.DefaultConfig()
	cfg.Timezone = "UTC"
	cfg.ShiftStart = "09:00"
	return cfg
}

func TestCheckIn(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	rec, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1", Location: "HQ"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, clock(2, 0, 0), rec.Date)
	require.NotNil(t, rec.CheckIn)
	assert.Equal(t, clock(2, 9, 0), *rec.CheckIn)
	assert.Nil(t, rec.CheckOut)

	stored, err := repo.AttendanceRecord(ctx, "e1", clock(2, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "HQ", stored.Location)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "ghost"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1", Timestamp: ptr("yesterday")})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "timestamp")
}

func TestCheckOut(t *testing.T) {
	cases := []struct {
		name      string
		checkOut  string
		status    attendance.Status
		hours     float64
		keepTimes bool
	}{
		{"full day", "2024-01-02T17:30:00Z", attendance.StatusPresent, 8.5, true},
		{"half day", "2024-01-02T13:30:00Z", attendance.StatusHalfDay, 4.5, true},
		{"short day", "2024-01-02T11:00:00Z", attendance.StatusAbsent, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newService(t)
			ctx := context.Background()

			_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1", Timestamp: ptr("2024-01-02T09:00:00Z")})
			require.NoError(t, err)

			rec, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1", Timestamp: ptr(tc.checkOut)})
			require.NoError(t, err)
			assert.Equal(t, tc.status, rec.Status)
			assert.Equal(t, tc.hours, rec.WorkHours)
			if tc.keepTimes {
				assert.NotNil(t, rec.CheckIn)
				assert.NotNil(t, rec.CheckOut)
			} else {
				assert.Nil(t, rec.CheckIn)
				assert.Nil(t, rec.CheckOut)
			}
			assert.Equal(t, !tc.keepTimes, rec.ShortDay)
		})
	}
}

func TestCheckOut_ShortDayReportedAsShort(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1", Timestamp: ptr("2024-01-02T09:00:00Z")})
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1", Timestamp: ptr("2024-01-02T11:00:00Z")})
	require.NoError(t, err)

	stored, err := repo.AttendanceRecord(ctx, "e1", clock(2, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, attendance.StatusAbsent, stored.Status)
	assert.Nil(t, stored.CheckIn)
	assert.Zero(t, stored.WorkHours)
	assert.True(t, stored.ShortDay)

	reports := reportService.NewReportService(repo, settings.NewStatic(testConfig(), nil), reportService.Options{
		Now: func() time.Time { return clock(2, 18, 0) },
	})
	rep, err := reports.GetEmployeeReport(ctx, "e1", report.RangeRequest{StartDate: "2024-01-02", EndDate: "2024-01-02"})
	require.NoError(t, err)
	require.Len(t, rep.Days, 1)

	got := rep.Days[0]
	assert.Equal(t, attendance.StatusAbsent, got.Status)
	assert.True(t, got.Flags.IsShortDay)
	assert.Contains(t, got.Reason, "below the minimum")
	assert.Equal(t, 1, rep.Statistics.AbsentDays)
}

func TestUpdateStatus_ClearsShortDay(t *testing.T) {
	svc, _ := newService(t, attendance.Record{
		ID: "a1", EmployeeID: "e1", Date: clock(2, 0, 0), Status: attendance.StatusAbsent, ShortDay: true,
	})

	rec, err := svc.UpdateStatus(context.Background(), attendance.UpdateStatusRequest{ID: "a1", Status: "present"})
	require.NoError(t, err)
	assert.True(t, rec.ManualOverride)
	assert.False(t, rec.ShortDay)
}

func TestCheckOut_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1"})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: "e1", Timestamp: ptr("2024-01-02T10:00:00Z")})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1", Timestamp: ptr("2024-01-02T09:00:00Z")})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1", Timestamp: ptr("2024-01-02T18:00:00Z")})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: "e1", Timestamp: ptr("2024-01-02T19:00:00Z")})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestUpdateStatus(t *testing.T) {
	seed := attendance.Record{
		ID:         "a1",
		EmployeeID: "e1",
		Date:       clock(2, 0, 0),
		CheckIn:    ptr(clock(2, 9, 0)),
		CheckOut:   ptr(clock(2, 17, 0)),
		Status:     attendance.StatusPresent,
		WorkHours:  8,
	}

	t.Run("into absent clears times", func(t *testing.T) {
		svc, _ := newService(t, seed)

		rec, err := svc.UpdateStatus(context.Background(), attendance.UpdateStatusRequest{
			ID:      "a1",
			Status:  "absent",
			CheckIn: ptr("2024-01-02T09:00:00Z"),
		})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusAbsent, rec.Status)
		assert.Nil(t, rec.CheckIn)
		assert.Nil(t, rec.CheckOut)
		assert.Zero(t, rec.WorkHours)
		assert.True(t, rec.ManualOverride)
	})

	t.Run("new times recompute hours", func(t *testing.T) {
		svc, _ := newService(t, seed)

		rec, err := svc.UpdateStatus(context.Background(), attendance.UpdateStatusRequest{
			ID:       "a1",
			Status:   "half_day",
			CheckOut: ptr("2024-01-02T14:15:00Z"),
			Comments: ptr("left early, approved"),
		})
		require.NoError(t, err)
		assert.Equal(t, attendance.StatusHalfDay, rec.Status)
		assert.Equal(t, 5.25, rec.WorkHours)
		assert.Equal(t, "left early, approved", rec.Comments)
	})

	t.Run("same status is rejected", func(t *testing.T) {
		svc, _ := newService(t, seed)

		_, err := svc.UpdateStatus(context.Background(), attendance.UpdateStatusRequest{ID: "a1", Status: "present"})
		assert.ErrorIs(t, err, attendance.ErrSameStatus)
	})

	t.Run("unknown record", func(t *testing.T) {
		svc, _ := newService(t, seed)

		_, err := svc.UpdateStatus(context.Background(), attendance.UpdateStatusRequest{ID: "missing", Status: "absent"})
		assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	})
}

func TestBulkUpdateStatus(t *testing.T) {
	svc, repo := newService(t,
		attendance.Record{ID: "a1", EmployeeID: "e1", Date: clock(2, 0, 0), CheckIn: ptr(clock(2, 9, 0)), Status: attendance.StatusPresent},
		attendance.Record{ID: "a2", EmployeeID: "e2", Date: clock(2, 0, 0), Status: attendance.StatusAbsent},
	)
	ctx := context.Background()

	res, err := svc.BulkUpdateStatus(ctx, attendance.BulkStatusRequest{Items: []attendance.BulkStatusItem{
		{EmployeeID: "e1", Date: "2024-01-02", Status: "absent"},
		{EmployeeID: "e2", Date: "2024-01-02", Status: "absent"},
		{EmployeeID: "e1", Date: "2024-01-03", Status: "present", Comments: "client site"},
	}})
	require.NoError(t, err)
	assert.Equal(t, attendance.BulkStatusResult{Created: 1, Updated: 1, Unchanged: 1}, res)

	updated, err := repo.AttendanceByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, updated.Status)
	assert.Nil(t, updated.CheckIn)
	assert.True(t, updated.ManualOverride)

	created, err := repo.AttendanceRecord(ctx, "e1", clock(3, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, attendance.StatusPresent, created.Status)
	assert.Equal(t, "client site", created.Comments)
	assert.True(t, created.ManualOverride)
}

func TestBulkUpdateStatus_RejectedBeforeWrites(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.BulkUpdateStatus(ctx, attendance.BulkStatusRequest{Items: []attendance.BulkStatusItem{
		{EmployeeID: "e1", Date: "2024-01-02", Status: "present"},
		{EmployeeID: "e2", Date: "2024-01-02"},
	}})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "items[1].status")

	_, err = svc.BulkUpdateStatus(ctx, attendance.BulkStatusRequest{Items: []attendance.BulkStatusItem{
		{EmployeeID: "e1", Date: "2024-01-02", Status: "present"},
		{EmployeeID: "ghost", Date: "2024-01-02", Status: "present"},
	}})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	rec, err := repo.AttendanceRecord(ctx, "e1", clock(2, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDelete(t *testing.T) {
	svc, repo := newService(t,
		attendance.Record{ID: "a1", EmployeeID: "e1", Date: clock(2, 0, 0), CheckIn: ptr(clock(2, 9, 0)), Status: attendance.StatusPresent},
	)
	ctx := context.Background()

	before, err := repo.AttendanceRecord(ctx, "e1", clock(2, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, before)

	require.NoError(t, svc.Delete(ctx, "a1"))

	after, err := repo.AttendanceRecord(ctx, "e1", clock(2, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, after)

	assert.ErrorIs(t, svc.Delete(ctx, "a1"), attendance.ErrAttendanceNotFound)
}
