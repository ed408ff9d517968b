// Package cached wraps the record store with get-or-compute caching and
// invalidates affected keys after every successful write.
package cached

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// TTLs groups entry lifetimes by entity class.
type TTLs struct {
	Employees time.Duration
	Holidays  time.Duration
	Daily     time.Duration
	Leaves    time.Duration
	Reports   time.Duration
	Dashboard time.Duration
}

func DefaultTTLs() TTLs {
	return TTLs{
		Employees: 5 * time.Minute,
		Holidays:  time.Hour,
		Daily:     2 * time.Minute,
		Leaves:    5 * time.Minute,
		Reports:   30 * time.Minute,
		Dashboard: time.Minute,
	}
}

// Stores bundles the record-store collaborators.
type Stores struct {
	Attendance attendance.AttendanceRepository
	Employees  employee.EmployeeRepository
	Holidays   holiday.HolidayRepository
	Leaves     leave.LeaveRepository
}

type Repository struct {
	cache  *cache.Store
	ttl    TTLs
	stores Stores
}

func New(store *cache.Store, ttl TTLs, stores Stores) *Repository {
	return &Repository{cache: store, ttl: ttl, stores: stores}
}

func (r *Repository) Cache() *cache.Store {
	return r.cache
}

func (r *Repository) TTLs() TTLs {
	return r.ttl
}

// ========================================
// READS
// ========================================

func (r *Repository) ActiveEmployees(ctx context.Context) ([]employee.Employee, error) {
	return cache.GetOrSet(ctx, r.cache, Key(NSEmployees, "active"), r.ttl.Employees,
		func(ctx context.Context) ([]employee.Employee, error) {
			return r.stores.Employees.ListActive(ctx)
		})
}

func (r *Repository) EmployeesByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	return cache.GetOrSet(ctx, r.cache, Key(NSEmployees, "department", department), r.ttl.Employees,
		func(ctx context.Context) ([]employee.Employee, error) {
			return r.stores.Employees.ListActiveByDepartment(ctx, department)
		})
}

func (r *Repository) Employee(ctx context.Context, id string) (employee.Employee, error) {
	return cache.GetOrSet(ctx, r.cache, Key(NSEmployee, id), r.ttl.Employees,
		func(ctx context.Context) (employee.Employee, error) {
			return r.stores.Employees.GetByID(ctx, id)
		})
}

// HolidaysInRange returns the holidays in [start, end] keyed by calendar day.
func (r *Repository) HolidaysInRange(ctx context.Context, start, end time.Time) (holiday.Lookup, error) {
	return cache.GetOrSet(ctx, r.cache, Key(NSHolidays, Day(start), Day(end)), r.ttl.Holidays,
		func(ctx context.Context) (holiday.Lookup, error) {
			holidays, err := r.stores.Holidays.ListInRange(ctx, start, end)
			if err != nil {
				return nil, err
			}
			return holiday.NewLookup(holidays), nil
		})
}

// AttendanceRecord returns nil when the employee has no record that day.
func (r *Repository) AttendanceRecord(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	return cache.GetOrSet(ctx, r.cache, Key(NSAttendance, employeeID, Day(date)), r.ttl.Daily,
		func(ctx context.Context) (*attendance.Record, error) {
			return r.stores.Attendance.GetByEmployeeAndDate(ctx, employeeID, date)
		})
}

// AttendanceInRange returns the employee's records in [start, end] keyed by calendar day.
func (r *Repository) AttendanceInRange(ctx context.Context, employeeID string, start, end time.Time) (map[string]attendance.Record, error) {
	return cache.GetOrSet(ctx, r.cache, Key(NSAttendance, employeeID, Day(start), Day(end)), r.ttl.Daily,
		func(ctx context.Context) (map[string]attendance.Record, error) {
			records, err := r.stores.Attendance.ListByEmployee(ctx, employeeID, start, end)
			if err != nil {
				return nil, err
			}
			byDay := make(map[string]attendance.Record, len(records))
			for _, rec := range records {
				byDay[Day(rec.Date)] = rec
			}
			return byDay, nil
		})
}

// ApprovedLeavesInRange returns the employee's approved leaves in [start, end] keyed by calendar day.
func (r *Repository) ApprovedLeavesInRange(ctx context.Context, employeeID string, start, end time.Time) (map[string]leave.Leave, error) {
	return cache.GetOrSet(ctx, r.cache, Key(NSLeaves, employeeID, Day(start), Day(end)), r.ttl.Leaves,
		func(ctx context.Context) (map[string]leave.Leave, error) {
			leaves, err := r.stores.Leaves.ListApprovedByEmployee(ctx, employeeID, start, end)
			if err != nil {
				return nil, err
			}
			byDay := make(map[string]leave.Leave, len(leaves))
			for _, l := range leaves {
				byDay[Day(l.LeaveDate)] = l
			}
			return byDay, nil
		})
}

// ApprovedLeavesOnDate returns approved leaves on date keyed by employee id.
func (r *Repository) ApprovedLeavesOnDate(ctx context.Context, date time.Time) (map[string]leave.Leave, error) {
	return cache.GetOrSet(ctx, r.cache, Key(NSLeaves, leavesOnDate, Day(date)), r.ttl.Leaves,
		func(ctx context.Context) (map[string]leave.Leave, error) {
			leaves, err := r.stores.Leaves.ListApprovedOnDate(ctx, date)
			if err != nil {
				return nil, err
			}
			byEmployee := make(map[string]leave.Leave, len(leaves))
			for _, l := range leaves {
				byEmployee[l.EmployeeID] = l
			}
			return byEmployee, nil
		})
}

// DailyRecords returns every employee's record for date.
func (r *Repository) DailyRecords(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	return cache.GetOrSet(ctx, r.cache, Key(NSDaily, Day(date)), r.ttl.Daily,
		func(ctx context.Context) ([]attendance.Record, error) {
			return r.stores.Attendance.ListByDate(ctx, date)
		})
}

// OpenSessions is not cached; it backs an operational scan.
func (r *Repository) OpenSessions(ctx context.Context, start, end time.Time) ([]attendance.Record, error) {
	return r.stores.Attendance.ListOpenSessions(ctx, start, end)
}

// AttendanceByID reads through to the store.
func (r *Repository) AttendanceByID(ctx context.Context, id string) (attendance.Record, error) {
	return r.stores.Attendance.GetByID(ctx, id)
}

// LeaveByID reads through to the store.
func (r *Repository) LeaveByID(ctx context.Context, id string) (leave.Leave, error) {
	return r.stores.Leaves.GetByID(ctx, id)
}

// HolidayByID reads through to the store.
func (r *Repository) HolidayByID(ctx context.Context, id string) (holiday.Holiday, error) {
	return r.stores.Holidays.GetByID(ctx, id)
}

// ========================================
// WRITES
// ========================================

// CreateAttendance stores a new record and invalidates on success.
func (r *Repository) CreateAttendance(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	normalize(&rec)
	if err := rec.Validate(); err != nil {
		return attendance.Record{}, err
	}

	created, err := r.stores.Attendance.Create(ctx, rec)
	if err != nil {
		return attendance.Record{}, err
	}

	r.invalidateAttendance(created.EmployeeID)
	return created, nil
}

// UpdateAttendance stores rec. An absent record always loses its times and hours.
func (r *Repository) UpdateAttendance(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	normalize(&rec)
	if err := rec.Validate(); err != nil {
		return attendance.Record{}, err
	}

	if err := r.stores.Attendance.Update(ctx, rec); err != nil {
		return attendance.Record{}, err
	}

	r.invalidateAttendance(rec.EmployeeID)
	return rec, nil
}

func (r *Repository) DeleteAttendance(ctx context.Context, id string) error {
	rec, err := r.stores.Attendance.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.stores.Attendance.Delete(ctx, id); err != nil {
		return err
	}

	r.invalidateAttendance(rec.EmployeeID)
	return nil
}

// BulkCreateAttendance validates every record before inserting any.
func (r *Repository) BulkCreateAttendance(ctx context.Context, recs []attendance.Record) ([]attendance.Record, error) {
	for i := range recs {
		normalize(&recs[i])
		if err := recs[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	created, err := r.stores.Attendance.BulkCreate(ctx, recs)
	if err != nil {
		return nil, err
	}

	r.invalidateAttendance(employeeIDs(created)...)
	return created, nil
}

// UpdateAttendanceBatch applies updates in order and invalidates once for
// every record that was stored, even when a later one fails.
func (r *Repository) UpdateAttendanceBatch(ctx context.Context, recs []attendance.Record) ([]attendance.Record, error) {
	for i := range recs {
		normalize(&recs[i])
		if err := recs[i].Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	updated := make([]attendance.Record, 0, len(recs))
	var updateErr error
	for _, rec := range recs {
		if err := r.stores.Attendance.Update(ctx, rec); err != nil {
			updateErr = fmt.Errorf("failed to update attendance %s: %w", rec.ID, err)
			break
		}
		updated = append(updated, rec)
	}

	if len(updated) > 0 {
		r.invalidateAttendance(employeeIDs(updated)...)
	}
	return updated, updateErr
}

func (r *Repository) ApproveLeave(ctx context.Context, l leave.Leave) error {
	if err := r.stores.Leaves.Update(ctx, l); err != nil {
		return err
	}

	n := r.invalidate(
		Pattern(NSLeaves, l.EmployeeID),
		Key(NSLeaves, leavesOnDate, Day(l.LeaveDate)),
		Pattern(NSReport, ReportEmployee, l.EmployeeID),
		Pattern(NSReport, ReportDepartment),
		Pattern(NSReport, ReportCompany),
		Pattern(NSDashboard),
		Pattern(NSTrends),
	)
	slog.Debug("Cache invalidated after leave approval", "employee_id", l.EmployeeID, "removed", n)
	return nil
}

func (r *Repository) CreateHoliday(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	created, err := r.stores.Holidays.Create(ctx, h)
	if err != nil {
		return holiday.Holiday{}, err
	}
	r.invalidateCalendar()
	return created, nil
}

func (r *Repository) UpdateHoliday(ctx context.Context, h holiday.Holiday) error {
	if err := r.stores.Holidays.Update(ctx, h); err != nil {
		return err
	}
	r.invalidateCalendar()
	return nil
}

func (r *Repository) DeleteHoliday(ctx context.Context, id string) error {
	if err := r.stores.Holidays.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidateCalendar()
	return nil
}

// ========================================
// INVALIDATION
// ========================================

// Scope narrows InvalidateFor to an employee, a day, or both.
type Scope struct {
	EmployeeID string
	Date       *time.Time
}

// InvalidateFor evicts everything derived from the scoped employee and/or day.
// An empty scope clears the whole cache.
func (r *Repository) InvalidateFor(scope Scope) int {
	if scope.EmployeeID == "" && scope.Date == nil {
		return r.ClearAll()
	}

	var patterns []string
	if id := scope.EmployeeID; id != "" {
		patterns = append(patterns,
			Key(NSEmployee, id),
			Pattern(NSAttendance, id),
			Pattern(NSLeaves, id),
			Pattern(NSReport, ReportEmployee, id),
		)
	}
	if scope.Date != nil {
		day := Day(*scope.Date)
		// Range keys may cover the day anywhere inside them.
		patterns = append(patterns,
			Pattern(NSAttendance),
			Pattern(NSLeaves),
			Key(NSDaily, day),
		)
	}
	// Any aggregate may cover the employee or the day.
	patterns = append(patterns,
		Pattern(NSReport, ReportDepartment),
		Pattern(NSReport, ReportCompany),
		Pattern(NSDashboard),
		Pattern(NSTrends),
	)
	if scope.Date != nil {
		patterns = append(patterns, Pattern(NSReport, ReportEmployee))
	}

	n := r.invalidate(patterns...)
	slog.Info("Cache invalidated", "employee_id", scope.EmployeeID, "removed", n)
	return n
}

// InvalidateCalendar evicts everything derived from calendar rules. Settings
// reloads call it.
func (r *Repository) InvalidateCalendar() int {
	return r.invalidateCalendar()
}

func (r *Repository) ClearAll() int {
	return r.cache.Clear()
}

func (r *Repository) invalidateAttendance(employeeIDs ...string) {
	patterns := []string{
		Pattern(NSAttendance),
		Pattern(NSDaily),
		Pattern(NSDashboard),
		Pattern(NSReport, ReportDepartment),
		Pattern(NSReport, ReportCompany),
		Pattern(NSTrends),
	}
	for _, id := range employeeIDs {
		patterns = append(patterns, Pattern(NSReport, ReportEmployee, id))
	}

	n := r.invalidate(patterns...)
	slog.Debug("Cache invalidated after attendance write", "employees", len(employeeIDs), "removed", n)
}

func (r *Repository) invalidateCalendar() int {
	n := r.invalidate(
		Pattern(NSHolidays),
		Pattern(NSDaily),
		Pattern(NSDashboard),
		Pattern(NSReport),
		Pattern(NSTrends),
	)
	slog.Debug("Cache invalidated after calendar change", "removed", n)
	return n
}

func (r *Repository) invalidate(patterns ...string) int {
	total := 0
	for _, p := range patterns {
		total += r.cache.InvalidatePattern(p)
	}
	return total
}

// normalize makes absence authoritative over any submitted times.
func normalize(rec *attendance.Record) {
	rec.Date = utils.TruncateDay(rec.Date)
	if rec.Status == attendance.StatusAbsent {
		rec.ClearForAbsence()
	}
}

func employeeIDs(recs []attendance.Record) []string {
	seen := make(map[string]bool, len(recs))
	var ids []string
	for _, rec := range recs {
		if !seen[rec.EmployeeID] {
			seen[rec.EmployeeID] = true
			ids = append(ids, rec.EmployeeID)
		}
	}
	return ids
}
