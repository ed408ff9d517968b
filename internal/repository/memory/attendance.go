package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	a.db.mu.RLock()
	defer a.db.mu.RUnlock()

	r, ok := a.db.attendance[id]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return copyRecord(r), nil
}

func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	a.db.mu.RLock()
	defer a.db.mu.RUnlock()

	for _, r := range a.db.attendance {
		if r.EmployeeID == employeeID && sameDay(r.Date, date) {
			c := copyRecord(r)
			return &c, nil
		}
	}
	return nil, nil
}

func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	return a.list(func(r attendance.Record) bool {
		return r.EmployeeID == employeeID && inRange(r.Date, start, end)
	}), nil
}

func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	return a.list(func(r attendance.Record) bool {
		return sameDay(r.Date, date)
	}), nil
}

func (a *attendanceRepository) ListOpenSessions(ctx context.Context, start, end time.Time) ([]attendance.Record, error) {
	return a.list(func(r attendance.Record) bool {
		return r.CheckIn != nil && r.CheckOut == nil && inRange(r.Date, start, end)
	}), nil
}

func (a *attendanceRepository) list(keep func(attendance.Record) bool) []attendance.Record {
	a.db.mu.RLock()
	defer a.db.mu.RUnlock()

	var out []attendance.Record
	for _, r := range a.db.attendance {
		if keep(r) {
			out = append(out, copyRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()

	created, err := a.insertLocked(record)
	if err != nil {
		return attendance.Record{}, err
	}
	return copyRecord(created), nil
}

func (a *attendanceRepository) BulkCreate(ctx context.Context, records []attendance.Record) ([]attendance.Record, error) {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()

	// All or nothing: check every row before inserting any.
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		key := r.EmployeeID + "|" + utils.DateKey(utils.TruncateDay(r.Date))
		if seen[key] || a.existsLocked(r.EmployeeID, r.Date) {
			return nil, attendance.ErrAlreadyCheckedIn
		}
		seen[key] = true
	}

	out := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		created, err := a.insertLocked(r)
		if err != nil {
			return nil, err
		}
		out = append(out, copyRecord(created))
	}
	return out, nil
}

func (a *attendanceRepository) existsLocked(employeeID string, date time.Time) bool {
	for _, r := range a.db.attendance {
		if r.EmployeeID == employeeID && sameDay(r.Date, date) {
			return true
		}
	}
	return false
}

func (a *attendanceRepository) insertLocked(r attendance.Record) (attendance.Record, error) {
	if a.existsLocked(r.EmployeeID, r.Date) {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := a.db.now()
	r.Date = utils.TruncateDay(r.Date)
	r.CreatedAt, r.UpdatedAt = now, now
	a.db.attendance[r.ID] = copyRecord(r)
	return r, nil
}

func (a *attendanceRepository) Update(ctx context.Context, record attendance.Record) error {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()

	existing, ok := a.db.attendance[record.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	record.Date = utils.TruncateDay(record.Date)
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = a.db.now()
	a.db.attendance[record.ID] = copyRecord(record)
	return nil
}

func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	a.db.mu.Lock()
	defer a.db.mu.Unlock()

	if _, ok := a.db.attendance[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(a.db.attendance, id)
	return nil
}
