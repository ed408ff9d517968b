package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the persistent-store view of attendance records.
// At most one record exists per (employee, calendar day).
type AttendanceRepository interface {
	GetByID(ctx context.Context, id string) (Record, error)

	// GetByEmployeeAndDate returns nil, nil when the employee has no record that day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// ListByEmployee returns the employee's records within [start, end].
	ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)

	// ListByDate returns every employee's record for one day.
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)

	// ListOpenSessions returns records within [start, end] with a check-in but no check-out.
	ListOpenSessions(ctx context.Context, start, end time.Time) ([]Record, error)

	Create(ctx context.Context, record Record) (Record, error)

	// BulkCreate inserts all records atomically.
	BulkCreate(ctx context.Context, records []Record) ([]Record, error)

	Update(ctx context.Context, record Record) error
	Delete(ctx context.Context, id string) error
}
