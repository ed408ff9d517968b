package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	GetByID(ctx context.Context, id string) (Leave, error)

	// ListApprovedByEmployee returns approved leaves of one employee within [start, end].
	ListApprovedByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]Leave, error)

	// ListApprovedOnDate returns approved leaves of all employees on a single day.
	ListApprovedOnDate(ctx context.Context, date time.Time) ([]Leave, error)

	Update(ctx context.Context, l Leave) error
}
