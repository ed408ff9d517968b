package attendance

import (
	"context"
)

// AttendanceService defines the write path for attendance records.
type AttendanceService interface {
	// CheckIn opens the employee's record for the day.
	CheckIn(ctx context.Context, req CheckInRequest) (Record, error)

	// CheckOut closes the open record and settles its final status.
	CheckOut(ctx context.Context, req CheckOutRequest) (Record, error)

	// UpdateStatus manually corrects the status of a record.
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (Record, error)

	// BulkUpdateStatus applies status corrections for many (employee, date) pairs.
	BulkUpdateStatus(ctx context.Context, req BulkStatusRequest) (BulkStatusResult, error)

	Delete(ctx context.Context, id string) error
}
