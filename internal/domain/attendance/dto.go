package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// MaxBulkItems bounds a single bulk status request.
const MaxBulkItems = 500

// ========================================
// CHECK-IN / CHECK-OUT
// ========================================

type CheckInRequest struct {
	EmployeeID string  `json:"employee_id"`
	Timestamp  *string `json:"timestamp,omitempty"`
	Location   string  `json:"location,omitempty"`
	Comments   string  `json:"comments,omitempty"`

	// At is the parsed Timestamp, zero when the server clock should be used.
	At time.Time `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Timestamp != nil {
		at, ok := validator.IsValidDateTime(*r.Timestamp)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be an ISO8601 date-time",
			})
		}
		r.At = at
	}

	if len(r.Location) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string  `json:"employee_id"`
	Timestamp  *string `json:"timestamp,omitempty"`
	Comments   string  `json:"comments,omitempty"`

	At time.Time `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Timestamp != nil {
		at, ok := validator.IsValidDateTime(*r.Timestamp)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be an ISO8601 date-time",
			})
		}
		r.At = at
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// STATUS CORRECTIONS
// ========================================

type UpdateStatusRequest struct {
	ID       string  `json:"-"`
	Status   string  `json:"status"`
	Comments *string `json:"comments,omitempty"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`

	CheckInAt  *time.Time `json:"-"`
	CheckOutAt *time.Time `json:"-"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if !validator.IsInSlice(r.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidStatus.Error(),
		})
	}

	// Absent clears times, so supplied ones are ignored rather than rejected.
	if Status(r.Status) != StatusAbsent {
		if r.CheckIn != nil {
			if at, ok := validator.IsValidDateTime(*r.CheckIn); ok {
				r.CheckInAt = &at
			} else {
				errs = append(errs, validator.ValidationError{
					Field:   "check_in",
					Message: "check_in must be an ISO8601 date-time",
				})
			}
		}
		if r.CheckOut != nil {
			if at, ok := validator.IsValidDateTime(*r.CheckOut); ok {
				r.CheckOutAt = &at
			} else {
				errs = append(errs, validator.ValidationError{
					Field:   "check_out",
					Message: "check_out must be an ISO8601 date-time",
				})
			}
		}
		if r.CheckInAt != nil && r.CheckOutAt != nil && r.CheckOutAt.Before(*r.CheckInAt) {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must not be before check_in",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BulkStatusItem struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Comments   string `json:"comments,omitempty"`

	Day time.Time `json:"-"`
}

type BulkStatusRequest struct {
	Items []BulkStatusItem `json:"items"`
}

func (r *BulkStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Items) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: "at least one item is required",
		})
	}

	if len(r.Items) > MaxBulkItems {
		errs = append(errs, validator.ValidationError{
			Field:   "items",
			Message: fmt.Sprintf("at most %d items are allowed", MaxBulkItems),
		})
	}

	seen := make(map[string]bool, len(r.Items))
	for i := range r.Items {
		item := &r.Items[i]
		prefix := fmt.Sprintf("items[%d].", i)

		if validator.IsEmpty(item.EmployeeID) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "employee_id",
				Message: "employee_id is required",
			})
		}

		day, ok := validator.IsValidDate(item.Date)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
		item.Day = day

		if !validator.IsInSlice(item.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "status",
				Message: ErrInvalidStatus.Error(),
			})
		}

		key := item.EmployeeID + "|" + item.Date
		if seen[key] {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "date",
				Message: "duplicate employee and date in request",
			})
		}
		seen[key] = true
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BulkStatusResult struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}
