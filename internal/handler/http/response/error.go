package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave not found")
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in for this day")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out for this day")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No check-in found for this day", nil)
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrSameStatus),
		errors.Is(err, attendance.ErrInvalidStatusTransition):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, attendance.ErrCheckInRequired),
		errors.Is(err, attendance.ErrAbsentWithTimes):
		BadRequest(w, err.Error(), nil)

	// Leave / holiday
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, holiday.ErrHolidayDateConflict):
		Conflict(w, err.Error())

	// Report ranges
	case errors.Is(err, report.ErrInvalidRange),
		errors.Is(err, report.ErrRangeTooLarge),
		errors.Is(err, report.ErrInvalidPeriod),
		errors.Is(err, report.ErrInvalidGroupBy),
		errors.Is(err, report.ErrFutureRange):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, calendar.ErrInvalidConfig):
		InternalServerError(w, "Calendar configuration is invalid")
	case errors.Is(err, context.DeadlineExceeded):
		ServiceUnavailable(w, "Request timed out")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
