package validator

import (
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidClock checks an "HH:MM" wall-clock string.
func IsValidClock(clock string) (time.Time, bool) {
	t, err := time.Parse("15:04", clock)
	return t, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+07:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	// Try RFC3339 format (ISO8601 with timezone)
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	if err == nil {
		return t, true
	}

	// Try RFC3339Nano format (with nanoseconds)
	t, err = time.Parse(time.RFC3339Nano, dateTimeStr)
	if err == nil {
		return t, true
	}

	return time.Time{}, false
}

// DateRange validates a YYYY-MM-DD pair under the given field names and returns
// the parsed bounds. Errors are appended to errs.
func DateRange(errs *ValidationErrors, startField, start, endField, end string) (time.Time, time.Time) {
	startDate, okStart := IsValidDate(start)
	if !okStart {
		*errs = append(*errs, ValidationError{
			Field:   startField,
			Message: startField + " must be in YYYY-MM-DD format",
		})
	}

	endDate, okEnd := IsValidDate(end)
	if !okEnd {
		*errs = append(*errs, ValidationError{
			Field:   endField,
			Message: endField + " must be in YYYY-MM-DD format",
		})
	}

	if okStart && okEnd && endDate.Before(startDate) {
		*errs = append(*errs, ValidationError{
			Field:   endField,
			Message: endField + " must not be before " + startField,
		})
	}

	return startDate, endDate
}
