package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("employee has already checked in today")
	ErrNotCheckedIn      = errors.New("employee has not checked in yet")
	ErrAlreadyCheckedOut = errors.New("employee has already checked out")

	// Record invariants
	ErrInvalidStatus         = errors.New("status must be one of: present, absent, half_day")
	ErrCheckInRequired       = errors.New("check-in time is required for a present or half-day record")
	ErrCheckOutBeforeCheckIn = errors.New("check-out must not be before check-in")
	ErrAbsentWithTimes       = errors.New("an absent record cannot carry check-in, check-out or work hours")

	// Status corrections
	ErrSameStatus              = errors.New("attendance already has this status")
	ErrInvalidStatusTransition = errors.New("status transition is not allowed")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
