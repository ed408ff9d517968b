package report

import "errors"

var (
	ErrInvalidRange   = errors.New("end date must not be before start date")
	ErrRangeTooLarge  = errors.New("date range exceeds the allowed number of days")
	ErrInvalidPeriod  = errors.New("period must be one of: today, yesterday, week, month, last_month")
	ErrInvalidGroupBy = errors.New("group_by must be one of: day, week, month")
	ErrFutureRange    = errors.New("date range starts in the future")
)
