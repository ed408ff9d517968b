package leave

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Leave is a single-day leave record. Only approved leaves affect day status.
type Leave struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	LeaveDate  time.Time  `json:"leave_date"`
	LeaveType  string     `json:"leave_type"`
	Reason     string     `json:"reason"`
	Status     Status     `json:"status"`
	ApprovedBy *string    `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

// IsApproved reports whether the leave overrides the day's attendance.
func (l Leave) IsApproved() bool {
	return l.Status == StatusApproved
}
