package leave

import "context"

type LeaveService interface {
	// Approve marks a pending leave as approved; the day it covers becomes absent with the leave recorded.
	Approve(ctx context.Context, req ApproveLeaveRequest) (Leave, error)
}
