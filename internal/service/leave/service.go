package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
)

type LeaveServiceImpl struct {
	repo *cached.Repository
	now  func() time.Time
}

func NewLeaveService(repo *cached.Repository, now func() time.Time) leave.LeaveService {
	if now == nil {
		now = time.Now
	}
	return &LeaveServiceImpl{repo: repo, now: now}
}

// Approve implements leave.LeaveService. Only pending leaves can be approved.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req leave.ApproveLeaveRequest) (leave.Leave, error) {
	if err := req.Validate(); err != nil {
		return leave.Leave{}, err
	}

	l, err := s.repo.LeaveByID(ctx, req.ID)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to get leave by ID: %w", err)
	}

	if l.Status != leave.StatusPending {
		return leave.Leave{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	approvedAt := s.now().UTC()
	l.Status = leave.StatusApproved
	l.ApprovedAt = &approvedAt
	if req.ApproverID != "" {
		approver := req.ApproverID
		l.ApprovedBy = &approver
	}

	if err := s.repo.ApproveLeave(ctx, l); err != nil {
		return leave.Leave{}, fmt.Errorf("failed to approve leave: %w", err)
	}

	slog.Info("Leave approved", "leave_id", l.ID, "employee_id", l.EmployeeID, "date", l.LeaveDate.Format("2006-01-02"))
	return l, nil
}
