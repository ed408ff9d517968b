package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
)

func TestApprove(t *testing.T) {
	leaveDate := time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	approvedAt := time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)

	db := memory.NewDB()
	db.SeedLeaves(
		leave.Leave{ID: "l1", EmployeeID: "e1", LeaveDate: leaveDate, LeaveType: "sick", Status: leave.StatusPending},
		leave.Leave{ID: "l2", EmployeeID: "e1", LeaveDate: leaveDate.AddDate(0, 0, 1), LeaveType: "casual", Status: leave.StatusRejected},
	)
	repo := cached.New(cache.New(), cached.DefaultTTLs(), cached.Stores{
		Attendance: memory.NewAttendanceRepository(db),
		Employees:  memory.NewEmployeeRepository(db),
		Holidays:   memory.NewHolidayRepository(db),
		Leaves:     memory.NewLeaveRepository(db),
	})
	svc := NewLeaveService(repo, func() time.Time { return approvedAt })
	ctx := context.Background()

	before, err := repo.ApprovedLeavesInRange(ctx, "e1", leaveDate, leaveDate)
	require.NoError(t, err)
	assert.Empty(t, before)

	approved, err := svc.Approve(ctx, leave.ApproveLeaveRequest{ID: "l1", ApproverID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "admin-1", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, approvedAt, *approved.ApprovedAt)

	after, err := repo.ApprovedLeavesInRange(ctx, "e1", leaveDate, leaveDate)
	require.NoError(t, err)
	assert.Contains(t, after, "2024-01-08")

	onDate, err := repo.ApprovedLeavesOnDate(ctx, leaveDate)
	require.NoError(t, err)
	assert.Contains(t, onDate, "e1")

	_, err = svc.Approve(ctx, leave.ApproveLeaveRequest{ID: "l1"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = svc.Approve(ctx, leave.ApproveLeaveRequest{ID: "l2"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = svc.Approve(ctx, leave.ApproveLeaveRequest{ID: "missing"})
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)

	_, err = svc.Approve(ctx, leave.ApproveLeaveRequest{})
	assert.Error(t, err)
}
