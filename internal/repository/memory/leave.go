package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
)

type leaveRepository struct {
	db *DB
}

func NewLeaveRepository(db *DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

func (l *leaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	l.db.mu.RLock()
	defer l.db.mu.RUnlock()

	lv, ok := l.db.leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return lv, nil
}

func (l *leaveRepository) ListApprovedByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	return l.list(func(lv leave.Leave) bool {
		return lv.EmployeeID == employeeID && inRange(lv.LeaveDate, start, end)
	}), nil
}

func (l *leaveRepository) ListApprovedOnDate(ctx context.Context, date time.Time) ([]leave.Leave, error) {
	return l.list(func(lv leave.Leave) bool {
		return sameDay(lv.LeaveDate, date)
	}), nil
}

func (l *leaveRepository) list(keep func(leave.Leave) bool) []leave.Leave {
	l.db.mu.RLock()
	defer l.db.mu.RUnlock()

	var out []leave.Leave
	for _, lv := range l.db.leaves {
		if lv.IsApproved() && keep(lv) {
			out = append(out, lv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LeaveDate.Equal(out[j].LeaveDate) {
			return out[i].LeaveDate.Before(out[j].LeaveDate)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func (l *leaveRepository) Update(ctx context.Context, lv leave.Leave) error {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()

	if _, ok := l.db.leaves[lv.ID]; !ok {
		return leave.ErrLeaveNotFound
	}
	l.db.leaves[lv.ID] = lv
	return nil
}
