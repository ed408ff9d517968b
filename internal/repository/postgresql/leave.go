package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

const leaveColumns = `id, employee_id, leave_date, leave_type, reason, status, approved_by, approved_at`

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(&l.ID, &l.EmployeeID, &l.LeaveDate, &l.LeaveType, &l.Reason, &l.Status, &l.ApprovedBy, &l.ApprovedAt)
	return l, err
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, `SELECT `+leaveColumns+` FROM leaves WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave by id: %w", err)
	}
	return l, nil
}

// ListApprovedByEmployee implements leave.LeaveRepository.
func (r *leaveRepository) ListApprovedByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leaves
		WHERE employee_id = $1 AND status = 'approved' AND leave_date BETWEEN $2 AND $3
		ORDER BY leave_date`

	leaves, err := r.list(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves by employee: %w", err)
	}
	return leaves, nil
}

// ListApprovedOnDate implements leave.LeaveRepository.
func (r *leaveRepository) ListApprovedOnDate(ctx context.Context, date time.Time) ([]leave.Leave, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leaves
		WHERE status = 'approved' AND leave_date = $1
		ORDER BY employee_id`

	leaves, err := r.list(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves on date: %w", err)
	}
	return leaves, nil
}

func (r *leaveRepository) list(ctx context.Context, query string, args ...any) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// Update implements leave.LeaveRepository.
func (r *leaveRepository) Update(ctx context.Context, l leave.Leave) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE leaves
		SET status = $2, approved_by = $3, approved_at = $4, reason = $5
		WHERE id = $1`,
		l.ID, l.Status, l.ApprovedBy, l.ApprovedAt, l.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}
