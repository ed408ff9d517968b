package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/cached"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/decision"
)

type AttendanceServiceImpl struct {
	repo     *cached.Repository
	settings calendar.SettingsProvider
	now      func() time.Time
}

// NewAttendanceService wires the write path. now defaults to time.Now.
func NewAttendanceService(repo *cached.Repository, settings calendar.SettingsProvider, now func() time.Time) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{repo: repo, settings: settings, now: now}
}

// engineFor resolves the calendar of the employee's department.
func (a *AttendanceServiceImpl) engineFor(ctx context.Context, employeeID string) (*decision.Engine, error) {
	emp, err := a.repo.Employee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	cfg, err := a.settings.GetCalendarConfig(ctx, emp.Department)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar config: %w", err)
	}
	return decision.New(cfg), nil
}

// workDay is the calendar day at falls on in the company timezone.
func workDay(engine *decision.Engine, at time.Time) time.Time {
	return utils.TruncateDay(at.In(engine.Config().Location()))
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	engine, err := a.engineFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.Record{}, err
	}

	at := req.At
	if at.IsZero() {
		at = a.now()
	}
	at = at.UTC()
	date := workDay(engine, at)

	existing, err := a.repo.AttendanceRecord(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if existing != nil {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}

	rec, err := a.repo.CreateAttendance(ctx, attendance.Record{
		EmployeeID: req.EmployeeID,
		Date:       date,
		CheckIn:    &at,
		Status:     attendance.StatusPresent,
		Comments:   req.Comments,
		Location:   req.Location,
	})
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	slog.Info("Employee checked in",
		"employee_id", rec.EmployeeID, "date", utils.DateKey(date), "late", engine.IsLate(at))
	return rec, nil
}

// CheckOut implements attendance.AttendanceService.
// A session shorter than the minimum work hours is stored as a short-day absence, which clears its times.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	engine, err := a.engineFor(ctx, req.EmployeeID)
	if err != nil {
		return attendance.Record{}, err
	}

	at := req.At
	if at.IsZero() {
		at = a.now()
	}
	at = at.UTC()
	date := workDay(engine, at)

	rec, err := a.repo.AttendanceRecord(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if rec == nil || rec.CheckIn == nil {
		return attendance.Record{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return attendance.Record{}, attendance.ErrAlreadyCheckedOut
	}
	if at.Before(*rec.CheckIn) {
		return attendance.Record{}, attendance.ErrCheckOutBeforeCheckIn
	}

	res := engine.DeriveStatus(date, rec.CheckIn, &at)
	rec.CheckOut = &at
	rec.Status = res.Status
	rec.WorkHours = res.WorkHours
	rec.ShortDay = res.IsShortDay
	if req.Comments != "" {
		rec.Comments = req.Comments
	}

	updated, err := a.repo.UpdateAttendance(ctx, *rec)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	slog.Info("Employee checked out",
		"employee_id", updated.EmployeeID, "status", updated.Status, "work_hours", res.WorkHours)
	return updated, nil
}

// UpdateStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateStatus(ctx context.Context, req attendance.UpdateStatusRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	rec, err := a.repo.AttendanceByID(ctx, req.ID)
	if err != nil {
		return attendance.Record{}, err
	}

	to := attendance.Status(req.Status)
	if err := decision.ValidateTransition(rec.Status, to); err != nil {
		return attendance.Record{}, err
	}

	rec.Status = to
	rec.ManualOverride = true
	rec.ShortDay = false
	if req.Comments != nil {
		rec.Comments = *req.Comments
	}

	if to != attendance.StatusAbsent {
		if req.CheckInAt != nil {
			t := req.CheckInAt.UTC()
			rec.CheckIn = &t
		}
		if req.CheckOutAt != nil {
			t := req.CheckOutAt.UTC()
			rec.CheckOut = &t
		}
		if rec.CheckIn != nil && rec.CheckOut != nil {
			engine, err := a.engineFor(ctx, rec.EmployeeID)
			if err != nil {
				return attendance.Record{}, err
			}
			rec.WorkHours = engine.DeriveStatus(rec.Date, rec.CheckIn, rec.CheckOut).WorkHours
		}
	}

	updated, err := a.repo.UpdateAttendance(ctx, rec)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to update attendance status: %w", err)
	}
	return updated, nil
}

// BulkUpdateStatus implements attendance.AttendanceService. Every item is resolved
// before anything is written; an item already in the requested status is left alone.
func (a *AttendanceServiceImpl) BulkUpdateStatus(ctx context.Context, req attendance.BulkStatusRequest) (attendance.BulkStatusResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.BulkStatusResult{}, err
	}

	var (
		result  attendance.BulkStatusResult
		creates []attendance.Record
		updates []attendance.Record
	)

	for _, item := range req.Items {
		if _, err := a.repo.Employee(ctx, item.EmployeeID); err != nil {
			return attendance.BulkStatusResult{}, fmt.Errorf("employee %s: %w", item.EmployeeID, err)
		}

		existing, err := a.repo.AttendanceRecord(ctx, item.EmployeeID, item.Day)
		if err != nil {
			return attendance.BulkStatusResult{}, fmt.Errorf("failed to get attendance record: %w", err)
		}

		status := attendance.Status(item.Status)
		switch {
		case existing == nil:
			creates = append(creates, attendance.Record{
				EmployeeID:     item.EmployeeID,
				Date:           item.Day,
				Status:         status,
				Comments:       item.Comments,
				ManualOverride: true,
			})
		case existing.Status == status:
			result.Unchanged++
		default:
			rec := *existing
			rec.Status = status
			rec.ManualOverride = true
			rec.ShortDay = false
			if item.Comments != "" {
				rec.Comments = item.Comments
			}
			updates = append(updates, rec)
		}
	}

	if len(creates) > 0 {
		created, err := a.repo.BulkCreateAttendance(ctx, creates)
		if err != nil {
			return result, fmt.Errorf("failed to create attendance records: %w", err)
		}
		result.Created = len(created)
	}

	if len(updates) > 0 {
		updated, err := a.repo.UpdateAttendanceBatch(ctx, updates)
		result.Updated = len(updated)
		if err != nil {
			return result, err
		}
	}

	slog.Info("Bulk attendance status applied",
		"created", result.Created, "updated", result.Updated, "unchanged", result.Unchanged)
	return result, nil
}

// Delete implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if err := a.repo.DeleteAttendance(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	return nil
}
