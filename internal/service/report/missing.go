package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// GetMissingCheckouts lists records with a check-in and no check-out on days
// before today. Today's open sessions are still in progress.
func (s *ReportServiceImpl) GetMissingCheckouts(ctx context.Context, req report.RangeRequest) (report.MissingCheckoutReport, error) {
	start, end, err := s.resolveRange(ctx, req)
	if err != nil {
		return report.MissingCheckoutReport{}, err
	}

	today, err := s.today(ctx)
	if err != nil {
		return report.MissingCheckoutReport{}, err
	}
	if yesterday := today.AddDate(0, 0, -1); end.After(yesterday) {
		end = yesterday
	}

	out := report.MissingCheckoutReport{
		StartDate: utils.DateKey(start),
		EndDate:   utils.DateKey(end),
		Items:     []report.MissingCheckout{},
	}
	if end.Before(start) {
		return out, nil
	}

	records, err := s.repo.OpenSessions(ctx, start, end)
	if err != nil {
		return report.MissingCheckoutReport{}, fmt.Errorf("failed to list open sessions: %w", err)
	}

	for _, rec := range records {
		brief := employee.Brief{ID: rec.EmployeeID}
		emp, err := s.repo.Employee(ctx, rec.EmployeeID)
		switch {
		case err == nil:
			brief = emp.Brief()
		case !isNotFound(err):
			return report.MissingCheckoutReport{}, fmt.Errorf("failed to get employee: %w", err)
		}

		out.Items = append(out.Items, report.MissingCheckout{
			Employee: brief,
			Date:     utils.DateKey(rec.Date),
			CheckIn:  *rec.CheckIn,
			RecordID: rec.ID,
		})
	}

	sort.SliceStable(out.Items, func(i, j int) bool {
		if out.Items[i].Date != out.Items[j].Date {
			return out.Items[i].Date < out.Items[j].Date
		}
		return out.Items[i].Employee.Name < out.Items[j].Employee.Name
	})
	return out, nil
}
