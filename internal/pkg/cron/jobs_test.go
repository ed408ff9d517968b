package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cache"
)

type reportsMock struct {
	mock.Mock
}

func (m *reportsMock) WarmUp(ctx context.Context) error {
	return m.Called().Error(0)
}

func (m *reportsMock) GetMissingCheckouts(ctx context.Context, req report.RangeRequest) (report.MissingCheckoutReport, error) {
	args := m.Called(req)
	return args.Get(0).(report.MissingCheckoutReport), args.Error(1)
}

func TestCacheJobs(t *testing.T) {
	now := time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)
	current := now
	store := cache.New(cache.WithClock(func() time.Time { return current }))
	require.NoError(t, store.Set("employees:active", []string{"e1"}, time.Minute))

	reports := &reportsMock{}
	reports.On("WarmUp").Return(nil).Once()
	reports.On("GetMissingCheckouts", report.RangeRequest{StartDate: "2024-01-08", EndDate: "2024-01-15"}).
		Return(report.MissingCheckoutReport{
			StartDate: "2024-01-08",
			EndDate:   "2024-01-14",
			Items: []report.MissingCheckout{
				{Employee: employee.Brief{ID: "e1", Name: "Asha Rao"}, Date: "2024-01-09", RecordID: "a1"},
			},
		}, nil).Once()

	jobs := NewCacheJobs(store, reports, reports)
	jobs.now = func() time.Time { return now }

	s := NewScheduler()
	jobs.RegisterJobs(s, time.Minute, time.Hour)

	current = now.Add(2 * time.Minute)
	assert.Zero(t, s.RunOnce(context.Background()))
	assert.Zero(t, store.Len(), "expired entry swept")
	reports.AssertExpectations(t)
}

func TestScanMissingCheckouts_Error(t *testing.T) {
	reports := &reportsMock{}
	reports.On("GetMissingCheckouts", mock.Anything).Return(report.MissingCheckoutReport{}, errors.New("store down"))

	jobs := NewCacheJobs(cache.New(), reports, reports)
	err := jobs.ScanMissingCheckouts(context.Background())
	assert.ErrorContains(t, err, "store down")
}
