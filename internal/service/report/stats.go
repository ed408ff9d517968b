package report

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
)

// Summarize folds processed days into statistics. Leave days also count as absent.
func Summarize(days []attendance.ProcessedDay) report.Statistics {
	var s report.Statistics
	for _, d := range days {
		addDay(&s, d)
	}
	finalize(&s)
	return s
}

func addDay(s *report.Statistics, d attendance.ProcessedDay) {
	s.TotalDays++

	switch d.DayType {
	case calendar.DayTypeWeekend:
		s.Weekends++
		return
	case calendar.DayTypeHoliday:
		s.Holidays++
		return
	}

	s.WorkingDays++
	switch d.Status {
	case attendance.StatusPresent:
		s.PresentDays++
	case attendance.StatusHalfDay:
		s.HalfDays++
	case attendance.StatusAbsent:
		s.AbsentDays++
	}
	if d.Flags.IsOnLeave {
		s.LeaveDays++
	}
	if d.Flags.IsLate {
		s.LateDays++
	}
	s.TotalWorkHours += d.WorkHours
}

// addStatistics accumulates o into s. Call finalize once all are added.
func addStatistics(s *report.Statistics, o report.Statistics) {
	s.TotalDays += o.TotalDays
	s.WorkingDays += o.WorkingDays
	s.Weekends += o.Weekends
	s.Holidays += o.Holidays
	s.PresentDays += o.PresentDays
	s.AbsentDays += o.AbsentDays
	s.HalfDays += o.HalfDays
	s.LeaveDays += o.LeaveDays
	s.LateDays += o.LateDays
	s.TotalWorkHours += o.TotalWorkHours
}

func finalize(s *report.Statistics) {
	s.TotalWorkHours = round(s.TotalWorkHours, 2)
	if attended := s.PresentDays + s.HalfDays; attended > 0 {
		s.AverageWorkHours = round(s.TotalWorkHours/float64(attended), 2)
	} else {
		s.AverageWorkHours = 0
	}
	s.AttendancePercentage = attendancePercentage(s.PresentDays, s.HalfDays, s.WorkingDays)
}

// attendancePercentage is (present + half/2) / working * 100 to one decimal place,
// and 0 without working days.
func attendancePercentage(present, halfDays, working int) float64 {
	if working == 0 {
		return 0
	}
	attended := decimal.NewFromInt(int64(present)).
		Add(decimal.NewFromInt(int64(halfDays)).Div(decimal.NewFromInt(2)))
	return attended.
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(working))).
		Round(1).
		InexactFloat64()
}

func averagePercentage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.Div(decimal.NewFromInt(int64(len(values)))).Round(1).InexactFloat64()
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
