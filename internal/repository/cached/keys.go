package cached

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

// Namespace is the first segment of every cache key.
type Namespace string

const (
	NSEmployees  Namespace = "employees"
	NSEmployee   Namespace = "employee"
	NSHolidays   Namespace = "holidays"
	NSAttendance Namespace = "attendance"
	NSLeaves     Namespace = "leaves"
	NSDaily      Namespace = "daily"
	NSDashboard  Namespace = "dashboard"
	NSReport     Namespace = "report"
	NSTrends     Namespace = "trends"
)

// Report kinds, the second segment of report keys.
const (
	ReportEmployee   = "employee"
	ReportDepartment = "department"
	ReportCompany    = "company"
)

// leavesOnDate separates per-day leave lookups from per-employee ones.
const leavesOnDate = "on"

// Key joins ns and parts with ':'.
func Key(ns Namespace, parts ...string) string {
	return strings.Join(append([]string{string(ns)}, parts...), ":")
}

// Pattern is Key followed by a trailing wildcard segment.
func Pattern(ns Namespace, parts ...string) string {
	return Key(ns, append(parts, "*")...)
}

// Day formats a calendar day for use in a key.
func Day(t time.Time) string {
	return utils.DateKey(t)
}
