package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
)

type ReportHandler interface {
	EmployeeReport(w http.ResponseWriter, r *http.Request)
	DepartmentReport(w http.ResponseWriter, r *http.Request)
	CompanyReport(w http.ResponseWriter, r *http.Request)
	Trends(w http.ResponseWriter, r *http.Request)
	MissingCheckouts(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
	DashboardStream(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	events        *sse.Hub
}

// NewReportHandler returns a ReportHandler. events may be nil, which disables the dashboard stream.
func NewReportHandler(reportService report.ReportService, events *sse.Hub) ReportHandler {
	return &reportHandlerImpl{reportService: reportService, events: events}
}

// EmployeeReport implements ReportHandler. Non-admin callers may only read their own report.
func (h *reportHandlerImpl) EmployeeReport(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	if sub, ok := middleware.Subject(r.Context()); ok && !sub.IsAdmin && sub.EmployeeID != employeeID {
		response.Forbidden(w, "Cannot view another employee's report")
		return
	}

	result, err := h.reportService.GetEmployeeReport(r.Context(), employeeID, rangeFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DepartmentReport implements ReportHandler.
func (h *reportHandlerImpl) DepartmentReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetDepartmentReport(r.Context(), chi.URLParam(r, "department"), rangeFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CompanyReport implements ReportHandler.
func (h *reportHandlerImpl) CompanyReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetCompanyReport(r.Context(), rangeFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Trends implements ReportHandler.
func (h *reportHandlerImpl) Trends(w http.ResponseWriter, r *http.Request) {
	req := report.TrendsRequest{
		RangeRequest: rangeFromQuery(r),
		GroupBy:      r.URL.Query().Get("group_by"),
		Department:   r.URL.Query().Get("department"),
	}

	result, err := h.reportService.GetTrends(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MissingCheckouts implements ReportHandler.
func (h *reportHandlerImpl) MissingCheckouts(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetMissingCheckouts(r.Context(), rangeFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Dashboard implements ReportHandler. Employee lists are only returned to admins.
func (h *reportHandlerImpl) Dashboard(w http.ResponseWriter, r *http.Request) {
	req := report.DashboardRequest{
		Date:         r.URL.Query().Get("date"),
		IncludeLists: middleware.IsAdmin(r.Context()),
	}

	result, err := h.reportService.GetDashboard(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
