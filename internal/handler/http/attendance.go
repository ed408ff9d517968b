package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	BulkUpdateStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	events            *sse.Hub
}

// NewAttendanceHandler returns an AttendanceHandler that announces every
// successful write on events, when set.
func NewAttendanceHandler(attendanceService attendance.AttendanceService, events *sse.Hub) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		events:            events,
	}
}

// ownEmployeeID returns the caller's employee id for non-admin callers, who may
// only check themselves in and out.
func ownEmployeeID(r *http.Request, requested string) string {
	sub, ok := middleware.Subject(r.Context())
	if !ok || sub.IsAdmin || sub.EmployeeID == "" {
		return requested
	}
	return sub.EmployeeID
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = ownEmployeeID(r, req.EmployeeID)

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	publishAttendance(h.events, recordChange(result))
	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = ownEmployeeID(r, req.EmployeeID)

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	publishAttendance(h.events, recordChange(result))
	response.SuccessWithMessage(w, "Check out successful", result)
}

// UpdateStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	publishAttendance(h.events, recordChange(result))
	response.SuccessWithMessage(w, "Attendance status updated", result)
}

// BulkUpdateStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req attendance.BulkStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.BulkUpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	publishAttendance(h.events, result)
	response.Success(w, result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.attendanceService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	publishAttendance(h.events, map[string]string{"deleted_id": id})
	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}
