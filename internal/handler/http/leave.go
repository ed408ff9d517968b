package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

type LeaveHandler interface {
	Approve(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
	events       *sse.Hub
}

func NewLeaveHandler(leaveService leave.LeaveService, events *sse.Hub) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService, events: events}
}

// Approve implements LeaveHandler.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	req := leave.ApproveLeaveRequest{ID: chi.URLParam(r, "id")}
	if sub, ok := middleware.Subject(r.Context()); ok {
		req.ApproverID = sub.UserID
	}

	result, err := h.leaveService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	publishAttendance(h.events, map[string]string{
		"employee_id": result.EmployeeID,
		"date":        utils.DateKey(result.LeaveDate),
	})
	response.SuccessWithMessage(w, "Leave approved", result)
}
