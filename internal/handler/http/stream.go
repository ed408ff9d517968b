package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/utils"
)

const (
	attendanceTopic   = "attendance"
	streamKeepalive   = 30 * time.Second
	eventAttendance   = "attendance_changed"
	eventDashboard    = "dashboard"
	eventStreamFailed = "error"
)

// publishAttendance tells dashboard streams that attendance changed.
func publishAttendance(events *sse.Hub, data any) {
	if events == nil {
		return
	}
	events.Publish(sse.Event{Topic: attendanceTopic, Event: eventAttendance, Data: data})
}

func recordChange(rec attendance.Record) map[string]string {
	return map[string]string{"employee_id": rec.EmployeeID, "date": utils.DateKey(rec.Date)}
}

// DashboardStream implements ReportHandler. It sends today's dashboard on
// connect and again after every attendance write.
func (h *reportHandlerImpl) DashboardStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok || h.events == nil {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.events.Subscribe(attendanceTopic)
	defer cleanup()

	req := report.DashboardRequest{IncludeLists: middleware.IsAdmin(r.Context())}
	send := func() {
		dash, err := h.reportService.GetDashboard(r.Context(), req)
		if err != nil {
			slog.Warn("Failed to build dashboard for stream", "error", err)
			_ = sse.Write(w, eventStreamFailed, map[string]string{"message": "dashboard unavailable"})
		} else {
			_ = sse.Write(w, eventDashboard, dash)
		}
		flusher.Flush()
	}
	send()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
			send()

		case <-keepalive.C:
			_ = sse.Write(w, "ping", map[string]int64{"timestamp": time.Now().Unix()})
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
