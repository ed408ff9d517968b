package http

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

// maxBodyBytes bounds JSON request bodies; a full bulk status request fits well within it.
const maxBodyBytes = 1 << 20

// decodeJSON reads the body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// rangeFromQuery reads start_date, end_date and period.
func rangeFromQuery(r *http.Request) report.RangeRequest {
	q := r.URL.Query()
	return report.RangeRequest{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Period:    q.Get("period"),
	}
}
