package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := Subject(r.Context()); !ok {
			response.Unauthorized(w, "Missing access token")
			return
		}
		if !IsAdmin(r.Context()) {
			response.Forbidden(w, "Admin privilege required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
