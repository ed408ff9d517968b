package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
)

type subjectKey struct{}

// AuthRequired rejects requests without a verified access token and stores the
// caller on the request context. It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.Unauthorized(w, "Missing access token")
			return
		}

		sub, err := jwt.SubjectFromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey{}, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Subject returns the caller stored by AuthRequired.
func Subject(ctx context.Context) (jwt.Subject, bool) {
	sub, ok := ctx.Value(subjectKey{}).(jwt.Subject)
	return sub, ok
}

// IsAdmin reports whether the caller holds the is_admin claim.
func IsAdmin(ctx context.Context) bool {
	sub, ok := Subject(ctx)
	return ok && sub.IsAdmin
}
