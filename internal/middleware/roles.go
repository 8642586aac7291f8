package middleware

import (
	"net/http"

	"github.com/baharkarakas/blog-backend/internal/api/httpx"
	"github.com/baharkarakas/blog-backend/internal/apperr"
	"github.com/baharkarakas/blog-backend/internal/metrics"
	"github.com/baharkarakas/blog-backend/internal/models"
)

// RequireRole allows only principals holding role. It must run after Auth.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				httpx.WriteAppError(w, apperr.Unauthenticated("Authentication required"))
				return
			}
			if p.Role != role {
				metrics.AuthzDenied.WithLabelValues(metrics.PolicyRole).Inc()
				httpx.WriteAppError(w, apperr.Forbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
