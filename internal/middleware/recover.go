package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/baharkarakas/blog-backend/internal/api/httpx"
)

func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.ErrorContext(r.Context(), "panic",
						"err", rec,
						"request_id", RequestIDFrom(r.Context()),
						"stack", string(debug.Stack()),
					)
					httpx.WriteError(w, http.StatusInternalServerError, "internal", "Server error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
