package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/baharkarakas/blog-backend/internal/api/httpx"
	"github.com/baharkarakas/blog-backend/internal/apperr"
	"github.com/baharkarakas/blog-backend/internal/auth"
	"github.com/baharkarakas/blog-backend/internal/models"
)

// PrincipalResolver reloads the user named by a token so that deleted users
// and role changes take effect before the token expires.
type PrincipalResolver interface {
	Principal(ctx context.Context, id int64) (models.Principal, error)
}

type AuthMiddleware struct {
	TM    *auth.TokenManager
	Users PrincipalResolver
	Log   *slog.Logger
}

func NewAuthMiddleware(tm *auth.TokenManager, users PrincipalResolver, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, Users: users, Log: log}
}

// Auth requires a valid bearer access token.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r)
		if !ok {
			httpx.WriteAppError(w, apperr.Unauthenticated("Authentication required"))
			return
		}
		p, err := m.resolve(r.Context(), token)
		if err != nil {
			m.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// Optional attaches the principal when a valid token is present and lets
// anonymous requests through. A token that is present but invalid is still
// rejected.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		p, err := m.resolve(r.Context(), token)
		if err != nil {
			m.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

func (m *AuthMiddleware) resolve(ctx context.Context, token string) (models.Principal, error) {
	claims, err := m.TM.ParseAccess(token)
	if err != nil {
		return models.Principal{}, apperr.Unauthenticated("Invalid or expired token")
	}
	return m.Users.Principal(ctx, claims.UserID)
}

func (m *AuthMiddleware) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		m.Log.ErrorContext(r.Context(), "principal lookup failed",
			"request_id", RequestIDFrom(r.Context()), "err", err)
	}
	httpx.WriteAppError(w, err)
}

func bearer(r *http.Request) (string, bool) {
	ah := r.Header.Get("Authorization")
	if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(ah[len("Bearer "):])
	return token, token != ""
}
