package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/blog-backend/internal/apperr"
	"github.com/baharkarakas/blog-backend/internal/auth"
	"github.com/baharkarakas/blog-backend/internal/models"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Principal(ctx context.Context, id int64) (models.Principal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Principal), args.Error(1)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func tokenManager() *auth.TokenManager {
	return auth.NewTokenManager("access-secret-0123", "refresh-secret-0123", "blog-test", time.Minute, time.Hour)
}

// echoPrincipal reports the principal seen by the handler in a header.
var echoPrincipal = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if p, ok := PrincipalFrom(r.Context()); ok {
		w.Header().Set("X-Principal", p.Username)
	}
	w.WriteHeader(http.StatusNoContent)
})

func TestAuth(t *testing.T) {
	tm := tokenManager()
	bob := models.Principal{ID: 7, Username: "bob", Role: models.RoleUser}
	pair, err := tm.GeneratePair(bob)
	require.NoError(t, err)

	users := &mockResolver{}
	users.On("Principal", mock.Anything, int64(7)).Return(bob, nil)
	m := NewAuthMiddleware(tm, users, discard)

	tests := []struct {
		name      string
		header    string
		status    int
		principal string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc", http.StatusUnauthorized, ""},
		{"refresh token", "Bearer " + pair.Refresh, http.StatusUnauthorized, ""},
		{"valid", "Bearer " + pair.Access, http.StatusNoContent, "bob"},
		{"lowercase scheme", "bearer " + pair.Access, http.StatusNoContent, "bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			m.Auth(echoPrincipal).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.principal, rec.Header().Get("X-Principal"))
		})
	}
	users.AssertExpectations(t)
}

func TestAuthDeletedUser(t *testing.T) {
	tm := tokenManager()
	pair, err := tm.GeneratePair(models.Principal{ID: 9, Username: "gone"})
	require.NoError(t, err)

	users := &mockResolver{}
	users.On("Principal", mock.Anything, int64(9)).
		Return(models.Principal{}, apperr.Unauthenticated("User no longer exists")).Once()
	users.On("Principal", mock.Anything, int64(9)).
		Return(models.Principal{}, apperr.Internal("users.get", errors.New("db down"))).Once()
	m := NewAuthMiddleware(tm, users, discard)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)

	rec := httptest.NewRecorder()
	m.Auth(echoPrincipal).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	m.Auth(echoPrincipal).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
	users.AssertExpectations(t)
}

func TestOptionalAuth(t *testing.T) {
	tm := tokenManager()
	bob := models.Principal{ID: 7, Username: "bob"}
	pair, err := tm.GeneratePair(bob)
	require.NoError(t, err)
	users := &mockResolver{}
	users.On("Principal", mock.Anything, int64(7)).Return(bob, nil)
	m := NewAuthMiddleware(tm, users, discard)

	rec := httptest.NewRecorder()
	m.Optional(echoPrincipal).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Principal"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	rec = httptest.NewRecorder()
	m.Optional(echoPrincipal).ServeHTTP(rec, req)
	assert.Equal(t, "bob", rec.Header().Get("X-Principal"))

	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	m.Optional(echoPrincipal).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleAdmin)(echoPrincipal)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	for role, want := range map[models.Role]int{
		models.RoleUser:  http.StatusForbidden,
		models.RoleAdmin: http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), models.Principal{ID: 1, Username: "x", Role: role}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, role)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, incoming, seen)

	req.Header.Set(RequestIDHeader, "not a uuid")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "not a uuid", seen)
}

func TestRecover(t *testing.T) {
	h := Recover(discard)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := rateLimit(2, func() time.Time { return now })(echoPrincipal)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000"), "separate bucket per client")

	now = now.Add(500 * time.Millisecond)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1003"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1004"))

	disabled := RateLimit(0)(echoPrincipal)
	rec := httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func (l *limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func TestRateLimitEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(1, func() time.Time { return now })

	for i := 0; i < 100; i++ {
		assert.True(t, l.allow(fmt.Sprintf("10.0.0.%d", i)))
	}
	assert.Equal(t, 100, l.size())

	now = now.Add(bucketIdleTTL / 2)
	assert.True(t, l.allow("10.0.0.1"))
	assert.Equal(t, 100, l.size(), "nothing swept before the idle window passes")

	now = now.Add(bucketIdleTTL / 2)
	assert.True(t, l.allow("10.0.0.1"))
	assert.Equal(t, 1, l.size(), "only the recently active client survives")

	now = now.Add(bucketIdleTTL)
	assert.True(t, l.allow("10.0.0.200"))
	assert.Equal(t, 1, l.size())
	assert.Contains(t, l.buckets, "10.0.0.200")
	assert.NotContains(t, l.buckets, "10.0.0.1")
}
