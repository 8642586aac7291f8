package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/blog-backend/internal/api/httpx"
	"github.com/baharkarakas/blog-backend/internal/apperr"
	"github.com/baharkarakas/blog-backend/internal/middleware"
	"github.com/baharkarakas/blog-backend/internal/models"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

// fail logs internal errors with the request id and writes the error envelope.
func fail(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		log.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.RequestIDFrom(r.Context()),
			"route", r.URL.Path,
			"err", err,
		)
	}
	httpx.WriteAppError(w, err)
}

func principal(r *http.Request) (models.Principal, error) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		return models.Principal{}, apperr.Unauthenticated("Authentication required")
	}
	return p, nil
}

func pathID(r *http.Request, param, label string) (int64, error) {
	return validate.CheckID(chi.URLParam(r, param), label)
}

// page reads limit and offset. Missing or malformed values fall back to the
// defaults; everything else is clamped.
func page(r *http.Request, defLimit int) repo.Page {
	return repo.NewPage(httpx.QueryInt(r, "limit", defLimit), httpx.QueryInt(r, "offset", 0))
}

func commentLimit(r *http.Request) int {
	return repo.ClampCommentLimit(httpx.QueryInt(r, "commentLimit", repo.DefaultCommentLimit))
}
