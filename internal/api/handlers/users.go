package handlers

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/blog-backend/internal/api/httpx"
	"github.com/baharkarakas/blog-backend/internal/middleware"
	"github.com/baharkarakas/blog-backend/internal/models"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/services"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

type UsersHandler struct {
	Users *services.UserService
	Posts *services.PostService
	Log   *slog.Logger
}

func NewUsersHandler(users *services.UserService, posts *services.PostService, log *slog.Logger) *UsersHandler {
	return &UsersHandler{Users: users, Posts: posts, Log: log}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context(), page(r, repo.DefaultPostLimit))
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID", "User ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	u, err := h.Users.GetUser(r.Context(), id)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	id, err := pathID(r, "userID", "User ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	var in validate.UpdateUserInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	u, err := h.Users.UpdateUser(r.Context(), p, id, in)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	id, err := pathID(r, "userID", "User ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	u, err := h.Users.DeleteUser(r.Context(), p, id)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

func (h *UsersHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	id, err := pathID(r, "userID", "User ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	var in validate.RoleInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	u, err := h.Users.SetRole(r.Context(), p, id, in)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u)
}

// ListPosts lists a user's posts; the owner also sees drafts.
func (h *UsersHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID", "User ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	var viewer *models.Principal
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		viewer = &p
	}
	posts, err := h.Posts.ListUserPosts(r.Context(), viewer, id, page(r, repo.DefaultPostLimit), commentLimit(r))
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, posts)
}
