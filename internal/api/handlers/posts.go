package handlers

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/blog-backend/internal/api/httpx"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/services"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

type PostsHandler struct {
	Posts *services.PostService
	Log   *slog.Logger
}

func NewPostsHandler(posts *services.PostService, log *slog.Logger) *PostsHandler {
	return &PostsHandler{Posts: posts, Log: log}
}

func (h *PostsHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.ListPublished(r.Context(), page(r, repo.DefaultPostLimit), commentLimit(r))
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) ListAuthor(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	posts, err := h.Posts.ListAuthor(r.Context(), p, page(r, repo.DefaultPostLimit), commentLimit(r))
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "postID", "Post ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	post, err := h.Posts.GetPost(r.Context(), id, commentLimit(r))
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, post)
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	var in validate.PostInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	post, err := h.Posts.CreatePost(r.Context(), p, in)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, post)
}

func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	id, err := pathID(r, "postID", "Post ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	var in validate.UpdatePostInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	post, err := h.Posts.UpdatePost(r.Context(), p, id, in)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, post)
}

func (h *PostsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	id, err := pathID(r, "postID", "Post ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	post, err := h.Posts.PublishPost(r.Context(), p, id)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, post)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	id, err := pathID(r, "postID", "Post ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	post, err := h.Posts.DeletePost(r.Context(), p, id)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, post)
}
