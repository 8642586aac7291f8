package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/blog-backend/internal/api/httpx"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/services"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

type CommentsHandler struct {
	Comments *services.CommentService
	Log      *slog.Logger
}

func NewCommentsHandler(comments *services.CommentService, log *slog.Logger) *CommentsHandler {
	return &CommentsHandler{Comments: comments, Log: log}
}

// ref reads the comment address from the route. Routes that carry a post id
// produce a nested reference so the binding is checked.
func ref(r *http.Request) (services.CommentRef, error) {
	id, err := pathID(r, "commentID", "Comment ID")
	if err != nil {
		return services.CommentRef{}, err
	}
	if chi.URLParam(r, "postID") == "" {
		return services.FlatComment(id), nil
	}
	postID, err := pathID(r, "postID", "Post ID")
	if err != nil {
		return services.CommentRef{}, err
	}
	return services.NestedComment(postID, id), nil
}

func (h *CommentsHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID", "Post ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	comments, err := h.Comments.ListPostComments(r.Context(), postID, page(r, repo.DefaultCommentLimit))
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, comments)
}

// CreateNested serves POST /posts/{postID}/comments.
func (h *CommentsHandler) CreateNested(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	postID, err := pathID(r, "postID", "Post ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	var in validate.CommentInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	c, err := h.Comments.CreateComment(r.Context(), p, postID, in)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

type flatCommentReq struct {
	PostID httpx.FlexibleID `json:"postId"`
	validate.CommentInput
}

// CreateFlat serves POST /comments with the post id in the body.
func (h *CommentsHandler) CreateFlat(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	var req flatCommentReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	postID, err := validate.CheckID(string(req.PostID), "Post ID")
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	c, err := h.Comments.CreateComment(r.Context(), p, postID, req.CommentInput)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *CommentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	cr, err := ref(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	c, err := h.Comments.GetComment(r.Context(), cr)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	cr, err := ref(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	var in validate.CommentInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	c, err := h.Comments.UpdateComment(r.Context(), p, cr, in)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	cr, err := ref(r)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	c, err := h.Comments.DeleteComment(r.Context(), p, cr)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}
