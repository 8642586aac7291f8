package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/baharkarakas/blog-backend/internal/apperr"
	"github.com/baharkarakas/blog-backend/internal/models"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
)

// resolver loads the rows a mutation targets and turns store failures into
// apperr values.
type resolver struct {
	repos repo.Repositories
	log   *slog.Logger
}

func (r resolver) resolvePost(ctx context.Context, id int64) (models.Post, error) {
	p, err := r.repos.Posts.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, r.storeErr(ctx, "posts.get", "post", id, err)
	}
	return p, nil
}

func (r resolver) resolveComment(ctx context.Context, id int64) (models.Comment, error) {
	c, err := r.repos.Comments.GetByID(ctx, id)
	if err != nil {
		return models.Comment{}, r.storeErr(ctx, "comments.get", "comment", id, err)
	}
	return c, nil
}

func (r resolver) resolveUser(ctx context.Context, id int64) (models.User, error) {
	u, err := r.repos.Users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, r.storeErr(ctx, "users.get", "user", id, err)
	}
	return u, nil
}

// checkCommentBelongsToPost hides comments addressed through the wrong post.
func checkCommentBelongsToPost(c models.Comment, postID int64) error {
	if c.PostID != postID {
		return apperr.NotFound("comment", c.ID)
	}
	return nil
}

// checkUsernameTaken fails with Conflict when another account holds username.
// selfID is the account being renamed, or 0 on registration.
func (r resolver) checkUsernameTaken(ctx context.Context, username string, selfID int64) error {
	u, err := r.repos.Users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil
	case err != nil:
		return r.storeErr(ctx, "users.get_by_username", "user", 0, err)
	case u.ID == selfID:
		return nil
	default:
		return errUsernameTaken()
	}
}

func errUsernameTaken() *apperr.Error { return apperr.Conflict("Username already taken") }

// storeErr maps repository sentinels to apperr kinds. Anything else is logged
// and hidden behind Internal.
func (r resolver) storeErr(ctx context.Context, op, resource string, id int64, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound(resource, id)
	case errors.Is(err, repo.ErrDuplicate):
		return apperr.AlreadyExists(resource)
	default:
		r.log.ErrorContext(ctx, "store failure", "op", op, "err", err)
		return apperr.Internal(op, err)
	}
}
