package services

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/blog-backend/internal/metrics"
	"github.com/baharkarakas/blog-backend/internal/models"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

// CommentRef addresses a comment either directly or through its post. A
// nested reference must match the comment's post.
type CommentRef struct {
	PostID int64 // 0 for the flat /comments/{id} routes
	ID     int64
}

func FlatComment(id int64) CommentRef { return CommentRef{ID: id} }
func NestedComment(postID, id int64) CommentRef { return CommentRef{PostID: postID, ID: id} }

type CommentService struct {
	resolver
}

func NewCommentService(repos repo.Repositories, log *slog.Logger) *CommentService {
	return &CommentService{resolver: resolver{repos: repos, log: log}}
}

func (s *CommentService) GetComment(ctx context.Context, ref CommentRef) (models.Comment, error) {
	return s.resolveRef(ctx, ref)
}

func (s *CommentService) CreateComment(ctx context.Context, p models.Principal, postID int64, in validate.CommentInput) (models.Comment, error) {
	body, err := in.Validate()
	if err != nil {
		return models.Comment{}, err
	}
	if _, err := s.resolvePost(ctx, postID); err != nil {
		return models.Comment{}, err
	}
	c, err := s.repos.Comments.Create(ctx, postID, p.ID, body)
	if err != nil {
		return models.Comment{}, s.storeErr(ctx, "comments.create", "post", postID, err)
	}
	metrics.CommentsCreated.Inc()
	return c, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, p models.Principal, ref CommentRef, in validate.CommentInput) (models.Comment, error) {
	body, err := in.Validate()
	if err != nil {
		return models.Comment{}, err
	}
	existing, err := s.resolveRef(ctx, ref)
	if err != nil {
		return models.Comment{}, err
	}
	if err := authorizeContent(ctx, s.log, p, existing.AuthorID); err != nil {
		return models.Comment{}, err
	}
	c, err := s.repos.Comments.Update(ctx, ref.ID, body)
	if err != nil {
		return models.Comment{}, s.storeErr(ctx, "comments.update", "comment", ref.ID, err)
	}
	return c, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, p models.Principal, ref CommentRef) (models.Comment, error) {
	existing, err := s.resolveRef(ctx, ref)
	if err != nil {
		return models.Comment{}, err
	}
	if err := authorizeContent(ctx, s.log, p, existing.AuthorID); err != nil {
		return models.Comment{}, err
	}
	c, err := s.repos.Comments.Delete(ctx, ref.ID)
	if err != nil {
		return models.Comment{}, s.storeErr(ctx, "comments.delete", "comment", ref.ID, err)
	}
	return c, nil
}

// ListPostComments pages through a post's comments, newest first.
func (s *CommentService) ListPostComments(ctx context.Context, postID int64, page repo.Page) ([]models.Comment, error) {
	if _, err := s.resolvePost(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.repos.Comments.ListByPost(ctx, postID, page)
	if err != nil {
		return nil, s.storeErr(ctx, "comments.list", "comment", 0, err)
	}
	return comments, nil
}

func (s *CommentService) resolveRef(ctx context.Context, ref CommentRef) (models.Comment, error) {
	if ref.PostID != 0 {
		if _, err := s.resolvePost(ctx, ref.PostID); err != nil {
			return models.Comment{}, err
		}
	}
	c, err := s.resolveComment(ctx, ref.ID)
	if err != nil {
		return models.Comment{}, err
	}
	if ref.PostID != 0 {
		if err := checkCommentBelongsToPost(c, ref.PostID); err != nil {
			return models.Comment{}, err
		}
	}
	return c, nil
}
