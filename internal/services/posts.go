package services

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/blog-backend/internal/metrics"
	"github.com/baharkarakas/blog-backend/internal/models"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

type PostService struct {
	resolver
}

func NewPostService(repos repo.Repositories, log *slog.Logger) *PostService {
	return &PostService{resolver: resolver{repos: repos, log: log}}
}

// GetPost returns a post with its newest comments. Drafts are readable by id.
func (s *PostService) GetPost(ctx context.Context, id int64, commentLimit int) (models.Post, error) {
	p, err := s.resolvePost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if err := s.attachCommentsOne(ctx, &p, commentLimit); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (s *PostService) CreatePost(ctx context.Context, p models.Principal, in validate.PostInput) (models.Post, error) {
	np, err := in.Validate()
	if err != nil {
		return models.Post{}, err
	}
	post, err := s.repos.Posts.Create(ctx, p.ID, np.Title, np.Body)
	if err != nil {
		return models.Post{}, s.storeErr(ctx, "posts.create", "user", p.ID, err)
	}
	post.Comments = []models.Comment{}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, p models.Principal, id int64, in validate.UpdatePostInput) (models.Post, error) {
	ch, err := in.Validate()
	if err != nil {
		return models.Post{}, err
	}
	if err := s.mayModify(ctx, p, id); err != nil {
		return models.Post{}, err
	}
	post, err := s.repos.Posts.Update(ctx, id, ch.Title, ch.Body)
	if err != nil {
		return models.Post{}, s.storeErr(ctx, "posts.update", "post", id, err)
	}
	return s.withComments(ctx, post)
}

// PublishPost is idempotent: publishing again keeps the first published_at.
func (s *PostService) PublishPost(ctx context.Context, p models.Principal, id int64) (models.Post, error) {
	if err := s.mayModify(ctx, p, id); err != nil {
		return models.Post{}, err
	}
	post, err := s.repos.Posts.Publish(ctx, id)
	if err != nil {
		return models.Post{}, s.storeErr(ctx, "posts.publish", "post", id, err)
	}
	metrics.PostsPublished.Inc()
	return s.withComments(ctx, post)
}

// DeletePost returns the post as it was just before deletion, comment preview
// included.
func (s *PostService) DeletePost(ctx context.Context, p models.Principal, id int64) (models.Post, error) {
	existing, err := s.resolvePost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if err := authorizeContent(ctx, s.log, p, existing.AuthorID); err != nil {
		return models.Post{}, err
	}
	if err := s.attachCommentsOne(ctx, &existing, repo.DefaultCommentLimit); err != nil {
		return models.Post{}, err
	}
	deleted, err := s.repos.Posts.Delete(ctx, id)
	if err != nil {
		return models.Post{}, s.storeErr(ctx, "posts.delete", "post", id, err)
	}
	deleted.Comments, deleted.TotalComments = existing.Comments, existing.TotalComments
	s.log.InfoContext(ctx, "post deleted", "post_id", id, "by", p.ID)
	return deleted, nil
}

func (s *PostService) ListPublished(ctx context.Context, page repo.Page, commentLimit int) ([]models.Post, error) {
	posts, err := s.repos.Posts.ListPublished(ctx, page)
	if err != nil {
		return nil, s.storeErr(ctx, "posts.list_published", "post", 0, err)
	}
	return posts, s.attachComments(ctx, posts, commentLimit)
}

// ListAuthor lists the caller's own posts, drafts included.
func (s *PostService) ListAuthor(ctx context.Context, p models.Principal, page repo.Page, commentLimit int) ([]models.Post, error) {
	return s.listByAuthor(ctx, p.ID, true, page, commentLimit)
}

// ListUserPosts lists another user's posts. Drafts are shown only when the
// viewer is that user.
func (s *PostService) ListUserPosts(ctx context.Context, viewer *models.Principal, userID int64, page repo.Page, commentLimit int) ([]models.Post, error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}
	own := viewer != nil && viewer.ID == userID
	return s.listByAuthor(ctx, userID, own, page, commentLimit)
}

func (s *PostService) listByAuthor(ctx context.Context, authorID int64, drafts bool, page repo.Page, commentLimit int) ([]models.Post, error) {
	posts, err := s.repos.Posts.ListByAuthor(ctx, authorID, drafts, page)
	if err != nil {
		return nil, s.storeErr(ctx, "posts.list_by_author", "post", 0, err)
	}
	return posts, s.attachComments(ctx, posts, commentLimit)
}

func (s *PostService) mayModify(ctx context.Context, p models.Principal, id int64) error {
	existing, err := s.resolvePost(ctx, id)
	if err != nil {
		return err
	}
	return authorizeContent(ctx, s.log, p, existing.AuthorID)
}

func (s *PostService) withComments(ctx context.Context, post models.Post) (models.Post, error) {
	if err := s.attachCommentsOne(ctx, &post, repo.DefaultCommentLimit); err != nil {
		return models.Post{}, err
	}
	return post, nil
}
