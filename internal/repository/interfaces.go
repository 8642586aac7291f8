package repository

import (
	"context"
	"errors"

	"github.com/baharkarakas/blog-backend/internal/models"
)

var (
	// ErrNotFound is returned when no row matched, including updates and
	// deletes that affected zero rows.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on a unique constraint violation.
	ErrDuplicate = errors.New("duplicate")
)

type UserChanges struct {
	Username     *string
	PasswordHash *string
}

type Users interface {
	Create(ctx context.Context, username, passwordHash string, role models.Role) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context, page Page) ([]models.User, error)
	CountPosts(ctx context.Context, id int64) (int64, error)
	Update(ctx context.Context, id int64, ch UserChanges) (models.User, error)
	SetRole(ctx context.Context, id int64, role models.Role) (models.User, error)
	Delete(ctx context.Context, id int64) (models.User, error)
}

// Posts returns posts with Author populated; Comments is left nil.
type Posts interface {
	Create(ctx context.Context, authorID int64, title, body string) (models.Post, error)
	GetByID(ctx context.Context, id int64) (models.Post, error)
	Update(ctx context.Context, id int64, title, body *string) (models.Post, error)
	Publish(ctx context.Context, id int64) (models.Post, error)
	Delete(ctx context.Context, id int64) (models.Post, error)
	ListPublished(ctx context.Context, page Page) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID int64, includeDrafts bool, page Page) ([]models.Post, error)
}

// RankedComment is one row of the per-post comment window: Rank 1 is the
// newest comment of its post and Total is the post's full comment count.
type RankedComment struct {
	models.Comment
	Rank  int
	Total int
}

type Comments interface {
	Create(ctx context.Context, postID, authorID int64, body string) (models.Comment, error)
	GetByID(ctx context.Context, id int64) (models.Comment, error)
	Update(ctx context.Context, id int64, body string) (models.Comment, error)
	Delete(ctx context.Context, id int64) (models.Comment, error)
	ListByPost(ctx context.Context, postID int64, page Page) ([]models.Comment, error)
	// RecentByPosts returns, in one query, at most max(perPost, 1) newest
	// comments of each post in postIDs, ordered by post then rank.
	RecentByPosts(ctx context.Context, postIDs []int64, perPost int) ([]RankedComment, error)
}

// Repositories bundles one store's implementations.
type Repositories struct {
	Users    Users
	Posts    Posts
	Comments Comments
}
