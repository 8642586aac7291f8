package services

import (
	"context"

	"github.com/baharkarakas/blog-backend/internal/models"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
)

// attachComments fills Comments and TotalComments on every post with one
// windowed query. The store returns at least one row per commented post, so
// totals are known even when commentLimit is 0.
func (r resolver) attachComments(ctx context.Context, posts []models.Post, commentLimit int) error {
	commentLimit = repo.ClampCommentLimit(commentLimit)
	for i := range posts {
		posts[i].Comments = []models.Comment{}
		posts[i].TotalComments = 0
	}
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	index := make(map[int64]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = i
	}

	ranked, err := r.repos.Comments.RecentByPosts(ctx, ids, commentLimit)
	if err != nil {
		return r.storeErr(ctx, "comments.recent_by_posts", "comment", 0, err)
	}
	for _, rc := range ranked {
		i, ok := index[rc.PostID]
		if !ok {
			continue
		}
		posts[i].TotalComments = rc.Total
		if rc.Rank <= commentLimit {
			posts[i].Comments = append(posts[i].Comments, rc.Comment)
		}
	}
	return nil
}

func (r resolver) attachCommentsOne(ctx context.Context, p *models.Post, commentLimit int) error {
	one := []models.Post{*p}
	if err := r.attachComments(ctx, one, commentLimit); err != nil {
		return err
	}
	*p = one[0]
	return nil
}
