package sqlite

import (
	"context"
	"strings"

	"github.com/baharkarakas/blog-backend/internal/models"
	"github.com/baharkarakas/blog-backend/internal/repository"
)

type commentsRepo struct{ store }

const commentColumns = `c.id, c.post_id, c.user_id, c.body, c.created_at, c.updated_at, u.username`

const commentJoin = ` JOIN users u ON u.id = c.user_id`

func scanComment(row scanner, extra ...any) (models.Comment, error) {
	var c models.Comment
	var created, updated int64
	dest := append([]any{&c.ID, &c.PostID, &c.AuthorID, &c.Body, &created, &updated, &c.Author.Username}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Comment{}, err
	}
	c.CreatedAt, c.UpdatedAt = fromNanos(created), fromNanos(updated)
	c.Author.ID = c.AuthorID
	return c, nil
}

func (r *commentsRepo) Create(ctx context.Context, postID, authorID int64, body string) (models.Comment, error) {
	now := r.stamp()
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (post_id, user_id, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`,
		postID, authorID, body, now, now,
	).Scan(&id)
	if err != nil {
		return models.Comment{}, mapError("comments: create", err)
	}
	return r.GetByID(ctx, id)
}

func (r *commentsRepo) GetByID(ctx context.Context, id int64) (models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments c`+commentJoin+` WHERE c.id = ?`, id))
	return c, mapError("comments: get", err)
}

func (r *commentsRepo) Update(ctx context.Context, id int64, body string) (models.Comment, error) {
	var got int64
	err := r.db.QueryRowContext(ctx,
		`UPDATE comments SET body = ?, updated_at = ? WHERE id = ? RETURNING id`,
		body, r.stamp(), id,
	).Scan(&got)
	if err != nil {
		return models.Comment{}, mapError("comments: update", err)
	}
	return r.GetByID(ctx, got)
}

func (r *commentsRepo) Delete(ctx context.Context, id int64) (models.Comment, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return models.Comment{}, mapError("comments: delete", err)
	}
	return c, checkAffected("comments: delete", res)
}

func (r *commentsRepo) ListByPost(ctx context.Context, postID int64, page repository.Page) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+`
		   FROM comments c`+commentJoin+`
		  WHERE c.post_id = ?
		  ORDER BY c.created_at DESC, c.id DESC
		  LIMIT ? OFFSET ?`,
		postID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapError("comments: list", err)
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, mapError("comments: list", err)
		}
		out = append(out, c)
	}
	return out, mapError("comments: list", rows.Err())
}

func (r *commentsRepo) RecentByPosts(ctx context.Context, postIDs []int64, perPost int) ([]repository.RankedComment, error) {
	const op = "comments: recent by posts"
	if len(postIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(postIDs)+1)
	for _, id := range postIDs {
		args = append(args, id)
	}
	args = append(args, max(perPost, 1))

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(postIDs)), ",")
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, user_id, body, created_at, updated_at, username, rn, total
		   FROM (
		     SELECT `+commentColumns+`,
		            ROW_NUMBER() OVER (PARTITION BY c.post_id ORDER BY c.created_at DESC, c.id DESC) AS rn,
		            COUNT(*) OVER (PARTITION BY c.post_id) AS total
		       FROM comments c`+commentJoin+`
		      WHERE c.post_id IN (`+placeholders+`)
		   ) ranked
		  WHERE rn <= ?
		  ORDER BY post_id, rn`,
		args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var out []repository.RankedComment
	for rows.Next() {
		var rc repository.RankedComment
		c, err := scanComment(rows, &rc.Rank, &rc.Total)
		if err != nil {
			return nil, mapError(op, err)
		}
		rc.Comment = c
		out = append(out, rc)
	}
	return out, mapError(op, rows.Err())
}
