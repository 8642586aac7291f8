package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/blog-backend/internal/models"
	"github.com/baharkarakas/blog-backend/internal/repository"
)

type commentsRepo struct{ pool *pgxpool.Pool }

const commentColumns = `c.id, c.post_id, c.user_id, c.body, c.created_at, c.updated_at, u.username`

const commentJoin = ` JOIN users u ON u.id = c.user_id`

func scanComment(row scanner, extra ...any) (models.Comment, error) {
	var c models.Comment
	dest := append([]any{&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt, &c.Author.Username}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Comment{}, err
	}
	c.Author.ID = c.AuthorID
	return c, nil
}

func (r *commentsRepo) Create(ctx context.Context, postID, authorID int64, body string) (models.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx,
		`WITH c AS (
		   INSERT INTO comments (post_id, user_id, body) VALUES ($1, $2, $3)
		   RETURNING *
		 )
		 SELECT `+commentColumns+` FROM c`+commentJoin,
		postID, authorID, body,
	))
	return c, mapError("comments: create", err)
}

func (r *commentsRepo) GetByID(ctx context.Context, id int64) (models.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments c`+commentJoin+` WHERE c.id = $1`, id,
	))
	return c, mapError("comments: get", err)
}

func (r *commentsRepo) Update(ctx context.Context, id int64, body string) (models.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx,
		`WITH c AS (
		   UPDATE comments SET body = $2, updated_at = now()
		    WHERE id = $1
		   RETURNING *
		 )
		 SELECT `+commentColumns+` FROM c`+commentJoin,
		id, body,
	))
	return c, mapError("comments: update", err)
}

func (r *commentsRepo) Delete(ctx context.Context, id int64) (models.Comment, error) {
	c, err := scanComment(r.pool.QueryRow(ctx,
		`WITH c AS (
		   DELETE FROM comments WHERE id = $1
		   RETURNING *
		 )
		 SELECT `+commentColumns+` FROM c`+commentJoin,
		id,
	))
	return c, mapError("comments: delete", err)
}

func (r *commentsRepo) ListByPost(ctx context.Context, postID int64, page repository.Page) ([]models.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+commentColumns+`
		   FROM comments c`+commentJoin+`
		  WHERE c.post_id = $1
		  ORDER BY c.created_at DESC, c.id DESC
		  LIMIT $2 OFFSET $3`,
		postID, page.Limit, page.Offset,
	)
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
	if len(postIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, post_id, user_id, body, created_at, updated_at, username, rn, total
		   FROM (
		     SELECT `+commentColumns+`,
		            ROW_NUMBER() OVER (PARTITION BY c.post_id ORDER BY c.created_at DESC, c.id DESC) AS rn,
		            COUNT(*) OVER (PARTITION BY c.post_id) AS total
		       FROM comments c`+commentJoin+`
		      WHERE c.post_id = ANY($1)
		   ) ranked
		  WHERE rn <= $2
		  ORDER BY post_id, rn`,
		postIDs, max(perPost, 1),
	)
	return collectRanked(rows, err)
}

func collectRanked(rows pgx.Rows, err error) ([]repository.RankedComment, error) {
	const op = "comments: recent by posts"
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
