package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/blog-backend/internal/models"
	"github.com/baharkarakas/blog-backend/internal/repository"
)

type postsRepo struct{ pool *pgxpool.Pool }

// Every read joins the author in the same statement. Writes run as a
// data-modifying CTE so the author comes back in the same round trip.
const postColumns = `p.id, p.user_id, p.title, p.body, p.published, p.published_at,
       p.created_at, p.updated_at, u.username`

const postJoin = ` JOIN users u ON u.id = p.user_id`

func scanPost(row scanner) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Published, &p.PublishedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.Author.Username)
	if err != nil {
		return models.Post{}, err
	}
	p.Author.ID = p.AuthorID
	return p, nil
}

func (r *postsRepo) Create(ctx context.Context, authorID int64, title, body string) (models.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`WITH p AS (
		   INSERT INTO posts (user_id, title, body) VALUES ($1, $2, $3)
		   RETURNING *
		 )
		 SELECT `+postColumns+` FROM p`+postJoin,
		authorID, title, body,
	))
	return p, mapError("posts: create", err)
}

func (r *postsRepo) GetByID(ctx context.Context, id int64) (models.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts p`+postJoin+` WHERE p.id = $1`, id,
	))
	return p, mapError("posts: get", err)
}

func (r *postsRepo) Update(ctx context.Context, id int64, title, body *string) (models.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`WITH p AS (
		   UPDATE posts
		      SET title = COALESCE($2, title),
		          body = COALESCE($3, body),
		          updated_at = now()
		    WHERE id = $1
		   RETURNING *
		 )
		 SELECT `+postColumns+` FROM p`+postJoin,
		id, title, body,
	))
	return p, mapError("posts: update", err)
}

// Publish keeps the first published_at on repeated calls.
func (r *postsRepo) Publish(ctx context.Context, id int64) (models.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`WITH p AS (
		   UPDATE posts
		      SET published = TRUE,
		          published_at = COALESCE(published_at, now()),
		          updated_at = now()
		    WHERE id = $1
		   RETURNING *
		 )
		 SELECT `+postColumns+` FROM p`+postJoin,
		id,
	))
	return p, mapError("posts: publish", err)
}

func (r *postsRepo) Delete(ctx context.Context, id int64) (models.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`WITH p AS (
		   DELETE FROM posts WHERE id = $1
		   RETURNING *
		 )
		 SELECT `+postColumns+` FROM p`+postJoin,
		id,
	))
	return p, mapError("posts: delete", err)
}

func (r *postsRepo) ListPublished(ctx context.Context, page repository.Page) ([]models.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+`
		   FROM posts p`+postJoin+`
		  WHERE p.published
		  ORDER BY p.published_at DESC, p.id ASC
		  LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset,
	)
	return collectPosts("posts: list published", rows, err)
}

func (r *postsRepo) ListByAuthor(ctx context.Context, authorID int64, includeDrafts bool, page repository.Page) ([]models.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+`
		   FROM posts p`+postJoin+`
		  WHERE p.user_id = $1 AND ($2 OR p.published)
		  ORDER BY p.created_at DESC, p.id DESC
		  LIMIT $3 OFFSET $4`,
		authorID, includeDrafts, page.Limit, page.Offset,
	)
	return collectPosts("posts: list by author", rows, err)
}

func collectPosts(op string, rows pgx.Rows, err error) ([]models.Post, error) {
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	out := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, p)
	}
	return out, mapError(op, rows.Err())
}
