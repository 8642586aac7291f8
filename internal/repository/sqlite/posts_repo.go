package sqlite

import (
	"context"
	"database/sql"

	"github.com/baharkarakas/blog-backend/internal/models"
	"github.com/baharkarakas/blog-backend/internal/repository"
)

type postsRepo struct{ store }

const postColumns = `p.id, p.user_id, p.title, p.body, p.published, p.published_at,
       p.created_at, p.updated_at, u.username`

const postJoin = ` JOIN users u ON u.id = p.user_id`

func scanPost(row scanner) (models.Post, error) {
	var p models.Post
	var published sql.NullInt64
	var created, updated int64
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Published, &published,
		&created, &updated, &p.Author.Username)
	if err != nil {
		return models.Post{}, err
	}
	p.PublishedAt = nullableTime(published)
	p.CreatedAt, p.UpdatedAt = fromNanos(created), fromNanos(updated)
	p.Author.ID = p.AuthorID
	return p, nil
}

// SQLite has no data-modifying CTEs, so writes return the id and the joined
// row is read back on the same connection.
func (r *postsRepo) Create(ctx context.Context, authorID int64, title, body string) (models.Post, error) {
	now := r.stamp()
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (user_id, title, body, published, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?)
		 RETURNING id`,
		authorID, title, body, now, now,
	).Scan(&id)
	if err != nil {
		return models.Post{}, mapError("posts: create", err)
	}
	return r.GetByID(ctx, id)
}

func (r *postsRepo) GetByID(ctx context.Context, id int64) (models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p`+postJoin+` WHERE p.id = ?`, id))
	return p, mapError("posts: get", err)
}

func (r *postsRepo) Update(ctx context.Context, id int64, title, body *string) (models.Post, error) {
	return r.writeReturning(ctx, "posts: update",
		`UPDATE posts
		    SET title = COALESCE(?, title),
		        body = COALESCE(?, body),
		        updated_at = ?
		  WHERE id = ?
		  RETURNING id`,
		title, body, r.stamp(), id,
	)
}

// Publish keeps the first published_at on repeated calls.
func (r *postsRepo) Publish(ctx context.Context, id int64) (models.Post, error) {
	now := r.stamp()
	return r.writeReturning(ctx, "posts: publish",
		`UPDATE posts
		    SET published = 1,
		        published_at = COALESCE(published_at, ?),
		        updated_at = ?
		  WHERE id = ?
		  RETURNING id`,
		now, now, id,
	)
}

func (r *postsRepo) Delete(ctx context.Context, id int64) (models.Post, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return models.Post{}, mapError("posts: delete", err)
	}
	return p, checkAffected("posts: delete", res)
}

func (r *postsRepo) ListPublished(ctx context.Context, page repository.Page) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+`
		   FROM posts p`+postJoin+`
		  WHERE p.published = 1
		  ORDER BY p.published_at DESC, p.id ASC
		  LIMIT ? OFFSET ?`,
		page.Limit, page.Offset)
	return collectPosts("posts: list published", rows, err)
}

func (r *postsRepo) ListByAuthor(ctx context.Context, authorID int64, includeDrafts bool, page repository.Page) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+`
		   FROM posts p`+postJoin+`
		  WHERE p.user_id = ? AND (? OR p.published = 1)
		  ORDER BY p.created_at DESC, p.id DESC
		  LIMIT ? OFFSET ?`,
		authorID, includeDrafts, page.Limit, page.Offset)
	return collectPosts("posts: list by author", rows, err)
}

func (r *postsRepo) writeReturning(ctx context.Context, op, query string, args ...any) (models.Post, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return models.Post{}, mapError(op, err)
	}
	return r.GetByID(ctx, id)
}

func collectPosts(op string, rows *sql.Rows, err error) ([]models.Post, error) {
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
