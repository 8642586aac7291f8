package sqlite

import (
	"context"

	"github.com/baharkarakas/blog-backend/internal/models"
	"github.com/baharkarakas/blog-backend/internal/repository"
)

type usersRepo struct{ store }

const userColumns = `id, username, password_hash, role, created_at, updated_at`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var role string
	var created, updated int64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &created, &updated); err != nil {
		return models.User{}, err
	}
	u.Role = models.Role(role)
	u.CreatedAt, u.UpdatedAt = fromNanos(created), fromNanos(updated)
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, username, hash string, role models.Role) (models.User, error) {
	now := r.stamp()
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+userColumns,
		username, hash, string(role), now, now,
	))
	return u, mapError("users: create", err)
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	return u, mapError("users: get", err)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	return u, mapError("users: get by username", err)
}

func (r *usersRepo) List(ctx context.Context, page repository.Page) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, mapError("users: list", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError("users: list", err)
		}
		out = append(out, u)
	}
	return out, mapError("users: list", rows.Err())
}

func (r *usersRepo) CountPosts(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = ?`, id).Scan(&n)
	return n, mapError("users: count posts", err)
}

func (r *usersRepo) Update(ctx context.Context, id int64, ch repository.UserChanges) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`UPDATE users
		    SET username = COALESCE(?, username),
		        password_hash = COALESCE(?, password_hash),
		        updated_at = ?
		  WHERE id = ?
		  RETURNING `+userColumns,
		ch.Username, ch.PasswordHash, r.stamp(), id,
	))
	return u, mapError("users: update", err)
}

func (r *usersRepo) SetRole(ctx context.Context, id int64, role models.Role) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ? RETURNING `+userColumns,
		string(role), r.stamp(), id,
	))
	return u, mapError("users: set role", err)
}

func (r *usersRepo) Delete(ctx context.Context, id int64) (models.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return models.User{}, mapError("users: delete", err)
	}
	return u, checkAffected("users: delete", res)
}
