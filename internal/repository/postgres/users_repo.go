package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/blog-backend/internal/models"
	"github.com/baharkarakas/blog-backend/internal/repository"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userColumns = `id, username, password_hash, role, created_at, updated_at`

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return models.User{}, err
	}
	u.Role = models.Role(role)
	return u, nil
}

func (r *usersRepo) Create(ctx context.Context, username, hash string, role models.Role) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users(username, password_hash, role) VALUES($1,$2,$3)
		 RETURNING `+userColumns,
		username, hash, string(role),
	))
	return u, mapError("users: create", err)
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`, id,
	))
	return u, mapError("users: get", err)
}

func (r *usersRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=$1`, username,
	))
	return u, mapError("users: get by username", err)
}

func (r *usersRepo) List(ctx context.Context, page repository.Page) ([]models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+`
		   FROM users
		  ORDER BY id
		  LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset,
	)
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
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE user_id=$1`, id).Scan(&n)
	return n, mapError("users: count posts", err)
}

func (r *usersRepo) Update(ctx context.Context, id int64, ch repository.UserChanges) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		    SET username = COALESCE($2, username),
		        password_hash = COALESCE($3, password_hash),
		        updated_at = now()
		  WHERE id = $1
		  RETURNING `+userColumns,
		id, ch.Username, ch.PasswordHash,
	))
	return u, mapError("users: update", err)
}

func (r *usersRepo) SetRole(ctx context.Context, id int64, role models.Role) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET role=$2, updated_at=now() WHERE id=$1 RETURNING `+userColumns,
		id, string(role),
	))
	return u, mapError("users: set role", err)
}

func (r *usersRepo) Delete(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`DELETE FROM users WHERE id=$1 RETURNING `+userColumns, id,
	))
	return u, mapError("users: delete", err)
}
