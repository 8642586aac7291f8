package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/baharkarakas/blog-backend/internal/repository"
)

func NewRepositories(pool *pgxpool.Pool) repo.Repositories {
	return repo.Repositories{
		Users:    &usersRepo{pool},
		Posts:    &postsRepo{pool},
		Comments: &commentsRepo{pool},
	}
}
