package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baharkarakas/blog-backend/internal/repository"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

type scanner interface {
	Scan(dest ...any) error
}

// mapError translates pgx errors into repository sentinels, keeping the
// original error in the message.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%s: %w: %s", op, repository.ErrDuplicate, pgErr.ConstraintName)
		case foreignKeyViolationCode:
			// the referenced parent row vanished between resolve and write
			return fmt.Errorf("%s: %w: %s", op, repository.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
