package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/baharkarakas/blog-backend/internal/repository"
)

type scanner interface {
	Scan(dest ...any) error
}

func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := se.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return fmt.Errorf("%s: %w: %s", op, repository.ErrDuplicate, msg)
		case strings.Contains(msg, "FOREIGN KEY"):
			return fmt.Errorf("%s: %w: %s", op, repository.ErrNotFound, msg)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func checkAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}
