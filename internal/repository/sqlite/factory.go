// Package sqlite stores users, posts and comments in an embedded SQLite
// database. Timestamps are stored as unix nanoseconds so that ordering by
// them is exact.
package sqlite

import (
	"database/sql"
	"time"

	repo "github.com/baharkarakas/blog-backend/internal/repository"
)

// Clock supplies the timestamps written by the store.
type Clock func() time.Time

type store struct {
	db  *sql.DB
	now Clock
}

func (s store) stamp() int64 { return s.now().UTC().UnixNano() }

// NewRepositories builds the SQLite repositories. A nil clock means time.Now.
func NewRepositories(db *sql.DB, now Clock) repo.Repositories {
	if now == nil {
		now = time.Now
	}
	s := store{db: db, now: now}
	return repo.Repositories{
		Users:    &usersRepo{s},
		Posts:    &postsRepo{s},
		Comments: &commentsRepo{s},
	}
}

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func nullableTime(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}
