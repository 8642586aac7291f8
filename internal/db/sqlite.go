package db

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens an embedded database with foreign keys enforced. The pool
// is pinned to one connection so that ":memory:" databases are shared by
// every query.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	if !strings.Contains(dsn, "foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
