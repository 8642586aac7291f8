package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/blog-backend/internal/auth"
	"github.com/baharkarakas/blog-backend/internal/db"
	"github.com/baharkarakas/blog-backend/internal/models"
	"github.com/baharkarakas/blog-backend/internal/repository/sqlite"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

const testPassword = "S3cure!pass"

type fixture struct {
	ctx      context.Context
	users    *UserService
	posts    *PostService
	comments *CommentService
}

// newFixture builds the services over a migrated in-memory SQLite store whose
// clock advances one second per write, so orderings are deterministic.
func newFixture(t *testing.T, admins ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn, db.DriverSQLite, log))

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	repos := sqlite.NewRepositories(conn, clock)

	tokens := auth.NewTokenManager("access-secret-0123", "refresh-secret-0123", "blog-test", time.Minute, time.Hour)
	isAdmin := func(u string) bool {
		for _, a := range admins {
			if a == u {
				return true
			}
		}
		return false
	}
	return &fixture{
		ctx:      ctx,
		users:    NewUserService(repos, tokens, auth.NewHasher(4), isAdmin, log),
		posts:    NewPostService(repos, log),
		comments: NewCommentService(repos, log),
	}
}

func (f *fixture) register(t *testing.T, username string) models.Principal {
	t.Helper()
	u, err := f.users.Register(f.ctx, validate.RegisterInput{
		Username:        username,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	return u.Principal()
}

func (f *fixture) post(t *testing.T, author models.Principal, title string) models.Post {
	t.Helper()
	p, err := f.posts.CreatePost(f.ctx, author, validate.PostInput{Title: title, Body: "body of " + title})
	require.NoError(t, err)
	return p
}

func (f *fixture) publish(t *testing.T, author models.Principal, title string) models.Post {
	t.Helper()
	p := f.post(t, author, title)
	p, err := f.posts.PublishPost(f.ctx, author, p.ID)
	require.NoError(t, err)
	return p
}

func (f *fixture) comment(t *testing.T, author models.Principal, postID int64, body string) models.Comment {
	t.Helper()
	c, err := f.comments.CreateComment(f.ctx, author, postID, validate.CommentInput{Body: body})
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T { return &v }
