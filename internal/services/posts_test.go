package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/blog-backend/internal/apperr"
	"github.com/baharkarakas/blog-backend/internal/models"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

func TestCreatePostStartsAsDraft(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")

	p := f.post(t, bob, "Hello")
	assert.False(t, p.Published)
	assert.Nil(t, p.PublishedAt)
	assert.NotNil(t, p.Comments)
	assert.Empty(t, p.Comments)
	assert.Equal(t, 0, p.TotalComments)
	assert.Equal(t, bob.ID, p.Author.ID)
	assert.Equal(t, "bob", p.Author.Username)

	_, err := f.posts.CreatePost(f.ctx, bob, validate.PostInput{Title: "  ", Body: "x"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	long, err := f.posts.CreatePost(f.ctx, bob, validate.PostInput{Title: strings.Repeat("t", 300), Body: "x"})
	require.NoError(t, err)
	assert.Len(t, long.Title, 300)
}

func TestPublishIsIdempotent(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	p := f.post(t, bob, "Hello")

	first, err := f.posts.PublishPost(f.ctx, bob, p.ID)
	require.NoError(t, err)
	require.True(t, first.Published)
	require.NotNil(t, first.PublishedAt)

	second, err := f.posts.PublishPost(f.ctx, bob, p.ID)
	require.NoError(t, err)
	assert.True(t, second.Published)
	assert.Equal(t, *first.PublishedAt, *second.PublishedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestContentIsAuthorOnly(t *testing.T) {
	f := newFixture(t, "root")
	bob := f.register(t, "bob")
	eve := f.register(t, "eve")
	root := f.register(t, "root")
	require.True(t, root.IsAdmin())

	p := f.post(t, bob, "Mine")
	callers := map[string]models.Principal{"other user": eve, "admin": root}
	for name, caller := range callers {
		t.Run(name, func(t *testing.T) {
			_, err := f.posts.UpdatePost(f.ctx, caller, p.ID, validate.UpdatePostInput{Title: ptr("x")})
			assert.True(t, apperr.Is(err, apperr.KindForbidden))
			_, err = f.posts.PublishPost(f.ctx, caller, p.ID)
			assert.True(t, apperr.Is(err, apperr.KindForbidden))
			_, err = f.posts.DeletePost(f.ctx, caller, p.ID)
			assert.True(t, apperr.Is(err, apperr.KindForbidden))
		})
	}

	got, err := f.posts.GetPost(f.ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
	assert.False(t, got.Published)
}

func TestUpdatePost(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	p := f.post(t, bob, "Old")

	t.Run("validation runs before lookup", func(t *testing.T) {
		_, err := f.posts.UpdatePost(f.ctx, bob, 999, validate.UpdatePostInput{Title: ptr(" ")})
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	})
	t.Run("missing post", func(t *testing.T) {
		_, err := f.posts.UpdatePost(f.ctx, bob, 999, validate.UpdatePostInput{Title: ptr("x")})
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		assert.EqualError(t, err, "Post not found")
	})
	t.Run("partial", func(t *testing.T) {
		got, err := f.posts.UpdatePost(f.ctx, bob, p.ID, validate.UpdatePostInput{Title: ptr(" New ")})
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
		assert.Equal(t, p.Body, got.Body)
		assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
		assert.Equal(t, p.CreatedAt, got.CreatedAt)
	})
}

func TestTotalCommentsIgnoresCommentLimit(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	p := f.publish(t, bob, "Busy")
	var ids []int64
	for _, body := range []string{"one", "two", "three"} {
		ids = append(ids, f.comment(t, bob, p.ID, body).ID)
	}

	for _, limit := range []int{0, 1, 2, 5, 500, -3} {
		got, err := f.posts.GetPost(f.ctx, p.ID, limit)
		require.NoError(t, err)
		assert.Equal(t, 3, got.TotalComments, "limit %d", limit)

		want := min(max(limit, 0), 3)
		require.Len(t, got.Comments, want, "limit %d", limit)
		for i, c := range got.Comments {
			assert.Equal(t, ids[len(ids)-1-i], c.ID, "newest first")
			assert.Equal(t, "bob", c.Author.Username)
		}
	}

	list, err := f.posts.ListPublished(f.ctx, repo.NewPage(10, 0), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Comments)
	assert.Equal(t, 3, list[0].TotalComments)
}

func TestListPublished(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	amy := f.register(t, "amy")

	older := f.publish(t, bob, "older")
	f.post(t, bob, "draft")
	newer := f.publish(t, amy, "newer")
	f.comment(t, bob, newer.ID, "hi")

	got, err := f.posts.ListPublished(f.ctx, repo.NewPage(10, 0), 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
	assert.Equal(t, "amy", got[0].Author.Username)
	assert.Len(t, got[0].Comments, 1)
	assert.Empty(t, got[1].Comments)

	t.Run("limit zero clamps to one", func(t *testing.T) {
		got, err := f.posts.ListPublished(f.ctx, repo.NewPage(0, 0), 5)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
	t.Run("offset past end", func(t *testing.T) {
		got, err := f.posts.ListPublished(f.ctx, repo.NewPage(10, 10), 5)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestListAuthorAndUserPosts(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	eve := f.register(t, "eve")

	first := f.publish(t, bob, "first")
	draft := f.post(t, bob, "draft")

	mine, err := f.posts.ListAuthor(f.ctx, bob, repo.NewPage(10, 0), 5)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, draft.ID, mine[0].ID, "created_at desc")
	assert.Equal(t, first.ID, mine[1].ID)

	asOwner, err := f.posts.ListUserPosts(f.ctx, &bob, bob.ID, repo.NewPage(10, 0), 5)
	require.NoError(t, err)
	assert.Len(t, asOwner, 2)

	asOther, err := f.posts.ListUserPosts(f.ctx, &eve, bob.ID, repo.NewPage(10, 0), 5)
	require.NoError(t, err)
	require.Len(t, asOther, 1)
	assert.Equal(t, first.ID, asOther[0].ID)

	anonymous, err := f.posts.ListUserPosts(f.ctx, nil, bob.ID, repo.NewPage(10, 0), 5)
	require.NoError(t, err)
	assert.Len(t, anonymous, 1)

	_, err = f.posts.ListUserPosts(f.ctx, nil, 999, repo.NewPage(10, 0), 5)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeletePostReturnsSnapshot(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	p := f.publish(t, bob, "bye")
	f.comment(t, bob, p.ID, "last words")

	deleted, err := f.posts.DeletePost(f.ctx, bob, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)
	assert.Equal(t, 1, deleted.TotalComments)
	assert.Len(t, deleted.Comments, 1)

	_, err = f.posts.GetPost(f.ctx, p.ID, 5)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.posts.DeletePost(f.ctx, bob, p.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
