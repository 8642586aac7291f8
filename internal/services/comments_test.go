package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/blog-backend/internal/apperr"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

func TestListPostCommentsNewestFirst(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	p := f.publish(t, bob, "post")
	f.comment(t, bob, p.ID, "c1")
	c2 := f.comment(t, bob, p.ID, "c2")
	c3 := f.comment(t, bob, p.ID, "c3")

	got, err := f.comments.ListPostComments(f.ctx, p.ID, repo.NewPage(2, 0))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, c3.ID, got[0].ID)
	assert.Equal(t, c2.ID, got[1].ID)

	_, err = f.comments.ListPostComments(f.ctx, 999, repo.NewPage(2, 0))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateComment(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	p := f.post(t, bob, "post")

	c := f.comment(t, bob, p.ID, "  trimmed  ")
	assert.Equal(t, "trimmed", c.Body)
	assert.Equal(t, p.ID, c.PostID)
	assert.Equal(t, bob.ID, c.Author.ID)

	_, err := f.comments.CreateComment(f.ctx, bob, p.ID, validate.CommentInput{Body: ""})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	_, err = f.comments.CreateComment(f.ctx, bob, 999, validate.CommentInput{Body: "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.EqualError(t, err, "Post not found")
}

func TestCommentMustBelongToPost(t *testing.T) {
	f := newFixture(t)
	bob := f.register(t, "bob")
	a := f.publish(t, bob, "a")
	b := f.publish(t, bob, "b")
	c := f.comment(t, bob, a.ID, "on a")

	_, err := f.comments.GetComment(f.ctx, NestedComment(b.ID, c.ID))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.EqualError(t, err, "Comment not found")

	_, err = f.comments.UpdateComment(f.ctx, bob, NestedComment(b.ID, c.ID), validate.CommentInput{Body: "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.comments.DeleteComment(f.ctx, bob, NestedComment(b.ID, c.ID))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.comments.GetComment(f.ctx, NestedComment(999, c.ID))
	assert.EqualError(t, err, "Post not found")

	got, err := f.comments.GetComment(f.ctx, NestedComment(a.ID, c.ID))
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	got, err = f.comments.GetComment(f.ctx, FlatComment(c.ID))
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestCommentMutationsAreAuthorOnly(t *testing.T) {
	f := newFixture(t, "root")
	bob := f.register(t, "bob")
	eve := f.register(t, "eve")
	root := f.register(t, "root")
	p := f.publish(t, bob, "post")
	c := f.comment(t, eve, p.ID, "eve was here")

	// the post author does not own comments on the post
	_, err := f.comments.UpdateComment(f.ctx, bob, FlatComment(c.ID), validate.CommentInput{Body: "edited"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = f.comments.DeleteComment(f.ctx, root, FlatComment(c.ID))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	updated, err := f.comments.UpdateComment(f.ctx, eve, NestedComment(p.ID, c.ID), validate.CommentInput{Body: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))

	deleted, err := f.comments.DeleteComment(f.ctx, eve, FlatComment(c.ID))
	require.NoError(t, err)
	assert.Equal(t, "edited", deleted.Body)

	_, err = f.comments.GetComment(f.ctx, FlatComment(c.ID))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
