package service

import (
	"context"
	"strings"
	"testing"

	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPublishedPost(t *testing.T, f *fixture) *models.Post {
	t.Helper()
	post, err := NewBlogService(f.store, nil).CreatePost(context.Background(), identityOf(f.admin), PostInput{Title: "A", Content: "body"})
	require.NoError(t, err)
	return post
}

func commentCount(t *testing.T, f *fixture, postID uint) int64 {
	t.Helper()
	post, err := f.store.Repos().Posts.GetByID(context.Background(), postID)
	require.NoError(t, err)
	return post.Comments
}

func TestCommentService_CounterTracksAddsAndRemoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCommentService(f.store, nil)
	post := createPublishedPost(t, f)

	var ids []uint
	for i := 0; i < 3; i++ {
		c, err := svc.AddComment(ctx, identityOf(f.reader), post.ID, CommentInput{Content: "hello"})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	assert.EqualValues(t, 3, commentCount(t, f, post.ID))

	require.NoError(t, svc.RemoveComment(ctx, identityOf(f.reader), post.ID, ids[1]))
	assert.EqualValues(t, 2, commentCount(t, f, post.ID))

	counter := NewCommentCounter()
	for i := 0; i < 3; i++ {
		n, err := counter.Refresh(ctx, f.store.Repos(), post.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	}
	assert.EqualValues(t, 2, commentCount(t, f, post.ID))
}

func TestCommentCounter_RepairsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := createPublishedPost(t, f)
	_, err := NewCommentService(f.store, nil).AddComment(ctx, identityOf(f.reader), post.ID, CommentInput{Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, f.store.Repos().Posts.SetCommentCount(ctx, post.ID, 42))
	n, err := NewCommentCounter().Refresh(ctx, f.store.Repos(), post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.EqualValues(t, 1, commentCount(t, f, post.ID))
}

func TestCommentService_AddComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCommentService(f.store, nil)
	post := createPublishedPost(t, f)

	c, err := svc.AddComment(ctx, identityOf(f.reader), post.ID, CommentInput{Content: "first"})
	require.NoError(t, err)
	require.NotNil(t, c.Author)
	assert.Equal(t, f.reader.Username, c.Author.Username)

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.AddComment(ctx, auth.Anonymous, post.ID, CommentInput{Content: "x"})
		assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	})
	t.Run("empty content", func(t *testing.T) {
		_, err := svc.AddComment(ctx, identityOf(f.reader), post.ID, CommentInput{})
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})
	t.Run("content too long", func(t *testing.T) {
		_, err := svc.AddComment(ctx, identityOf(f.reader), post.ID, CommentInput{Content: strings.Repeat("x", 2001)})
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})
	t.Run("missing post", func(t *testing.T) {
		_, err := svc.AddComment(ctx, identityOf(f.reader), 9999, CommentInput{Content: "x"})
		assert.True(t, models.IsCode(err, models.CodeNotFound))
	})
	t.Run("missing parent", func(t *testing.T) {
		missing := uint(9999)
		_, err := svc.AddComment(ctx, identityOf(f.reader), post.ID, CommentInput{Content: "x", ParentID: &missing})
		assert.True(t, models.IsCode(err, models.CodeValidation))
	})
	t.Run("parent on another post", func(t *testing.T) {
		other := createPublishedPost(t, f)
		_, err := svc.AddComment(ctx, identityOf(f.reader), other.ID, CommentInput{Content: "x", ParentID: &c.ID})
		assert.True(t, models.IsCode(err, models.CodeValidation))
		assert.Zero(t, commentCount(t, f, other.ID))
	})
	t.Run("hidden post", func(t *testing.T) {
		hidden, err := NewBlogService(f.store, nil).CreatePost(ctx, identityOf(f.admin), PostInput{Title: "H", Content: "b", Status: models.PostHidden})
		require.NoError(t, err)
		_, err = svc.AddComment(ctx, identityOf(f.reader), hidden.ID, CommentInput{Content: "x"})
		assert.True(t, models.IsCode(err, models.CodeNotFound))
	})

	assert.EqualValues(t, 1, commentCount(t, f, post.ID))
}

func TestCommentService_RemoveComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewCommentService(f.store, nil)
	post := createPublishedPost(t, f)
	reader := identityOf(f.reader)

	root, err := svc.AddComment(ctx, reader, post.ID, CommentInput{Content: "root"})
	require.NoError(t, err)
	reply, err := svc.AddComment(ctx, identityOf(f.admin), post.ID, CommentInput{Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)
	nested, err := svc.AddComment(ctx, reader, post.ID, CommentInput{Content: "nested", ParentID: &reply.ID})
	require.NoError(t, err)

	t.Run("other users cannot remove", func(t *testing.T) {
		stranger := identityOf(createUser(t, f))
		err := svc.RemoveComment(ctx, stranger, post.ID, root.ID)
		assert.True(t, models.IsCode(err, models.CodeForbidden))
	})
	t.Run("wrong post", func(t *testing.T) {
		err := svc.RemoveComment(ctx, reader, post.ID+1000, root.ID)
		assert.True(t, models.IsCode(err, models.CodeNotFound))
	})

	require.NoError(t, svc.RemoveComment(ctx, identityOf(f.admin), post.ID, reply.ID))

	list, err := svc.ListComments(ctx, auth.Anonymous, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, nested.ID, list[1].ID)
	require.NotNil(t, list[1].ParentID)
	assert.Equal(t, root.ID, *list[1].ParentID, "replies move up to the removed comment's parent")
	assert.EqualValues(t, 2, commentCount(t, f, post.ID))

	require.NoError(t, svc.RemoveComment(ctx, reader, post.ID, root.ID))
	list, err = svc.ListComments(ctx, auth.Anonymous, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].ParentID)
	assert.EqualValues(t, 1, commentCount(t, f, post.ID))
}

func TestCommentService_ListCommentsRespectsVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post, err := NewBlogService(f.store, nil).CreatePost(ctx, identityOf(f.admin), PostInput{Title: "D", Content: "b", Status: models.PostDraft})
	require.NoError(t, err)

	svc := NewCommentService(f.store, nil)
	_, err = svc.ListComments(ctx, auth.Anonymous, post.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	list, err := svc.ListComments(ctx, identityOf(f.admin), post.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Comment{}, list)
}

func TestCommentService_RefreshRunsInsideTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := createPublishedPost(t, f)

	err := f.store.Transaction(ctx, func(repos *repository.Repositories) error {
		require.NoError(t, repos.Comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: f.reader.ID, Content: "x"}))
		n, err := NewCommentCounter().Refresh(ctx, repos, post.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		return models.NewValidationError("abort")
	})
	require.Error(t, err)
	assert.Zero(t, commentCount(t, f, post.ID))
}
