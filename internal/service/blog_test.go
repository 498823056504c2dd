package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogService_CreateThenRetagScenario(t *testing.T) {
	f := newFixture(t)
	svc := NewBlogService(f.store, nil)
	ctx := context.Background()
	admin := identityOf(f.admin)

	post, err := svc.CreatePost(ctx, admin, PostInput{Title: "A", Content: "body", Tags: []string{"x", "y"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, post.Tags)
	assert.Zero(t, post.Comments)
	assert.Equal(t, models.PostPublished, post.Status)
	require.NotNil(t, post.Author)
	assert.Equal(t, f.admin.ID, post.Author.ID)

	updated, err := svc.UpdatePost(ctx, admin, post.ID, PostInput{Title: "A", Content: "body", Tags: []string{"y", "z"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, updated.Tags)
	assert.Zero(t, updated.Comments)

	x, err := f.store.Repos().Tags.FindByName(ctx, "x")
	require.NoError(t, err)
	assert.NotNil(t, x, "x is still queryable")

	got, err := svc.GetPost(ctx, auth.Anonymous, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, got.Tags)
}

func TestBlogService_CreateStoresContentImagesInOrder(t *testing.T) {
	f := newFixture(t)
	svc := NewBlogService(f.store, nil)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, identityOf(f.admin), PostInput{
		Title:         "pics",
		Content:       "body",
		ContentImages: []string{"/files/2.png", "/files/1.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/files/2.png", "/files/1.png"}, post.ContentImages)
	assert.Equal(t, []string{}, post.Tags)

	updated, err := svc.UpdatePost(ctx, identityOf(f.admin), post.ID, PostInput{
		Title:         "pics",
		Content:       "body",
		ContentImages: []string{"/files/3.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/files/3.png"}, updated.ContentImages)
	assert.EqualValues(t, 1, countRows(t, f.db, "post_images", "post_id = ?", post.ID))
}

func TestBlogService_CreateRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	svc := NewBlogService(f.store, nil)
	in := PostInput{Title: "A", Content: "body"}

	_, err := svc.CreatePost(context.Background(), auth.Anonymous, in)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, err = svc.CreatePost(context.Background(), identityOf(f.reader), in)
	assert.True(t, models.IsCode(err, models.CodeForbidden))
}

func TestBlogService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewBlogService(f.store, nil)
	admin := identityOf(f.admin)

	tests := []struct {
		name string
		in   PostInput
	}{
		{"missing title", PostInput{Content: "body"}},
		{"missing content", PostInput{Title: "A"}},
		{"long title", PostInput{Title: strings.Repeat("t", 201), Content: "body"}},
		{"bad status", PostInput{Title: "A", Content: "body", Status: "archived"}},
		{"long tag", PostInput{Title: "A", Content: "body", Tags: []string{strings.Repeat("t", 65)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(context.Background(), admin, tt.in)
			assert.True(t, models.IsCode(err, models.CodeValidation), "got %v", err)
		})
	}
	assert.Zero(t, countRows(t, f.db, "posts", "1 = 1"))
}

func TestBlogService_FailedCreateRollsBack(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("disk on fire")
	faulty := &faultyTransactor{inner: f.store, wrap: func(tags repository.LabelRepository) repository.LabelRepository {
		return &labelRepoStub{
			LabelRepository: tags,
			associateFn: func(context.Context, uint, []uint) error {
				return models.NewStorageError("associate tag", boom)
			},
		}
	}}
	svc := NewBlogService(faulty, nil)

	_, err := svc.CreatePost(context.Background(), identityOf(f.admin), PostInput{
		Title:         "A",
		Content:       "body",
		Tags:          []string{"fresh"},
		ContentImages: []string{"/files/a.png"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	assert.Zero(t, countRows(t, f.db, "posts", "1 = 1"))
	assert.Zero(t, countRows(t, f.db, "tags", "1 = 1"), "label created inside the failed transaction is rolled back")
	assert.Zero(t, countRows(t, f.db, "post_images", "1 = 1"))
}

func TestBlogService_FailedUpdateKeepsPreviousTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post, err := NewBlogService(f.store, nil).CreatePost(ctx, identityOf(f.admin), PostInput{Title: "A", Content: "body", Tags: []string{"old"}})
	require.NoError(t, err)

	faulty := &faultyTransactor{inner: f.store, wrap: func(tags repository.LabelRepository) repository.LabelRepository {
		return &labelRepoStub{
			LabelRepository: tags,
			associateFn: func(context.Context, uint, []uint) error {
				return models.NewStorageError("associate tag", errors.New("boom"))
			},
		}
	}}
	_, err = NewBlogService(faulty, nil).UpdatePost(ctx, identityOf(f.admin), post.ID, PostInput{Title: "B", Content: "body", Tags: []string{"new"}})
	require.Error(t, err)

	got, err := NewBlogService(f.store, nil).GetPost(ctx, identityOf(f.admin), post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, []string{"old"}, got.Tags)
}

func TestBlogService_DeleteLeavesNoOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blog := NewBlogService(f.store, nil)
	comments := NewCommentService(f.store, nil)

	post, err := blog.CreatePost(ctx, identityOf(f.admin), PostInput{
		Title:         "A",
		Content:       "body",
		Tags:          []string{"x", "y"},
		ContentImages: []string{"/files/a.png"},
	})
	require.NoError(t, err)
	root, err := comments.AddComment(ctx, identityOf(f.reader), post.ID, CommentInput{Content: "first"})
	require.NoError(t, err)
	_, err = comments.AddComment(ctx, identityOf(f.admin), post.ID, CommentInput{Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)

	require.NoError(t, blog.DeletePost(ctx, identityOf(f.admin), post.ID))

	assert.Zero(t, countRows(t, f.db, "posts", "id = ?", post.ID))
	assert.Zero(t, countRows(t, f.db, "comments", "post_id = ?", post.ID))
	assert.Zero(t, countRows(t, f.db, "post_images", "post_id = ?", post.ID))
	assert.Zero(t, countRows(t, f.db, "post_tags", "post_id = ?", post.ID))
	assert.EqualValues(t, 2, countRows(t, f.db, "tags", "1 = 1"), "tags survive their posts")

	err = blog.DeletePost(ctx, identityOf(f.admin), post.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestBlogService_OwnershipChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBlogService(f.store, nil)

	post, err := svc.CreatePost(ctx, identityOf(f.admin), PostInput{Title: "A", Content: "body"})
	require.NoError(t, err)

	_, err = svc.UpdatePost(ctx, identityOf(f.reader), post.ID, PostInput{Title: "B", Content: "body"})
	assert.True(t, models.IsCode(err, models.CodeForbidden))
	assert.True(t, models.IsCode(svc.DeletePost(ctx, identityOf(f.reader), post.ID), models.CodeForbidden))
	_, err = svc.TogglePostStatus(ctx, auth.Anonymous, post.ID)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, err = svc.UpdatePost(ctx, identityOf(f.admin), 9999, PostInput{Title: "B", Content: "body"})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestBlogService_ToggleAndVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBlogService(f.store, nil)
	admin := identityOf(f.admin)

	post, err := svc.CreatePost(ctx, admin, PostInput{Title: "A", Content: "body", Tags: []string{"x"}})
	require.NoError(t, err)

	toggled, err := svc.TogglePostStatus(ctx, admin, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostHidden, toggled.Status)
	assert.Equal(t, []string{"x"}, toggled.Tags)

	_, err = svc.GetPost(ctx, auth.Anonymous, post.ID, true)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	_, err = svc.GetPost(ctx, identityOf(f.reader), post.ID, true)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	got, err := svc.GetPost(ctx, admin, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.PostHidden, got.Status)

	toggled, err = svc.TogglePostStatus(ctx, admin, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostPublished, toggled.Status)

	draft, err := svc.CreatePost(ctx, admin, PostInput{Title: "D", Content: "body", Status: models.PostDraft})
	require.NoError(t, err)
	toggled, err = svc.TogglePostStatus(ctx, admin, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostPublished, toggled.Status)
}

func TestBlogService_GetPostCountsViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBlogService(f.store, nil)

	post, err := svc.CreatePost(ctx, identityOf(f.admin), PostInput{Title: "A", Content: "body"})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		got, err := svc.GetPost(ctx, auth.Anonymous, post.ID, true)
		require.NoError(t, err)
		assert.EqualValues(t, i, got.Views)
	}
	got, err := svc.GetPost(ctx, auth.Anonymous, post.ID, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Views)
}

func TestBlogService_ListPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBlogService(f.store, nil)
	admin := identityOf(f.admin)

	for i := 0; i < 12; i++ {
		tags := []string{"all"}
		if i%3 == 0 {
			tags = append(tags, "third")
		}
		_, err := svc.CreatePost(ctx, admin, PostInput{Title: "p", Content: "body", Tags: tags})
		require.NoError(t, err)
	}
	_, err := svc.CreatePost(ctx, admin, PostInput{Title: "hidden", Content: "body", Status: models.PostHidden})
	require.NoError(t, err)

	page, err := svc.ListPosts(ctx, auth.Anonymous, ListPostsInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Total)
	assert.Len(t, page.List, DefaultPageSize)
	assert.Equal(t, 1, page.Page)
	assert.Contains(t, page.List[0].Tags, "all")

	page, err = svc.ListPosts(ctx, auth.Anonymous, ListPostsInput{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.List, 2)

	page, err = svc.ListPosts(ctx, auth.Anonymous, ListPostsInput{Tag: "third", Size: 500})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Equal(t, MaxPageSize, page.Size)

	_, err = svc.ListPosts(ctx, auth.Anonymous, ListPostsInput{Status: models.PostHidden})
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	_, err = svc.ListPosts(ctx, identityOf(f.reader), ListPostsInput{Status: models.PostHidden})
	assert.True(t, models.IsCode(err, models.CodeForbidden))
	_, err = svc.ListPosts(ctx, admin, ListPostsInput{Status: "bogus"})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	page, err = svc.ListPosts(ctx, admin, ListPostsInput{Status: models.PostHidden})
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "hidden", page.List[0].Title)

	page, err = svc.ListPosts(ctx, auth.Anonymous, ListPostsInput{Tag: "missing"})
	require.NoError(t, err)
	assert.NotNil(t, page.List)
	assert.Empty(t, page.List)
}
