package service

import (
	"context"
	"testing"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewProjectService(f.store, nil)
	admin := identityOf(f.admin)

	project, err := svc.CreateProject(ctx, admin, ProjectInput{
		Title:     "folio",
		Link:      "https://example.com/folio",
		TechStack: []string{"Go", "Postgres", "Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Postgres"}, project.TechStack)

	updated, err := svc.UpdateProject(ctx, admin, project.ID, ProjectInput{
		Title:     "folio v2",
		TechStack: []string{"Redis", "Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "folio v2", updated.Title)
	assert.Equal(t, []string{"Redis", "Go"}, updated.TechStack)

	require.NoError(t, svc.DeleteProject(ctx, admin, project.ID))
	assert.Zero(t, countRows(t, f.db, "project_technologies", "project_id = ?", project.ID))
	assert.EqualValues(t, 3, countRows(t, f.db, "technologies", "1 = 1"))

	_, err = svc.GetProject(ctx, project.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestProjectService_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewProjectService(f.store, nil)

	_, err := svc.CreateProject(ctx, identityOf(f.reader), ProjectInput{Title: "x"})
	assert.True(t, models.IsCode(err, models.CodeForbidden))

	project, err := svc.CreateProject(ctx, identityOf(f.admin), ProjectInput{Title: "x"})
	require.NoError(t, err)

	_, err = svc.UpdateProject(ctx, identityOf(f.reader), project.ID, ProjectInput{Title: "y"})
	assert.True(t, models.IsCode(err, models.CodeForbidden))
	assert.True(t, models.IsCode(svc.DeleteProject(ctx, auth.Anonymous, project.ID), models.CodeUnauthorized))

	_, err = svc.CreateProject(ctx, identityOf(f.admin), ProjectInput{Title: "bad", Link: "not a url"})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestProjectService_ListOrderAndCache(t *testing.T) {
	mr := withMiniRedis(t)
	f := newFixture(t)
	ctx := context.Background()
	svc := NewProjectService(f.store, nil)
	admin := identityOf(f.admin)

	second, err := svc.CreateProject(ctx, admin, ProjectInput{Title: "second", SortOrder: 2, TechStack: []string{"Go"}})
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, admin, ProjectInput{Title: "first", SortOrder: 1})
	require.NoError(t, err)

	list, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, []string{}, list[0].TechStack)
	assert.Equal(t, []string{"Go"}, list[1].TechStack)
	assert.True(t, mr.Exists(cache.ProjectListKey))

	got, err := svc.GetProject(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Title)
	assert.True(t, mr.Exists(cache.ProjectKey(second.ID)))

	_, err = svc.UpdateProject(ctx, admin, second.ID, ProjectInput{Title: "renamed", SortOrder: 0})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.ProjectListKey), "writes invalidate the listing")
	assert.False(t, mr.Exists(cache.ProjectKey(second.ID)))

	list, err = svc.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "renamed", list[0].Title)
}

func TestTagService_ListsUsageNewestFirst(t *testing.T) {
	mr := withMiniRedis(t)
	f := newFixture(t)
	ctx := context.Background()
	blog := NewBlogService(f.store, nil)
	tags := NewTagService(f.store)

	_, err := blog.CreatePost(ctx, identityOf(f.admin), PostInput{Title: "a", Content: "b", Tags: []string{"old", "shared"}})
	require.NoError(t, err)

	usage, err := tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.True(t, mr.Exists(cache.LabelUsageKey("tags")))

	_, err = blog.CreatePost(ctx, identityOf(f.admin), PostInput{Title: "c", Content: "d", Tags: []string{"shared", "new"}})
	require.NoError(t, err)

	usage, err = tags.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 3)
	assert.Equal(t, "new", usage[0].Name)
	counts := map[string]int64{}
	for _, u := range usage {
		counts[u.Name] = u.Usage
	}
	assert.Equal(t, map[string]int64{"old": 1, "shared": 2, "new": 1}, counts)

	techs, err := tags.ListTechnologies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.LabelUsage{}, techs)
}
