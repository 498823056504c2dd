package service

import (
	"context"
	"testing"

	"folio/internal/models"
	"folio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabels(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims and drops empty", []string{" go ", "", "  ", "fiber"}, []string{"go", "fiber"}},
		{"keeps first duplicate", []string{"b", "a", "b", " a"}, []string{"b", "a"}},
		{"case sensitive", []string{"Go", "go"}, []string{"Go", "go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLabels(tt.in))
		})
	}
}

func reconcileInTx(t *testing.T, f *fixture, ownerID uint, names ...string) []string {
	t.Helper()
	var out []string
	err := f.store.Transaction(context.Background(), func(repos *repository.Repositories) error {
		var err error
		out, err = NewLabelSynchronizer().Reconcile(context.Background(), repos.Tags, ownerID, names)
		return err
	})
	require.NoError(t, err)
	return out
}

func newPostRow(t *testing.T, f *fixture) *models.Post {
	t.Helper()
	post := &models.Post{UserID: f.admin.ID, Title: "t", Content: "c", Status: models.PostPublished}
	require.NoError(t, f.store.Repos().Posts.Create(context.Background(), post))
	return post
}

func TestReconcile_ReplacesSetAndReusesLabels(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tags := f.store.Repos().Tags
	post := newPostRow(t, f)

	assert.Equal(t, []string{"a", "b"}, reconcileInTx(t, f, post.ID, "a", "b"))
	b, err := tags.FindByName(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c"}, reconcileInTx(t, f, post.ID, "b", "c"))

	names, err := tags.NamesFor(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, names)

	bAgain, err := tags.FindByName(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, b.ID, bAgain.ID, "existing label is reused")

	a, err := tags.FindByName(ctx, "a")
	require.NoError(t, err)
	assert.NotNil(t, a, "detached label stays in the label table")
	assert.EqualValues(t, 3, countRows(t, f.db, "tags", "1 = 1"))
}

func TestReconcile_EmptyListDetachesEverything(t *testing.T) {
	f := newFixture(t)
	post := newPostRow(t, f)

	reconcileInTx(t, f, post.ID, "x", "y")
	assert.Equal(t, []string{}, reconcileInTx(t, f, post.ID))

	assert.Zero(t, countRows(t, f.db, "post_tags", "post_id = ?", post.ID))
	assert.EqualValues(t, 2, countRows(t, f.db, "tags", "name IN ?", []string{"x", "y"}))
}

func TestReconcile_PreservesInputOrder(t *testing.T) {
	f := newFixture(t)
	post := newPostRow(t, f)

	reconcileInTx(t, f, post.ID, "zulu", "alpha", "mike")
	names, err := f.store.Repos().Tags.NamesFor(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"zulu", "alpha", "mike"}, names)
}

func TestReconcile_ConflictAbortsBeforeTouchingAssociations(t *testing.T) {
	f := newFixture(t)
	post := newPostRow(t, f)
	reconcileInTx(t, f, post.ID, "keep")

	var stub *labelRepoStub
	err := f.store.Transaction(context.Background(), func(repos *repository.Repositories) error {
		stub = &labelRepoStub{
			LabelRepository: repos.Tags,
			createIfAbsentFn: func(context.Context, string) (*models.Label, bool, error) {
				return nil, false, models.NewConflictError("tag \"new\" is being created concurrently", nil)
			},
		}
		_, err := NewLabelSynchronizer().Reconcile(context.Background(), stub, post.ID, []string{"keep", "new"})
		return err
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
	assert.Zero(t, stub.clearCalls)

	names, err := f.store.Repos().Tags.NamesFor(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, names)
}

func TestReconcile_TechnologiesUseTheirOwnTables(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := &models.Project{UserID: f.admin.ID, Title: "p"}
	require.NoError(t, f.store.Repos().Projects.Create(ctx, project))

	err := f.store.Transaction(ctx, func(repos *repository.Repositories) error {
		_, err := NewLabelSynchronizer().Reconcile(ctx, repos.Technologies, project.ID, []string{"Go", "Redis"})
		return err
	})
	require.NoError(t, err)

	assert.EqualValues(t, 2, countRows(t, f.db, "project_technologies", "project_id = ?", project.ID))
	assert.Zero(t, countRows(t, f.db, "tags", "1 = 1"))
}
