package service

import (
	"context"
	"testing"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	store  *repository.Store
	admin  *models.User
	reader *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &fixture{
		db:     db,
		store:  repository.NewStore(db),
		admin:  testutil.CreateAdmin(t, db),
		reader: testutil.CreateUser(t, db),
	}
}

func identityOf(u *models.User) auth.Identity {
	return auth.Identity{SubjectID: u.ID, Role: u.Role, DisplayName: u.DisplayName()}
}

func withMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func countRows(t *testing.T, db *gorm.DB, table, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Where(where, args...).Count(&n).Error)
	return n
}

// faultyTransactor hands out repositories whose tag repository can be made
// to fail, to observe rollbacks.
type faultyTransactor struct {
	inner *repository.Store
	wrap  func(repository.LabelRepository) repository.LabelRepository
}

func (f *faultyTransactor) Repos() *repository.Repositories {
	return f.inner.Repos()
}

func (f *faultyTransactor) Transaction(ctx context.Context, fn func(*repository.Repositories) error) error {
	return f.inner.Transaction(ctx, func(repos *repository.Repositories) error {
		wrapped := *repos
		wrapped.Tags = f.wrap(repos.Tags)
		return fn(&wrapped)
	})
}

// labelRepoStub overrides selected LabelRepository methods.
type labelRepoStub struct {
	repository.LabelRepository
	findByNameFn     func(context.Context, string) (*models.Label, error)
	createIfAbsentFn func(context.Context, string) (*models.Label, bool, error)
	associateFn      func(context.Context, uint, []uint) error
	clearCalls       int
}

func (s *labelRepoStub) FindByName(ctx context.Context, name string) (*models.Label, error) {
	if s.findByNameFn != nil {
		return s.findByNameFn(ctx, name)
	}
	return s.LabelRepository.FindByName(ctx, name)
}

func (s *labelRepoStub) CreateIfAbsent(ctx context.Context, name string) (*models.Label, bool, error) {
	if s.createIfAbsentFn != nil {
		return s.createIfAbsentFn(ctx, name)
	}
	return s.LabelRepository.CreateIfAbsent(ctx, name)
}

func (s *labelRepoStub) ClearAssociations(ctx context.Context, ownerID uint) error {
	s.clearCalls++
	return s.LabelRepository.ClearAssociations(ctx, ownerID)
}

func (s *labelRepoStub) Associate(ctx context.Context, ownerID uint, ids []uint) error {
	if s.associateFn != nil {
		return s.associateFn(ctx, ownerID, ids)
	}
	return s.LabelRepository.Associate(ctx, ownerID, ids)
}

func createUser(t *testing.T, f *fixture) *models.User {
	t.Helper()
	return testutil.CreateUser(t, f.db)
}
