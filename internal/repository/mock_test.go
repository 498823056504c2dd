package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"folio/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func TestLabelRepository_CreateIfAbsent_UsesOnConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLabelRepository(db, TagLabels)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "tags"`) + `.*` + regexp.QuoteMeta(`ON CONFLICT ("name") DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "tags" WHERE name = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(7, "go", nil))

	label, created, err := repo.CreateIfAbsent(ctx, "go")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(7), label.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLabelRepository_CreateIfAbsent_ExistingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLabelRepository(db, TechnologyLabels)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "technologies"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "technologies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow(3, "Go", nil))

	label, created, err := repo.CreateIfAbsent(ctx, "Go")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Go", label.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLabelRepository_CreateIfAbsent_UniqueViolationIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLabelRepository(db, TagLabels)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "tags"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"idx_tags_name\""})
	mock.ExpectRollback()

	_, _, err := repo.CreateIfAbsent(context.Background(), "go")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLabelRepository_CreateIfAbsent_InvisibleRowIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLabelRepository(db, TagLabels)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "tags"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

	_, _, err := repo.CreateIfAbsent(context.Background(), "go")
	assert.True(t, models.IsCode(err, models.CodeConflict))
}

func TestLabelRepository_ClearAssociations(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLabelRepository(db, TagLabels)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM post_tags WHERE post_id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.ClearAssociations(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLabelRepository_StorageFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLabelRepository(db, TagLabels)

	mock.ExpectQuery(`SELECT .* FROM "tags"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByName(context.Background(), "go")
	assert.True(t, models.IsCode(err, models.CodeStorage))
}

func TestPostRepository_SetCommentCount_WritesAbsoluteValue(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "comments"=$1 WHERE id = $2`)).
		WithArgs(int64(4), 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SetCommentCount(context.Background(), 9, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_SetCommentCount_MissingPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "comments"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.SetCommentCount(context.Background(), 9, 0)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Username: "admin", Password: "x"})
	assert.True(t, models.IsCode(err, models.CodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"pg fk", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite text", errors.New("UNIQUE constraint failed: tags.name"), true},
		{"other", errors.New("timeout"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueConstraintError(tt.err))
		})
	}
}
