// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"folio/internal/database"
	"folio/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection because every SQLite connection to
// :memory: sees its own empty database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db), "migrate sqlite")
	return db
}

var userSeq atomic.Uint64

// UserOption customizes a fixture user.
type UserOption func(*models.User)

// WithRole sets the fixture user's role.
func WithRole(role models.Role) UserOption {
	return func(u *models.User) { u.Role = role }
}

// WithPassword stores a bcrypt hash of plaintext at the minimum cost.
func WithPassword(plaintext string) UserOption {
	return func(u *models.User) {
		hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		u.Password = string(hash)
	}
}

// WithUsername overrides the generated username.
func WithUsername(name string) UserOption {
	return func(u *models.User) { u.Username = name }
}

// CreateUser inserts a user with a unique username.
func CreateUser(t testing.TB, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()
	n := userSeq.Add(1)
	u := &models.User{
		Username: fmt.Sprintf("user%d", n),
		Password: "x",
		Nickname: fmt.Sprintf("User %d", n),
		Role:     models.RoleUser,
		Status:   models.UserStatusActive,
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateAdmin inserts an admin user.
func CreateAdmin(t testing.TB, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()
	return CreateUser(t, db, append([]UserOption{WithRole(models.RoleAdmin)}, opts...)...)
}
