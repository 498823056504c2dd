// Package repository provides the data access layer of the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"folio/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Users        UserRepository
	Posts        PostRepository
	Comments     CommentRepository
	Projects     ProjectRepository
	Tags         LabelRepository
	Technologies LabelRepository
}

func newRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Posts:        NewPostRepository(db),
		Comments:     NewCommentRepository(db),
		Projects:     NewProjectRepository(db),
		Tags:         NewLabelRepository(db, TagLabels),
		Technologies: NewLabelRepository(db, TechnologyLabels),
	}
}

// Transactor runs units of work against the store.
type Transactor interface {
	// Repos returns repositories outside any transaction.
	Repos() *Repositories
	// Transaction runs fn with repositories bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Store is the GORM-backed Transactor.
type Store struct {
	db    *gorm.DB
	repos *Repositories
}

// NewStore wraps db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, repos: newRepositories(db)}
}

// Repos returns repositories outside any transaction.
func (s *Store) Repos() *Repositories {
	return s.repos
}

// Transaction runs fn inside a database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

// DB exposes the underlying handle for health checks and tooling.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// storageError wraps a driver failure unless it already carries a domain code.
func storageError(op string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewStorageError(op, err)
}
