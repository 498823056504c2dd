// Package bootstrap wires the process-wide runtime: database, cache and the
// bootstrap admin account.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to DB and Redis and ensures the bootstrap admin.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	r := cache.InitRedis(cfg.RedisURL)

	if err := EnsureAdmin(ctx, cfg, repository.NewStore(db)); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	return db, r, nil
}

// EnsureAdmin makes sure ADMIN_USERNAME exists, has the admin role and
// accepts ADMIN_PASSWORD. It does nothing unless ADMIN_BOOTSTRAP is set.
func EnsureAdmin(ctx context.Context, cfg *config.Config, store repository.Transactor) error {
	if cfg == nil || !cfg.AdminBootstrap {
		return nil
	}
	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" {
		return errors.New("ADMIN_USERNAME must be set when ADMIN_BOOTSTRAP is enabled")
	}
	if cfg.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD must be set when ADMIN_BOOTSTRAP is enabled")
	}
	verifier := auth.NewCredentialVerifier(cfg.BcryptCost)

	return store.Transaction(ctx, func(repos *repository.Repositories) error {
		user, err := repos.Users.GetByUsername(ctx, username)
		switch {
		case models.IsCode(err, models.CodeNotFound):
			hash, err := verifier.Hash(cfg.AdminPassword)
			if err != nil {
				return err
			}
			admin := &models.User{
				Username: username,
				Password: hash,
				Nickname: cfg.AdminNickname,
				Role:     models.RoleAdmin,
				Status:   models.UserStatusActive,
			}
			if err := repos.Users.Create(ctx, admin); err != nil {
				return err
			}
			middleware.Logger.InfoContext(ctx, "bootstrap admin created", slog.String("username", username))
			return nil
		case err != nil:
			return err
		}

		if user.Role != models.RoleAdmin {
			if err := repos.Users.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
				return err
			}
		}
		// A corrupt hash is replaced as well.
		if ok, _ := verifier.Verify(cfg.AdminPassword, user.Password); !ok {
			hash, err := verifier.Hash(cfg.AdminPassword)
			if err != nil {
				return err
			}
			if err := repos.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
				return err
			}
		}
		middleware.Logger.InfoContext(ctx, "bootstrap admin ensured", slog.String("username", username))
		return nil
	})
}
