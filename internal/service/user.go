package service

import (
	"context"
	"strings"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"
	"folio/internal/validation"
)

// UserService manages accounts and the public profile of the site owner.
type UserService struct {
	store         repository.Transactor
	verifier      *auth.CredentialVerifier
	adminUsername string
	log           *observability.ServiceLogger
}

// NewUserService creates a UserService. adminUsername names the account
// whose profile is published as the site owner.
func NewUserService(store repository.Transactor, verifier *auth.CredentialVerifier, adminUsername string) *UserService {
	return &UserService{
		store:         store,
		verifier:      verifier,
		adminUsername: adminUsername,
		log:           observability.NewServiceLogger("users"),
	}
}

// AdminProfile returns the public profile of the site owner.
func (s *UserService) AdminProfile(ctx context.Context) (*models.Author, error) {
	if s.adminUsername == "" {
		return nil, models.NewNotFoundError("User", "admin")
	}
	var profile models.Author
	err := cache.Aside(ctx, cache.AdminProfileKey, &profile, cache.AdminProfileTTL, func() error {
		user, err := s.store.Repos().Users.GetByUsername(ctx, s.adminUsername)
		if err != nil {
			return err
		}
		profile = *models.AuthorOf(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateAvatar sets the avatar URL of the calling account.
func (s *UserService) UpdateAvatar(ctx context.Context, actor auth.Identity, avatar string) (*models.User, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return nil, models.NewValidationError("avatar is required")
	}
	if len(avatar) > 2048 {
		return nil, models.NewValidationError("avatar must not exceed 2048 characters")
	}

	users := s.store.Repos().Users
	if err := users.UpdateAvatar(ctx, actor.SubjectID, avatar); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.AdminProfileKey)
	s.log.LogCall(ctx, "UpdateAvatar", map[string]any{"user_id": actor.SubjectID})
	return users.GetByID(ctx, actor.SubjectID)
}

// SetRole changes the role of username.
func (s *UserService) SetRole(ctx context.Context, username string, role models.Role) (*models.User, error) {
	users := s.store.Repos().Users
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := users.SetRole(ctx, user.ID, role); err != nil {
		return nil, err
	}
	user.Role = role
	s.log.LogCall(ctx, "SetRole", map[string]any{"user_id": user.ID, "role": role})
	return user, nil
}

// ListAdmins returns every account with the admin role.
func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.store.Repos().Users.ListByRole(ctx, models.RoleAdmin)
}

// SetPassword replaces the password of username after checking the policy.
func (s *UserService) SetPassword(ctx context.Context, username, plaintext string) error {
	if err := validation.ValidatePassword(plaintext); err != nil {
		return models.NewValidationError(err.Error())
	}
	users := s.store.Repos().Users
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := s.verifier.Hash(plaintext)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.log.LogCall(ctx, "SetPassword", map[string]any{"user_id": user.ID})
	return nil
}
