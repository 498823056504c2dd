package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"
	"folio/internal/validation"

	"github.com/google/uuid"
)

// Login failure messages.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgUnknownUser        = "User not found"
	msgWrongPassword      = "Incorrect password"
	msgAccountDisabled    = "Account disabled"
)

// LoginInput carries login credentials.
type LoginInput struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

// RegisterInput creates a commenter account.
type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Nickname string `json:"nickname" validate:"max=64"`
}

// Session is a signed token and the profile it was issued for.
type Session struct {
	Token       string      `json:"token"`
	UserID      uint        `json:"user_id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Avatar      string      `json:"avatar"`
	Role        models.Role `json:"role"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// AuthOptions configures AuthService.
type AuthOptions struct {
	// DistinctErrors tells unknown users and wrong passwords apart in the
	// message returned to the client.
	DistinctErrors bool
	// QuickLogin enables password-less login as AdminUsername.
	QuickLogin    bool
	AdminUsername string
}

// AuthService authenticates users and issues tokens.
type AuthService struct {
	store    repository.Transactor
	codec    *auth.TokenCodec
	verifier *auth.CredentialVerifier
	opts     AuthOptions
	log      *observability.ServiceLogger
	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewAuthService creates an AuthService.
func NewAuthService(store repository.Transactor, codec *auth.TokenCodec, verifier *auth.CredentialVerifier, opts AuthOptions) *AuthService {
	dummy, err := verifier.Hash(uuid.NewString())
	if err != nil {
		panic(fmt.Sprintf("auth: build comparison hash: %v", err))
	}
	return &AuthService{
		store:     store,
		codec:     codec,
		verifier:  verifier,
		opts:      opts,
		log:       observability.NewServiceLogger("auth"),
		dummyHash: dummy,
	}
}

func (s *AuthService) loginFailure(ctx context.Context, result, distinctMsg, username string) error {
	observability.LoginAttempts.WithLabelValues(result).Inc()
	s.log.LogFailure(ctx, "Login", errors.New(result), map[string]any{"username": username})
	if s.opts.DistinctErrors {
		return models.NewUnauthorizedError(distinctMsg)
	}
	return models.NewUnauthorizedError(msgInvalidCredentials)
}

// Login checks username and password and returns a new session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)

	user, err := s.store.Repos().Users.GetByUsername(ctx, username)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			_, _ = s.verifier.Verify(in.Password, s.dummyHash)
			return nil, s.loginFailure(ctx, "unknown_user", msgUnknownUser, username)
		}
		return nil, err
	}

	ok, err := s.verifier.Verify(in.Password, user.Password)
	if err != nil {
		observability.LoginAttempts.WithLabelValues("corrupt_hash").Inc()
		s.log.LogFailure(ctx, "Login", err, map[string]any{"user_id": user.ID})
		return nil, models.NewInternalError(err)
	}
	if !ok {
		return nil, s.loginFailure(ctx, "wrong_password", msgWrongPassword, username)
	}
	if !user.Active() {
		return nil, s.loginFailure(ctx, "disabled", msgAccountDisabled, username)
	}

	observability.LoginAttempts.WithLabelValues("success").Inc()
	return s.issue(ctx, user)
}

// QuickLogin signs in as the bootstrap admin without a password. It only
// works when enabled for development.
func (s *AuthService) QuickLogin(ctx context.Context) (*Session, error) {
	if !s.opts.QuickLogin || s.opts.AdminUsername == "" {
		return nil, models.NewForbiddenError("Quick login is disabled")
	}
	user, err := s.store.Repos().Users.GetByUsername(ctx, s.opts.AdminUsername)
	if err != nil {
		return nil, err
	}
	observability.LoginAttempts.WithLabelValues("quick_login").Inc()
	return s.issue(ctx, user)
}

// Register creates an account with the user role and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := s.verifier.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user := &models.User{
		Username: in.Username,
		Password: hash,
		Email:    strings.TrimSpace(in.Email),
		Nickname: strings.TrimSpace(in.Nickname),
		Role:     models.RoleUser,
		Status:   models.UserStatusActive,
	}
	if err := s.store.Repos().Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.LogCall(ctx, "Register", map[string]any{"user_id": user.ID})
	return s.issue(ctx, user)
}

// Me returns the account behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, actor auth.Identity) (*models.User, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.store.Repos().Users.GetByID(ctx, actor.SubjectID)
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*Session, error) {
	token, err := s.codec.Issue(user.ID, user.Role, user.DisplayName())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	s.log.LogCall(ctx, "Login", map[string]any{"user_id": user.ID, "role": user.Role})
	return &Session{
		Token:       token,
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName(),
		Avatar:      user.Avatar,
		Role:        user.Role,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}
