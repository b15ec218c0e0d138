package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/config"
	"github.com/DusanM998/ToDoApplication/internal/domain"
	"github.com/DusanM998/ToDoApplication/internal/platform/email"
	"github.com/DusanM998/ToDoApplication/internal/platform/imagestore"
	"github.com/DusanM998/ToDoApplication/internal/platform/metrics"
	"github.com/DusanM998/ToDoApplication/internal/service/auth"
	"github.com/DusanM998/ToDoApplication/internal/store"
)

// resetTokenLifetime bounds how long an emailed password reset link stays
// usable.
const resetTokenLifetime = 24 * time.Hour

// AvatarUpload carries an avatar image received with a registration or
// profile update request.
type AvatarUpload struct {
	Filename string
	Content  io.Reader
}

// RegisterInput carries the caller-supplied fields for a new account.
// Username doubles as the email address.
type RegisterInput struct {
	Username    string
	Name        string
	Password    string
	PhoneNumber string
	Role        string
	Avatar      *AvatarUpload
}

// UpdateUserInput carries the caller-supplied fields for a profile update.
// A nil Password leaves the stored credential untouched.
type UpdateUserInput struct {
	Username    string
	Name        string
	PhoneNumber string
	Password    *string
	Avatar      *AvatarUpload
}

// AuthResult bundles everything a successful login or refresh hands back
// to the client.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// AuthService provides account and session operations.
type AuthService interface {
	// Register creates a new account. Returns store.ErrUsernameExists when
	// the username is already taken (case-insensitive).
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Login verifies credentials and issues a token pair. Returns
	// ErrInvalidCredentials for both unknown usernames and wrong passwords.
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// Refresh exchanges a valid refresh token for a new token pair,
	// rotating the stored refresh token.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)

	// Logout revokes the user's active refresh token, if any.
	Logout(ctx context.Context, userID uuid.UUID) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetAllUsers returns every user with their tasks. Admin only; the API
	// layer enforces the role check.
	GetAllUsers(ctx context.Context) ([]store.UserWithTasks, error)

	// VerifyPassword checks the user's current password. Returns
	// ErrInvalidCredentials on mismatch.
	VerifyPassword(ctx context.Context, userID uuid.UUID, password string) error

	// UpdateUserDetails updates a user's profile and optionally their
	// password and avatar.
	UpdateUserDetails(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)

	// ForgotPassword starts a password reset. It reports success for
	// unknown usernames so callers cannot probe which accounts exist.
	ForgotPassword(ctx context.Context, username string) error

	// ResetPassword completes a password reset with an emailed token and
	// revokes any active refresh token.
	ResetPassword(ctx context.Context, username, token, newPassword string) error
}

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	userStore  store.UserStore
	db         *sql.DB
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	sender     email.Sender
	images     imagestore.Store
	emailCfg   config.EmailConfig
	refreshTTL time.Duration
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userStore store.UserStore,
	db *sql.DB,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	sender email.Sender,
	images imagestore.Store,
	authCfg config.AuthConfig,
	emailCfg config.EmailConfig,
	logger *slog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userStore:  userStore,
		db:         db,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		sender:     sender,
		images:     images,
		emailCfg:   emailCfg,
		refreshTTL: time.Duration(authCfg.RefreshTokenLifetimeMinutes) * time.Minute,
		logger:     logger.With("component", "auth_service"),
	}
}

// Ensure AuthServiceImpl implements AuthService interface
var _ AuthService = (*AuthServiceImpl)(nil)

// Register creates a new account, uploading the avatar first so the user
// row is written exactly once. An account cannot be created without an
// avatar image.
func (s *AuthServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Avatar == nil {
		return nil, domain.NewValidationError("avatar", "is required", domain.ErrValidation)
	}

	user, err := domain.NewUser(
		input.Username,
		input.Name,
		input.Password,
		input.PhoneNumber,
		domain.RoleFromString(input.Role),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	avatarURL, err := s.images.Upload(ctx, input.Avatar.Filename, input.Avatar.Content)
	if err != nil {
		s.logger.Error("avatar upload failed during registration",
			"error", err,
			"username", input.Username)
		return nil, fmt.Errorf("%w: avatar upload: %v", ErrExternalService, err)
	}
	user.AvatarURL = avatarURL

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			s.logger.Debug("attempted to register existing username",
				"username", input.Username)
		} else {
			s.logger.Error("failed to save user",
				"error", err,
				"username", input.Username)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"role", user.Role)

	return user, nil
}

// Login verifies credentials and issues a fresh token pair. The stored
// refresh token is replaced on every successful login.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			metrics.Logins.WithLabelValues("failed").Inc()
			// Same error as a wrong password so usernames cannot be probed.
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		metrics.Logins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.Logins.WithLabelValues("success").Inc()
	s.logger.Info("user logged in", "user_id", user.ID)

	return result, nil
}

// Refresh rotates the refresh token and issues a new access token.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userStore.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrRefreshTokenNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("failed to look up refresh token", "error", err)
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}

	if user.RefreshTokenExpiresAt == nil || time.Now().After(*user.RefreshTokenExpiresAt) {
		s.logger.Debug("refresh attempted with expired token", "user_id", user.ID)
		return nil, ErrRefreshTokenExpired
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("session refreshed", "user_id", user.ID)

	return result, nil
}

// issueTokens generates an access token and rotates the stored refresh
// token for the user.
func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwtService.GenerateToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiry := time.Now().UTC().Add(s.refreshTTL)
	user.RefreshToken = refreshToken
	user.RefreshTokenExpiresAt = &expiry
	user.UpdatedAt = time.Now().UTC()

	if err := s.userStore.Update(ctx, user); err != nil {
		s.logger.Error("failed to persist refresh token",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes the user's refresh token. Logging out twice is not an
// error.
func (s *AuthServiceImpl) Logout(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}

	if user.RefreshToken == "" {
		return nil
	}

	user.ClearRefreshToken()
	if err := s.userStore.Update(ctx, user); err != nil {
		s.logger.Error("failed to clear refresh token",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to log out: %w", err)
	}

	s.logger.Debug("user logged out", "user_id", userID)

	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// GetAllUsers returns every user with their tasks.
func (s *AuthServiceImpl) GetAllUsers(ctx context.Context) ([]store.UserWithTasks, error) {
	users, err := s.userStore.ListWithTasks(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// VerifyPassword checks the user's current password.
func (s *AuthServiceImpl) VerifyPassword(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

// UpdateUserDetails updates the username and profile fields, and
// optionally the password and avatar. Taking a username another account
// already holds fails with store.ErrUsernameExists. When a new avatar
// replaces an old one the old image is removed from the image host, and
// a failed removal aborts the whole update.
func (s *AuthServiceImpl) UpdateUserDetails(
	ctx context.Context,
	userID uuid.UUID,
	input UpdateUserInput,
) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if input.Avatar != nil {
		avatarURL, err := s.images.Upload(ctx, input.Avatar.Filename, input.Avatar.Content)
		if err != nil {
			s.logger.Error("avatar upload failed during profile update",
				"error", err,
				"user_id", userID)
			return nil, fmt.Errorf("%w: avatar upload: %v", ErrExternalService, err)
		}
		if user.AvatarURL != "" && user.AvatarURL != avatarURL {
			if err := s.images.Delete(ctx, user.AvatarURL); err != nil {
				s.logger.Error("failed to delete replaced avatar",
					"error", err,
					"user_id", userID)
				return nil, fmt.Errorf("%w: avatar delete: %v", ErrExternalService, err)
			}
		}
		user.AvatarURL = avatarURL
	}

	user.Username = input.Username
	user.Name = input.Name
	user.PhoneNumber = input.PhoneNumber
	if input.Password != nil {
		user.Password = *input.Password
		if err := user.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		hashed, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
		user.Password = ""
	}
	user.UpdatedAt = time.Now().UTC()

	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			s.logger.Debug("attempted to take an existing username",
				"user_id", userID)
		} else {
			s.logger.Error("failed to update user details",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to update user details: %w", err)
	}

	s.logger.Debug("user details updated", "user_id", userID)

	return user, nil
}

// ForgotPassword generates a reset token, stores its hash, and emails the
// reset link. Unknown usernames report success so accounts cannot be
// enumerated.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, username string) error {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("password reset requested for unknown username")
			return nil
		}
		s.logger.Error("failed to look up user for password reset", "error", err)
		return fmt.Errorf("failed to start password reset: %w", err)
	}

	token, hash, err := auth.GenerateResetToken()
	if err != nil {
		return err
	}

	expiry := time.Now().UTC().Add(resetTokenLifetime)
	user.PasswordResetTokenHash = hash
	user.PasswordResetExpiresAt = &expiry
	user.UpdatedAt = time.Now().UTC()

	if err := s.userStore.Update(ctx, user); err != nil {
		s.logger.Error("failed to persist reset token",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to start password reset: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?email=%s&token=%s",
		s.emailCfg.FrontendURL,
		url.QueryEscape(user.Username),
		url.QueryEscape(token),
	)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>A password reset was requested for your account. "+
			"Click <a href=%q>here</a> to choose a new password. "+
			"The link is valid for 24 hours.</p>"+
			"<p>If you did not request this, you can ignore this email.</p>",
		user.Name, resetLink,
	)

	if err := s.sender.Send(ctx, user.Username, "Password reset", body); err != nil {
		s.logger.Error("failed to send reset email",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("%w: reset email: %v", ErrExternalService, err)
	}

	s.logger.Info("password reset email sent", "user_id", user.ID)

	return nil
}

// ResetPassword completes a reset. The token is checked against the
// stored hash and its expiry; success clears the reset state and revokes
// any active refresh token so stolen sessions die with the old password.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, username, token, newPassword string) error {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		s.logger.Error("failed to look up user for password reset", "error", err)
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if user.PasswordResetTokenHash == "" ||
		user.PasswordResetExpiresAt == nil ||
		time.Now().After(*user.PasswordResetExpiresAt) ||
		auth.HashResetToken(token) != user.PasswordResetTokenHash {
		return ErrInvalidResetToken
	}

	user.Password = newPassword
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""
	user.PasswordResetTokenHash = ""
	user.PasswordResetExpiresAt = nil
	user.ClearRefreshToken()

	if err := s.userStore.Update(ctx, user); err != nil {
		s.logger.Error("failed to persist new password",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.Info("password reset completed", "user_id", user.ID)

	return nil
}
