package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wexford-labs/widgetry/internal/config"
	"github.com/wexford-labs/widgetry/internal/models"
	"github.com/wexford-labs/widgetry/internal/sessions"
	pkgauth "github.com/wexford-labs/widgetry/pkg/auth"
	"github.com/wexford-labs/widgetry/pkg/gravatar"
	"github.com/wexford-labs/widgetry/pkg/logger"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateDetails(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
}

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

type AuthService struct {
	users    UserStore
	attempts sessions.AttemptStore
	tokens   TokenIssuer
	email    EmailSender
	audit    *logger.AuditLogger
	cfg      config.AuthConfig
	baseURL  string
	logger   *slog.Logger
}

func NewAuthService(
	users UserStore,
	attempts sessions.AttemptStore,
	tokens TokenIssuer,
	email EmailSender,
	audit *logger.AuditLogger,
	cfg config.AuthConfig,
	baseURL string,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		attempts: attempts,
		tokens:   tokens,
		email:    email,
		audit:    audit,
		cfg:      cfg,
		baseURL:  baseURL,
		logger:   log,
	}
}

// CheckRegisterThrottle refuses sessions that have exhausted their
// registration attempt allowance. Called before the request body is even
// validated, so a throttled session learns nothing from its payload.
func (s *AuthService) CheckRegisterThrottle(ctx context.Context, sessionID, clientIP string) error {
	return s.checkThrottle(ctx, sessionID, clientIP, s.cfg.RegisterAttemptMax, "register_throttled")
}

// CheckLoginThrottle is the login counterpart with its larger allowance.
func (s *AuthService) CheckLoginThrottle(ctx context.Context, sessionID, clientIP string) error {
	return s.checkThrottle(ctx, sessionID, clientIP, s.cfg.LoginAttemptMax, "login_throttled")
}

func (s *AuthService) checkThrottle(ctx context.Context, sessionID, clientIP string, max int, event string) error {
	attempts, err := s.attempts.Count(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to read attempt counter: %w", err)
	}
	if attempts > max {
		s.audit.LogAuthEvent(logger.AuditEvent{
			EventType:     event,
			SessionID:     sessionID,
			IPAddress:     clientIP,
			Success:       false,
			FailureReason: "too many attempts",
		})
		return models.ErrTooManyAttempts
	}
	return nil
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates an account and signs it in. The per-session failure
// counter gates entry before any other work: a session that has burned
// through its allowance is refused regardless of payload. A duplicate
// email counts as a failed attempt.
func (s *AuthService) Register(ctx context.Context, sessionID, clientIP string, params RegisterParams) (*models.User, string, error) {
	if err := s.CheckRegisterThrottle(ctx, sessionID, clientIP); err != nil {
		return nil, "", err
	}

	role := params.Role
	if role != models.RoleUser && role != models.RoleAdmin {
		role = models.RoleUser
	}

	passwordHash, err := pkgauth.HashPassword(params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
		AvatarURL:    gravatar.URL(params.Email, gravatar.DefaultOptions),
		Role:         role,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			if _, incErr := s.attempts.Increment(ctx, sessionID); incErr != nil {
				s.logger.Error("failed to increment attempt counter",
					slog.String("error", incErr.Error()))
			}
			s.audit.LogAuthEvent(logger.AuditEvent{
				EventType:     "register_failed",
				SessionID:     sessionID,
				IPAddress:     clientIP,
				Success:       false,
				FailureReason: "duplicate email",
			})
			return nil, "", models.ErrConflict
		}
		return nil, "", err
	}

	token, err := s.tokens.Generate(created.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.audit.LogAuthEvent(logger.AuditEvent{
		EventType: "register",
		UserID:    created.ID,
		SessionID: sessionID,
		IPAddress: clientIP,
		Success:   true,
	})
	return created, token, nil
}

// Login authenticates an email/password pair. Unknown email and wrong
// password both return ErrInvalidCredentials so a caller cannot probe
// which accounts exist, and both count against the session's attempt
// allowance. The counter is never reset by a success; it only expires
// with the session.
func (s *AuthService) Login(ctx context.Context, sessionID, clientIP, email, password string) (*models.User, string, error) {
	if err := s.CheckLoginThrottle(ctx, sessionID, clientIP); err != nil {
		return nil, "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", s.loginFailure(ctx, sessionID, clientIP, "unknown email")
		}
		return nil, "", err
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", s.loginFailure(ctx, sessionID, clientIP, "wrong password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.audit.LogAuthEvent(logger.AuditEvent{
		EventType: "login",
		UserID:    user.ID,
		SessionID: sessionID,
		IPAddress: clientIP,
		Success:   true,
	})
	return user, token, nil
}

func (s *AuthService) loginFailure(ctx context.Context, sessionID, clientIP, reason string) error {
	if _, err := s.attempts.Increment(ctx, sessionID); err != nil {
		s.logger.Error("failed to increment attempt counter",
			slog.String("error", err.Error()))
	}
	s.audit.LogAuthEvent(logger.AuditEvent{
		EventType:     "login_failed",
		SessionID:     sessionID,
		IPAddress:     clientIP,
		Success:       false,
		FailureReason: reason,
	})
	return models.ErrInvalidCredentials
}

// UpdateDetails changes the caller's name and email. A new email gets a
// fresh gravatar URL.
func (s *AuthService) UpdateDetails(ctx context.Context, user *models.User, name, email string) (*models.User, error) {
	updated := *user
	if name != "" {
		updated.Name = name
	}
	if email != "" {
		updated.Email = email
		updated.AvatarURL = gravatar.URL(email, gravatar.DefaultOptions)
	}

	result, err := s.users.UpdateDetails(ctx, user.ID, &updated)
	if err != nil {
		return nil, err
	}

	s.audit.LogAccountAction("details_updated", user.ID)
	return result, nil
}

// UpdatePassword verifies the current password before accepting a new one
// and returns a fresh bearer token on success.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		s.audit.LogAuthEvent(logger.AuditEvent{
			EventType:     "password_change_failed",
			UserID:        userID,
			Success:       false,
			FailureReason: "current password mismatch",
		})
		return "", fmt.Errorf("password is incorrect: %w", models.ErrInvalidCredentials)
	}

	passwordHash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.audit.LogAccountAction("password_changed", userID)
	return token, nil
}

// ForgotPassword starts the reset flow: mint a single-use token, persist
// only its hash with an expiry, and email the plaintext to the account.
// If the email cannot be delivered the stored token is rolled back so no
// orphaned reset window remains open.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	plain, hash, err := pkgauth.GenerateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.cfg.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, hash, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/resetpassword/%s", s.baseURL, plain)
	if err := s.email.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error("failed to roll back reset token",
				slog.String("user_id", user.ID),
				slog.String("error", clearErr.Error()))
		}
		return fmt.Errorf("email could not be sent: %w", models.ErrEmailDelivery)
	}

	s.audit.LogAuthEvent(logger.AuditEvent{
		EventType: "password_reset_requested",
		UserID:    user.ID,
		Success:   true,
	})
	return nil
}

// ResetPassword consumes a reset token. The plaintext from the URL is
// hashed and matched against stored state; expired or already-consumed
// tokens fail identically. On success the token is cleared and the user
// is signed in.
func (s *AuthService) ResetPassword(ctx context.Context, plainToken, newPassword string) (*models.User, string, error) {
	user, err := s.users.GetByResetTokenHash(ctx, pkgauth.HashResetToken(plainToken))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.audit.LogAuthEvent(logger.AuditEvent{
				EventType:     "password_reset_failed",
				Success:       false,
				FailureReason: "invalid or expired token",
			})
			return nil, "", models.ErrInvalidResetToken
		}
		return nil, "", err
	}

	passwordHash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return nil, "", err
	}
	if err := s.users.ClearResetToken(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.audit.LogAuthEvent(logger.AuditEvent{
		EventType: "password_reset",
		UserID:    user.ID,
		Success:   true,
	})
	return user, token, nil
}
