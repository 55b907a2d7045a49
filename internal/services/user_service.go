package services

import (
	"context"
	"fmt"

	"github.com/wexford-labs/widgetry/internal/models"
	pkgauth "github.com/wexford-labs/widgetry/pkg/auth"
	"github.com/wexford-labs/widgetry/pkg/gravatar"
	"github.com/wexford-labs/widgetry/pkg/logger"
)

// AdminUserStore extends UserStore with deletion, which only the admin
// surface exposes.
type AdminUserStore interface {
	UserStore
	Delete(ctx context.Context, id string) error
}

// UserService backs the admin-only user management endpoints.
type UserService struct {
	users AdminUserStore
	audit *logger.AuditLogger
}

func NewUserService(users AdminUserStore, audit *logger.AuditLogger) *UserService {
	return &UserService{users: users, audit: audit}
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create provisions an account on a user's behalf. Unlike Register it is
// not throttled; only admins reach it.
func (s *UserService) Create(ctx context.Context, params RegisterParams) (*models.User, error) {
	role := params.Role
	if role != models.RoleUser && role != models.RoleAdmin {
		role = models.RoleUser
	}

	passwordHash, err := pkgauth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &models.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
		AvatarURL:    gravatar.URL(params.Email, gravatar.DefaultOptions),
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogAccountAction("admin_created_user", created.ID)
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id string, name, email, role string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
		user.AvatarURL = gravatar.URL(email, gravatar.DefaultOptions)
	}
	if role == models.RoleUser || role == models.RoleAdmin {
		user.Role = role
	}

	updated, err := s.users.UpdateDetails(ctx, id, user)
	if err != nil {
		return nil, err
	}

	s.audit.LogAccountAction("admin_updated_user", id)
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.LogAccountAction("admin_deleted_user", id)
	return nil
}
