package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wexford-labs/widgetry/internal/models"
	"github.com/wexford-labs/widgetry/pkg/logger"
)

type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	ReplaceExperience(ctx context.Context, userID string, entries []models.Experience) (*models.Profile, error)
	ReplaceEducation(ctx context.Context, userID string, entries []models.Education) (*models.Profile, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type ProfileService struct {
	profiles ProfileStore
	users    AdminUserStore
	audit    *logger.AuditLogger
	logger   *slog.Logger
}

func NewProfileService(profiles ProfileStore, users AdminUserStore, audit *logger.AuditLogger, log *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, users: users, audit: audit, logger: log}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// Upsert creates or replaces the principal's profile in one call.
func (s *ProfileService) Upsert(ctx context.Context, principal *models.User, profile *models.Profile) (*models.Profile, error) {
	profile.UserID = principal.ID
	return s.profiles.Upsert(ctx, profile)
}

// AddExperience prepends an entry, newest first.
func (s *ProfileService) AddExperience(ctx context.Context, principal *models.User, entry models.Experience) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.New().String()
	entries := append([]models.Experience{entry}, profile.Experience...)
	return s.profiles.ReplaceExperience(ctx, principal.ID, entries)
}

func (s *ProfileService) RemoveExperience(ctx context.Context, principal *models.User, entryID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Experience, 0, len(profile.Experience))
	found := false
	for _, e := range profile.Experience {
		if e.ID == entryID {
			found = true
			continue
		}
		entries = append(entries, e)
	}
	if !found {
		return nil, fmt.Errorf("experience entry not found: %w", models.ErrNotFound)
	}
	return s.profiles.ReplaceExperience(ctx, principal.ID, entries)
}

func (s *ProfileService) AddEducation(ctx context.Context, principal *models.User, entry models.Education) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	entry.ID = uuid.New().String()
	entries := append([]models.Education{entry}, profile.Education...)
	return s.profiles.ReplaceEducation(ctx, principal.ID, entries)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, principal *models.User, entryID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Education, 0, len(profile.Education))
	found := false
	for _, e := range profile.Education {
		if e.ID == entryID {
			found = true
			continue
		}
		entries = append(entries, e)
	}
	if !found {
		return nil, fmt.Errorf("education entry not found: %w", models.ErrNotFound)
	}
	return s.profiles.ReplaceEducation(ctx, principal.ID, entries)
}

// DeleteAccount removes the principal's profile and then their account.
// The profile goes first so a failure midway leaves a usable account
// rather than an orphaned profile.
func (s *ProfileService) DeleteAccount(ctx context.Context, principal *models.User) error {
	if err := s.profiles.DeleteByUserID(ctx, principal.ID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, principal.ID); err != nil {
		return err
	}

	s.audit.LogAccountAction("account_deleted", principal.ID)
	return nil
}
