package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/wexford-labs/widgetry/internal/auth"
	"github.com/wexford-labs/widgetry/internal/models"
	"github.com/wexford-labs/widgetry/pkg/logger"
)

type WidgetStore interface {
	GetByID(ctx context.Context, id string) (*models.Widget, error)
	GetByOwner(ctx context.Context, userID string) (*models.Widget, error)
	Create(ctx context.Context, widget *models.Widget) (*models.Widget, error)
	Update(ctx context.Context, id string, widget *models.Widget) (*models.Widget, error)
	Delete(ctx context.Context, id string) error
}

type WidgetService struct {
	widgets WidgetStore
	audit   *logger.AuditLogger
}

func NewWidgetService(widgets WidgetStore, audit *logger.AuditLogger) *WidgetService {
	return &WidgetService{widgets: widgets, audit: audit}
}

func (s *WidgetService) Get(ctx context.Context, id string) (*models.Widget, error) {
	return s.widgets.GetByID(ctx, id)
}

// Create publishes a widget owned by the principal. Regular accounts may
// hold one widget at a time; admins are exempt.
func (s *WidgetService) Create(ctx context.Context, principal *models.User, widget *models.Widget) (*models.Widget, error) {
	if widget.Wishes != "" && !models.ValidWish(widget.Wishes) {
		return nil, fmt.Errorf("invalid wish %q: %w", widget.Wishes, models.ErrBadRequest)
	}

	if !principal.IsAdmin() {
		_, err := s.widgets.GetByOwner(ctx, principal.ID)
		if err == nil {
			return nil, fmt.Errorf("user %s has already published a widget: %w",
				principal.ID, models.ErrBadRequest)
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	widget.UserID = principal.ID
	created, err := s.widgets.Create(ctx, widget)
	if err != nil {
		return nil, err
	}

	s.audit.LogAccountAction("widget_created", principal.ID)
	return created, nil
}

// Update applies changes to a widget the principal owns or administers.
func (s *WidgetService) Update(ctx context.Context, principal *models.User, id string, widget *models.Widget) (*models.Widget, error) {
	if widget.Wishes != "" && !models.ValidWish(widget.Wishes) {
		return nil, fmt.Errorf("invalid wish %q: %w", widget.Wishes, models.ErrBadRequest)
	}

	existing, err := s.widgets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanModify(principal, existing.UserID) {
		return nil, fmt.Errorf("user %s is not authorized to update this widget: %w",
			principal.ID, models.ErrForbidden)
	}

	return s.widgets.Update(ctx, id, widget)
}

func (s *WidgetService) Delete(ctx context.Context, principal *models.User, id string) error {
	existing, err := s.widgets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanModify(principal, existing.UserID) {
		return fmt.Errorf("user %s is not authorized to delete this widget: %w",
			principal.ID, models.ErrForbidden)
	}

	if err := s.widgets.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.LogAccountAction("widget_deleted", principal.ID)
	return nil
}
