package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wexford-labs/widgetry/internal/models"
)

type fakeWidgetStore struct {
	mu      sync.Mutex
	widgets map[string]*models.Widget
	nextID  int
}

func newFakeWidgetStore() *fakeWidgetStore {
	return &fakeWidgetStore{widgets: make(map[string]*models.Widget)}
}

func (s *fakeWidgetStore) GetByID(ctx context.Context, id string) (*models.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.widgets[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (s *fakeWidgetStore) GetByOwner(ctx context.Context, userID string) (*models.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.widgets {
		if w.UserID == userID {
			copied := *w
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeWidgetStore) Create(ctx context.Context, widget *models.Widget) (*models.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	created := *widget
	created.ID = fmt.Sprintf("widget-%d", s.nextID)
	s.widgets[created.ID] = &created
	result := created
	return &result, nil
}

func (s *fakeWidgetStore) Update(ctx context.Context, id string, widget *models.Widget) (*models.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.widgets[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	updated := *widget
	updated.ID = id
	updated.UserID = existing.UserID
	s.widgets[id] = &updated
	copied := updated
	return &copied, nil
}

func (s *fakeWidgetStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.widgets[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.widgets, id)
	return nil
}

func TestWidgetCreate(t *testing.T) {
	ctx := context.Background()
	owner := &models.User{ID: "user-1", Role: models.RoleUser}
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}

	t.Run("assigns ownership to the principal", func(t *testing.T) {
		svc := NewWidgetService(newFakeWidgetStore(), testAudit())

		created, err := svc.Create(ctx, owner, &models.Widget{Name: "Whirligig", Wishes: "Whole"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", created.UserID)
	})

	t.Run("rejects an unknown wish", func(t *testing.T) {
		svc := NewWidgetService(newFakeWidgetStore(), testAudit())

		_, err := svc.Create(ctx, owner, &models.Widget{Name: "Whirligig", Wishes: "World peace"})
		assert.ErrorIs(t, err, models.ErrBadRequest)
	})

	t.Run("regular users hold at most one widget", func(t *testing.T) {
		svc := NewWidgetService(newFakeWidgetStore(), testAudit())

		_, err := svc.Create(ctx, owner, &models.Widget{Name: "First"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, owner, &models.Widget{Name: "Second"})
		assert.ErrorIs(t, err, models.ErrBadRequest)
	})

	t.Run("admins are exempt from the one widget rule", func(t *testing.T) {
		svc := NewWidgetService(newFakeWidgetStore(), testAudit())

		_, err := svc.Create(ctx, admin, &models.Widget{Name: "First"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, admin, &models.Widget{Name: "Second"})
		assert.NoError(t, err)
	})
}

func TestWidgetOwnership(t *testing.T) {
	ctx := context.Background()
	owner := &models.User{ID: "user-1", Role: models.RoleUser}
	stranger := &models.User{ID: "user-2", Role: models.RoleUser}
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}

	setup := func(t *testing.T) (*WidgetService, *models.Widget) {
		t.Helper()
		svc := NewWidgetService(newFakeWidgetStore(), testAudit())
		created, err := svc.Create(ctx, owner, &models.Widget{Name: "Whirligig"})
		require.NoError(t, err)
		return svc, created
	}

	t.Run("owner can update", func(t *testing.T) {
		svc, widget := setup(t)
		updated, err := svc.Update(ctx, owner, widget.ID, &models.Widget{Name: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		svc, widget := setup(t)
		_, err := svc.Update(ctx, stranger, widget.ID, &models.Widget{Name: "Hijacked"})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("admin can update anyone's widget", func(t *testing.T) {
		svc, widget := setup(t)
		_, err := svc.Update(ctx, admin, widget.ID, &models.Widget{Name: "Moderated"})
		assert.NoError(t, err)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		svc, widget := setup(t)
		assert.ErrorIs(t, svc.Delete(ctx, stranger, widget.ID), models.ErrForbidden)
	})

	t.Run("owner can delete", func(t *testing.T) {
		svc, widget := setup(t)
		require.NoError(t, svc.Delete(ctx, owner, widget.ID))
		_, err := svc.Get(ctx, widget.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("missing widget is not found", func(t *testing.T) {
		svc, _ := setup(t)
		_, err := svc.Update(ctx, owner, "no-such-id", &models.Widget{Name: "X"})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
