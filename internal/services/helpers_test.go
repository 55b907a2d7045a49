package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/wexford-labs/widgetry/internal/models"
	pkgauth "github.com/wexford-labs/widgetry/pkg/auth"
	"github.com/wexford-labs/widgetry/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAudit() *logger.AuditLogger {
	return logger.NewAuditLogger(testLogger())
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	mu     sync.Mutex
	users  map[string]*models.User // by id
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) seed(name, email, password string) *models.User {
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user := &models.User{
		ID:           fmt.Sprintf("user-%d", s.nextID),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, models.ErrNotFound
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeUserStore) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == tokenHash &&
			user.ResetTokenExpires != nil && user.ResetTokenExpires.After(time.Now()) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, models.ErrConflict
		}
	}
	s.nextID++
	created := *user
	created.ID = fmt.Sprintf("user-%d", s.nextID)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.users[created.ID] = &created
	result := created
	return &result, nil
}

func (s *fakeUserStore) UpdateDetails(ctx context.Context, id string, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.AvatarURL = user.AvatarURL
	existing.Role = user.Role
	existing.UpdatedAt = time.Now()
	copied := *existing
	return &copied, nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (s *fakeUserStore) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	user.ResetTokenHash = &tokenHash
	user.ResetTokenExpires = &expiresAt
	return nil
}

func (s *fakeUserStore) ClearResetToken(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	user.ResetTokenHash = nil
	user.ResetTokenExpires = nil
	return nil
}

// staticTokenIssuer mints predictable tokens.
type staticTokenIssuer struct{}

func (staticTokenIssuer) Generate(userID string) (string, error) {
	return "token-" + userID, nil
}

// fakeEmailSender records reset emails and can be made to fail.
type fakeEmailSender struct {
	mu       sync.Mutex
	sent     []string // reset URLs, in order
	lastTo   string
	failWith error
}

func (s *fakeEmailSender) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.lastTo = to
	s.sent = append(s.sent, resetURL)
	return nil
}
