package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wexford-labs/widgetry/internal/models"
	"github.com/wexford-labs/widgetry/internal/repositories"
	pkgauth "github.com/wexford-labs/widgetry/pkg/auth"
)

func TestUserRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	repo := repositories.NewUserRepository(testDB.DB)

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		require.NoError(t, testDB.CleanupTables(ctx))
		_, err := SeedUser(ctx, testDB.Pool, "Ada", "ada@example.com", "password1", "user")
		require.NoError(t, err)

		_, err = repo.Create(ctx, &models.User{
			Name: "Clone", Email: "ada@example.com", PasswordHash: "x",
		})
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("reset token lifecycle", func(t *testing.T) {
		require.NoError(t, testDB.CleanupTables(ctx))
		user, err := SeedUser(ctx, testDB.Pool, "Ada", "ada@example.com", "password1", "user")
		require.NoError(t, err)

		plain, hash, err := pkgauth.GenerateResetToken()
		require.NoError(t, err)
		require.NotEqual(t, plain, hash)

		require.NoError(t, repo.SetResetToken(ctx, user.ID, hash, time.Now().Add(10*time.Minute)))

		found, err := repo.GetByResetTokenHash(ctx, hash)
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		// An expired token no longer matches.
		require.NoError(t, repo.SetResetToken(ctx, user.ID, hash, time.Now().Add(-time.Minute)))
		_, err = repo.GetByResetTokenHash(ctx, hash)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("expired token sweep", func(t *testing.T) {
		require.NoError(t, testDB.CleanupTables(ctx))
		user, err := SeedUser(ctx, testDB.Pool, "Ada", "ada@example.com", "password1", "user")
		require.NoError(t, err)

		require.NoError(t, repo.SetResetToken(ctx, user.ID, "stale-hash", time.Now().Add(-time.Hour)))

		cleared, err := repo.ClearExpiredResetTokens(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), cleared)

		fresh, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, fresh.ResetTokenHash)
		assert.Nil(t, fresh.ResetTokenExpires)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "no-such-id")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
