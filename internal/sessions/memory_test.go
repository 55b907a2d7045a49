package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_StartsAtZero(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	n, err := store.Count(context.Background(), "sid1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryStore_Increment(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	for want := 1; want <= 5; want++ {
		n, err := store.Increment(ctx, "sid1")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err := store.Count(ctx, "sid1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// Other sessions are independent
	n, err = store.Count(ctx, "sid2")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryStore_ExpiryResets(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	_, err := store.Increment(ctx, "sid1")
	require.NoError(t, err)

	// Session expiry is the only reset mechanism
	current = current.Add(2 * time.Minute)

	n, err := store.Count(ctx, "sid1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = store.Increment(ctx, "sid1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
