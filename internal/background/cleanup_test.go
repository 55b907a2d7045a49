package background

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingStore struct {
	calls atomic.Int32
}

func (s *countingStore) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return 1, nil
}

func TestCleanerSweeps(t *testing.T) {
	store := &countingStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cleaner := NewCleaner(store, 10*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cleaner.Start(ctx)

	assert.Eventually(t, func() bool {
		return store.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cleaner.Stop()
	settled := store.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, store.calls.Load(), settled+1)
}
