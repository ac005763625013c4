package domain_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/polymut/internal/domain"
)

func TestPathLocks_Exclusive(t *testing.T) {
	locks := domain.NewPathLocks()

	var (
		active  atomic.Int32
		overlap atomic.Bool
		wg      sync.WaitGroup
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, locks.Lock(context.Background(), "a.go"))

			if active.Add(1) > 1 {
				overlap.Store(true)
			}

			time.Sleep(time.Millisecond)
			active.Add(-1)
			locks.Unlock("a.go")
		}()
	}

	wg.Wait()
	assert.False(t, overlap.Load())
}

func TestPathLocks_IndependentPaths(t *testing.T) {
	locks := domain.NewPathLocks()

	require.NoError(t, locks.Lock(context.Background(), "a.go"))
	assert.True(t, locks.TryLock("b.go"))
	assert.False(t, locks.TryLock("a.go"))

	locks.Unlock("a.go")
	assert.True(t, locks.TryLock("a.go"))
}

func TestPathLocks_LockHonorsContext(t *testing.T) {
	locks := domain.NewPathLocks()
	require.True(t, locks.TryLock("a.go"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, locks.Lock(ctx, "a.go"), context.DeadlineExceeded)
}

func TestPathLocks_UnlockUnheldPanics(t *testing.T) {
	locks := domain.NewPathLocks()

	assert.Panics(t, func() { locks.Unlock("a.go") })

	require.True(t, locks.TryLock("a.go"))
	locks.Unlock("a.go")
	assert.Panics(t, func() { locks.Unlock("a.go") })
}
