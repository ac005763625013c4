package domain

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"

	m "gooze.dev/pkg/polymut/internal/model"
)

// PathLocks serializes mutations per file. At most one mutation is live in a
// file at any time; different files proceed in parallel.
type PathLocks struct {
	locks *xsync.MapOf[m.Path, chan struct{}]
}

// NewPathLocks creates an empty lock table.
func NewPathLocks() *PathLocks {
	return &PathLocks{locks: xsync.NewMapOf[m.Path, chan struct{}]()}
}

// Lock waits for exclusive access to path or for ctx to end.
func (l *PathLocks) Lock(ctx context.Context, path m.Path) error {
	slot, _ := l.locks.LoadOrCompute(path, func() chan struct{} {
		return make(chan struct{}, 1)
	})

	select {
	case slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryLock takes path only if it is free.
func (l *PathLocks) TryLock(path m.Path) bool {
	slot, _ := l.locks.LoadOrCompute(path, func() chan struct{} {
		return make(chan struct{}, 1)
	})

	select {
	case slot <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock releases path. Unlocking a path that is not held panics.
func (l *PathLocks) Unlock(path m.Path) {
	slot, ok := l.locks.Load(path)
	if !ok {
		panic("polymut: unlock of unknown path " + string(path))
	}

	select {
	case <-slot:
	default:
		panic("polymut: unlock of unlocked path " + string(path))
	}
}
