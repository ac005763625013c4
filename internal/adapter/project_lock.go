package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	m "gooze.dev/pkg/polymut/internal/model"
)

// ProjectLock keeps two polymut processes from mutating the same project.
type ProjectLock interface {
	TryLock() error
	Unlock() error
}

// FileProjectLock is an advisory lock on a file in the state directory.
type FileProjectLock struct {
	*flock.Flock
}

// NewFileProjectLock constructs a lock on path. The file is created on TryLock.
func NewFileProjectLock(path m.Path) *FileProjectLock {
	return &FileProjectLock{Flock: flock.New(string(path))}
}

// TryLock acquires the lock without waiting and returns m.ErrProjectLocked when
// another process holds it.
func (l *FileProjectLock) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(l.Path()), 0o750); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	locked, err := l.Flock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.Path(), err)
	}

	if !locked {
		return fmt.Errorf("%w (lock file %s)", m.ErrProjectLocked, l.Path())
	}

	return nil
}

// Unlock releases the lock.
func (l *FileProjectLock) Unlock() error {
	return l.Flock.Unlock()
}
