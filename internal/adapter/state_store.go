package adapter

import (
	"path/filepath"

	m "gooze.dev/pkg/polymut/internal/model"
)

const (
	backupsDirName = "backups"
	lockFileName   = "run.lock"
)

// StateStore opens the run state kept in a project's state directory.
type StateStore interface {
	// Backups returns the durable backup journal of the state directory.
	Backups(stateDir m.Path) BackupStore
	// Lock returns the cross-process run lock of the state directory.
	Lock(stateDir m.Path) ProjectLock
}

// DiskStateStore lays state out as <state>/backups and <state>/run.lock.
type DiskStateStore struct{}

// NewDiskStateStore constructs a DiskStateStore.
func NewDiskStateStore() *DiskStateStore {
	return &DiskStateStore{}
}

// Backups implements StateStore.
func (DiskStateStore) Backups(stateDir m.Path) BackupStore {
	return NewDiskBackupStore(m.Path(filepath.Join(string(stateDir), backupsDirName)))
}

// Lock implements StateStore.
func (DiskStateStore) Lock(stateDir m.Path) ProjectLock {
	return NewFileProjectLock(m.Path(filepath.Join(string(stateDir), lockFileName)))
}
