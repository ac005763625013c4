package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	m "gooze.dev/pkg/polymut/internal/model"
)

const (
	backupContentExt = ".orig"
	backupEntryExt   = ".entry"
)

// BackupStore keeps original file content on disk while a mutation is live.
type BackupStore interface {
	// Save persists content for path and returns once the copy is durable and verified.
	Save(ctx context.Context, path m.Path, content []byte) (m.Backup, error)
	// Restore writes the saved content back to its path, verifies it and drops the backup.
	Restore(ctx context.Context, backup m.Backup) error
	// Pending lists backups left behind, oldest first.
	Pending(ctx context.Context) ([]m.Backup, error)
	// Discard drops a backup without touching its path.
	Discard(ctx context.Context, backup m.Backup) error
}

// DiskBackupStore stores backups as <id>.orig content files plus msgpack
// <id>.entry journal records in one directory.
type DiskBackupStore struct {
	dir string
}

// NewDiskBackupStore constructs a DiskBackupStore rooted at dir.
func NewDiskBackupStore(dir m.Path) *DiskBackupStore {
	return &DiskBackupStore{dir: string(dir)}
}

// Dir returns the backup directory.
func (s *DiskBackupStore) Dir() m.Path {
	return m.Path(s.dir)
}

// Save writes the content file first and the journal entry second, each
// synced, so an entry never points at a partial copy.
func (s *DiskBackupStore) Save(ctx context.Context, path m.Path, content []byte) (m.Backup, error) {
	if err := ctx.Err(); err != nil {
		return m.Backup{}, err
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return m.Backup{}, fmt.Errorf("create backup dir: %w", err)
	}

	info, err := os.Stat(string(path))
	if err != nil {
		return m.Backup{}, fmt.Errorf("stat %s: %w", path, err)
	}

	backup := m.Backup{
		ID:        uuid.NewString(),
		Path:      path,
		Hash:      HashContent(content),
		Size:      int64(len(content)),
		Mode:      uint32(info.Mode().Perm()),
		CreatedAt: time.Now().UTC(),
	}

	contentPath := s.contentPath(backup.ID)
	if err := writeAtomic(contentPath, content, 0o600); err != nil {
		return m.Backup{}, fmt.Errorf("write backup content: %w", err)
	}

	// #nosec G304 - backup path is generated by the store
	stored, err := os.ReadFile(contentPath)
	if err != nil || !bytes.Equal(stored, content) {
		_ = os.Remove(contentPath)

		if err == nil {
			err = errors.New("content mismatch after write")
		}

		return m.Backup{}, fmt.Errorf("verify backup content: %w", err)
	}

	entry, err := msgpack.Marshal(&backup)
	if err != nil {
		_ = os.Remove(contentPath)
		return m.Backup{}, fmt.Errorf("encode backup entry: %w", err)
	}

	if err := writeAtomic(s.entryPath(backup.ID), entry, 0o600); err != nil {
		_ = os.Remove(contentPath)
		return m.Backup{}, fmt.Errorf("write backup entry: %w", err)
	}

	slog.Debug("saved backup", "id", backup.ID, "path", path, "size", backup.Size)

	return backup, nil
}

// Restore ignores ctx cancellation: original content must always go back.
func (s *DiskBackupStore) Restore(_ context.Context, backup m.Backup) error {
	// #nosec G304 - backup path is generated by the store
	content, err := os.ReadFile(s.contentPath(backup.ID))
	if err != nil {
		return fmt.Errorf("read backup content: %w", err)
	}

	if HashContent(content) != backup.Hash {
		return fmt.Errorf("backup content for %s does not match its journal hash", backup.Path)
	}

	mode := os.FileMode(backup.Mode)
	if mode == 0 {
		mode = 0o644
	}

	if err := writeAtomic(string(backup.Path), content, mode); err != nil {
		return fmt.Errorf("write original content: %w", err)
	}

	// #nosec G304 - path is the file we just restored
	written, err := os.ReadFile(string(backup.Path))
	if err != nil {
		return fmt.Errorf("verify restored content: %w", err)
	}

	if HashContent(written) != backup.Hash {
		return fmt.Errorf("restored content for %s does not match the original", backup.Path)
	}

	if err := s.remove(backup.ID); err != nil {
		slog.Warn("failed to drop restored backup", "id", backup.ID, "path", backup.Path, "error", err)
	}

	slog.Debug("restored backup", "id", backup.ID, "path", backup.Path)

	return nil
}

// Discard removes a backup without restoring it.
func (s *DiskBackupStore) Discard(_ context.Context, backup m.Backup) error {
	return s.remove(backup.ID)
}

// Pending decodes every journal entry in the directory.
func (s *DiskBackupStore) Pending(ctx context.Context) ([]m.Backup, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var backups []m.Backup

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupEntryExt) {
			continue
		}

		// #nosec G304 - entry lives in the backup dir
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read backup entry %s: %w", entry.Name(), err)
		}

		var backup m.Backup
		if err := msgpack.Unmarshal(data, &backup); err != nil {
			return nil, fmt.Errorf("decode backup entry %s: %w", entry.Name(), err)
		}

		backups = append(backups, backup)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.Before(backups[j].CreatedAt)
	})

	return backups, nil
}

// remove deletes the entry before the content so a crash in between leaves
// an orphan content file rather than an entry without content.
func (s *DiskBackupStore) remove(id string) error {
	if err := os.Remove(s.entryPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.Remove(s.contentPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

func (s *DiskBackupStore) contentPath(id string) string {
	return filepath.Join(s.dir, id+backupContentExt)
}

func (s *DiskBackupStore) entryPath(id string) string {
	return filepath.Join(s.dir, id+backupEntryExt)
}
