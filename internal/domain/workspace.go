package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gooze.dev/pkg/polymut/internal/adapter"
	m "gooze.dev/pkg/polymut/internal/model"
)

// Isolation selects where workers apply mutations.
type Isolation string

// Isolation strategies.
const (
	IsolationAuto    Isolation = "auto"
	IsolationInPlace Isolation = "inplace"
	IsolationCopy    Isolation = "copy"
)

// linkedDirs are shared by symlink with workspace copies.
var linkedDirs = []string{"node_modules", "vendor"}

// ParseIsolation validates an isolation name. Empty means auto.
func ParseIsolation(name string) (Isolation, error) {
	switch Isolation(strings.ToLower(strings.TrimSpace(name))) {
	case "", IsolationAuto:
		return IsolationAuto, nil
	case IsolationInPlace, "in-place":
		return IsolationInPlace, nil
	case IsolationCopy:
		return IsolationCopy, nil
	}

	return "", fmt.Errorf("unknown isolation %q (want auto, inplace or copy)", name)
}

// Resolve turns auto into a concrete strategy for the worker count.
func (i Isolation) Resolve(workers int) Isolation {
	if i != IsolationAuto && i != "" {
		return i
	}

	if workers <= 1 {
		return IsolationInPlace
	}

	return IsolationCopy
}

// Workspace is a project tree workers apply mutations in.
type Workspace struct {
	ID int
	// Root is where files are mutated and tests run.
	Root m.Path
	// Origin is the project root Root mirrors.
	Origin m.Path
	copied bool
}

// Locate maps a path under the origin project to the same file in the workspace.
func (w Workspace) Locate(path m.Path) (m.Path, error) {
	if !w.copied {
		return path, nil
	}

	rel, err := filepath.Rel(string(w.Origin), string(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside project %s", path, w.Origin)
	}

	return m.Path(filepath.Join(string(w.Root), rel)), nil
}

// Workspaces prepares and removes the trees a run mutates.
type Workspaces interface {
	// Prepare returns one shared in-place workspace or one private copy per
	// worker. skip names directories left out of copies.
	Prepare(ctx context.Context, root m.Path, isolation Isolation, workers int, skip []string) ([]Workspace, error)
	// Cleanup removes copies. In-place workspaces are left alone.
	Cleanup(workspaces []Workspace)
}

type workspaces struct {
	adapter.SourceFSAdapter
}

// NewWorkspaces creates a Workspaces backed by the filesystem adapter.
func NewWorkspaces(fsAdapter adapter.SourceFSAdapter) Workspaces {
	return &workspaces{SourceFSAdapter: fsAdapter}
}

func (w *workspaces) Prepare(ctx context.Context, root m.Path, isolation Isolation, workers int, skip []string) ([]Workspace, error) {
	workers = max(workers, 1)

	if isolation.Resolve(workers) == IsolationInPlace {
		return []Workspace{{Root: root, Origin: root}}, nil
	}

	prepared := make([]Workspace, 0, workers)

	for id := range workers {
		if err := ctx.Err(); err != nil {
			w.Cleanup(prepared)
			return nil, err
		}

		dir, err := w.CreateTempDir("polymut-ws-*")
		if err != nil {
			w.Cleanup(prepared)
			slog.Error("Failed to create workspace", "worker", id, "error", err)

			return nil, fmt.Errorf("create workspace: %w", err)
		}

		ws := Workspace{ID: id, Root: dir, Origin: root, copied: true}
		prepared = append(prepared, ws)

		if err := w.CopyDir(root, dir, skip, linkedDirs); err != nil {
			w.Cleanup(prepared)
			slog.Error("Failed to copy project into workspace", "worker", id, "dir", dir, "error", err)

			return nil, fmt.Errorf("copy project to %s: %w", dir, err)
		}

		slog.Debug("Prepared workspace", "worker", id, "dir", dir)
	}

	return prepared, nil
}

func (w *workspaces) Cleanup(workspaces []Workspace) {
	for _, ws := range workspaces {
		if !ws.copied {
			continue
		}

		if err := w.RemoveAll(ws.Root); err != nil {
			slog.Warn("Failed to remove workspace", "dir", ws.Root, "error", err)
		}
	}
}
