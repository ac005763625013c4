package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	m "gooze.dev/pkg/polymut/internal/model"
)

// VCSAdapter reports which files changed relative to a base revision.
type VCSAdapter interface {
	// ChangedFiles returns absolute paths of files that differ between
	// baseRef and HEAD, plus files modified, staged or untracked in the worktree.
	ChangedFiles(ctx context.Context, root m.Path, baseRef string) ([]m.Path, error)
}

// GitAdapter implements VCSAdapter with go-git.
type GitAdapter struct{}

// NewGitAdapter constructs a GitAdapter.
func NewGitAdapter() *GitAdapter {
	return &GitAdapter{}
}

// ChangedFiles opens the repository containing root.
func (a *GitAdapter) ChangedFiles(ctx context.Context, root m.Path, baseRef string) ([]m.Path, error) {
	repo, err := git.PlainOpenWithOptions(string(root), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository at %s: %w", root, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	repoRoot := worktree.Filesystem.Root()
	changed := make(map[string]struct{})

	committed, err := committedChanges(ctx, repo, baseRef)
	if err != nil {
		return nil, err
	}

	for _, name := range committed {
		changed[name] = struct{}{}
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("read worktree status: %w", err)
	}

	for name, fileStatus := range status {
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}

		changed[name] = struct{}{}
	}

	paths := make([]m.Path, 0, len(changed))
	for name := range changed {
		paths = append(paths, m.Path(filepath.Join(repoRoot, filepath.FromSlash(name))))
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	slog.Debug("computed changed files", "root", repoRoot, "base", baseRef, "count", len(paths))

	return paths, nil
}

func committedChanges(ctx context.Context, repo *git.Repository, baseRef string) ([]string, error) {
	baseHash, err := repo.ResolveRevision(plumbing.Revision(baseRef))
	if err != nil {
		return nil, fmt.Errorf("resolve base reference %q: %w", baseRef, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	baseTree, err := commitTree(repo, *baseHash)
	if err != nil {
		return nil, fmt.Errorf("load base tree: %w", err)
	}

	headTree, err := commitTree(repo, head.Hash())
	if err != nil {
		return nil, fmt.Errorf("load HEAD tree: %w", err)
	}

	changes, err := baseTree.DiffContext(ctx, headTree)
	if err != nil {
		return nil, fmt.Errorf("diff %s..HEAD: %w", baseRef, err)
	}

	names := make([]string, 0, len(changes))

	for _, change := range changes {
		// Deleted files have no To side and nothing left to mutate.
		if change.To.Name != "" {
			names = append(names, change.To.Name)
		}
	}

	return names, nil
}

func commitTree(repo *git.Repository, hash plumbing.Hash) (*object.Tree, error) {
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}

	return commit.Tree()
}
