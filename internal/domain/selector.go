package domain

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"gooze.dev/pkg/polymut/internal/adapter"
	m "gooze.dev/pkg/polymut/internal/model"
)

// Selector narrows discovered mutations. Every step keeps the original
// relative order.
type Selector interface {
	// Select applies the changed-file filter, then sampling, then sharding.
	Select(ctx context.Context, root m.Path, mutations []m.Mutation, criteria m.SelectionCriteria) ([]m.Mutation, error)
}

type selector struct {
	adapter.VCSAdapter
}

// NewSelector creates a Selector that resolves changed files through vcs.
func NewSelector(vcs adapter.VCSAdapter) Selector {
	return &selector{VCSAdapter: vcs}
}

func (s *selector) Select(ctx context.Context, root m.Path, mutations []m.Mutation, criteria m.SelectionCriteria) ([]m.Mutation, error) {
	selected := mutations

	if criteria.Incremental() {
		changed, err := s.ChangedFiles(ctx, root, criteria.BaseRef)
		if err != nil {
			slog.Error("Failed to resolve changed files", "base", criteria.BaseRef, "error", err)
			return nil, fmt.Errorf("changed files since %s: %w", criteria.BaseRef, err)
		}

		selected = FilterChanged(selected, changed)
		slog.Info("Incremental selection", "base", criteria.BaseRef, "changed_files", len(changed), "mutations", len(selected))
	}

	selected = Sample(selected, criteria.SampleSize, criteria.Seed)
	selected = Shard(selected, criteria.ShardIndex, criteria.ShardCount)

	return selected, nil
}

// FilterChanged keeps mutations whose file is in the changed set. Paths are
// compared after resolving symlinks, so a project reached through a link
// still matches the repository's paths.
func FilterChanged(mutations []m.Mutation, changed []m.Path) []m.Mutation {
	set := make(map[string]bool, len(changed))
	for _, path := range changed {
		set[canonicalPath(path)] = true
	}

	resolved := map[m.Path]string{}

	var kept []m.Mutation

	for _, mutation := range mutations {
		path, ok := resolved[mutation.File.FullPath]
		if !ok {
			path = canonicalPath(mutation.File.FullPath)
			resolved[mutation.File.FullPath] = path
		}

		if set[path] {
			kept = append(kept, mutation)
		}
	}

	return kept
}

// canonicalPath resolves symlinks when the path exists and cleans it otherwise.
func canonicalPath(path m.Path) string {
	clean := filepath.Clean(string(path))

	if resolved, err := filepath.EvalSymlinks(clean); err == nil {
		return resolved
	}

	return clean
}

// Sample deterministically keeps k mutations. Each mutation is ranked by a
// hash of the seed and its id; the k lowest ranks win and are returned in
// their original order. k <= 0 or k >= len(mutations) returns the input.
func Sample(mutations []m.Mutation, k int, seed uint64) []m.Mutation {
	if k <= 0 || k >= len(mutations) {
		return mutations
	}

	type ranked struct {
		rank  uint64
		index int
	}

	ranks := make([]ranked, len(mutations))

	var seedBytes [8]byte
	binary.BigEndian.PutUint64(seedBytes[:], seed)

	for i, mutation := range mutations {
		h := sha256.New()
		h.Write(seedBytes[:])
		h.Write([]byte(mutation.ID))
		ranks[i] = ranked{rank: binary.BigEndian.Uint64(h.Sum(nil)[:8]), index: i}
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].rank != ranks[j].rank {
			return ranks[i].rank < ranks[j].rank
		}

		return ranks[i].index < ranks[j].index
	})

	picked := ranks[:k]
	sort.Slice(picked, func(i, j int) bool { return picked[i].index < picked[j].index })

	sampled := make([]m.Mutation, 0, k)
	for _, r := range picked {
		sampled = append(sampled, mutations[r.index])
	}

	return sampled
}

// Shard keeps the mutations whose discovery index falls into shard index of
// count. A count of 0 or 1 keeps everything.
func Shard(mutations []m.Mutation, index, count int) []m.Mutation {
	if count <= 1 {
		return mutations
	}

	var kept []m.Mutation

	for _, mutation := range mutations {
		if mutation.Index%count == index {
			kept = append(kept, mutation)
		}
	}

	return kept
}
