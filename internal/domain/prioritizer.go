package domain

import (
	"context"
	"log/slog"
	"sort"

	"gooze.dev/pkg/polymut/internal/adapter"
	m "gooze.dev/pkg/polymut/internal/model"
)

// Prioritizer orders selected mutations for scheduling. It never adds or
// drops mutations.
type Prioritizer interface {
	Prioritize(ctx context.Context, mutations []m.Mutation) []m.Mutation
}

type prioritizer struct {
	adapter.HintProvider
	adapter.SourceFSAdapter
}

// NewPrioritizer creates a Prioritizer backed by a hint provider. A nil
// provider keeps FIFO order.
func NewPrioritizer(hints adapter.HintProvider, fsAdapter adapter.SourceFSAdapter) Prioritizer {
	if hints == nil {
		hints = adapter.NoopHintProvider{}
	}

	return &prioritizer{HintProvider: hints, SourceFSAdapter: fsAdapter}
}

// Prioritize stable-sorts mutations by the highest priority of the hints
// matching their start position. Files whose hints cannot be loaded keep
// their order.
func (p *prioritizer) Prioritize(ctx context.Context, mutations []m.Mutation) []m.Mutation {
	hintsByFile := map[m.Path][]m.PriorityHint{}

	for _, mutation := range mutations {
		path := mutation.File.FullPath
		if _, done := hintsByFile[path]; done {
			continue
		}

		hintsByFile[path] = p.hintsFor(ctx, mutation.File)
	}

	// Unhinted mutations rank as priority 0.
	priorities := make([]float64, len(mutations))
	hinted := false

	for i, mutation := range mutations {
		matched := false

		for _, hint := range hintsByFile[mutation.File.FullPath] {
			if !hint.Matches(mutation.Location.Start) {
				continue
			}

			if !matched || hint.Priority > priorities[i] {
				priorities[i] = hint.Priority
			}

			matched = true
			hinted = true
		}
	}

	if !hinted {
		return mutations
	}

	order := make([]int, len(mutations))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return priorities[order[a]] > priorities[order[b]]
	})

	ordered := make([]m.Mutation, len(mutations))
	for i, idx := range order {
		ordered[i] = mutations[idx]
	}

	return ordered
}

func (p *prioritizer) hintsFor(ctx context.Context, file m.File) []m.PriorityHint {
	var content []byte

	if p.SourceFSAdapter != nil {
		data, err := p.ReadFile(file.FullPath)
		if err != nil {
			slog.Warn("Failed to read file for hints", "path", file.ShortPath, "error", err)
			return nil
		}

		content = data
	}

	hints, err := p.Suggest(ctx, file, content)
	if err != nil {
		slog.Warn("Hint provider failed, keeping FIFO order", "path", file.ShortPath, "error", err)
		return nil
	}

	return hints
}
