package domain

import (
	m "gooze.dev/pkg/polymut/internal/model"
	"gooze.dev/pkg/polymut/pkg"
)

// Aggregate folds outcomes into project and per-file counts.
func Aggregate(outcomes []m.Outcome) m.MutationResult {
	result := m.MutationResult{Files: map[m.Path]m.Counts{}}

	for _, outcome := range outcomes {
		result = record(result, outcome)
	}

	return result
}

// AggregateSpill folds the outcomes of a spill without loading them all.
func AggregateSpill(spill pkg.FileSpill[m.Outcome]) (m.MutationResult, error) {
	result := m.MutationResult{Files: map[m.Path]m.Counts{}}

	err := spill.Range(func(_ uint64, outcome m.Outcome) error {
		result = record(result, outcome)
		return nil
	})

	return result, err
}

// Merge combines two results. It is associative and commutative.
func Merge(a, b m.MutationResult) m.MutationResult {
	merged := m.MutationResult{
		Total: a.Total.Add(b.Total),
		Files: make(map[m.Path]m.Counts, len(a.Files)+len(b.Files)),
	}

	for path, counts := range a.Files {
		merged.Files[path] = counts
	}

	for path, counts := range b.Files {
		merged.Files[path] = merged.Files[path].Add(counts)
	}

	return merged
}

func record(result m.MutationResult, outcome m.Outcome) m.MutationResult {
	result.Total = result.Total.Record(outcome.Status)
	result.Files[outcome.File] = result.Files[outcome.File].Record(outcome.Status)

	return result
}
