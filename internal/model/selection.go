package model

// SelectionCriteria narrows the discovered mutations for one run.
type SelectionCriteria struct {
	// BaseRef enables incremental mode when not empty.
	BaseRef string
	// SampleSize keeps at most this many mutations when positive.
	SampleSize int
	// Seed is the only source of randomness for sampling.
	Seed uint64
	// ShardIndex and ShardCount split the selection across machines.
	ShardIndex int
	ShardCount int
}

// Incremental reports whether a changed-file filter applies.
func (c SelectionCriteria) Incremental() bool {
	return c.BaseRef != ""
}

// PriorityHint ranks a source position for scheduling. Column 0 matches the
// whole line.
type PriorityHint struct {
	Line     int     `yaml:"line"`
	Column   int     `yaml:"column,omitempty"`
	Priority float64 `yaml:"priority"`
	Reason   string  `yaml:"reason,omitempty"`
}

// Matches reports whether the hint applies to the given position.
func (h PriorityHint) Matches(pos Position) bool {
	if h.Line != pos.Line {
		return false
	}

	return h.Column == 0 || h.Column == pos.Column
}
