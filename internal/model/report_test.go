package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountsScore(t *testing.T) {
	counts := Counts{Killed: 739, Survived: 108}
	assert.InDelta(t, 87.249, counts.Score(), 0.001)

	counts.Timeout = 5
	assert.InDelta(t, float64(744)/float64(852)*100, counts.Score(), 0.0001)
}

func TestCountsScore_ErrorsExcluded(t *testing.T) {
	withErrors := Counts{Killed: 3, Survived: 1, Errors: 50}
	assert.InDelta(t, 75.0, withErrors.Score(), 0.0001)
	assert.Equal(t, 54, withErrors.Total())
}

func TestCountsScore_NothingScored(t *testing.T) {
	assert.Equal(t, 0.0, Counts{}.Score())
	assert.Equal(t, 0.0, Counts{Errors: 4}.Score())
}

func TestCountsRecordAndAdd(t *testing.T) {
	var counts Counts
	for _, status := range []Status{Killed, Killed, Survived, Timeout, Error} {
		counts = counts.Record(status)
	}

	assert.Equal(t, Counts{Killed: 2, Survived: 1, Timeout: 1, Errors: 1}, counts)

	other := Counts{Killed: 1, Errors: 2}
	assert.Equal(t, counts.Add(other), other.Add(counts))
}

func TestMutationResultPassed(t *testing.T) {
	result := MutationResult{Total: Counts{Killed: 8, Survived: 2}}

	assert.True(t, result.Passed(0))
	assert.True(t, result.Passed(80))
	assert.False(t, result.Passed(80.1))
	assert.False(t, MutationResult{}.Passed(10))
}

func TestStatusText(t *testing.T) {
	for _, status := range []Status{Killed, Survived, Timeout, Error} {
		text, err := status.MarshalText()
		require.NoError(t, err)

		var decoded Status
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, status, decoded)
	}

	var status Status
	require.Error(t, status.UnmarshalText([]byte("pending")))
}

func TestVerdictStatus(t *testing.T) {
	assert.Equal(t, Survived, VerdictPass.Status())
	assert.Equal(t, Killed, VerdictFail.Status())
	assert.Equal(t, Timeout, VerdictTimeout.Status())
	assert.Equal(t, Error, VerdictCompileError.Status())
}

func TestPriorityHintMatches(t *testing.T) {
	line := PriorityHint{Line: 4, Priority: 1}
	exact := PriorityHint{Line: 4, Column: 7, Priority: 2}

	assert.True(t, line.Matches(Position{Line: 4, Column: 1}))
	assert.False(t, line.Matches(Position{Line: 5, Column: 1}))
	assert.True(t, exact.Matches(Position{Line: 4, Column: 7}))
	assert.False(t, exact.Matches(Position{Line: 4, Column: 8}))
}
