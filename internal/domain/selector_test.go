package domain_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "gooze.dev/pkg/polymut/internal/adapter/mocks"
	"gooze.dev/pkg/polymut/internal/domain"
	m "gooze.dev/pkg/polymut/internal/model"
)

// fakeMutations spreads perFile mutations over files named f0.go, f1.go...
func fakeMutations(files, perFile int) []m.Mutation {
	var mutations []m.Mutation

	for f := range files {
		file := m.File{
			ShortPath: m.Path(fmt.Sprintf("f%d.go", f)),
			FullPath:  m.Path(fmt.Sprintf("/project/f%d.go", f)),
		}

		for range perFile {
			mutations = append(mutations, m.Mutation{
				ID:    fmt.Sprintf("id-%d", len(mutations)),
				Index: len(mutations),
				File:  file,
			})
		}
	}

	return mutations
}

func indexes(mutations []m.Mutation) []int {
	out := make([]int, 0, len(mutations))
	for _, mutation := range mutations {
		out = append(out, mutation.Index)
	}

	return out
}

func TestSample_IsReproducible(t *testing.T) {
	// Arrange
	mutations := fakeMutations(7, 121)
	require.Len(t, mutations, 847)

	// Act
	first := domain.Sample(mutations, 50, 42)
	second := domain.Sample(mutations, 50, 42)
	other := domain.Sample(mutations, 50, 43)

	// Assert
	require.Len(t, first, 50)
	assert.Equal(t, first, second)
	assert.NotEqual(t, indexes(first), indexes(other))
	assert.IsIncreasing(t, indexes(first))
}

func TestSample_Bounds(t *testing.T) {
	mutations := fakeMutations(1, 5)

	assert.Equal(t, mutations, domain.Sample(mutations, 0, 1))
	assert.Equal(t, mutations, domain.Sample(mutations, -3, 1))
	assert.Equal(t, mutations, domain.Sample(mutations, 5, 1))
	assert.Equal(t, mutations, domain.Sample(mutations, 50, 1))
}

func TestShard_PartitionsMutations(t *testing.T) {
	mutations := fakeMutations(3, 10)
	seen := map[int]int{}

	for shard := range 4 {
		for _, mutation := range domain.Shard(mutations, shard, 4) {
			assert.Equal(t, shard, mutation.Index%4)
			seen[mutation.Index]++
		}
	}

	assert.Len(t, seen, len(mutations))

	for index, count := range seen {
		assert.Equal(t, 1, count, "mutation %d", index)
	}

	assert.Equal(t, mutations, domain.Shard(mutations, 0, 1))
}

func TestSelector_Incremental(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mutations := fakeMutations(10, 3)
	vcs := adaptermocks.NewMockVCSAdapter(t)
	vcs.EXPECT().ChangedFiles(mock.Anything, m.Path("/project"), "main").
		Return([]m.Path{"/project/f2.go", "/project/f7.go", "/project/README.md"}, nil)

	// Act
	selected, err := domain.NewSelector(vcs).Select(ctx, "/project", mutations, m.SelectionCriteria{BaseRef: "main"})

	// Assert
	require.NoError(t, err)
	require.Len(t, selected, 6)

	for _, mutation := range selected {
		assert.Contains(t, []m.Path{"f2.go", "f7.go"}, mutation.File.ShortPath)
	}

	assert.IsIncreasing(t, indexes(selected))
}

func TestSelector_IncrementalError(t *testing.T) {
	vcs := adaptermocks.NewMockVCSAdapter(t)
	vcs.EXPECT().ChangedFiles(mock.Anything, mock.Anything, "nope").Return(nil, errors.New("unknown revision"))

	_, err := domain.NewSelector(vcs).Select(context.Background(), "/project", fakeMutations(1, 1), m.SelectionCriteria{BaseRef: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown revision")
}

func TestSelector_SampleThenShard(t *testing.T) {
	mutations := fakeMutations(4, 25)
	criteria := m.SelectionCriteria{SampleSize: 40, Seed: 9, ShardIndex: 1, ShardCount: 2}

	selected, err := domain.NewSelector(nil).Select(context.Background(), "/project", mutations, criteria)
	require.NoError(t, err)

	expected := domain.Shard(domain.Sample(mutations, 40, 9), 1, 2)
	assert.Equal(t, expected, selected)

	for _, mutation := range selected {
		assert.Equal(t, 1, mutation.Index%2)
	}
}

func TestFilterChanged_ResolvesSymlinks(t *testing.T) {
	// Arrange
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "calc.go"), []byte("package calc\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "other.go"), []byte("package calc\n"), 0o644))

	link := filepath.Join(t.TempDir(), "project")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	mutations := []m.Mutation{
		{Index: 0, File: m.File{ShortPath: "calc.go", FullPath: m.Path(filepath.Join(link, "calc.go"))}},
		{Index: 1, File: m.File{ShortPath: "other.go", FullPath: m.Path(filepath.Join(link, "other.go"))}},
		{Index: 2, File: m.File{ShortPath: "calc.go", FullPath: m.Path(filepath.Join(link, ".", "calc.go"))}},
	}
	changed := []m.Path{m.Path(filepath.Join(target, "calc.go")), m.Path(filepath.Join(target, "removed.go"))}

	// Act
	kept := domain.FilterChanged(mutations, changed)

	// Assert
	assert.Equal(t, []int{0, 2}, indexes(kept))
}
